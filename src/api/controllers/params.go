package controllers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"finboard/src/utils"
)

// intParam reads an optional integer query parameter.
func intParam(values url.Values, name string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.BadRequest(fmt.Sprintf("%s must be an integer", name))
	}
	return value, nil
}

// ParseID parses a positive numeric path identifier.
func ParseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.BadRequest(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// searchQuery accepts both q and query.
func searchQuery(values url.Values) string {
	if q := values.Get("q"); q != "" {
		return q
	}
	return values.Get("query")
}

// splitSymbols splits a comma separated symbol list, dropping blanks.
func splitSymbols(raw string) []string {
	var symbols []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			symbols = append(symbols, part)
		}
	}
	return symbols
}

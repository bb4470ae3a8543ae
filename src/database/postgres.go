package database

import (
	"context"
	"fmt"

	"finboard/src/config"
	aws_handler "finboard/src/utils/aws"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ResolveSQLConfig fills the SQL password from AWS Secrets Manager when a secret id is configured.
func ResolveSQLConfig(ctx context.Context, cfg *config.Config) (config.SQLConfig, error) {
	sqlCfg := cfg.Databases.SQL
	if cfg.AWS.DBSecretID == "" || sqlCfg.ConnectionString != "" {
		return sqlCfg, nil
	}

	handler, err := aws_handler.NewAWSHandler(cfg.AWS.Region)
	if err != nil {
		return sqlCfg, fmt.Errorf("failed to create AWS session: %w", err)
	}
	password, err := handler.SecretManager.GetDBPassword(ctx, cfg.AWS.DBSecretID)
	if err != nil {
		return sqlCfg, fmt.Errorf("failed to read database secret: %w", err)
	}
	sqlCfg.Password = password
	return sqlCfg, nil
}

func SetupDB(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	sqlCfg, err := ResolveSQLConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(sqlCfg.DSN())
	if err != nil {
		return nil, err
	}

	if sqlCfg.MaxConns > 0 {
		poolConfig.MaxConns = sqlCfg.MaxConns
	}
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

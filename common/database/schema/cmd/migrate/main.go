package main

import (
	"context"
	"log"
	"os"
	"time"

	"recnorm/common/database"
	"recnorm/common/database/schema"
	"recnorm/common/database/schema/migrations"

	"go.uber.org/zap"
)

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.New(ctx, database.Options{
		DSN:      getEnv("CLICKHOUSE_DSN", "127.0.0.1:9000"),
		Database: getEnv("CLICKHOUSE_DATABASE", "recnorm"),
		Username: getEnv("CLICKHOUSE_USERNAME", "default"),
		Password: getEnv("CLICKHOUSE_PASSWORD", ""),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to ClickHouse", zap.Error(err))
	}
	defer db.Close()

	migrator := schema.NewMigrator(db.Conn(), logger)

	applied, err := migrator.Migrate(ctx, migrations.All)
	if err != nil {
		logger.Fatal("Failed to apply migrations",
			zap.Int("applied", applied),
			zap.Error(err),
		)
	}

	logger.Info("All migrations completed successfully",
		zap.Int("applied", applied),
	)
}

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mehmetcc/financeu/migrations"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrate applies every pending embedded migration and returns the schema
// version the database ends up at.
func Migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) (int64, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return 0, fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	for _, res := range results {
		if res.Error != nil {
			logger.Error("migration failed",
				zap.Int64("version", res.Source.Version),
				zap.String("file", res.Source.Path),
				zap.Error(res.Error),
			)
			continue
		}
		logger.Info("migration applied",
			zap.Int64("version", res.Source.Version),
			zap.String("file", res.Source.Path),
			zap.Duration("took", res.Duration),
		)
	}
	if err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

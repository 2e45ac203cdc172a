package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"staffing/internal/platform/storage/jsonfile"
	"staffing/internal/platform/storage/postgres"
)

// SeedFromFiles copies the JSON data directory into empty Postgres tables.
// Tables that already hold rows are left alone.
func SeedFromFiles(ctx context.Context, pool *pgxpool.Pool, dataDir string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	files := jsonfile.Open(dataDir, logger)
	store := postgres.New(pool, logger)

	empty, err := tableEmpty(ctx, pool, "employees")
	if err != nil {
		return err
	}
	if empty {
		employees := files.LoadEmployees(ctx)
		for _, emp := range employees {
			if err := store.AppendEmployee(ctx, emp); err != nil {
				return fmt.Errorf("seed employee %s: %w", emp.EmployeeID, err)
			}
		}
		logger.Info("seeded employees", "count", len(employees))
	}

	empty, err = tableEmpty(ctx, pool, "project_allocations")
	if err != nil {
		return err
	}
	if empty {
		allocations := files.LoadAllocations(ctx)
		if err := store.AppendAllocations(ctx, allocations); err != nil {
			return fmt.Errorf("seed allocations: %w", err)
		}
		logger.Info("seeded allocations", "count", len(allocations))
	}
	return nil
}

func tableEmpty(ctx context.Context, pool *pgxpool.Pool, table string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM "+table+")").Scan(&exists)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

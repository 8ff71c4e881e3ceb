package database

import (
	"context"
	"fmt"

	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	"github.com/Marcelo-Rosas/container-storage/pkg/metadata"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// NormalizeLegacyStatuses rewrites container statuses stored with the old
// detail enumeration (in-transit, maintenance, completed) to the canonical
// one in a single transaction. Unknown values are reported and left alone.
func NormalizeLegacyStatuses(ctx context.Context, r *repository.Repository, logger *zap.Logger) (int64, error) {
	var stored []string
	query := r.GoquDBWrapper.From("containers").
		Select(goqu.DISTINCT("status")).
		Where(goqu.C("status").NotIn(canonicalStatuses()))

	if err := query.ScanValsContext(ctx, &stored); err != nil {
		return 0, fmt.Errorf("failed to read container statuses: %w", err)
	}

	updates, unknown := legacyStatusUpdates(stored)
	for _, value := range unknown {
		logger.Warn("Container status cannot be normalized", zap.String("status", value))
	}

	var total int64
	err := repository.WithTransaction(ctx, r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		for from, to := range updates {
			result, err := tx.Update("containers").
				Set(goqu.Record{"status": to.String()}).
				Where(goqu.Ex{"status": from}).
				Executor().ExecContext(ctx)
			if err != nil {
				return fmt.Errorf("failed to normalize status %q: %w", from, err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("could not retrieve rows affected: %w", err)
			}
			logger.Info("Normalized container status", zap.String("from", from), zap.String("to", to.String()), zap.Int64("rows", affected))
			total += affected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

func legacyStatusUpdates(stored []string) (map[string]metadata.Status, []string) {
	updates := make(map[string]metadata.Status)
	var unknown []string

	for _, value := range stored {
		status, err := metadata.NormalizeLegacyStatus(value)
		if err != nil {
			unknown = append(unknown, value)
			continue
		}
		if status.String() != value {
			updates[value] = status
		}
	}

	return updates, unknown
}

func canonicalStatuses() []string {
	statuses := metadata.Statuses()
	values := make([]string, 0, len(statuses))
	for _, status := range statuses {
		values = append(values, status.String())
	}
	return values
}

package postgres

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// LoadSeedIfEmpty executes the statements of the seed file, one per line,
// when the store holds neither sellers nor products. It reports whether the
// seed ran.
func LoadSeedIfEmpty(ctx context.Context, store *Store, path string, logger *logrus.Logger) (bool, error) {
	const op = "postgres.LoadSeedIfEmpty"

	sellers, err := store.Sellers().Count(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	products, err := store.Products().Count(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if sellers > 0 || products > 0 {
		if logger != nil {
			logger.WithFields(logrus.Fields{"sellers": sellers, "products": products}).Info("catalog not empty, skipping seed")
		}
		return false, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("%s: read seed file: %w", op, err)
	}
	statements := seedStatements(string(raw))

	err = pgx.BeginTxFunc(ctx, store.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for i, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("statement %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if logger != nil {
		logger.WithField("statements", len(statements)).WithField("file", path).Info("catalog seeded")
	}
	return true, nil
}

// seedStatements returns the non-blank, non-comment lines of a seed file.
func seedStatements(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		out = append(out, line)
	}
	return out
}

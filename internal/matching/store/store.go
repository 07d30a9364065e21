package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/innledger/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindSupplier picks the longest pattern contained in rawDescription; newer
// mappings win among patterns of equal length.
func (s *Store) FindSupplier(ctx context.Context, rawDescription string) (string, error) {
	query := `
		SELECT supplier_name
		FROM supplier_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var name string

	err := s.db.QueryRowContext(ctx, query, rawDescription).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding supplier: %w", err)
	}

	return name, nil
}

// CreateMapping stores m. Learning a pattern again, in any letter case,
// repoints it at the new supplier.
func (s *Store) CreateMapping(ctx context.Context, m matching.Mapping) error {
	query := `
		INSERT INTO supplier_mappings (raw_pattern, supplier_name, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT ((LOWER(raw_pattern)))
		DO UPDATE SET supplier_name = EXCLUDED.supplier_name, created_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, m.RawPattern, m.SupplierName); err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}

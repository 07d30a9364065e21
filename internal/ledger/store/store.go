package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/innledger/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectEntryColumns = `
	e.id, e.entry_date, e.description, e.reference_number, e.category_id, c.account_code,
	e.sub_category, e.amount, e.debit_amount, e.credit_amount, e.status,
	e.source_type, e.source_id, e.notes, e.created_at
`

// scanEntry reads an entry row in selectEntryColumns order.
func scanEntry(s scanner) (*ledger.Entry, error) {
	var e ledger.Entry

	var status, sourceType string

	if err := s.Scan(
		&e.ID, &e.EntryDate, &e.Description, &e.ReferenceNumber, &e.CategoryID, &e.CategoryCode,
		&e.SubCategory, &e.Amount, &e.DebitAmount, &e.CreditAmount, &status,
		&sourceType, &e.SourceID, &e.Notes, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	e.Status = ledger.Status(status)
	e.SourceType = ledger.SourceType(sourceType)

	return &e, nil
}

func (s *Store) FindCategoryByCode(ctx context.Context, code string) (*ledger.Category, error) {
	query := `
		SELECT id, account_code, name, type
		FROM account_categories
		WHERE account_code = $1
	`

	var (
		c       ledger.Category
		typeStr string
	)

	err := s.db.QueryRowContext(ctx, query, code).Scan(&c.ID, &c.Code, &c.Name, &typeStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ledger.ErrCategoryNotFound, code)
		}

		return nil, fmt.Errorf("finding category: %w", err)
	}

	c.Type = ledger.CategoryType(typeStr)

	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]*ledger.Category, error) {
	query := `
		SELECT id, account_code, name, type
		FROM account_categories
		ORDER BY account_code ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*ledger.Category

	for rows.Next() {
		var (
			c       ledger.Category
			typeStr string
		)

		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &typeStr); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		c.Type = ledger.CategoryType(typeStr)
		cats = append(cats, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return cats, nil
}

// InsertEntry relies on the (source_type, source_id) unique constraint: a second
// post for the same source inserts nothing and the original row is loaded instead.
func (s *Store) InsertEntry(ctx context.Context, entry *ledger.Entry) (bool, error) {
	query := `
		INSERT INTO account_entries (
			entry_date, description, reference_number, category_id, sub_category,
			amount, debit_amount, credit_amount, status, source_type, source_id, notes, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (source_type, source_id) DO NOTHING
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		entry.EntryDate,
		entry.Description,
		entry.ReferenceNumber,
		entry.CategoryID,
		entry.SubCategory,
		entry.Amount,
		entry.DebitAmount,
		entry.CreditAmount,
		entry.Status,
		entry.SourceType,
		entry.SourceID,
		entry.Notes,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err == nil {
		return true, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("inserting entry: %w", err)
	}

	existing, err := s.findBySource(ctx, entry.SourceType, entry.SourceID)
	if err != nil {
		return false, fmt.Errorf("loading existing entry: %w", err)
	}

	*entry = *existing

	return false, nil
}

func (s *Store) findBySource(ctx context.Context, source ledger.SourceType, sourceID string) (*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM account_entries e
		JOIN account_categories c ON c.id = e.category_id
		WHERE e.source_type = $1 AND e.source_id = $2`

	return scanEntry(s.db.QueryRowContext(ctx, query, source, sourceID))
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM account_entries e
		JOIN account_categories c ON c.id = e.category_id
		WHERE e.id = $1`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting entry: %w", err)
	}

	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM account_entries e
		JOIN account_categories c ON c.id = e.category_id
		WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.SourceType != nil {
		query += fmt.Sprintf(" AND e.source_type = $%d", argIdx)

		args = append(args, *filter.SourceType)
		argIdx++
	}

	if filter.CategoryType != nil {
		query += fmt.Sprintf(" AND c.type = $%d", argIdx)

		args = append(args, *filter.CategoryType)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND e.entry_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND e.entry_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY e.entry_date DESC, e.created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entry rows: %w", err)
	}

	return entries, nil
}

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/innledger/internal/matching"
	"github.com/MrJamesThe3rd/innledger/internal/matching/store"
)

func newStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return store.New(db), mock
}

func TestStore_FindSupplier(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(`SELECT supplier_name FROM supplier_mappings WHERE \$1 ILIKE .* ORDER BY LENGTH\(raw_pattern\) DESC`).
		WithArgs("LAVANDARIA NORTE 0042").
		WillReturnRows(sqlmock.NewRows([]string{"supplier_name"}).AddRow("Lavandaria Norte"))

	name, err := s.FindSupplier(context.Background(), "LAVANDARIA NORTE 0042")
	require.NoError(t, err)
	assert.Equal(t, "Lavandaria Norte", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindSupplier_NoMatch(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(`FROM supplier_mappings`).WithArgs("PADARIA").WillReturnError(sql.ErrNoRows)

	name, err := s.FindSupplier(context.Background(), "PADARIA")
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestStore_CreateMapping(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectExec(`INSERT INTO supplier_mappings .* ON CONFLICT \(\(LOWER\(raw_pattern\)\)\) DO UPDATE SET supplier_name = EXCLUDED.supplier_name`).
		WithArgs("LAVANDARIA", "Lavandaria Norte").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.CreateMapping(context.Background(), matching.Mapping{RawPattern: "LAVANDARIA", SupplierName: "Lavandaria Norte"}))

	mock.ExpectExec(`INSERT INTO supplier_mappings`).WillReturnError(errors.New("boom"))
	assert.ErrorContains(t, s.CreateMapping(context.Background(), matching.Mapping{RawPattern: "x", SupplierName: "y"}), "creating mapping")
}

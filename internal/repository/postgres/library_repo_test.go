package postgres

import (
	"context"
	"testing"

	"github.com/canela-app/canela/internal/model"
	"github.com/gofrs/uuid/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestLibraryRepo_ListByCategory(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewLibraryRepo(db)
	ctx := context.Background()

	rows := pgxmock.NewRows([]string{"id", "description", "category", "coins"}).
		AddRow(uuid.Must(uuid.NewV4()), "Go for a 30-minute walk", model.CategoryPhysical, 5).
		AddRow(uuid.Must(uuid.NewV4()), "Do 20 squats", model.CategoryPhysical, 10)

	mock.ExpectQuery(`SELECT id, description, category, coins FROM tasks_library WHERE category=\$1 LIMIT \$2`).
		WithArgs(model.CategoryPhysical, 10).
		WillReturnRows(rows)

	entries, err := r.ListByCategory(ctx, model.CategoryPhysical, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, model.CategoryPhysical, entries[0].Category)

	// Empty category yields no rows, not an error
	mock.ExpectQuery(`SELECT id, description, category, coins FROM tasks_library WHERE category=\$1 LIMIT \$2`).
		WithArgs(model.CategorySocial, 10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "description", "category", "coins"}))
	entries, err = r.ListByCategory(ctx, model.CategorySocial, 10)
	require.NoError(t, err)
	require.Empty(t, entries)
}

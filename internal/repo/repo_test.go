package repo

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Concreteflow/internal/calc/calcerr"
	"Concreteflow/internal/calc/joist"
	"Concreteflow/internal/catalog"
)

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@db/app", "postgres://u:p@db/app?sslmode=require"},
		{"postgres://u:p@db/app?connect_timeout=5", "postgres://u:p@db/app?connect_timeout=5&sslmode=require"},
		{"host=db dbname=app", "host=db dbname=app sslmode=require"},
		{"host=db sslmode=disable", "host=db sslmode=disable"},
		{"", "user=postgres dbname=postgres password=password sslmode=disable"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDSN(tt.in))
	}
}

// TestPostgresCatalogs needs a disposable database in TEST_DATABASE_URL.
func TestPostgresCatalogs(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	pg := NewPostgres(db)
	require.NoError(t, pg.Migrate(ctx))

	entries := []joist.Entry{
		{Reference: "BP 113-16", BlockHeightCM: 16, SpacingCM: 60, ToppingCM: 5, Bands: []joist.Band{{LoadKgM2: 250, SpanM: 5.9}, {LoadKgM2: 350, SpanM: 5.4}}},
		{Reference: "BP 113-20", BlockHeightCM: 20, SpacingCM: 60, Bands: []joist.Band{{LoadKgM2: 250, SpanM: 6.6}}},
	}
	id, err := pg.Save(ctx, catalog.Catalog{Name: "test", Entries: entries})
	require.NoError(t, err)

	got, err := pg.Entries(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	_, err = pg.Entries(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, calcerr.ErrEmptyCatalog)

	_, err = pg.GetByLogin(ctx, "nobody-"+id)
	assert.ErrorIs(t, err, ErrNotFound)

	uid, err := pg.CreateUser(ctx, "user-"+id, "hash", "")
	require.NoError(t, err)
	u, err := pg.GetByLogin(ctx, "user-"+id)
	require.NoError(t, err)
	assert.Equal(t, User{ID: uid, Login: "user-" + id, PasswordHash: "hash", Role: "engineer"}, u)
}

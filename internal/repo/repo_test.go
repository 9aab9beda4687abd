package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"Airside/internal/standards"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("AIRSIDE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("No test database configured - set AIRSIDE_TEST_DATABASE_URL")
	}
	db, err := Open(url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, EnsureSchema(context.Background(), db))
	return db
}

func TestUsersAndRuns(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewPostgresUserDB(db)

	login := fmt.Sprintf("test-%d", time.Now().UnixNano())
	id, err := users.CreateUser(ctx, login, login+"@example.com", "hash")
	require.NoError(t, err)
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id=$1", id) })

	gotID, hash, err := users.GetBylogin(ctx, login)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "hash", hash)

	gotID, _, err = users.GetBylogin(ctx, login+"-missing")
	require.NoError(t, err)
	assert.Zero(t, gotID)

	runs := NewPostgresRunDB(db)
	run := Run{
		ID:        uuid.New(),
		UserID:    id,
		Template:  "90.1-2010",
		ModelName: "Small Office",
		Report:    json.RawMessage(`{"zones_adjusted": 1}`),
	}
	require.NoError(t, runs.SaveRun(ctx, run))

	got, err := runs.GetRun(ctx, run.ID, id)
	require.NoError(t, err)
	assert.Equal(t, run.Template, got.Template)
	assert.JSONEq(t, string(run.Report), string(got.Report))

	_, err = runs.GetRun(ctx, run.ID, id+1)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := runs.ListRuns(ctx, id, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, run.ID, list[0].ID)
}

func TestStandardsTables(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	r := NewPostgresStandardsDB(db)
	table := fmt.Sprintf("test_boilers_%d", time.Now().UnixNano())
	t.Cleanup(func() { db.Exec("DELETE FROM standards_records WHERE table_name=$1", table) })

	records := []standards.Record{
		{"template": "T", "minimum_capacity": 0.0, "maximum_capacity": 10.0, "minimum_thermal_efficiency": 0.8},
		{"template": "T", "minimum_capacity": 10.0, "maximum_capacity": 20.0, "minimum_thermal_efficiency": 0.82},
	}
	require.NoError(t, r.ReplaceTable(ctx, table, records))
	require.NoError(t, r.ReplaceTable(ctx, table, records[1:]))

	store, err := LoadStore(ctx, r)
	require.NoError(t, err)
	got := store.Table(table)
	require.Len(t, got, 1)
	eff, ok := got[0].Float("minimum_thermal_efficiency")
	require.True(t, ok)
	assert.Equal(t, 0.82, eff)
}

package repository

import (
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	revoked := sql.NullTime{Time: now.Add(-time.Hour), Valid: true}

	cases := []struct {
		name      string
		expiresAt time.Time
		revokedAt sql.NullTime
		want      bool
	}{
		{"live token", now.Add(time.Hour), sql.NullTime{}, true},
		{"expired", now.Add(-time.Minute), sql.NullTime{}, false},
		{"expires exactly now", now, sql.NullTime{}, false},
		{"revoked", now.Add(time.Hour), revoked, false},
		{"revoked and expired", now.Add(-time.Hour), revoked, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, refreshActive(tc.expiresAt, tc.revokedAt, now))
		})
	}
}

// migrationColumns parses the CREATE TABLE blocks out of the migration file
// and returns table -> set of column names.  Index and constraint lines are
// skipped.
func migrationColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)

	tables := make(map[string]map[string]bool)
	blockRe := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\) ENGINE`)
	for _, m := range blockRe.FindAllStringSubmatch(string(raw), -1) {
		cols := make(map[string]bool)
		for _, line := range strings.Split(m[2], "\n") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			switch fields[0] {
			case "PRIMARY", "UNIQUE", "KEY", "CONSTRAINT":
				continue
			}
			cols[fields[0]] = true
		}
		tables[m[1]] = cols
	}
	return tables
}

// The repositories write SQL by hand, so the column names they reference
// have to exist in the migrated schema.
func TestMigrationCoversRepositoryColumns(t *testing.T) {
	tables := migrationColumns(t)

	wanted := map[string][]string{
		"users":          {"email", "password_hash", "role", "is_active", "created_at", "updated_at"},
		"refresh_tokens": {"user_id", "token_hash", "expires_at", "revoked_at", "created_at"},
		"theatre_halls":  {"name", "rows_count", "seats_in_row"},
		"genres":         {"name"},
		"actors":         {"first_name", "last_name"},
		"plays":          {"title", "description", "duration_min"},
		"play_genres":    {"play_id", "genre_id"},
		"play_actors":    {"play_id", "actor_id"},
		"performances":   {"play_id", "hall_id", "show_time"},
		"orders":         {"user_id", "created_at"},
		"tickets":        {"order_id", "performance_id", "row_no", "seat_no"},
	}
	for table, cols := range wanted {
		have, ok := tables[table]
		require.True(t, ok, "migration missing table %s", table)
		for _, col := range cols {
			assert.True(t, have[col], "table %s missing column %s", table, col)
		}
	}
}

func TestMigrationDefinesSeatUniqueness(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "UNIQUE KEY uq_ticket (performance_id, row_no, seat_no)")
}

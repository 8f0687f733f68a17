package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/islmaice/connect/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := New(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createUser(t *testing.T, s *SQLStore, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "pass", CreatedAt: epoch}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New("mysql", "whatever")
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Ping(context.Background()))
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{driverName: DriverPostgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := &SQLStore{driverName: DriverSQLite}
	assert.Equal(t, "SELECT ?", lite.rebind("SELECT ?"))
}

func TestTimestampRoundTrip(t *testing.T) {
	assert.Equal(t, int64(0), toNanos(time.Time{}))
	assert.True(t, fromNanos(0).IsZero())

	local := time.Date(2025, time.June, 2, 10, 30, 0, 123, time.FixedZone("SGT", 8*3600))
	got := fromNanos(toNanos(local))
	assert.True(t, got.Equal(local))
	assert.Equal(t, time.UTC, got.Location())
}

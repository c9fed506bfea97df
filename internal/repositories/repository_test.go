package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

const (
	testUserID = "8d7f6e5c-4b3a-4291-8e7d-6c5b4a392817"
	testDeckID = "1a2b3c4d-5e6f-4a1b-8c2d-3e4f5a6b7c8d"
	testPairID = "9f8e7d6c-5b4a-4c3d-9e2f-1a0b9c8d7e6f"
)

// setupTestDB creates a mock database
func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
	}

	return db, mock, cleanup
}

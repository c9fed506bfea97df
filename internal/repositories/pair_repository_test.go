package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flashdeck/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pairRowColumns = []string{"id", "deck_id", "term_a", "term_b", "type", "register", "created_at"}

func TestPairRepository_ListByDeck(t *testing.T) {
	tests := []struct {
		name          string
		limit         int
		offset        int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedTotal int
		expectedTerms []string
	}{
		{
			name:  "page ordered by creation",
			limit: 2, offset: 2,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM pairs WHERE deck_id = $1`)).
					WithArgs(testDeckID).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
				mock.ExpectQuery(regexp.QuoteMeta(`WHERE deck_id = $1 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`)).
					WithArgs(testDeckID, 2, 2).
					WillReturnRows(sqlmock.NewRows(pairRowColumns).
						AddRow(testPairID, testDeckID, "kot", "cat", "words", "neutral", testTime).
						AddRow("0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d", testDeckID, "pies", "dog", "words", "neutral", testTime))
			},
			expectedTotal: 5,
			expectedTerms: []string{"kot", "pies"},
		},
		{
			name:  "all pairs without limit",
			limit: 0,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT`).WithArgs(testDeckID).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery(`ORDER BY created_at ASC, id ASC$`).
					WithArgs(testDeckID).
					WillReturnRows(sqlmock.NewRows(pairRowColumns).
						AddRow(testPairID, testDeckID, "kot", "cat", "words", "neutral", testTime))
			},
			expectedTotal: 1,
			expectedTerms: []string{"kot"},
		},
		{
			name:  "query error",
			limit: 20,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT`).WithArgs(testDeckID).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery(`FROM pairs`).WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
		{
			name:  "rows error",
			limit: 20,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT`).WithArgs(testDeckID).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery(`FROM pairs`).
					WillReturnRows(sqlmock.NewRows(pairRowColumns).
						AddRow(testPairID, testDeckID, "kot", "cat", "words", "neutral", testTime).
						RowError(0, errors.New("row error")))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := setupTestDB(t)
			defer cleanup()
			repo := NewPairRepository(db)

			tt.setupMock(mock)

			pairs, total, err := repo.ListByDeck(context.Background(), testDeckID, tt.limit, tt.offset)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedTotal, total)
				terms := make([]string, 0, len(pairs))
				for _, p := range pairs {
					terms = append(terms, p.TermA)
				}
				assert.Equal(t, tt.expectedTerms, terms)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPairRepository_CreateBatch(t *testing.T) {
	inputs := []models.PairInput{
		{TermA: "kot", TermB: "cat", Type: models.PairTypeWords, Register: models.RegisterNeutral},
		{TermA: "dzień dobry", TermB: "good morning", Type: models.PairTypeMiniPhrases, Register: models.RegisterFormal},
	}

	t.Run("success", func(t *testing.T) {
		db, mock, cleanup := setupTestDB(t)
		defer cleanup()
		repo := NewPairRepository(db)

		mock.ExpectBegin()
		prep := mock.ExpectPrepare(`INSERT INTO pairs`)
		prep.ExpectQuery().
			WithArgs(testDeckID, "kot", "cat", "words", "neutral").
			WillReturnRows(sqlmock.NewRows(pairRowColumns).AddRow(testPairID, testDeckID, "kot", "cat", "words", "neutral", testTime))
		prep.ExpectQuery().
			WithArgs(testDeckID, "dzień dobry", "good morning", "mini-phrases", "formal").
			WillReturnRows(sqlmock.NewRows(pairRowColumns).AddRow("0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d", testDeckID, "dzień dobry", "good morning", "mini-phrases", "formal", testTime))
		mock.ExpectExec(`UPDATE decks SET updated_at`).WithArgs(testDeckID).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		pairs, err := repo.CreateBatch(context.Background(), testDeckID, inputs)

		require.NoError(t, err)
		require.Len(t, pairs, 2)
		assert.Equal(t, testPairID, pairs[0].ID)
		assert.Equal(t, models.PairTypeMiniPhrases, pairs[1].Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert error rolls back", func(t *testing.T) {
		db, mock, cleanup := setupTestDB(t)
		defer cleanup()
		repo := NewPairRepository(db)

		mock.ExpectBegin()
		prep := mock.ExpectPrepare(`INSERT INTO pairs`)
		prep.ExpectQuery().
			WithArgs(testDeckID, "kot", "cat", "words", "neutral").
			WillReturnError(errors.New("check constraint violated"))
		mock.ExpectRollback()

		pairs, err := repo.CreateBatch(context.Background(), testDeckID, inputs)

		assert.Error(t, err)
		assert.Nil(t, pairs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		db, mock, cleanup := setupTestDB(t)
		defer cleanup()
		repo := NewPairRepository(db)

		mock.ExpectBegin().WillReturnError(errors.New("database error"))

		_, err := repo.CreateBatch(context.Background(), testDeckID, inputs)
		assert.ErrorContains(t, err, "failed to begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPairRepository_GetByID(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewPairRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM pairs WHERE id = $1 AND deck_id = $2`)).
		WithArgs(testPairID, testDeckID).
		WillReturnRows(sqlmock.NewRows(pairRowColumns).AddRow(testPairID, testDeckID, "kot", "cat", "words", "informal", testTime))
	mock.ExpectQuery(`FROM pairs`).
		WithArgs(testPairID, testDeckID).
		WillReturnError(sql.ErrNoRows)

	pair, err := repo.GetByID(context.Background(), testDeckID, testPairID)
	require.NoError(t, err)
	assert.Equal(t, models.RegisterInformal, pair.Register)

	_, err = repo.GetByID(context.Background(), testDeckID, testPairID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPairRepository_Update(t *testing.T) {
	tests := []struct {
		name          string
		result        driverResult
		expectedError error
	}{
		{name: "success", result: driverResult{rows: 1}},
		{name: "not found", result: driverResult{rows: 0}, expectedError: models.ErrNotFound},
		{name: "database error", result: driverResult{err: errors.New("database error")}, expectedError: errors.New("failed to update pair")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := setupTestDB(t)
			defer cleanup()
			repo := NewPairRepository(db)

			exp := mock.ExpectExec(`UPDATE pairs`).
				WithArgs("kot", "cat", "words", "neutral", testPairID, testDeckID)
			if tt.result.err != nil {
				exp.WillReturnError(tt.result.err)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.result.rows))
			}

			err := repo.Update(context.Background(), &models.Pair{
				ID: testPairID, DeckID: testDeckID, TermA: "kot", TermB: "cat",
				Type: models.PairTypeWords, Register: models.RegisterNeutral,
			})

			switch {
			case tt.expectedError == nil:
				assert.NoError(t, err)
			case errors.Is(tt.expectedError, models.ErrNotFound):
				assert.ErrorIs(t, err, models.ErrNotFound)
			default:
				assert.ErrorContains(t, err, tt.expectedError.Error())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPairRepository_Delete(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewPairRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM pairs WHERE id = $1 AND deck_id = $2`)).
		WithArgs(testPairID, testDeckID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM pairs`).
		WithArgs(testPairID, testDeckID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), testDeckID, testPairID))
	assert.ErrorIs(t, repo.Delete(context.Background(), testDeckID, testPairID), models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type driverResult struct {
	rows int64
	err  error
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/flashdeck/backend/internal/models"
	"github.com/flashdeck/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockGenerationService struct {
	resp  *models.GenerationResponse
	quota *models.Quota
	err   error

	gotUserID string
	requests  []*models.GenerateRequest
}

func (m *mockGenerationService) Generate(ctx context.Context, userID string, req *models.GenerateRequest) (*models.GenerationResponse, error) {
	m.gotUserID = userID
	m.requests = append(m.requests, req)
	return m.resp, m.err
}

func (m *mockGenerationService) GetQuota(ctx context.Context, userID string) (*models.Quota, error) {
	m.gotUserID = userID
	return m.quota, m.err
}

func newGenerationRouter(svc *mockGenerationService) http.Handler {
	return newTestRouter(NewGenerationHandler(svc, testLogger))
}

const validGenerateBody = `{"lang_a":1,"lang_b":2,"topic":"kuchnia","count":3,"type":"words","register":"neutral"}`

func TestGenerationHandler_Generate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{name: "success", body: validGenerateBody, expectedStatus: http.StatusOK},
		{name: "count too large", body: `{"lang_a":1,"lang_b":2,"topic":"kuchnia","count":51}`, expectedStatus: http.StatusUnprocessableEntity, expectedCode: models.CodeValidation},
		{name: "missing topic", body: `{"lang_a":1,"lang_b":2,"count":3}`, expectedStatus: http.StatusUnprocessableEntity, expectedCode: models.CodeValidation},
		{name: "quota exceeded", body: validGenerateBody, err: services.ErrQuotaExceeded, expectedStatus: http.StatusTooManyRequests, expectedCode: models.CodeQuotaExceeded},
		{name: "provider failure", body: validGenerateBody, err: fmt.Errorf("%w: upstream 500", services.ErrGenerationFailed), expectedStatus: http.StatusBadGateway, expectedCode: models.CodeInternal},
		{name: "foreign deck", body: validGenerateBody, err: services.ErrDeckNotFound, expectedStatus: http.StatusNotFound, expectedCode: models.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockGenerationService{
				resp: &models.GenerationResponse{ID: "gen-1", Model: "test-model", Pairs: []models.PairInput{}},
				err:  tt.err,
			}
			w := doRequest(t, newGenerationRouter(svc), http.MethodPost, "/api/generations", tt.body, true)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				envelope := decodeEnvelope(t, w)
				assert.Equal(t, tt.expectedCode, envelope.Error.Code)
				assert.NotContains(t, envelope.Error.Message, "upstream")
				return
			}

			assert.Equal(t, testUserID, svc.gotUserID)
			var resp models.GenerationResponse
			decodeBody(t, w, &resp)
			assert.Equal(t, "gen-1", resp.ID)
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		w := doRequest(t, newGenerationRouter(&mockGenerationService{}), http.MethodPost, "/api/generations", validGenerateBody, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rate limited per user", func(t *testing.T) {
		svc := &mockGenerationService{resp: &models.GenerationResponse{}}
		router := newGenerationRouter(svc)
		for i := 0; i < GenerationRateLimit; i++ {
			w := doRequest(t, router, http.MethodPost, "/api/generations", validGenerateBody, true)
			require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		}

		w := doRequest(t, router, http.MethodPost, "/api/generations", validGenerateBody, true)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Len(t, svc.requests, GenerationRateLimit)
	})
}

func TestGenerationHandler_GetQuota(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		svc := &mockGenerationService{quota: &models.Quota{Limit: 50, Used: 12, Remaining: 38, PeriodStart: start, PeriodEnd: start.AddDate(0, 1, 0)}}
		w := doRequest(t, newGenerationRouter(svc), http.MethodGet, "/api/users/me/quota", "", true)

		require.Equal(t, http.StatusOK, w.Code)
		var quota models.Quota
		decodeBody(t, w, &quota)
		assert.Equal(t, 38, quota.Remaining)
		assert.True(t, quota.PeriodStart.Equal(start))
	})

	t.Run("anonymous", func(t *testing.T) {
		w := doRequest(t, newGenerationRouter(&mockGenerationService{}), http.MethodGet, "/api/users/me/quota", "", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("database error", func(t *testing.T) {
		svc := &mockGenerationService{err: errors.New("db down")}
		w := doRequest(t, newGenerationRouter(svc), http.MethodGet, "/api/users/me/quota", "", true)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

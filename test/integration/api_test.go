package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/flashdeck/backend/internal/auth"
	"github.com/flashdeck/backend/internal/config"
	"github.com/flashdeck/backend/internal/handlers"
	"github.com/flashdeck/backend/internal/middleware"
	"github.com/flashdeck/backend/internal/models"
	"github.com/flashdeck/backend/internal/repositories"
	"github.com/flashdeck/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testDB     *sql.DB
	testRouter chi.Router
	testLogger *zap.Logger
)

// noopEnqueuer drops password reset emails
type noopEnqueuer struct{}

func (noopEnqueuer) EnqueuePasswordReset(ctx context.Context, email, link string) error { return nil }

// setupTestRouter creates a test router with all handlers except generation
func setupTestRouter(db *sql.DB, logger *zap.Logger) chi.Router {
	tokenGenerator := auth.NewTokenGenerator("integration-secret", time.Hour, 24*time.Hour)

	deckRepo := repositories.NewDeckRepository(db)
	pairRepo := repositories.NewPairRepository(db)
	languageRepo := repositories.NewLanguageRepository(db)

	authService := services.NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewUserTokenRepository(db),
		repositories.NewAuthCodeRepository(db),
		noopEnqueuer{},
		tokenGenerator,
		"http://localhost:4321",
		logger,
	)
	challengeService := services.NewChallengeService(deckRepo, repositories.NewChallengeRepository(db), repositories.NewDemoRepository(db), logger)

	routeAuth := handlers.RouteAuth{
		Required: middleware.AuthMiddleware(tokenGenerator),
		Optional: middleware.OptionalAuthMiddleware(tokenGenerator),
	}

	r := chi.NewRouter()
	handlers.NewAuthHandler(authService, handlers.CookieConfig{AccessMaxAge: time.Hour, RefreshMaxAge: 24 * time.Hour}, logger).RegisterRoutes(r, routeAuth)
	handlers.NewDeckHandler(services.NewDeckService(deckRepo, languageRepo, logger), logger).RegisterRoutes(r, routeAuth)
	handlers.NewPairHandler(
		services.NewPairService(deckRepo, pairRepo, logger),
		services.NewTransferService(deckRepo, pairRepo, logger),
		logger,
	).RegisterRoutes(r, routeAuth)
	handlers.NewChallengeHandler(challengeService, logger).RegisterRoutes(r, routeAuth)

	return r
}

// TestMain sets up and tears down the test environment
func TestMain(m *testing.M) {
	cfg, err := config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}
	dsn := cfg.DSN()
	if dsn == "" {
		fmt.Println("TEST_DB_* not set, skipping integration tests")
		os.Exit(0)
	}

	testLogger = zap.NewNop()

	testDB, err = sql.Open("postgres", dsn)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test database: %v", err))
	}
	if err = testDB.Ping(); err != nil {
		panic(fmt.Sprintf("Failed to ping test database: %v", err))
	}

	if err := migrateTestSchema(testDB); err != nil {
		panic(fmt.Sprintf("Failed to migrate test database: %v", err))
	}

	testRouter = setupTestRouter(testDB, testLogger)

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

// migrateTestSchema applies the migrations of the repository
func migrateTestSchema(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "flashdeck_schema_migrations"})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://../../migrations", "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// cleanupTestData removes all rows written by the tests
func cleanupTestData(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec("TRUNCATE users, challenge_demo_results CASCADE")
	require.NoError(t, err, "Failed to cleanup test data")
}

// session is a signed-up user of a test
type session struct {
	userID string
	cookie *http.Cookie
}

func signup(t *testing.T, email string) session {
	t.Helper()
	w := call(t, http.MethodPost, "/api/auth/signup", fmt.Sprintf(`{"email":%q,"password":"secret-password"}`, email), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		User models.SessionUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AccessTokenCookie {
			return session{userID: body.User.ID, cookie: c}
		}
	}
	t.Fatal("access token cookie not set")
	return session{}
}

func call(t *testing.T, method, target, body string, s *session) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if s != nil {
		req.AddCookie(&http.Cookie{Name: s.cookie.Name, Value: s.cookie.Value})
	}
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func createDeck(t *testing.T, owner *session, visibility models.Visibility) models.Deck {
	t.Helper()
	w := call(t, http.MethodPost, "/api/decks", fmt.Sprintf(`{"title":"Kuchnia","lang_a":1,"lang_b":2,"visibility":%q}`, visibility), owner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var deck models.Deck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deck))
	return deck
}

func TestIntegration_DeckVisibility(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cleanupTestData(t)
	defer cleanupTestData(t)

	owner := signup(t, "owner@example.com")
	other := signup(t, "other@example.com")

	tests := []struct {
		visibility models.Visibility
		owner      int
		other      int
		anonymous  int
	}{
		{visibility: models.VisibilityPrivate, owner: http.StatusOK, other: http.StatusNotFound, anonymous: http.StatusNotFound},
		{visibility: models.VisibilityUnlisted, owner: http.StatusOK, other: http.StatusOK, anonymous: http.StatusOK},
		{visibility: models.VisibilityPublic, owner: http.StatusOK, other: http.StatusOK, anonymous: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(string(tt.visibility), func(t *testing.T) {
			deck := createDeck(t, &owner, tt.visibility)
			assert.Equal(t, "kuchnia", deck.Slug)

			for _, path := range []string{"/api/decks/" + deck.ID + "/pairs", "/api/challenge/decks/" + deck.ID + "/top"} {
				assert.Equal(t, tt.owner, call(t, http.MethodGet, path, "", &owner).Code, path)
				assert.Equal(t, tt.other, call(t, http.MethodGet, path, "", &other).Code, path)
				assert.Equal(t, tt.anonymous, call(t, http.MethodGet, path, "", nil).Code, path)
			}

			assert.Equal(t, http.StatusNotFound, call(t, http.MethodDelete, "/api/decks/"+deck.ID, "", &other).Code)
		})
	}

	w := call(t, http.MethodGet, "/api/decks/public", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page models.DeckPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
}

func TestIntegration_PairPagination(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cleanupTestData(t)
	defer cleanupTestData(t)

	owner := signup(t, "owner@example.com")
	deck := createDeck(t, &owner, models.VisibilityPublic)

	items := make([]string, 0, 25)
	for i := 1; i <= 25; i++ {
		items = append(items, fmt.Sprintf(`{"term_a":"słowo %02d","term_b":"word %02d","type":"words","register":"neutral"}`, i, i))
	}
	w := call(t, http.MethodPost, "/api/decks/"+deck.ID+"/pairs", `{"pairs":[`+strings.Join(items, ",")+`]}`, &owner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	listPage := func(query string) models.PairPage {
		w := call(t, http.MethodGet, "/api/decks/"+deck.ID+"/pairs"+query, "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var page models.PairPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 25, page.Total)
		return page
	}

	all := listPage("?page_size=100")
	require.Len(t, all.Items, 25)

	tests := []struct {
		query         string
		expectedStart int
		expectedLen   int
	}{
		{query: "", expectedStart: 0, expectedLen: 20},
		{query: "?page=2", expectedStart: 20, expectedLen: 5},
		{query: "?limit=10&page=3", expectedStart: 20, expectedLen: 5},
		{query: "?page_size=abc", expectedStart: 0, expectedLen: 20},
		{query: "?page=4&page_size=10", expectedStart: 25, expectedLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page := listPage(tt.query)
			require.Len(t, page.Items, tt.expectedLen)
			for i, pair := range page.Items {
				assert.Equal(t, all.Items[tt.expectedStart+i].ID, pair.ID)
			}
		})
	}
}

func TestIntegration_Leaderboards(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cleanupTestData(t)
	defer cleanupTestData(t)

	alice := signup(t, "alice@example.com")
	bob := signup(t, "bob@example.com")
	deck := createDeck(t, &alice, models.VisibilityPublic)

	submit := func(s *session, timeMs, incorrect int) {
		body := fmt.Sprintf(`{"deck_id":%q,"total_time_ms":%d,"correct":%d,"incorrect":%d}`, deck.ID, timeMs, 10-incorrect, incorrect)
		w := call(t, http.MethodPost, "/api/challenge/results", body, s)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	submit(&alice, 50000, 3)
	submit(&alice, 40000, 1)
	submit(&bob, 40000, 0)

	w := call(t, http.MethodGet, "/api/challenge/decks/"+deck.ID+"/top", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var top struct {
		Items []models.LeaderboardEntry `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &top))
	require.Len(t, top.Items, 2)
	assert.Equal(t, bob.userID, top.Items[0].UserID)
	assert.Equal(t, alice.userID, top.Items[1].UserID)
	assert.Equal(t, 1, top.Items[1].Incorrect)
	assert.Equal(t, 2, top.Items[1].Rank)

	for _, body := range []string{
		`{"guest_id":"3f2e1d0c-9b8a-4765-8432-10fedcba9876","guest_name":"Wolny","total_time_ms":30000,"incorrect":0}`,
		`{"guest_id":"4a3b2c1d-0e9f-4876-9543-21fedcba9876","guest_name":"Szybki","total_time_ms":20000,"incorrect":4}`,
		`{"guest_id":"5b4c3d2e-1f0a-4987-8654-32fedcba9876","guest_name":"Dokładny","total_time_ms":20000,"incorrect":1}`,
	} {
		require.Equal(t, http.StatusCreated, call(t, http.MethodPost, "/api/challenge/demo/results", body, nil).Code)
	}

	w = call(t, http.MethodPost, "/api/challenge/demo/results", `{"guest_id":"not-a-uuid","guest_name":"Test","total_time_ms":1,"incorrect":0}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = call(t, http.MethodGet, "/api/challenge/demo/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var demo struct {
		Items []models.DemoLeaderboardEntry `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &demo))
	require.Len(t, demo.Items, 3)
	assert.Equal(t, []string{"Dokładny", "Szybki", "Wolny"}, []string{demo.Items[0].GuestName, demo.Items[1].GuestName, demo.Items[2].GuestName})
}

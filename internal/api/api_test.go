// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/fairmatch/internal/auth"
	"github.com/tomtom215/fairmatch/internal/config"
	"github.com/tomtom215/fairmatch/internal/jobs"
	"github.com/tomtom215/fairmatch/internal/models"
	"github.com/tomtom215/fairmatch/internal/recommend"
)

const testJWTSecret = "api-test-secret-with-enough-length!!"

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// fakeQueue records jobs without running them.
type fakeQueue struct {
	tracker *jobs.Tracker
	err     error
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{tracker: jobs.NewTracker(time.Hour)}
}

func (q *fakeQueue) Enqueue(_ context.Context, perUser int) (jobs.Job, error) {
	if q.err != nil {
		return jobs.Job{}, q.err
	}
	return q.tracker.Create(jobs.KindGenerateAll, perUser), nil
}

func (q *fakeQueue) Job(id string) (jobs.Job, bool) {
	return q.tracker.Get(id)
}

type testServer struct {
	handler http.Handler
	store   *recommend.MemoryStore
	engine  *recommend.Engine
	queue   *fakeQueue
	tokens  *auth.JWTManager
}

func testConfig(authMode string) *config.Config {
	return &config.Config{
		API: config.APIConfig{
			RequestTimeout: 5 * time.Second,
			BatchTimeout:   30 * time.Second,
		},
		Security: config.SecurityConfig{
			AuthMode:           authMode,
			JWTSecret:          testJWTSecret,
			JWTIssuer:          "fairmatch-test",
			RateLimitReqs:      10000,
			RateLimitWindow:    time.Minute,
			BatchRateLimitReqs: 10000,
			CORSOrigins:        []string{"*"},
		},
		Recommend: config.RecommendConfig{
			DefaultLimit: 10,
			MaxLimit:     50,
			PerUserCount: 5,
		},
	}
}

func newTestServer(t *testing.T, authMode string, db Pinger) *testServer {
	t.Helper()

	store := recommend.NewMemoryStore()
	store.PutUser(recommend.User{ID: 1, Username: "ada"}, recommend.Profile{Skills: []string{"python", "sql"}})
	store.PutUser(recommend.User{ID: 2, Username: "bob", FirstName: "Bob", LastName: "Builder"}, recommend.Profile{Skills: []string{"python", "java"}})
	store.PutUser(recommend.User{ID: 3, Username: "eve"}, recommend.Profile{Skills: []string{"python", "sql", "go"}})

	engine, err := recommend.NewEngine(store, store, recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	cfg := testConfig(authMode)
	tokens, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}

	queue := newFakeQueue()
	handler := NewHandler(engine, db, queue, cfg, zerolog.Nop())
	router := NewRouter(handler, auth.NewMiddleware(tokens, authMode, zerolog.Nop()))

	return &testServer{
		handler: router.SetupChi(),
		store:   store,
		engine:  engine,
		queue:   queue,
		tokens:  tokens,
	}
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func (s *testServer) do(t *testing.T, method, target, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v (body %q)", method, target, err, rec.Body.String())
		}
	}
	return rec, env
}

func (s *testServer) token(t *testing.T, userID int64, role string) string {
	t.Helper()
	tok, err := s.tokens.GenerateToken(userID, "user", role, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return tok
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v (data %s)", err, env.Data)
	}
}

func errorCode(env envelope) string {
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}

func TestUserRecommendations(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, auth.ModeNone, fakePinger{})

	rec, env := s.do(t, http.MethodGet, "/api/v1/recommendations/user/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if env.Status != models.StatusSuccess {
		t.Errorf("envelope status = %q, want %q", env.Status, models.StatusSuccess)
	}

	var recs []recommend.Recommendation
	decodeData(t, env, &recs)
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if recs[0].RecommendedUserID != 3 {
		t.Errorf("top recommendation = %d, want 3", recs[0].RecommendedUserID)
	}
	for _, r := range recs {
		if r.RecommendedUserID == 1 {
			t.Error("user recommended to themselves")
		}
	}
	if env.Metadata.Count == nil || *env.Metadata.Count != 2 {
		t.Errorf("metadata.count = %v, want 2", env.Metadata.Count)
	}
}

func TestUserRecommendations_Errors(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, auth.ModeNone, fakePinger{})

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
	}{
		{"unknown user", "/api/v1/recommendations/user/99", http.StatusNotFound, ErrCodeUserNotFound},
		{"non-numeric id", "/api/v1/recommendations/user/abc", http.StatusBadRequest, ErrCodeInvalidUserID},
		{"zero id", "/api/v1/recommendations/user/0", http.StatusBadRequest, ErrCodeInvalidUserID},
		{"zero limit", "/api/v1/recommendations/user/1?limit=0", http.StatusBadRequest, ErrCodeValidation},
		{"limit above max", "/api/v1/recommendations/user/1?limit=51", http.StatusBadRequest, ErrCodeValidation},
		{"non-numeric limit", "/api/v1/recommendations/user/1?limit=ten", http.StatusBadRequest, ErrCodeValidation},
		{"me without auth", "/api/v1/recommendations/me", http.StatusUnauthorized, ErrCodeUnauthorized},
		{"unknown route", "/api/v1/nope", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, env := s.do(t, http.MethodGet, tt.target, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := errorCode(env); got != tt.wantCode {
				t.Errorf("error code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestRecommendationDetailAndStatus(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, auth.ModeNone, fakePinger{})
	ctx := context.Background()
	if _, err := s.engine.GenerateForUser(ctx, 1, 5); err != nil {
		t.Fatalf("GenerateForUser() error = %v", err)
	}
	recs, err := s.engine.Recommendations(ctx, 1, 5)
	if err != nil || len(recs) == 0 {
		t.Fatalf("Recommendations() = %v, %v", recs, err)
	}
	id := recs[0].ID
	base := "/api/v1/recommendations/" + itoa(id)

	t.Run("detail", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, base, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var detail recommend.RecommendationWithReasons
		decodeData(t, env, &detail)
		if detail.Recommendation.ID != id {
			t.Errorf("id = %d, want %d", detail.Recommendation.ID, id)
		}
		if len(detail.Reasons) == 0 {
			t.Error("detail has no reasons")
		}
	})

	t.Run("unknown detail", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/recommendations/9999", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
		if got := errorCode(env); got != ErrCodeRecommendationNotFound {
			t.Errorf("error code = %q, want %q", got, ErrCodeRecommendationNotFound)
		}
	})

	t.Run("unknown reasons are empty", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/recommendations/9999/reasons", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var reasons []recommend.Reason
		decodeData(t, env, &reasons)
		if reasons == nil || len(reasons) != 0 {
			t.Errorf("reasons = %v, want empty list", reasons)
		}
	})

	statusTests := []struct {
		name       string
		status     string
		wantStatus int
		wantCode   string
	}{
		{"accept", "ACCEPTED", http.StatusOK, ""},
		{"lowercase viewed", "viewed", http.StatusOK, ""},
		{"NEW refused", "NEW", http.StatusBadRequest, ErrCodeValidation},
		{"unknown status", "MAYBE", http.StatusBadRequest, ErrCodeValidation},
		{"missing status", "", http.StatusBadRequest, ErrCodeValidation},
	}
	for _, tt := range statusTests {
		t.Run("status "+tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodPut, base+"/status?status="+tt.status, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if got := errorCode(env); got != tt.wantCode {
				t.Errorf("error code = %q, want %q", got, tt.wantCode)
			}
		})
	}

	stored, err := s.store.Recommendation(ctx, id)
	if err != nil {
		t.Fatalf("Recommendation() error = %v", err)
	}
	if stored.Status != recommend.StatusViewed {
		t.Errorf("stored status = %s, want %s", stored.Status, recommend.StatusViewed)
	}

	rec, env := s.do(t, http.MethodPut, "/api/v1/recommendations/9999/status?status=ACCEPTED", "")
	if rec.Code != http.StatusNotFound || errorCode(env) != ErrCodeRecommendationNotFound {
		t.Errorf("unknown status update = %d %q, want 404 %s", rec.Code, errorCode(env), ErrCodeRecommendationNotFound)
	}
}

func TestBatchEndpoints(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, auth.ModeNone, fakePinger{})

	t.Run("extract", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/recommendations/features/extract", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var out map[string]int
		decodeData(t, env, &out)
		if out["extractedFeatureVectors"] != 3 {
			t.Errorf("extractedFeatureVectors = %d, want 3", out["extractedFeatureVectors"])
		}
	})

	t.Run("compute all", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/recommendations/similarities/compute", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var out map[string]int
		decodeData(t, env, &out)
		if out["computedSimilarities"] != 6 {
			t.Errorf("computedSimilarities = %d, want 6", out["computedSimilarities"])
		}
	})

	t.Run("compute bad user", func(t *testing.T) {
		rec, _ := s.do(t, http.MethodPost, "/api/v1/recommendations/similarities/compute?userID=x", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("generate sync", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/recommendations/generate?recommendationsPerUser=1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var out map[string]int
		decodeData(t, env, &out)
		if out["generatedRecommendations"] != 3 {
			t.Errorf("generatedRecommendations = %d, want 3", out["generatedRecommendations"])
		}
	})

	t.Run("generate bad count", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/recommendations/generate?recommendationsPerUser=0", "")
		if rec.Code != http.StatusBadRequest || errorCode(env) != ErrCodeValidation {
			t.Errorf("got %d %q, want 400 %s", rec.Code, errorCode(env), ErrCodeValidation)
		}
	})

	t.Run("generate one user", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/recommendations/user/2/generate?count=1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var out map[string]int
		decodeData(t, env, &out)
		if out["generatedRecommendations"] != 1 {
			t.Errorf("generatedRecommendations = %d, want 1", out["generatedRecommendations"])
		}
	})

	t.Run("similar users", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/recommendations/user/1/similar?limit=1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var records []recommend.SimilarityRecord
		decodeData(t, env, &records)
		if len(records) != 1 || records[0].TargetUserID != 3 {
			t.Errorf("similar = %+v, want one record targeting 3", records)
		}
	})

	t.Run("features", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/recommendations/users/2/features", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var vector recommend.FeatureVector
		decodeData(t, env, &vector)
		if vector.UserID != 2 {
			t.Errorf("user id = %d, want 2", vector.UserID)
		}
	})

	t.Run("stats", func(t *testing.T) {
		rec, _ := s.do(t, http.MethodGet, "/api/v1/recommendations/stats", "")
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})
}

func TestGenerateAsync(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, auth.ModeNone, fakePinger{})

	rec, env := s.do(t, http.MethodPost, "/api/v1/recommendations/generate?async=true&recommendationsPerUser=2", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	var job jobs.Job
	decodeData(t, env, &job)
	if job.ID == "" || job.PerUser != 2 || job.State != jobs.StateQueued {
		t.Errorf("job = %+v, want queued job with perUser 2", job)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/v1/jobs/"+job.ID {
		t.Errorf("Location = %q, want %q", loc, "/api/v1/jobs/"+job.ID)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/jobs/"+job.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("job status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got jobs.Job
	decodeData(t, env, &got)
	if got.ID != job.ID {
		t.Errorf("job id = %q, want %q", got.ID, job.ID)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/jobs/unknown", "")
	if rec.Code != http.StatusNotFound || errorCode(env) != ErrCodeJobNotFound {
		t.Errorf("unknown job = %d %q, want 404 %s", rec.Code, errorCode(env), ErrCodeJobNotFound)
	}

	s.queue.err = jobs.ErrQueueNotRunning
	rec, env = s.do(t, http.MethodPost, "/api/v1/recommendations/generate?async=true", "")
	if rec.Code != http.StatusServiceUnavailable || errorCode(env) != ErrCodeServiceUnavailable {
		t.Errorf("stopped queue = %d %q, want 503 %s", rec.Code, errorCode(env), ErrCodeServiceUnavailable)
	}
}

func TestJWTMode(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, auth.ModeJWT, fakePinger{})
	ada := s.token(t, 1, auth.RoleUser)
	admin := s.token(t, 100, auth.RoleAdmin)

	tests := []struct {
		name       string
		method     string
		target     string
		token      string
		wantStatus int
	}{
		{"me", http.MethodGet, "/api/v1/recommendations/me", ada, http.StatusOK},
		{"me detailed", http.MethodGet, "/api/v1/recommendations/me/detailed", ada, http.StatusOK},
		{"me without token", http.MethodGet, "/api/v1/recommendations/me", "", http.StatusUnauthorized},
		{"own recommendations", http.MethodGet, "/api/v1/recommendations/user/1", ada, http.StatusOK},
		{"other user's recommendations", http.MethodGet, "/api/v1/recommendations/user/2", ada, http.StatusForbidden},
		{"admin reads any user", http.MethodGet, "/api/v1/recommendations/user/2", admin, http.StatusOK},
		{"batch as user", http.MethodPost, "/api/v1/recommendations/generate", ada, http.StatusForbidden},
		{"batch as admin", http.MethodPost, "/api/v1/recommendations/generate", admin, http.StatusOK},
		{"health needs no token", http.MethodGet, "/api/v1/health/live", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := s.do(t, tt.method, tt.target, tt.token)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}

	// Another user's recommendation cannot be read or updated.
	recs, err := s.engine.Recommendations(context.Background(), 2, 5)
	if err != nil || len(recs) == 0 {
		t.Fatalf("Recommendations() = %v, %v", recs, err)
	}
	target := "/api/v1/recommendations/" + itoa(recs[0].ID)
	if rec, _ := s.do(t, http.MethodGet, target, ada); rec.Code != http.StatusForbidden {
		t.Errorf("foreign detail status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if rec, _ := s.do(t, http.MethodPut, target+"/status?status=ACCEPTED", ada); rec.Code != http.StatusForbidden {
		t.Errorf("foreign status update = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if rec, _ := s.do(t, http.MethodGet, target+"/reasons", ada); rec.Code != http.StatusForbidden {
		t.Errorf("foreign reasons status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if rec, _ := s.do(t, http.MethodGet, target+"/reasons", admin); rec.Code != http.StatusOK {
		t.Errorf("admin reasons status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec, _ := s.do(t, http.MethodGet, "/api/v1/recommendations/999999/reasons", ada); rec.Code != http.StatusOK {
		t.Errorf("unknown reasons status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
		wantBody   string
	}{
		{"ready", fakePinger{}, http.StatusOK, "ready"},
		{"db down", fakePinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "not_ready"},
		{"no db", nil, http.StatusServiceUnavailable, "not_ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestServer(t, auth.ModeNone, tt.db)
			rec, env := s.do(t, http.MethodGet, "/api/v1/health/ready", "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if env.Status != tt.wantBody {
				t.Errorf("envelope status = %q, want %q", env.Status, tt.wantBody)
			}
		})
	}

	s := newTestServer(t, auth.ModeNone, fakePinger{})
	if rec, _ := s.do(t, http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, auth.ModeNone, fakePinger{})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	store := recommend.NewMemoryStore()
	engine, err := recommend.NewEngine(store, store, recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	cfg := testConfig(auth.ModeNone)
	cfg.Security.BatchRateLimitReqs = 1

	h := NewRouter(NewHandler(engine, fakePinger{}, nil, cfg, zerolog.Nop()),
		auth.NewMiddleware(nil, auth.ModeNone, zerolog.Nop())).SetupChi()

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/features/extract", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 429]", codes)
	}
}

func TestRespondEngineError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"user not found", recommend.ErrUserNotFound, http.StatusNotFound, ErrCodeUserNotFound},
		{"recommendation not found", recommend.ErrRecommendationNotFound, http.StatusNotFound, ErrCodeRecommendationNotFound},
		{"invalid status", recommend.ErrInvalidStatus, http.StatusBadRequest, ErrCodeInvalidStatus},
		{"breaker open", gobreakerOpen(), http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			respondEngineError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err, "failed")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var env envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got := errorCode(env); got != tt.wantCode {
				t.Errorf("error code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

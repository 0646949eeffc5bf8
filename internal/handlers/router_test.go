package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-tracker/internal/auth"
	"github.com/justsurfingit/job-tracker/internal/database"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/ratelimit"
	"github.com/justsurfingit/job-tracker/internal/services"
	"github.com/justsurfingit/job-tracker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notReady struct{}

func (notReady) Ready(context.Context) bool { return false }

type stubVerifier struct {
	id  *auth.Identity
	err error
}

func (s stubVerifier) Verify(context.Context, string, bool) (*auth.Identity, error) {
	return s.id, s.err
}

type downUsers struct{}

func (downUsers) FindOrCreate(context.Context, models.User) (*models.User, error) {
	return nil, store.ErrUnavailable
}

type fixedHealth database.Status

func (f fixedHealth) Check(context.Context) database.Status { return database.Status(f) }

type testEnv struct {
	router   *gin.Engine
	sessions *auth.SessionIssuer
}

type envOptions struct {
	devAuth  bool
	verifier services.Verifier
	limiter  ratelimit.Limiter
	origins  []string
}

func newTestEnv(t *testing.T, o envOptions) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	file, err := store.OpenFileJobStore(filepath.Join(t.TempDir(), "jobs.json"))
	require.NoError(t, err)
	jobs := services.NewJobService(store.NewFallbackJobStore(store.NewGormJobStore(nil, notReady{}), file))
	llm := &services.LLMService{}
	sessions := auth.NewSessionIssuer("test-secret")
	if o.verifier == nil {
		o.verifier = stubVerifier{err: auth.ErrInvalidToken}
	}

	r := SetupRouter(RouterConfig{
		Jobs:     NewJobHandler(llm, jobs),
		Auth:     NewAuthHandler(services.NewAuthService(o.verifier, downUsers{}, sessions)),
		AI:       NewAIHandler(llm),
		Health:   NewHealthHandler(fixedHealth{State: database.Disconnected, LastError: "dial tcp: connection refused"}, map[string]bool{"JWT_SECRET": true}),
		Sessions: sessions,
		DevAuth:  o.devAuth,
		Limiter:  o.limiter,

		AllowedOrigins: o.origins,
	})
	return testEnv{router: r, sessions: sessions}
}

func (e testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doWithOrigin(t, method, path, token, "", body)
}

func (e testEnv) doWithOrigin(t *testing.T, method, path, token, origin string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestJobLifecycle(t *testing.T) {
	env := newTestEnv(t, envOptions{devAuth: true})
	token := "dev-token-local"

	w := env.do(t, http.MethodPost, "/api/jobs", token, gin.H{"title": "Engineer", "company": "Acme", "status": "applied", "dateApplied": "2026-01-15"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Job](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.DevUserID, created.UserID)
	assert.Equal(t, models.StatusApplied, created.Status)

	w = env.do(t, http.MethodPut, "/api/jobs/"+created.ID, token, gin.H{"status": "offer", "notes": "Great call"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Job](t, w)
	assert.Equal(t, models.StatusOffer, updated.Status)
	require.Len(t, updated.Notes, 1)
	assert.Equal(t, "Great call", updated.Notes[0].Text)

	w = env.do(t, http.MethodDelete, "/api/jobs/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Job deleted", decode[map[string]string](t, w)["message"])

	w = env.do(t, http.MethodGet, "/api/jobs", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, j := range decode[[]models.Job](t, w) {
		assert.NotEqual(t, created.ID, j.ID)
	}

	w = env.do(t, http.MethodDelete, "/api/jobs/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Job not found", decode[map[string]string](t, w)["message"])
}

func TestJobValidation(t *testing.T) {
	env := newTestEnv(t, envOptions{devAuth: true})
	token := "dev-token-local"

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "missing title", body: gin.H{"company": "Acme"}},
		{name: "blank company", body: gin.H{"title": "Engineer", "company": "   "}},
		{name: "unknown status", body: gin.H{"title": "Engineer", "company": "Acme", "status": "ghosted"}},
		{name: "unknown source", body: gin.H{"title": "Engineer", "company": "Acme", "source": "fax"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/jobs", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, w)["message"])
		})
	}

	w := env.do(t, http.MethodGet, "/api/jobs?status=ghosted", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListFiltersAndOwnership(t *testing.T) {
	env := newTestEnv(t, envOptions{devAuth: true})

	w := env.do(t, http.MethodGet, "/api/jobs?status=offer", "dev-token-x", nil)
	require.Equal(t, http.StatusOK, w.Code)
	offers := decode[[]models.Job](t, w)
	require.Len(t, offers, 1)
	assert.Equal(t, "Netflix", offers[0].Company)

	other, _, err := env.sessions.Issue("someone-else", "else@example.com")
	require.NoError(t, err)
	w = env.do(t, http.MethodGet, "/api/jobs", other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.Job](t, w))

	w = env.do(t, http.MethodDelete, "/api/jobs/1", other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthRequired(t *testing.T) {
	tests := []struct {
		name    string
		devAuth bool
		token   string
		want    int
	}{
		{name: "no header", token: "", want: http.StatusUnauthorized},
		{name: "garbage", token: "not-a-jwt", want: http.StatusUnauthorized},
		{name: "dev token rejected when dev auth off", token: "dev-token-123", want: http.StatusUnauthorized},
		{name: "dev token accepted when dev auth on", devAuth: true, token: "dev-token-123", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, envOptions{devAuth: tt.devAuth})
			w := env.do(t, http.MethodGet, "/api/jobs", tt.token, nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	env := newTestEnv(t, envOptions{})
	token, _, err := env.sessions.Issue("user-1", "a@example.com")
	require.NoError(t, err)
	w := env.do(t, http.MethodGet, "/api/jobs", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtensionSave(t *testing.T) {
	env := newTestEnv(t, envOptions{devAuth: true})

	w := env.do(t, http.MethodPost, "/api/jobs/extension/save", "dev-token-ext", gin.H{"job": gin.H{
		"title": "Platform Engineer", "company": "Hooli", "description": "Scraped text", "source": "general",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	job := decode[models.Job](t, w)
	assert.Equal(t, models.SourceManual, job.Source)
	assert.Equal(t, "Scraped text", job.JDText)

	w = env.do(t, http.MethodPost, "/api/jobs/extension/save", "dev-token-ext", gin.H{"job": gin.H{"company": "Hooli"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSOrigins(t *testing.T) {
	env := newTestEnv(t, envOptions{devAuth: true, origins: []string{"http://localhost:5173"}})
	body := gin.H{"job": gin.H{"title": "SRE", "company": "Initech"}}

	tests := []struct {
		name   string
		origin string
		want   int
	}{
		{name: "extension with unlisted id", origin: "chrome-extension://abcdefghijklmnop", want: http.StatusCreated},
		{name: "dashboard", origin: "http://localhost:5173", want: http.StatusCreated},
		{name: "unknown site", origin: "https://evil.example.com", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.doWithOrigin(t, http.MethodPost, "/api/jobs/extension/save", "dev-token-ext", tt.origin, body)
			require.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want != http.StatusForbidden {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestGoogleLogin(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		env := newTestEnv(t, envOptions{})
		w := env.do(t, http.MethodPost, "/api/auth/google", "", gin.H{"isExtension": true})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		env := newTestEnv(t, envOptions{})
		w := env.do(t, http.MethodPost, "/api/auth/google", "", gin.H{"token": "forged"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing payload", func(t *testing.T) {
		env := newTestEnv(t, envOptions{verifier: stubVerifier{err: auth.ErrMissingPayload}})
		w := env.do(t, http.MethodPost, "/api/auth/google", "", gin.H{"token": "t"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success with user store down", func(t *testing.T) {
		id := &auth.Identity{ProviderID: "g-1", Email: "ada@example.com", Name: "Ada"}
		env := newTestEnv(t, envOptions{verifier: stubVerifier{id: id}})
		w := env.do(t, http.MethodPost, "/api/auth/google", "", gin.H{"token": "t"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		res := decode[struct {
			Token string      `json:"token"`
			User  models.User `json:"user"`
		}](t, w)
		assert.Equal(t, models.PseudoUserID("ada@example.com"), res.User.ID)

		// The issued session unlocks the job routes.
		w = env.do(t, http.MethodGet, "/api/jobs", res.Token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAIEndpoints(t *testing.T) {
	env := newTestEnv(t, envOptions{devAuth: true})

	w := env.do(t, http.MethodPost, "/api/ai/cover-letter", "dev-token-ai", gin.H{"jdText": "short"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["text"], "at least 50 characters")

	long := "We are hiring a backend engineer to build Go services on Postgres and Kubernetes."
	w = env.do(t, http.MethodPost, "/api/ai/interview-questions", "dev-token-ai", gin.H{"jdText": long})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]string](t, w)["questions"], 5)

	w = env.do(t, http.MethodPost, "/api/ai/keyword-analysis", "", gin.H{"jdText": long})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAIEndpoints_EmptyBodyGetsPlaceholder(t *testing.T) {
	env := newTestEnv(t, envOptions{devAuth: true})

	tests := []struct {
		path string
		want string
	}{
		{path: "/api/ai/resume-suggestions", want: "too short for analysis"},
		{path: "/api/ai/cover-letter", want: "at least 50 characters"},
		{path: "/api/ai/interview-questions", want: "too short"},
		{path: "/api/ai/keyword-analysis", want: "Job Description too short"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := env.do(t, http.MethodPost, tt.path, "dev-token-ai", nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestAIRateLimit(t *testing.T) {
	env := newTestEnv(t, envOptions{devAuth: true, limiter: ratelimit.NewMemoryLimiter(1, time.Minute)})

	w := env.do(t, http.MethodPost, "/api/ai/resume-suggestions", "dev-token-ai", gin.H{"jdText": "x"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/api/ai/resume-suggestions", "dev-token-ai", gin.H{"jdText": "x"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Job CRUD is not limited.
	w = env.do(t, http.MethodGet, "/api/jobs", "dev-token-ai", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtract(t *testing.T) {
	env := newTestEnv(t, envOptions{devAuth: true})

	w := env.do(t, http.MethodPost, "/api/jobs/extract", "dev-token-x", gin.H{"rawText": "tiny"})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[services.ExtractionResult](t, w)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disconnected", body["dbStatus"])
	assert.Equal(t, float64(0), body["readyState"])
	assert.Equal(t, "dial tcp: connection refused", body["lastError"])
	assert.Equal(t, map[string]any{"JWT_SECRET": true}, body["envVarCheck"])
	assert.NotEmpty(t, body["timestamp"])
}

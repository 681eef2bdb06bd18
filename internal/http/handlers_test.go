package http_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	api "github.com/paytrack/authd/internal/http"
	"github.com/paytrack/authd/internal/service"
	"github.com/paytrack/authd/internal/store/drivers/sqlite"
	"github.com/paytrack/authd/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// newTestRouter assembles the full router over an in-memory store. Each call
// gets fresh rate limiter state.
func newTestRouter(t *testing.T) (*api.Router, *fakeClock) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clock := &fakeClock{now: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)}

	users := &service.UserService{
		Store:  st,
		Hasher: cryptox.NewHasher(rand.New(rand.NewPCG(7, 7))),
	}
	tokens := &service.TokenService{Store: st, Now: clock.Now}

	r := api.NewRouter("test", st, slog.New(slog.DiscardHandler))
	r.AuthService = &service.AuthService{Users: users, Tokens: tokens}
	r.UserService = users
	r.SalaryService = &service.SalaryService{Store: st}
	r.ApplyRoutes()

	return r, clock
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doGet(t *testing.T, h http.Handler, path, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

func registerUser(t *testing.T, h http.Handler, name, login, password string, salary int64) {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/user/add", map[string]any{
		"name":        name,
		"login":       login,
		"password":    password,
		"salary":      salary,
		"target_date": "2026-04-01",
	})
	require.Equal(t, http.StatusOK, rec.Code, "register %s: %s", login, rec.Body.String())
}

func loginUser(t *testing.T, h http.Handler, login, password string) string {
	t.Helper()

	rec := doForm(t, h, "/auth", url.Values{"login": {login}, "password": {password}})
	require.Equal(t, http.StatusOK, rec.Code, "login %s: %s", login, rec.Body.String())

	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, rec, &body)
	return body.AccessToken
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("success", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/user/add", map[string]any{
			"name":        "Test User",
			"login":       "test1",
			"password":    "pw12345",
			"salary":      90000,
			"target_date": "2026-04-01",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Status  bool   `json:"status"`
			Message string `json:"message"`
		}
		decodeBody(t, rec, &body)
		require.True(t, body.Status)
		require.Equal(t, "User and salary info was added.", body.Message)
	})

	t.Run("duplicate login under case folding", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/user/add", map[string]any{
			"name":        "Shadow",
			"login":       "TEST1",
			"password":    "other",
			"salary":      1,
			"target_date": "2026-04-01",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body struct {
			Error string `json:"error"`
		}
		decodeBody(t, rec, &body)
		require.Equal(t, "User with login TEST1 is exist", body.Error)
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name string
			req  map[string]any
		}{
			{"missing name", map[string]any{
				"login": "v1", "password": "pw", "salary": 1, "target_date": "2026-04-01",
			}},
			{"name too long", map[string]any{
				"name": strings.Repeat("x", 51), "login": "v2", "password": "pw",
				"salary": 1, "target_date": "2026-04-01",
			}},
			{"login too long", map[string]any{
				"name": "V", "login": strings.Repeat("x", 21), "password": "pw",
				"salary": 1, "target_date": "2026-04-01",
			}},
			{"missing password", map[string]any{
				"name": "V", "login": "v3", "salary": 1, "target_date": "2026-04-01",
			}},
			{"malformed target_date", map[string]any{
				"name": "V", "login": "v4", "password": "pw", "salary": 1,
				"target_date": "01-04-2026",
			}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				rec := doJSON(t, router, http.MethodPost, "/user/add", tc.req)
				require.Equal(t, http.StatusBadRequest, rec.Code)
			})
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/user/add", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthEndpoint(t *testing.T) {
	router, clock := newTestRouter(t)
	registerUser(t, router, "Test User", "test1", "pw12345", 90000)

	t.Run("success", func(t *testing.T) {
		rec := doForm(t, router, "/auth", url.Values{
			"login": {"test1"}, "password": {"pw12345"},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			AccessToken string `json:"access_token"`
			Expires     string `json:"expires"`
			TokenType   string `json:"token_type"`
		}
		decodeBody(t, rec, &body)
		require.NotEmpty(t, body.AccessToken)
		require.Equal(t, "Bearer", body.TokenType)

		expires, err := time.Parse("2006-01-02 15:04:05", body.Expires)
		require.NoError(t, err)
		require.Equal(t, 5*time.Minute, expires.Sub(clock.Now()))
	})

	t.Run("username field is accepted as login", func(t *testing.T) {
		rec := doForm(t, router, "/auth", url.Values{
			"username": {"test1"}, "password": {"pw12345"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown login", func(t *testing.T) {
		rec := doForm(t, router, "/auth", url.Values{
			"login": {"nobody"}, "password": {"pw12345"},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body struct {
			Error string `json:"error"`
		}
		decodeBody(t, rec, &body)
		require.Equal(t, "Login not found", body.Error)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doForm(t, router, "/auth", url.Values{
			"login": {"test1"}, "password": {"wrong"},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body struct {
			Error string `json:"error"`
		}
		decodeBody(t, rec, &body)
		require.Equal(t, "Incorrect login or password", body.Error)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := doForm(t, router, "/auth", url.Values{"login": {"test1"}})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthEndpointRateLimit(t *testing.T) {
	router, _ := newTestRouter(t)
	registerUser(t, router, "Limited", "limited", "pw12345", 1)

	// Burst of five per IP+login pair, the sixth attempt is rejected.
	for i := 0; i < 5; i++ {
		rec := doForm(t, router, "/auth", url.Values{
			"login": {"limited"}, "password": {"wrong"},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code, "attempt %d", i+1)
	}

	rec := doForm(t, router, "/auth", url.Values{
		"login": {"limited"}, "password": {"wrong"},
	})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	require.Equal(t, "Too many requests. Please try again later.", body.Error)

	// A different login from the same address keeps its own budget.
	rec = doForm(t, router, "/auth", url.Values{
		"login": {"someone-else"}, "password": {"pw"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSalaryEndpoint(t *testing.T) {
	router, clock := newTestRouter(t)
	registerUser(t, router, "Paid User", "paiduser", "pw12345", 90000)

	t.Run("missing authorization header", func(t *testing.T) {
		rec := doGet(t, router, "/salary", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body struct {
			Error string `json:"error"`
		}
		decodeBody(t, rec, &body)
		require.Equal(t, "Not authenticated", body.Error)
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := doGet(t, router, "/salary", "never-issued")
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body struct {
			Error string `json:"error"`
		}
		decodeBody(t, rec, &body)
		require.Equal(t, "Not authenticated", body.Error)
	})

	t.Run("valid token", func(t *testing.T) {
		token := loginUser(t, router, "paiduser", "pw12345")

		rec := doGet(t, router, "/salary", token)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			UserID     int64  `json:"user_id"`
			Name       string `json:"name"`
			Salary     int64  `json:"salary"`
			TargetDate string `json:"target_date"`
		}
		decodeBody(t, rec, &body)
		require.Positive(t, body.UserID)
		require.Equal(t, "Paid User", body.Name)
		require.EqualValues(t, 90000, body.Salary)
		require.Equal(t, "2026-04-01", body.TargetDate)
	})

	t.Run("expired token", func(t *testing.T) {
		token := loginUser(t, router, "paiduser", "pw12345")
		clock.Advance(service.DefaultTokenTTL + time.Second)

		rec := doGet(t, router, "/salary", token)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body struct {
			Error string `json:"error"`
		}
		decodeBody(t, rec, &body)
		require.Equal(t, "Token is expired", body.Error)
	})

	t.Run("fresh login after expiry works again", func(t *testing.T) {
		token := loginUser(t, router, "paiduser", "pw12345")

		rec := doGet(t, router, "/salary", token)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/livez", "/readyz"} {
		t.Run(path, func(t *testing.T) {
			rec := doGet(t, router, path, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var body struct {
				Status  string `json:"status"`
				Version string `json:"version"`
			}
			decodeBody(t, rec, &body)
			require.Equal(t, "ok", body.Status)
			require.Equal(t, "test", body.Version)
		})
	}
}

func TestRequestIDPropagation(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

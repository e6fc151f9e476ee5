package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Le0Vieir4/Weather-io/internal/auth"
	"github.com/Le0Vieir4/Weather-io/internal/logger"
	"github.com/Le0Vieir4/Weather-io/internal/user"
	"github.com/Le0Vieir4/Weather-io/internal/weatherlog"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	users := user.NewService(user.NewMemoryRepository())
	issuer, err := auth.NewIssuer("test-secret")
	require.NoError(t, err)

	deps := Deps{
		Auth:        auth.NewService(users, issuer, time.Hour),
		Users:       users,
		Weather:     weatherlog.NewService(weatherlog.NewMemoryRepository(), logger.NewNop()),
		Cleaner:     user.NewCleaner(users, 30, "03:00", logger.NewNop()),
		FrontendURL: "http://localhost:5173",
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, deps)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func registerUser(t *testing.T, app *fiber.App, username, email string) auth.Response {
	t.Helper()

	resp := doJSON(t, app, fiber.MethodPost, "/auth/register", fiber.Map{
		"username": username,
		"email":    email,
		"password": "pw1234567",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out auth.Response
	decode(t, resp, &out)
	return out
}

func TestRegisterAndLoginFlow(t *testing.T) {
	app := newTestApp(t)

	reg := registerUser(t, app, "alice", "a@x.com")
	assert.NotEmpty(t, reg.AccessToken)
	assert.Equal(t, "alice", reg.User.Username)

	// Duplicate email maps to 409.
	resp := doJSON(t, app, fiber.MethodPost, "/auth/register", fiber.Map{
		"username": "alice2",
		"email":    "a@x.com",
		"password": "pw1234567",
	}, "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Shape violations map to 400 before any service call.
	resp = doJSON(t, app, fiber.MethodPost, "/auth/register", fiber.Map{
		"username": "x",
		"email":    "not-an-email",
		"password": "short",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/auth/login", fiber.Map{
		"email":    "a@x.com",
		"password": "pw1234567",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login auth.Response
	decode(t, resp, &login)
	assert.NotEmpty(t, login.AccessToken)

	resp = doJSON(t, app, fiber.MethodPost, "/auth/login", fiber.Map{
		"email":    "a@x.com",
		"password": "wrong-pass",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProfileRequiresBearer(t *testing.T) {
	app := newTestApp(t)
	reg := registerUser(t, app, "alice", "a@x.com")

	resp := doJSON(t, app, fiber.MethodGet, "/auth/profile", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/auth/profile", nil, "garbage-token")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/auth/profile", nil, reg.AccessToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var identity auth.Identity
	decode(t, resp, &identity)
	assert.Equal(t, reg.User.ID, identity.ID)
	assert.Equal(t, "a@x.com", identity.Email)
}

func TestOwnershipEnforcement(t *testing.T) {
	app := newTestApp(t)
	alice := registerUser(t, app, "alice", "a@x.com")
	bob := registerUser(t, app, "bob", "b@x.com")

	// Bob cannot touch Alice's account.
	resp := doJSON(t, app, fiber.MethodPatch, "/users/"+alice.User.ID, fiber.Map{
		"firstName": "Mallory",
	}, bob.AccessToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodDelete, "/users/"+alice.User.ID, nil, bob.AccessToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Alice can.
	resp = doJSON(t, app, fiber.MethodPatch, "/users/"+alice.User.ID, fiber.Map{
		"firstName": "Alice",
	}, alice.AccessToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var pub user.Public
	decode(t, resp, &pub)
	assert.Equal(t, "Alice", pub.FirstName)
}

func TestChangePasswordRoute(t *testing.T) {
	app := newTestApp(t)
	alice := registerUser(t, app, "alice", "a@x.com")

	resp := doJSON(t, app, fiber.MethodPatch, "/users/"+alice.User.ID+"/password", fiber.Map{
		"currentPassword": "wrong-pass",
		"newPassword":     "fresh-pw-123",
	}, alice.AccessToken)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPatch, "/users/"+alice.User.ID+"/password", fiber.Map{
		"currentPassword": "pw1234567",
		"newPassword":     "fresh-pw-123",
	}, alice.AccessToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The old password no longer logs in, the new one does.
	resp = doJSON(t, app, fiber.MethodPost, "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "pw1234567",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "fresh-pw-123",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeactivateAndCleanupRoutes(t *testing.T) {
	app := newTestApp(t)
	alice := registerUser(t, app, "alice", "a@x.com")

	resp := doJSON(t, app, fiber.MethodDelete, "/users/"+alice.User.ID, nil, alice.AccessToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Deactivated accounts vanish from reads and their tokens stop working.
	resp = doJSON(t, app, fiber.MethodGet, "/users/"+alice.User.ID, nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/auth/profile", nil, alice.AccessToken)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// The scheduled-window sweep spares a freshly deactivated account.
	resp = doJSON(t, app, fiber.MethodPost, "/users/cleanup/inactive", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var sweep struct {
		Deleted int `json:"deleted"`
	}
	decode(t, resp, &sweep)
	assert.Equal(t, 0, sweep.Deleted)

	// The admin purge removes it regardless of age.
	resp = doJSON(t, app, fiber.MethodDelete, "/users/cleanup/all-inactive", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &sweep)
	assert.Equal(t, 1, sweep.Deleted)
}

func TestGetUserErrors(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/users/not-an-object-id", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/users/6543210fedcba98765432101", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func weatherBody(city, insight string) fiber.Map {
	return fiber.Map{
		"time": "2026-09-01T12:00 - America/Sao_Paulo",
		"city": city,
		"current": []fiber.Map{{
			"time":        "2026-09-01T12:00",
			"temperature": 21.4,
		}},
		"daily": []fiber.Map{{
			"date":            "2026-09-01",
			"temperatureMax":  25.0,
			"temperatureMin":  14.0,
			"rainProbability": 30,
		}},
		"aiInsight": insight,
	}
}

func TestWeatherFlow(t *testing.T) {
	app := newTestApp(t)

	// Nothing received yet.
	resp := doJSON(t, app, fiber.MethodGet, "/weather", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/weather", weatherBody("Sao Paulo", "mild day"), "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/weather", weatherBody("Santos", ""), "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/weather", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var latest weatherlog.Observation
	decode(t, resp, &latest)
	assert.Equal(t, "Santos", latest.City)
	assert.Equal(t, "mild day", latest.AIInsight, "empty insight inherits the previous one")

	resp = doJSON(t, app, fiber.MethodGet, "/weather/insight", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var insight struct {
		AIInsight *string `json:"aiInsight"`
	}
	decode(t, resp, &insight)
	require.NotNil(t, insight.AIInsight)
	assert.Equal(t, "mild day", *insight.AIInsight)

	resp = doJSON(t, app, fiber.MethodGet, "/weather/logs", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var logs []weatherlog.Observation
	decode(t, resp, &logs)
	require.Len(t, logs, 2)
	assert.Equal(t, "Santos", logs[0].City)

	resp = doJSON(t, app, fiber.MethodGet, "/weather/logs?city=sao", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &logs)
	require.Len(t, logs, 1)
	assert.Equal(t, "Sao Paulo", logs[0].City)

	// Malformed payloads never reach the store.
	resp = doJSON(t, app, fiber.MethodPost, "/weather", fiber.Map{"city": "x"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestWeatherDeleteOld(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/weather", weatherBody("Sao Paulo", ""), "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Everything is fresh, nothing matches the cutoff.
	resp = doJSON(t, app, fiber.MethodDelete, "/weather/logs/old?days=30", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Deleted int `json:"deleted"`
	}
	decode(t, resp, &out)
	assert.Equal(t, 0, out.Deleted)
}

func TestWeatherExport(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/weather/export/download", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/weather", weatherBody("Sao Paulo", "mild day"), "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/weather/export/download", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment; filename=weather_export_")

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "city,time,temperature"))
	assert.True(t, strings.HasPrefix(lines[1], "Sao Paulo,"))
}

func TestErrorBodyShape(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/users/6543210fedcba98765432101", nil, "")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	decode(t, resp, &body)
	assert.True(t, body.Error)
	assert.NotEmpty(t, body.Message)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/auth/logout", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

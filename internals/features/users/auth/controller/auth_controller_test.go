package controller_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yogacenter_backend/internals/configs"
	"yogacenter_backend/internals/databases/dbtest"
	authRoute "yogacenter_backend/internals/features/users/auth/route"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, app *fiber.App, method, path, body, token string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestAuthFlow(t *testing.T) {
	prev := configs.JWTSecret
	configs.JWTSecret = "test-secret"
	t.Cleanup(func() { configs.JWTSecret = prev })

	db := dbtest.Open(t)
	dbtest.SeedCenter(t, db)
	app := fiber.New()
	authRoute.AuthRoutes(app, db)

	status, env := call(t, app, http.MethodPost, "/api/auth/register",
		`{"user_name":"Lucia","email":"lucia@yoga.test","password":"yoga2025"}`, "")
	require.Equal(t, fiber.StatusCreated, status, env.Message)

	var session struct {
		AccessToken string `json:"access_token"`
		User        struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.Equal(t, "STUDENT", session.User.Role)
	require.NotEmpty(t, session.AccessToken)

	status, _ = call(t, app, http.MethodPost, "/api/auth/login",
		`{"email":"lucia@yoga.test","password":"wrong999"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env = call(t, app, http.MethodGet, "/api/auth/me", "", session.AccessToken)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var me struct {
		Centers []json.RawMessage `json:"centers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Len(t, me.Centers, 1)

	status, _ = call(t, app, http.MethodPost, "/api/auth/logout", "", session.AccessToken)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, http.MethodGet, "/api/auth/me", "", session.AccessToken)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "alice@example.com",
		"password": "TestPassword123!",
		"userName": "Alice",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	reg := decodeData[RegisterResponse](t, resp.Body.Bytes())
	assert.NotEmpty(t, reg.UserID)
	assert.Equal(t, "Account created successfully", reg.Message)

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	login := decodeData[AuthResponse](t, resp.Body.Bytes())
	assert.Equal(t, reg.UserID, login.UserID)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	assert.Equal(t, "Bearer", login.TokenType)
	assert.Positive(t, login.ExpiresIn)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	ts := newTestServer(t)
	ts.registerUser(t, "alice@example.com", "Alice")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "alice@example.com",
		"password": "TestPassword123!",
		"userName": "Other Alice",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "The email address is already in use by another account.")
}

func TestRegister_RejectsInvalidInput(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "not-an-email",
		"password": "TestPassword123!",
		"userName": "Alice",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "alice@example.com",
		"password": "short",
		"userName": "Alice",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLogin_WrongPasswordUnauthorized(t *testing.T) {
	ts := newTestServer(t)
	ts.registerUser(t, "alice@example.com", "Alice")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "WrongPassword999",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "The supplied auth credential is incorrect, malformed or has expired.")
}

func TestRefreshRotatesTokens(t *testing.T) {
	ts := newTestServer(t)

	ts.registerUser(t, "alice@example.com", "Alice")
	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	login := decodeData[AuthResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refreshToken": login.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	refreshed := decodeData[AuthResponse](t, resp.Body.Bytes())
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The spent refresh token no longer works.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refreshToken": login.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	ts := newTestServer(t)

	ts.registerUser(t, "alice@example.com", "Alice")
	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	login := decodeData[AuthResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"sessionId": login.SessionID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refreshToken": login.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestChangePassword(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com", "Alice")

	t.Run("short new password rejected before reauthentication", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/change-password",
			"Authorization: "+token,
			map[string]any{
				"currentPassword": "TestPassword123!",
				"newPassword":     "short",
			})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, resp.Body.String(), "Password must be at least 8 characters")
	})

	t.Run("wrong current password fails", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/change-password",
			"Authorization: "+token,
			map[string]any{
				"currentPassword": "WrongPassword999",
				"newPassword":     "BrandNewPassword1",
			})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("correct current password succeeds", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/change-password",
			"Authorization: "+token,
			map[string]any{
				"currentPassword": "TestPassword123!",
				"newPassword":     "BrandNewPassword1",
			})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		resp = ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "alice@example.com",
			"password": "BrandNewPassword1",
		})
		assert.Equal(t, http.StatusOK, resp.Code)
	})
}

func TestDeleteAccount(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com", "Alice")

	resp := ts.api.Delete("/api/v1/auth/account", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "TestPassword123!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Post("/api/v1/auth/forgot-password", map[string]any{
		"email": "nobody@example.com",
	})
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Contains(t, resp.Body.String(), "There is no user record corresponding to this identifier.")
}

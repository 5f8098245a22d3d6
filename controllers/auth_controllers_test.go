package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"voice-notes/models"
	"voice-notes/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func setupAuthApp() *fiber.App {
	app := fiber.New()
	authController := NewAuthController(MockAuthService{}, utils.DiscardLogger())
	app.Post("/auth/login", authController.Login)
	app.Post("/auth/register", authController.Register)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, v interface{}) (int, map[string]string) {
	t.Helper()
	body, _ := json.Marshal(v)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	var respBody map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&respBody)
	return resp.StatusCode, respBody
}

func TestLogin_Success(t *testing.T) {
	status, body := postJSON(t, setupAuthApp(), "/auth/login", models.Credentials{Email: "ana@example.com", Password: "secret1"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "signed-token", body["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	status, body := postJSON(t, setupAuthApp(), "/auth/login", models.Credentials{Email: "ana@example.com", Password: "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["error"])
	assert.Empty(t, body["token"])
}

func TestRegister(t *testing.T) {
	app := setupAuthApp()

	status, body := postJSON(t, app, "/auth/register", models.Credentials{Email: "new@example.com", Password: "secret1"})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "new@example.com", body["email"])
	assert.NotEmpty(t, body["id"])

	status, body = postJSON(t, app, "/auth/register", models.Credentials{Email: "taken@example.com", Password: "secret1"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "Email already registered", body["error"])
}

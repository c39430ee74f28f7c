package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"ai-tablechat-be/pkg/assistant"
	"ai-tablechat-be/pkg/host"
	"ai-tablechat-be/pkg/store"
	"ai-tablechat-be/pkg/tabledata"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fiber error", fiber.NewError(fiber.StatusConflict, "x"), fiber.StatusConflict},
		{"validation", &ValidationError{Fields: map[string]string{"TableId": "required"}}, fiber.StatusBadRequest},
		{"session", fmt.Errorf("load: %w", store.ErrSessionNotFound), fiber.StatusNotFound},
		{"host not found", fmt.Errorf("failed to retrieve table data: %w", host.ErrNotFound), fiber.StatusNotFound},
		{"no view", fmt.Errorf("failed to retrieve table data: %w", tabledata.ErrNoView), fiber.StatusUnprocessableEntity},
		{"inference", &assistant.InferenceError{Cause: errors.New("401")}, fiber.StatusBadGateway},
		{"other", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func decode(t *testing.T, body io.Reader) Response[any] {
	t.Helper()
	var res Response[any]
	require.NoError(t, json.NewDecoder(body).Decode(&res))
	return res
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/missing", func(ctx *fiber.Ctx) error {
		return fmt.Errorf("get session: %w", store.ErrSessionNotFound)
	})
	app.Get("/ok", func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("fine", 1))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body := decode(t, resp.Body)
	assert.False(t, body.Success)
	assert.Equal(t, fiber.StatusNotFound, body.Code)

	resp, err = app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, decode(t, resp.Body).Success)
}

func TestValidateRequest(t *testing.T) {
	type request struct {
		TableId string `validate:"required"`
		Sample  int    `validate:"omitempty,min=1,max=50"`
	}

	assert.NoError(t, ValidateRequest(request{TableId: "tbl"}))

	err := ValidateRequest(request{Sample: 99})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"TableId": "required", "Sample": "max"}, verr.Fields)
}

func TestJwtMiddleware(t *testing.T) {
	const secret = "s3cret"
	app := fiber.New()
	app.Use(NewJwtMiddleware(secret))
	app.Get("/", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })

	sign := func(key string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		s, err := token.SignedString([]byte(key))
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong key", "Bearer " + sign("other"), fiber.StatusUnauthorized},
		{"valid", "Bearer " + sign(secret), fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestJwtMiddleware_DisabledWithoutSecret(t *testing.T) {
	app := fiber.New()
	app.Use(NewJwtMiddleware(""))
	app.Get("/", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

package serverutils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// newAuthedApp mounts the middleware in front of a handler using the
// same locals pattern the controllers do.
func newAuthedApp(t *testing.T) *fiber.App {
	t.Setenv("JWT_SECRET", testSecret)
	app := fiber.New()
	app.Use(JwtMiddleware)
	app.Get("/", func(ctx *fiber.Ctx) error {
		userId, err := UserID(ctx)
		if err != nil {
			return err
		}
		return ctx.SendString(userId.String())
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestJwtMiddlewareValidToken(t *testing.T) {
	app := newAuthedApp(t)
	userId := uuid.New()

	resp := doRequest(t, app, signToken(t, jwt.MapClaims{"user_id": userId.String()}))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestJwtMiddlewareMissingToken(t *testing.T) {
	app := newAuthedApp(t)

	resp := doRequest(t, app, "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestJwtMiddlewareRejectsTokenWithoutUserId(t *testing.T) {
	app := newAuthedApp(t)

	// Validly signed, but carries only sub. Must be a 401, not a panic
	// in the handler's locals assertion.
	resp := doRequest(t, app, signToken(t, jwt.MapClaims{"sub": "someone"}))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestJwtMiddlewareRejectsNonStringUserId(t *testing.T) {
	app := newAuthedApp(t)

	resp := doRequest(t, app, signToken(t, jwt.MapClaims{"user_id": 12345}))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestJwtMiddlewareRejectsGarbageUserId(t *testing.T) {
	app := newAuthedApp(t)

	// A non-uuid claim must not silently operate as the zero account.
	resp := doRequest(t, app, signToken(t, jwt.MapClaims{"user_id": "not-a-uuid"}))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestJwtMiddlewareRejectsWrongSignature(t *testing.T) {
	app := newAuthedApp(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": uuid.New().String()})
	signed, err := token.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	resp := doRequest(t, app, signed)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bakery-api/internal/auth"
	"bakery-api/internal/domain"
	"bakery-api/internal/middleware"
	"bakery-api/internal/repository/memstore"
	"bakery-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	router http.Handler
	store  *memstore.Store
	issuer *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memstore.New()
	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	logger := zap.NewNop()

	userService := service.NewUserService(store.Users(), auth.NewPasswordHasher(bcrypt.MinCost), issuer)
	authMiddleware := middleware.AuthMiddleware(issuer, logger)

	r := chi.NewRouter()
	NewUserHandler(userService, logger).RegisterRoutes(r, authMiddleware)
	NewProductHandler(service.NewProductService(store.Products()), logger).RegisterRoutes(r, authMiddleware)
	NewInventoryHandler(service.NewInventoryService(store.Inventory()), logger).RegisterRoutes(r, authMiddleware)
	NewEventHandler(service.NewEventService(store.Events()), logger).RegisterRoutes(r, authMiddleware)

	return &testEnv{router: r, store: store, issuer: issuer}
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Message string                       `json:"message"`
	Data    json.RawMessage              `json:"data"`
	Code    string                       `json:"code"`
	Errors  []middleware.ValidationError `json:"errors"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return env
}

func hasField(env envelope, field string) bool {
	for _, e := range env.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// signUp registers an account and returns a bearer token for it.
func (e *testEnv) signUp(t *testing.T, email, role string) string {
	t.Helper()
	w := e.do(http.MethodPost, "/api/users", "", map[string]string{
		"name": "Baker", "email": email, "password": "secret1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", email, w.Code, w.Body.String())
	}

	if role == domain.RoleAdmin {
		user, err := e.store.Users().FindByEmail(context.Background(), email)
		if err != nil {
			t.Fatalf("find user: %v", err)
		}
		user.Role = domain.RoleAdmin
		if err := e.store.Users().Update(context.Background(), user); err != nil {
			t.Fatalf("promote user: %v", err)
		}
	}

	w = e.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": email, "password": "secret1"})
	var login LoginResponse
	decodeEnvelope(t, w, &login)
	if login.Token == "" {
		t.Fatalf("login %s returned no token: %s", email, w.Body.String())
	}
	return login.Token
}

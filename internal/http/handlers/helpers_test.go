package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	handler "github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/router"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/metrics"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/rogerio-castellano/inventory-ledger/internal/service"
)

var fixedNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	router   http.Handler
	svc      *service.Service
	registry *prometheus.Registry
	token    string
}

// setup wires a fresh in-memory ledger behind the full router and logs in as admin.
func setup(t *testing.T) *testEnv {
	t.Helper()

	rl.CleanupAllVisitors()
	rl.Configure(1000, 1000)
	t.Cleanup(rl.CleanupAllVisitors)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc, err := service.New(context.Background(), repo.NewInMemoryStateRepository(),
		service.WithMetrics(m),
		service.WithLogger(logger.Nop()),
		service.WithLocation(time.UTC),
		service.WithClock(func() time.Time { return fixedNow }),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler.SetService(svc)

	users := repo.NewInMemoryUserRepository()
	handler.SetUserRepo(users)
	addUser(t, users, "admin", "secret1", "admin")
	addUser(t, users, "clerk", "secret2", "operator")

	env := &testEnv{
		router:   router.NewRouter(router.Options{Logger: logger.Nop(), Metrics: m, Gatherer: reg}),
		svc:      svc,
		registry: reg,
	}
	env.token = env.login(t, "admin", "secret1")
	return env
}

func addUser(t *testing.T, users repo.UserRepository, username, password, role string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := users.CreateUser(models.User{Username: username, PasswordHash: hash, Role: role}); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	w := e.do(http.MethodPost, "/login", "", handler.UserLogin{Username: username, Password: password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", username, w.Code, w.Body.String())
	}
	var resp handler.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("token decoding failed: %v", err)
	}
	return resp.Token
}

// do sends body as JSON when it is not nil.
func (e *testEnv) do(method, target, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(fmt.Sprintf("encode body: %v", err))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(kind, filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("file", filename)
	part.Write(content)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/uploads/"+kind, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) record(t *testing.T, req handler.TransactionRequest) handler.TransactionResult {
	t.Helper()
	w := e.do(http.MethodPost, "/transactions", e.token, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("record %s %s: expected 201, got %d: %s", req.Type, req.SKU, w.Code, w.Body.String())
	}
	var res handler.TransactionResult
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return res
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"finbook/pkg/config"
	"finbook/pkg/ledger"
	"finbook/pkg/token"
	"finbook/pkg/users"
	"finbook/storage"
)

// performRequest runs one request against the router, optionally with a
// bearer token.
func performRequest(r http.Handler, method, path string, body io.Reader, bearer string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// Integration tests are opt-in: set DB_DSN_TEST=1 and
	// FINBOOK_DATABASE_DSN to a throwaway Postgres database.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	t.Setenv("FINBOOK_JWT_SECRET", "integration-test-secret")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	db, err := openDB(cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.Default()
	userSvc := users.NewService(storage.NewUserStore(db), users.BcryptHasher{Cost: cfg.Security.BcryptCost})
	ledgerSvc := ledger.NewService(storage.NewEntryStore(db))
	issuer := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.ExpireMinutes)
	newServer(userSvc, ledgerSvc, issuer).setupRoutes(r)
	return r
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)
	email := fmt.Sprintf("user-%d@example.com", time.Now().UnixNano())

	// 1. Register
	body, _ := json.Marshal(map[string]string{"name": "User One", "email": email, "password": "pass-12345"})
	resp := performRequest(r, http.MethodPost, "/api/users", bytes.NewReader(body), "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var registered struct {
		ID uint `json:"id"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &registered)
	if registered.ID == 0 {
		t.Fatalf("no user id in register response: %s", resp.Body.String())
	}

	// 2. Duplicate registration is rejected
	resp = performRequest(r, http.MethodPost, "/api/users", bytes.NewReader(body), "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email got %d", resp.Code)
	}

	// 3. Authenticate
	body, _ = json.Marshal(map[string]string{"email": email, "password": "pass-12345"})
	resp = performRequest(r, http.MethodPost, "/api/users/authenticate", bytes.NewReader(body), "")
	if resp.Code != http.StatusOK {
		t.Fatalf("authenticate failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &login)
	if login.Token == "" {
		t.Fatalf("empty token in response: %s", resp.Body.String())
	}

	// 4. Wrong password is a 401
	body, _ = json.Marshal(map[string]string{"email": email, "password": "wrong"})
	resp = performRequest(r, http.MethodPost, "/api/users/authenticate", bytes.NewReader(body), "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password got %d", resp.Code)
	}

	// 5. Create entries; caller-supplied status must be overridden
	mkEntry := func(desc, amount, typ string) uint {
		b, _ := json.Marshal(map[string]any{
			"description": desc, "month": 3, "year": 2025,
			"amount": amount, "type": typ, "status": "CONFIRMED",
			"user_id": registered.ID,
		})
		resp := performRequest(r, http.MethodPost, "/api/entries", bytes.NewReader(b), login.Token)
		if resp.Code != http.StatusCreated {
			t.Fatalf("create entry failed status=%d body=%s", resp.Code, resp.Body.String())
		}
		var created struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
		}
		_ = json.Unmarshal(resp.Body.Bytes(), &created)
		if created.Status != "PENDING" {
			t.Fatalf("expected PENDING status got %s", created.Status)
		}
		return created.ID
	}
	incomeID := mkEntry("Salary", "100.00", "INCOME")
	expenseID := mkEntry("Rent payment", "30.00", "EXPENSE")

	// 6. Validation error surfaces the first failing rule
	b, _ := json.Marshal(map[string]any{"description": "", "month": 0, "user_id": registered.ID})
	resp = performRequest(r, http.MethodPost, "/api/entries", bytes.NewReader(b), login.Token)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid entry got %d", resp.Code)
	}

	// 7. Search by description substring
	resp = performRequest(r, http.MethodGet,
		fmt.Sprintf("/api/entries?user=%d&description=rent", registered.ID), nil, login.Token)
	if resp.Code != http.StatusOK {
		t.Fatalf("search failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var found []struct {
		ID uint `json:"id"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &found)
	if len(found) != 1 || found[0].ID != expenseID {
		t.Fatalf("expected only the rent entry, got %s", resp.Body.String())
	}

	// 8. Update status
	b, _ = json.Marshal(map[string]string{"status": "CONFIRMED"})
	resp = performRequest(r, http.MethodPut,
		fmt.Sprintf("/api/entries/%d/status", incomeID), bytes.NewReader(b), login.Token)
	if resp.Code != http.StatusOK {
		t.Fatalf("update status failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 9. Balance: 100.00 income - 30.00 expense
	resp = performRequest(r, http.MethodGet,
		fmt.Sprintf("/api/users/%d/balance", registered.ID), nil, login.Token)
	if resp.Code != http.StatusOK {
		t.Fatalf("balance failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var bal struct {
		Balance      string `json:"balance"`
		BalanceCents int64  `json:"balance_cents"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &bal)
	if bal.BalanceCents != 7000 {
		t.Fatalf("expected balance 7000 cents got %d (%s)", bal.BalanceCents, bal.Balance)
	}

	// 10. Delete, then deleting again is rejected
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/api/entries/%d", expenseID), nil, login.Token)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/api/entries/%d", expenseID), nil, login.Token)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 deleting a missing entry got %d", resp.Code)
	}

	// 11. Protected endpoints require a token
	resp = performRequest(r, http.MethodGet,
		fmt.Sprintf("/api/users/%d/balance", registered.ID), nil, "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

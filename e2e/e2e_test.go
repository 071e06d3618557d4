//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"softdesk-go/internal/auth"
	"softdesk-go/internal/config"
	"softdesk-go/internal/db"
	commentdomain "softdesk-go/internal/domain/comment"
	identitydomain "softdesk-go/internal/domain/identity"
	issuedomain "softdesk-go/internal/domain/issue"
	projectdomain "softdesk-go/internal/domain/project"
	commentrepo "softdesk-go/internal/repository/postgres/comment"
	identityrepo "softdesk-go/internal/repository/postgres/identity"
	issuerepo "softdesk-go/internal/repository/postgres/issue"
	projectrepo "softdesk-go/internal/repository/postgres/project"
	"softdesk-go/internal/transport/httpserver"
	"softdesk-go/internal/transport/httpserver/handler"
	"softdesk-go/pkg/logger"
	"gorm.io/gorm"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.New(io.Discard, slog.LevelError, "text")

	dbConn, err := db.NewPostgres(config.DBConfig{DSN: dsn}, log)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := dbConn.Exec("TRUNCATE comments, issues, contributors, projects, users CASCADE").Error; err != nil {
		t.Fatalf("truncate: %v", err)
	}

	identityService := identitydomain.NewService(identityrepo.NewPostgres(dbConn), 16)
	projectService := projectdomain.NewService(projectrepo.NewPostgres(dbConn))
	issueService := issuedomain.NewService(issuerepo.NewPostgres(dbConn))
	commentService := commentdomain.NewService(commentrepo.NewPostgres(dbConn))

	tokens := auth.NewIssuer("e2e-secret", 15*time.Minute, 24*time.Hour)
	handlers := handler.New(identityService, projectService, issueService, commentService, tokens, log)
	router := httpserver.NewRouter(handlers, tokens)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, db: dbConn}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	result := make(map[string]interface{})
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &result)
	}
	return resp.StatusCode, result
}

func (e *testEnv) signupAndLogin(t *testing.T, username string) string {
	t.Helper()

	status, _ := e.request(t, http.MethodPost, "/api/signup", "", map[string]interface{}{
		"username":         username,
		"email":            username + "@example.com",
		"birthdate":        "1990-05-20",
		"password":         "secret123",
		"password_confirm": "secret123",
	})
	if status != http.StatusCreated {
		t.Fatalf("signup %s: status %d", username, status)
	}

	status, body := e.request(t, http.MethodPost, "/api/login", "", map[string]interface{}{
		"username": username,
		"password": "secret123",
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d", username, status)
	}
	token, _ := body["access"].(string)
	if token == "" {
		t.Fatalf("login %s: missing access token", username)
	}
	return token
}

func TestProjectLifecycleEndToEnd(t *testing.T) {
	env := setupE2E(t)

	authorToken := env.signupAndLogin(t, "author")
	outsiderToken := env.signupAndLogin(t, "outsider")

	status, proj := env.request(t, http.MethodPost, "/api/projects", authorToken, map[string]interface{}{
		"title": "Tracker",
		"type":  "back-end",
	})
	if status != http.StatusCreated {
		t.Fatalf("create project: status %d", status)
	}
	projectID, _ := proj["id"].(string)
	if projectID == "" {
		t.Fatalf("create project: missing id")
	}

	base := fmt.Sprintf("/api/projects/%s", projectID)

	// A non-member can neither read the project nor its issues.
	if status, _ := env.request(t, http.MethodGet, base, outsiderToken, nil); status != http.StatusForbidden {
		t.Fatalf("outsider get project: status %d", status)
	}
	if status, _ := env.request(t, http.MethodGet, base+"/issues", outsiderToken, nil); status != http.StatusForbidden {
		t.Fatalf("outsider list issues: status %d", status)
	}

	status, issue := env.request(t, http.MethodPost, base+"/issues", authorToken, map[string]interface{}{
		"title":    "Crash on login",
		"tag":      "BUG",
		"priority": "HIGH",
	})
	if status != http.StatusCreated {
		t.Fatalf("create issue: status %d", status)
	}
	issueID, _ := issue["id"].(string)

	status, comment := env.request(t, http.MethodPost, base+"/issues/"+issueID+"/comments", authorToken, map[string]interface{}{
		"title": "Stack trace attached",
	})
	if status != http.StatusCreated {
		t.Fatalf("create comment: status %d", status)
	}
	if uuid, _ := comment["uuid"].(string); uuid == "" {
		t.Fatalf("create comment: missing uuid token")
	}

	// Delete on a project with issues archives it and finishes its issues.
	if status, _ := env.request(t, http.MethodDelete, base, authorToken, nil); status != http.StatusNoContent {
		t.Fatalf("delete project: status %d", status)
	}
	status, got := env.request(t, http.MethodGet, base, authorToken, nil)
	if status != http.StatusOK {
		t.Fatalf("get archived project: status %d", status)
	}
	if got["status"] != "Archived" {
		t.Fatalf("expected Archived, got %v", got["status"])
	}
	status, gotIssue := env.request(t, http.MethodGet, base+"/issues/"+issueID, authorToken, nil)
	if status != http.StatusOK {
		t.Fatalf("get finished issue: status %d", status)
	}
	if gotIssue["status"] != "Finished" {
		t.Fatalf("expected Finished, got %v", gotIssue["status"])
	}

	// A second delete is no longer actionable.
	if status, _ := env.request(t, http.MethodDelete, base, authorToken, nil); status != http.StatusNotFound {
		t.Fatalf("second delete project: status %d", status)
	}
}

func TestAuthRequired(t *testing.T) {
	env := setupE2E(t)

	if status, _ := env.request(t, http.MethodGet, "/api/projects", "", nil); status != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list projects: status %d", status)
	}
	if status, _ := env.request(t, http.MethodGet, "/api/health", "", nil); status != http.StatusOK {
		t.Fatalf("health: status %d", status)
	}
}

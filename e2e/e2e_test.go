//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"babycare-go/internal/config"
	"babycare-go/internal/db"
	babydomain "babycare-go/internal/domain/baby"
	familydomain "babycare-go/internal/domain/family"
	plandomain "babycare-go/internal/domain/plan"
	postdomain "babycare-go/internal/domain/post"
	recorddomain "babycare-go/internal/domain/record"
	taskdomain "babycare-go/internal/domain/task"
	userdomain "babycare-go/internal/domain/user"
	babyrepo "babycare-go/internal/repository/postgres/baby"
	familyrepo "babycare-go/internal/repository/postgres/family"
	planrepo "babycare-go/internal/repository/postgres/plan"
	postrepo "babycare-go/internal/repository/postgres/post"
	recordrepo "babycare-go/internal/repository/postgres/record"
	taskrepo "babycare-go/internal/repository/postgres/task"
	userrepo "babycare-go/internal/repository/postgres/user"
	"babycare-go/internal/transport/httpserver"
	"babycare-go/internal/transport/httpserver/handler"
	"babycare-go/pkg/logger"
	"babycare-go/pkg/token"

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

	log := logger.NewFromEnv()
	cfg := config.Config{
		DB:     config.DBConfig{DSN: dsn},
		JWT:    config.JWTConfig{Secret: "e2e-secret", AccessTTL: time.Hour},
		Family: config.FamilyConfig{MaxMembers: 10, MaxBabies: 5, CodeLength: 8},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	limits := familydomain.Limits{
		MaxMembers: cfg.Family.MaxMembers,
		MaxBabies:  cfg.Family.MaxBabies,
		CodeLength: cfg.Family.CodeLength,
	}

	families := familydomain.NewService(familyrepo.NewPostgres(dbConn), familydomain.NoopCache(), limits)
	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	babies := babydomain.NewService(babyrepo.NewPostgres(dbConn), families, limits)
	tasks := taskdomain.NewService(taskrepo.NewPostgres(dbConn), families)
	posts := postdomain.NewService(postrepo.NewPostgres(dbConn), families)
	records := recorddomain.NewService(recordrepo.NewPostgres(dbConn), families)
	plans := plandomain.NewService(planrepo.NewPostgres(dbConn), families)

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	handlers := handler.New(users, families, babies, tasks, posts, records, plans, tokens, log)

	router := httpserver.NewRouter(cfg, handlers, tokens)
	server := httptest.NewServer(router)

	return &testEnv{server: server, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE plan_activities, education_plans, growth_records, post_likes, posts, task_assignees, tasks, babies, members, families, users RESTART IDENTITY CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, bearer string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

func registerUser(t *testing.T, env *testEnv, username string) string {
	t.Helper()

	resp, body := requestJSON(t, env.server.Client(), http.MethodPost, env.server.URL+"/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, resp.StatusCode, body)
	}

	var parsed struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("parse register response: %v", err)
	}
	return parsed.Token
}

func TestFamilyLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := env.server.Client()

	creatorToken := registerUser(t, env, "alice")
	joinerToken := registerUser(t, env, "bob")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families", creatorToken, map[string]string{
		"name": "Smiths",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create family: status %d body %s", resp.StatusCode, body)
	}

	var created struct {
		ID         string `json:"id"`
		InviteCode string `json:"invite_code"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("parse family: %v", err)
	}
	if len(created.InviteCode) != 8 {
		t.Fatalf("expected 8-char invite code, got %q", created.InviteCode)
	}

	// A second family by the same creator is rejected.
	resp, _ = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families", creatorToken, map[string]string{
		"name": "Smiths II",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second create: expected 409, got %d", resp.StatusCode)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families/join", joinerToken, map[string]string{
		"code": created.InviteCode,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join family: status %d body %s", resp.StatusCode, body)
	}

	// Joining twice conflicts.
	resp, _ = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families/join", joinerToken, map[string]string{
		"code": created.InviteCode,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second join: expected 409, got %d", resp.StatusCode)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/families/"+created.ID+"/members", creatorToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list members: status %d body %s", resp.StatusCode, body)
	}
	var members []struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(body, &members); err != nil {
		t.Fatalf("parse members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
}

func TestBabyAndContentFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := env.server.Client()

	creatorToken := registerUser(t, env, "carol")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families", creatorToken, map[string]string{
		"name": "Jones",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create family: status %d body %s", resp.StatusCode, body)
	}
	var fam struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &fam); err != nil {
		t.Fatalf("parse family: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/babies", creatorToken, map[string]interface{}{
		"family_id": fam.ID,
		"name":      "Sam",
		"gender":    "male",
		"birthdate": "2025-04-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create baby: status %d body %s", resp.StatusCode, body)
	}
	var baby struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &baby); err != nil {
		t.Fatalf("parse baby: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/records", creatorToken, map[string]interface{}{
		"baby_id": baby.ID,
		"type":    "milestone",
		"title":   "First smile",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create record: status %d body %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/babies/"+baby.ID+"/records?type=milestone", creatorToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list records: status %d body %s", resp.StatusCode, body)
	}
	var records struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(body, &records); err != nil {
		t.Fatalf("parse records: %v", err)
	}
	if records.Total != 1 {
		t.Fatalf("expected 1 milestone record, got %d", records.Total)
	}

	// An outsider cannot read the baby's records.
	outsiderToken := registerUser(t, env, "mallory")
	resp, _ = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/babies/"+baby.ID+"/records", outsiderToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("outsider records: expected 403, got %d", resp.StatusCode)
	}
}

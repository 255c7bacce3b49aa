package handlers

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"fitness-ranking-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// unreachableDB opens a gorm handle that connects lazily, so route wiring can
// be exercised without a database. Anything that actually queries gets a
// connection error back, never a panic.
func unreachableDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "host=127.0.0.1 port=1 user=none password=none dbname=none sslmode=disable"
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("failed to open lazy DB handle: %v", err)
	}
	return db
}

func testApp(t *testing.T) *fiber.App {
	db := unreachableDB(t)
	rankingService := services.NewRankingService(db)
	teamService := services.NewTeamService(db, rankingService)

	app := fiber.New()
	SetupTeamRoutes(app, teamService)
	SetupRankingRoutes(app, rankingService)
	return app
}

// Public reads must work without user headers no matter what order the route
// files register in.
func TestPublicRoutesSkipUserContext(t *testing.T) {
	app := testApp(t)

	for _, path := range []string{
		"/teams/t1",
		"/teams/t1/members",
		"/teams/t1/rankings",
		"/teams/t1/members/m1/score",
	} {
		req := httptest.NewRequest("GET", path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode == fiber.StatusUnauthorized {
			t.Errorf("GET %s without user headers returned 401; route must be public", path)
		}
	}
}

func TestSecuredRoutesRequireUserContext(t *testing.T) {
	app := testApp(t)

	tests := []struct{ method, path string }{
		{"POST", "/teams"},
		{"DELETE", "/teams/t1"},
		{"POST", "/teams/t1/logs"},
		{"GET", "/teams/t1/logs"},
		{"POST", "/teams/t1/rankings/recompute"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tt.method, tt.path, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("%s %s without X-User-ID returned %d; want 401", tt.method, tt.path, resp.StatusCode)
		}
	}
}

// With user context present the middleware passes through and the handler
// answers — here with a JSON error body, since the DB is unreachable.
func TestDeleteTeamAnswersWithJSONBody(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest("DELETE", "/teams/t1", nil)
	req.Header.Set("X-User-ID", "u1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("DELETE /teams/t1: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d; want 500 with the DB down", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "failed to delete team") {
		t.Errorf("expected a JSON error body, got %q", string(body))
	}
}

func TestCreateTeamRejectsInvalidJSON(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest("POST", "/teams", strings.NewReader("{not json"))
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("POST /teams: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d; want 400 for malformed JSON", resp.StatusCode)
	}
}

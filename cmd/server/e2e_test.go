package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lza6/NooMiNav-optimization/pkg/adapters/handler"
	"github.com/lza6/NooMiNav-optimization/pkg/adapters/repository/document"
	"github.com/lza6/NooMiNav-optimization/pkg/config"
	"github.com/lza6/NooMiNav-optimization/pkg/core/domain"
	"github.com/lza6/NooMiNav-optimization/pkg/core/services"
)

func TestIntegration(t *testing.T) {
	// 1. Setup store on a temp document
	repo, err := document.NewDocumentRepository(filepath.Join(t.TempDir(), "portal.json"))
	if err != nil {
		t.Fatalf("Failed to init store: %v", err)
	}

	cfg := &config.Config{
		Title:         "Test Portal",
		AdminPassword: "test123",
		JWTSecret:     "testsecret",
	}

	dir := domain.NewDirectory(
		[]domain.LinkRecord{
			{ID: "test1", Name: "Site One", Emoji: "🚀", URL: "https://one.example.com", BackupURL: "https://one-backup.example.com"},
			{ID: "test2", Name: "Site Two", URL: "https://two.example.com"},
		},
		[]domain.FriendRecord{{ID: "friend1", Name: "A Friend", URL: "https://friend.example.com"}},
	)

	// 2. Setup services + router
	tracker := services.NewTrackerService(repo)
	resolver := services.NewResolverService(dir, tracker)
	dashboard := services.NewDashboardService(dir, repo)
	mux := handler.NewRouter(cfg, dir, resolver, dashboard, tracker)

	server := httptest.NewServer(mux)
	defer server.Close()

	client := server.Client()
	// Don't follow redirects automatically so Location can be checked
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	// TEST 1: Redirect
	resp, err := client.Get(server.URL + "/go/test1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Errorf("Redirect expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "https://one.example.com" {
		t.Errorf("Redirect location mismatch: %s", loc)
	}

	// TEST 2: Backup redirect
	resp, err = client.Get(server.URL + "/go/test1/backup")
	if err != nil {
		t.Fatal(err)
	}
	if loc := resp.Header.Get("Location"); loc != "https://one-backup.example.com" {
		t.Errorf("Backup location mismatch: %s", loc)
	}

	// TEST 3: Backup requested without one configured falls back to primary
	resp, err = client.Get(server.URL + "/go/test2/backup")
	if err != nil {
		t.Fatal(err)
	}
	if loc := resp.Header.Get("Location"); loc != "https://two.example.com" {
		t.Errorf("Fallback location mismatch: %s", loc)
	}

	// TEST 4: Unknown id
	resp, err = client.Get(server.URL + "/go/nope")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Unknown id expected 404, got %d", resp.StatusCode)
	}

	// TEST 5: Friend redirect
	resp, err = client.Get(server.URL + "/fgo/friend1")
	if err != nil {
		t.Fatal(err)
	}
	if loc := resp.Header.Get("Location"); loc != "https://friend.example.com" {
		t.Errorf("Friend location mismatch: %s", loc)
	}

	// TEST 6: Admin login
	resp, err = client.PostForm(server.URL+"/admin/login", url.Values{"password": {"test123"}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Login expected 200, got %d", resp.StatusCode)
	}
	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			session = c
		}
	}
	if session == nil {
		t.Fatal("Login did not set a session cookie")
	}

	// TEST 7: Logs API requires auth
	resp, err = client.Get(server.URL + "/admin/api/logs?id=test1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Unauthenticated logs expected 401, got %d", resp.StatusCode)
	}

	// TEST 8: Logs API shows the recorded clicks.
	// Recording is async; retry until the background writes land.
	monthKey := domain.MonthKeyAt(time.Now())
	var rows []struct {
		ClickTime string `json:"click_time"`
	}
	deadline := time.Now().Add(3 * time.Second)
	for {
		req, _ := http.NewRequest("GET", server.URL+"/admin/api/logs?id=test1&m="+monthKey, nil)
		req.AddCookie(session)
		resp, err = client.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		rows = rows[:0]
		if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if len(rows) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("logs for test1: got %d rows, want 1", len(rows))
		}
		time.Sleep(10 * time.Millisecond)
	}

	// TEST 9: Dashboard overview. The backup click tracks under the
	// synthetic test1_backup id, which is outside the directory and so
	// outside the total; the remaining three clicks count. Recording is
	// async, so retry until they all land.
	var overview domain.Overview
	deadline = time.Now().Add(3 * time.Second)
	for {
		req, _ := http.NewRequest("GET", server.URL+"/admin/api/dashboard", nil)
		req.AddCookie(session)
		resp, err = client.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Dashboard expected 200, got %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&overview); err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if overview.TotalClicks == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("overview total = %d, want 3", overview.TotalClicks)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(overview.Links) != 2 || len(overview.Friends) != 1 {
		t.Errorf("overview entries: %d links, %d friends", len(overview.Links), len(overview.Friends))
	}

	// TEST 10: Healthz exposes the failure counter
	resp, err = client.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	var health struct {
		Message        string `json:"message"`
		RecordFailures uint64 `json:"record_failures"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if health.Message != "ok" || health.RecordFailures != 0 {
		t.Errorf("healthz = %+v", health)
	}

	// TEST 11: Directory listing
	resp, err = client.Get(server.URL + "/api/directory")
	if err != nil {
		t.Fatal(err)
	}
	var listing struct {
		Title string              `json:"title"`
		Links []domain.LinkRecord `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if listing.Title != "Test Portal" || len(listing.Links) != 2 {
		t.Errorf("directory = %+v", listing)
	}
	if !strings.HasPrefix(listing.Links[0].URL, "https://") {
		t.Errorf("link url = %q", listing.Links[0].URL)
	}
}

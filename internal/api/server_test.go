package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/datdenkikniet/Peroxidecast/internal/config"
	"github.com/datdenkikniet/Peroxidecast/internal/models"
	"github.com/datdenkikniet/Peroxidecast/internal/watch"
)

func setupTestServer(t *testing.T) (*Server, *watch.Panel, *watch.Recorder) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Watcher.HistoryLimit = 100

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Opening in-memory db: %v", err)
	}
	db.AutoMigrate(&models.MountEvent{}, &models.SongEvent{})

	panel := watch.NewPanel("http", nil)
	recorder := watch.NewRecorder(db, nil)
	return New(cfg, panel, recorder), panel, recorder
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	s.Router().ServeHTTP(w, req)
	return w
}

func str(s string) *string {
	return &s
}

func TestHealthCheck(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	w := get(t, srv, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("Body = %s", w.Body.String())
	}
}

func TestGetMounts(t *testing.T) {
	srv, panel, _ := setupTestServer(t)
	panel.Reconcile([]models.MountInfo{
		{Name: "/main.ogg", Subscribers: 3, StreamURL: "host/main.ogg", OnAir: true, Song: str("Intro")},
		{Name: "/b.ogg", OnAir: false},
	})

	w := get(t, srv, "/api/v1/mounts")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/mounts = %d, want 200", w.Code)
	}

	var blocks []watch.DisplayBlock
	if err := json.Unmarshal(w.Body.Bytes(), &blocks); err != nil {
		t.Fatalf("Decoding body: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("Got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Name != "/main.ogg" || blocks[0].ListenerText != "Current listeners: 3" {
		t.Errorf("First block = %+v", blocks[0])
	}
}

func TestGetMount(t *testing.T) {
	srv, panel, _ := setupTestServer(t)
	panel.Reconcile([]models.MountInfo{
		{Name: "/main.ogg", Subscribers: 1, StreamURL: "host/main.ogg", OnAir: true},
	})

	// Names carry slashes, so they travel as a query parameter
	w := get(t, srv, "/api/v1/mount?name=/main.ogg")
	if w.Code != http.StatusOK {
		t.Fatalf("GET mount = %d, want 200", w.Code)
	}
	var block watch.DisplayBlock
	if err := json.Unmarshal(w.Body.Bytes(), &block); err != nil {
		t.Fatalf("Decoding body: %v", err)
	}
	if block.StreamURL != "http://host/main.ogg" {
		t.Errorf("StreamURL = %q", block.StreamURL)
	}

	w = get(t, srv, "/api/v1/mount?name=/nope.ogg")
	if w.Code != http.StatusNotFound {
		t.Errorf("Unknown mount = %d, want 404", w.Code)
	}
}

func TestSongHistory(t *testing.T) {
	srv, _, recorder := setupTestServer(t)
	err := recorder.Record(watch.Changes{Songs: []watch.SongChange{
		{Mount: "/main.ogg", Song: "Intro"},
		{Mount: "/other.ogg", Song: "Elsewhere"},
	}})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	w := get(t, srv, "/api/v1/history/songs?mount=/main.ogg")
	if w.Code != http.StatusOK {
		t.Fatalf("GET history = %d, want 200", w.Code)
	}
	var songs []models.SongEvent
	if err := json.Unmarshal(w.Body.Bytes(), &songs); err != nil {
		t.Fatalf("Decoding body: %v", err)
	}
	if len(songs) != 1 || songs[0].Song != "Intro" {
		t.Errorf("Songs = %+v, want just 'Intro'", songs)
	}
}

func TestEventHistory(t *testing.T) {
	srv, _, recorder := setupTestServer(t)
	err := recorder.Record(watch.Changes{
		Created: []string{"/main.ogg"},
		OnAir:   []watch.OnAirChange{{Mount: "/main.ogg", Live: true}},
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	w := get(t, srv, "/api/v1/history/events")
	if w.Code != http.StatusOK {
		t.Fatalf("GET history = %d, want 200", w.Code)
	}
	var events []models.MountEvent
	if err := json.Unmarshal(w.Body.Bytes(), &events); err != nil {
		t.Fatalf("Decoding body: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("Got %d events, want 2", len(events))
	}
}

func TestDashboard(t *testing.T) {
	srv, panel, _ := setupTestServer(t)

	// Empty panel
	w := get(t, srv, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No mounts reported yet") {
		t.Error("Expected the empty-panel message")
	}

	// One live, one off-air block
	panel.Reconcile([]models.MountInfo{
		{Name: "/main.ogg", Subscribers: 5, StreamURL: "host/main.ogg", OnAir: true, Song: str("Intro")},
		{Name: "/idle.ogg", OnAir: false},
	})

	page := get(t, srv, "/").Body.String()

	// Live block shows everything
	for _, want := range []string{
		"/main.ogg",
		"Current listeners: 5",
		"Now playing: Intro",
		"On air: Yes",
		`src="http://host/main.ogg"`,
		`class="stream_url_copy"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("Dashboard missing %q", want)
		}
	}

	// Off-air block keeps its label but hides the rest
	if !strings.Contains(page, "On air: No") {
		t.Error("Expected the off-air label")
	}
	if strings.Contains(page, "/idle.ogg") {
		t.Error("Off-air mount name should be hidden")
	}
}

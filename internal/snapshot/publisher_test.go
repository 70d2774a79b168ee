package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/datdenkikniet/Peroxidecast/internal/config"
	"github.com/datdenkikniet/Peroxidecast/internal/watch"
)

func TestLocalProvider_Put(t *testing.T) {
	root := t.TempDir()
	provider := NewLocalProvider(root)

	err := provider.Put("status/mounts.json", strings.NewReader(`[]`), "application/json", "")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "status", "mounts.json"))
	if err != nil {
		t.Fatalf("Reading written file: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("File contents = %q, want []", data)
	}
}

func TestPublisher_Publish(t *testing.T) {
	// 1. Publisher with a local backend
	cfg := &config.Config{}
	cfg.Snapshot.Provider = "local"
	cfg.Snapshot.Dir = t.TempDir()
	cfg.Snapshot.Prefix = "status/"
	pub := New(cfg)
	if pub == nil {
		t.Fatal("Expected a publisher for provider=local")
	}

	// 2. Publish one live and one off-air block
	blocks := []watch.DisplayBlock{
		{Name: "/main.ogg", OnAirText: "Yes", Song: "Intro"},
		{Name: "/idle.ogg", OnAirText: "No", Song: "Stale"},
	}
	if err := pub.Publish(context.Background(), blocks); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	// 3. mounts.json carries the full panel
	var written []watch.DisplayBlock
	data, err := os.ReadFile(filepath.Join(cfg.Snapshot.Dir, "status", "mounts.json"))
	if err != nil {
		t.Fatalf("Reading mounts.json: %v", err)
	}
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("Decoding mounts.json: %v", err)
	}
	if len(written) != 2 {
		t.Errorf("mounts.json has %d blocks, want 2", len(written))
	}

	// 4. now_playing.json only lists live mounts with a song
	playing := map[string]string{}
	data, err = os.ReadFile(filepath.Join(cfg.Snapshot.Dir, "status", "now_playing.json"))
	if err != nil {
		t.Fatalf("Reading now_playing.json: %v", err)
	}
	if err := json.Unmarshal(data, &playing); err != nil {
		t.Fatalf("Decoding now_playing.json: %v", err)
	}
	if len(playing) != 1 || playing["/main.ogg"] != "Intro" {
		t.Errorf("now_playing = %v, want only the live mount", playing)
	}
}

func TestNew_DisabledProviders(t *testing.T) {
	for _, provider := range []string{"", "none"} {
		cfg := &config.Config{}
		cfg.Snapshot.Provider = provider
		if New(cfg) != nil {
			t.Errorf("Provider %q should disable publishing", provider)
		}
	}
}

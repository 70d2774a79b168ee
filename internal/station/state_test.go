package station

import (
	"errors"
	"testing"

	"github.com/datdenkikniet/Peroxidecast/internal/models"
)

func testState(allowUnauthenticated bool) *State {
	mounts := &MountsFile{Mounts: map[string]MountSettings{
		"/guarded.ogg":   {SourceAuth: "Basic c291cmNlOnNlY3JldA=="},
		"/permanent.ogg": {Permanent: true},
	}}
	return NewState(StreamURLSetting{Strategy: StreamURLHostname}, allowUnauthenticated, mounts)
}

func TestConnect_Auth(t *testing.T) {
	tests := []struct {
		name          string
		mount         string
		authorization string
		admin         bool
		allowUnauth   bool
		wantErr       error
	}{
		{"Admin anywhere", "/adhoc.ogg", "", true, false, nil},
		{"Configured auth matches", "/guarded.ogg", "Basic c291cmNlOnNlY3JldA==", false, false, nil},
		{"Configured auth wrong", "/guarded.ogg", "Basic d3Jvbmc=", false, false, ErrUnauthorized},
		{"Configured auth missing", "/guarded.ogg", "", false, false, ErrUnauthorized},
		{"Open station takes ad-hoc mounts", "/adhoc.ogg", "", false, true, nil},
		{"Closed station rejects ad-hoc mounts", "/adhoc.ogg", "", false, false, ErrUnauthorized},
		{"Closed station rejects unguarded configured mount", "/permanent.ogg", "", false, false, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := testState(tt.allowUnauth)
			_, _, err := state.Connect(tt.mount, tt.authorization, tt.admin, "audio/ogg", models.IceMeta{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Connect error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConnect_SecondSourceConflicts(t *testing.T) {
	state := testState(true)

	if _, _, err := state.Connect("/m.ogg", "", false, "audio/ogg", models.IceMeta{}); err != nil {
		t.Fatalf("First connect failed: %v", err)
	}
	_, _, err := state.Connect("/m.ogg", "", false, "audio/ogg", models.IceMeta{})
	if !errors.Is(err, ErrMountHasSource) {
		t.Errorf("Second connect error = %v, want ErrMountHasSource", err)
	}
}

func TestDisconnect_TransientRemoved(t *testing.T) {
	state := testState(true)

	// 1. Ad-hoc mount appears on connect
	if _, _, err := state.Connect("/adhoc.ogg", "", false, "audio/ogg", models.IceMeta{}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if _, ok := state.Get("/adhoc.ogg"); !ok {
		t.Fatal("Expected mount to exist while connected")
	}

	// 2. Gone entirely after disconnect
	mount, removed := state.Disconnect("/adhoc.ogg")
	if mount == nil || !removed {
		t.Errorf("Disconnect = (%v, %v), want mount removed", mount, removed)
	}
	if _, ok := state.Get("/adhoc.ogg"); ok {
		t.Error("Expected transient mount to be gone after disconnect")
	}
}

func TestDisconnect_PermanentStaysListed(t *testing.T) {
	state := testState(true)

	if _, _, err := state.Connect("/permanent.ogg", "", false, "audio/ogg", models.IceMeta{}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	mount, removed := state.Disconnect("/permanent.ogg")
	if removed {
		t.Error("Permanent mount must not be removed on disconnect")
	}
	if mount.Live() {
		t.Error("Expected mount to be off air after disconnect")
	}

	// Still listed, reported off air
	infos := state.Infos("host", "")
	found := false
	for _, info := range infos {
		if info.Name == "/permanent.ogg" {
			found = true
			if info.OnAir {
				t.Error("Expected on_air=false for disconnected permanent mount")
			}
		}
	}
	if !found {
		t.Error("Expected permanent mount in /mount_info after disconnect")
	}
}

func TestInfos_ListsPermanentMountsFromStartup(t *testing.T) {
	state := testState(false)

	infos := state.Infos("radio.example:8000", "")
	if len(infos) != 1 {
		t.Fatalf("Expected only the permanent mount at startup, got %d entries", len(infos))
	}
	info := infos[0]
	if info.Name != "/permanent.ogg" || info.OnAir {
		t.Errorf("Startup info = %+v, want offline /permanent.ogg", info)
	}
	if info.StreamURL != "radio.example:8000/permanent.ogg" {
		t.Errorf("StreamURL = %q, want host-shaped schemeless URL", info.StreamURL)
	}
}

func TestUpdateSong(t *testing.T) {
	state := testState(true)

	// Unknown mount
	if err := state.UpdateSong("/nope.ogg", "x"); !errors.Is(err, ErrMountDoesNotExist) {
		t.Errorf("UpdateSong on unknown mount = %v, want ErrMountDoesNotExist", err)
	}

	// Offline permanent mount
	if err := state.UpdateSong("/permanent.ogg", "x"); !errors.Is(err, ErrMountNotConnected) {
		t.Errorf("UpdateSong on offline mount = %v, want ErrMountNotConnected", err)
	}

	// Live mount takes the song
	if _, _, err := state.Connect("/m.ogg", "", false, "audio/ogg", models.IceMeta{}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := state.UpdateSong("/m.ogg", "Dub Session"); err != nil {
		t.Fatalf("UpdateSong failed: %v", err)
	}
	mount, _ := state.Get("/m.ogg")
	if song := mount.Song(); song == nil || *song != "Dub Session" {
		t.Errorf("Song = %v, want 'Dub Session'", song)
	}

	// Empty song clears it
	if err := state.UpdateSong("/m.ogg", ""); err != nil {
		t.Fatalf("UpdateSong failed: %v", err)
	}
	if song := mount.Song(); song != nil {
		t.Errorf("Song = %q, want cleared", *song)
	}
}

func TestKillSource_ClosesStopChannel(t *testing.T) {
	state := testState(true)

	_, stop, err := state.Connect("/m.ogg", "", false, "audio/ogg", models.IceMeta{})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := state.KillSource("/m.ogg"); err != nil {
		t.Fatalf("KillSource failed: %v", err)
	}
	select {
	case <-stop:
	default:
		t.Error("Expected the stop channel to be closed after KillSource")
	}

	if err := state.KillSource("/nope.ogg"); !errors.Is(err, ErrMountDoesNotExist) {
		t.Errorf("KillSource on unknown mount = %v, want ErrMountDoesNotExist", err)
	}
}

func TestSourceAuthMatches(t *testing.T) {
	state := testState(false)

	tests := []struct {
		name          string
		mount         string
		authorization string
		want          bool
	}{
		{"Matching credentials", "/guarded.ogg", "Basic c291cmNlOnNlY3JldA==", true},
		{"Wrong credentials", "/guarded.ogg", "Basic d3Jvbmc=", false},
		{"Empty credentials", "/guarded.ogg", "", false},
		{"Mount without source_auth", "/permanent.ogg", "anything", false},
		{"Unknown mount", "/nope.ogg", "Basic c291cmNlOnNlY3JldA==", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := state.SourceAuthMatches(tt.mount, tt.authorization); got != tt.want {
				t.Errorf("SourceAuthMatches(%q, %q) = %v, want %v", tt.mount, tt.authorization, got, tt.want)
			}
		})
	}
}

func TestConnect_ResetsSongFromPreviousSource(t *testing.T) {
	state := testState(true)

	mount, _, err := state.Connect("/permanent.ogg", "", false, "audio/ogg", models.IceMeta{})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	mount.SetSong("Old Show")
	state.Disconnect("/permanent.ogg")

	// New source starts with a clean slate
	mount, _, err = state.Connect("/permanent.ogg", "", false, "audio/ogg", models.IceMeta{})
	if err != nil {
		t.Fatalf("Reconnect failed: %v", err)
	}
	if song := mount.Song(); song != nil {
		t.Errorf("Song = %q after reconnect, want none", *song)
	}
}

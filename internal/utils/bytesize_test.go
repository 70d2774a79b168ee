package utils

import "testing"

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"Zero", 0, "0 B"},
		{"Under a KiB", 512, "512 B"},
		{"One KiB", 1024, "1.0 KiB"},
		{"KiB with fraction", 1536, "1.5 KiB"},
		{"One MiB", 1024 * 1024, "1.0 MiB"},
		{"GiB", 3 * 1024 * 1024 * 1024, "3.0 GiB"},
		{"TiB", 1024 * 1024 * 1024 * 1024, "1.0 TiB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HumanBytes(tt.bytes); got != tt.want {
				t.Errorf("HumanBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestCleanFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Underscores and dashes", "Ambient_Night-01.ogg", "Ambient Night 01"},
		{"No extension", "late_show", "late show"},
		{"Plain name", "intro.mp3", "intro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFilename(tt.in); got != tt.want {
				t.Errorf("CleanFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

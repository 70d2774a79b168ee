package station

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MountSettings is the per-mount section of mounts.yaml.
type MountSettings struct {
	// SourceAuth is the Authorization header value a source must present to
	// connect to this mount. Empty means the mount follows the global
	// allow_unauthenticated_mounts rule.
	SourceAuth string `yaml:"source_auth,omitempty"`
	// SubAuth gates listeners the same way. Empty means open listening.
	SubAuth string `yaml:"sub_auth,omitempty"`
	// StreamURL overrides the station-wide strategy for this mount.
	StreamURL *StreamURLSetting `yaml:"stream_url,omitempty"`
	// Permanent mounts stay listed (off air) when their source disconnects.
	Permanent bool `yaml:"permanent"`
}

// MountsFile matches the mounts.yaml structure
type MountsFile struct {
	Mounts map[string]MountSettings `yaml:"mounts"`
}

// LoadMounts reads mounts.yaml. A missing file is not an error: the station
// then only accepts ad-hoc mounts (subject to auth).
func LoadMounts(path string) (*MountsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Info: %s not found, no preconfigured mounts.", path)
			return &MountsFile{Mounts: map[string]MountSettings{}}, nil
		}
		return nil, err
	}

	var cfg MountsFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Mounts == nil {
		cfg.Mounts = map[string]MountSettings{}
	}

	for name, ms := range cfg.Mounts {
		if !strings.HasPrefix(name, "/") {
			return nil, fmt.Errorf("mount %q must start with /", name)
		}
		if ms.StreamURL != nil {
			if err := ms.StreamURL.validate(); err != nil {
				return nil, fmt.Errorf("mount %q: %w", name, err)
			}
		}
	}

	log.Printf("📻 Mounts Loaded: %d preconfigured", len(cfg.Mounts))
	return &cfg, nil
}

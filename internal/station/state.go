package station

import (
	"sort"
	"sync"

	"github.com/datdenkikniet/Peroxidecast/internal/models"
)

// State is the registry of all mounts, configured and ad hoc. Configured
// permanent mounts exist from startup; everything else comes and goes with
// its source. Listing order is stable: configured mounts sorted by name,
// then ad-hoc mounts in connect order.
type State struct {
	mu                   sync.RWMutex
	mounts               map[string]*Mount
	order                []string
	settings             map[string]MountSettings
	defaultURL           StreamURLSetting
	allowUnauthenticated bool
}

func NewState(defaultURL StreamURLSetting, allowUnauthenticated bool, mountsFile *MountsFile) *State {
	s := &State{
		mounts:               map[string]*Mount{},
		settings:             map[string]MountSettings{},
		defaultURL:           defaultURL,
		allowUnauthenticated: allowUnauthenticated,
	}
	if mountsFile == nil {
		return s
	}

	names := make([]string, 0, len(mountsFile.Mounts))
	for name := range mountsFile.Mounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ms := mountsFile.Mounts[name]
		s.settings[name] = ms
		if ms.Permanent {
			s.mounts[name] = NewMount(name, ms, defaultURL)
			s.order = append(s.order, name)
		}
	}
	return s
}

// Connect claims a mount for a new source, creating the mount if needed.
// admin callers bypass per-mount source auth. The returned channel closes
// when an admin kills the source.
func (s *State) Connect(name, authorization string, admin bool, contentType string, meta models.IceMeta) (*Mount, <-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms, configured := s.settings[name]
	switch {
	case admin:
	case configured && ms.SourceAuth != "":
		if authorization != ms.SourceAuth {
			return nil, nil, ErrUnauthorized
		}
	case s.allowUnauthenticated:
	default:
		return nil, nil, ErrUnauthorized
	}

	mount, exists := s.mounts[name]
	if !exists {
		mount = NewMount(name, ms, s.defaultURL)
		s.mounts[name] = mount
		s.order = append(s.order, name)
	}

	stop, err := mount.setSource(contentType, meta)
	if err != nil {
		return nil, nil, err
	}
	return mount, stop, nil
}

// Disconnect runs when a source goes away. Transient mounts are removed
// entirely; permanent ones stay listed off air. Reports whether the mount
// was removed.
func (s *State) Disconnect(name string) (*Mount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mount, ok := s.mounts[name]
	if !ok {
		return nil, false
	}
	mount.clearSource()
	if mount.Permanent() {
		return mount, false
	}

	delete(s.mounts, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return mount, true
}

func (s *State) Get(name string) (*Mount, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mounts[name]
	return m, ok
}

func (s *State) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Infos renders every mount for /mount_info.
func (s *State) Infos(host, forwardedHost string) []models.MountInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MountInfo, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.mounts[name].Info(host, forwardedHost))
	}
	return out
}

// SourceAuthMatches reports whether authorization equals the mount's
// configured source credentials. Mounts without source_auth only accept
// admin metadata updates.
func (s *State) SourceAuthMatches(name, authorization string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ms, ok := s.settings[name]
	return ok && ms.SourceAuth != "" && authorization == ms.SourceAuth
}

// UpdateSong handles the admin updinfo call. The mount must be on air.
func (s *State) UpdateSong(name, song string) error {
	mount, ok := s.Get(name)
	if !ok {
		return ErrMountDoesNotExist
	}
	if !mount.Live() {
		return ErrMountNotConnected
	}
	mount.SetSong(song)
	return nil
}

// KillSource asks the named mount's source loop to stop.
func (s *State) KillSource(name string) error {
	mount, ok := s.Get(name)
	if !ok {
		return ErrMountDoesNotExist
	}
	if !mount.Live() {
		return ErrMountNotConnected
	}
	mount.KickSource()
	return nil
}

package station

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/datdenkikniet/Peroxidecast/internal/models"
)

const (
	// sourceBufferSize is the read chunk for source connections. Listener
	// queues are sized in chunks, so a lagging listener can buffer up to
	// subQueueDepth*sourceBufferSize before being cut loose.
	sourceBufferSize = 16 * 1024
	subQueueDepth    = 64
)

var (
	ErrMountHasSource    = errors.New("mount already has a source")
	ErrMountDoesNotExist = errors.New("mount does not exist")
	ErrMountNotConnected = errors.New("mount has no connected source")
	ErrUnauthorized      = errors.New("unauthorized")
)

// subscriber is one connected listener. Its channel is closed by the mount
// when the source goes away or the listener lags too far behind.
type subscriber struct {
	ID uuid.UUID
	ch chan []byte
}

// Chunks returns the stream data channel. It is closed when the
// subscription ends.
func (s *subscriber) Chunks() <-chan []byte {
	return s.ch
}

// Mount is one stream endpoint. A mount either has a live source feeding it
// or sits idle (permanent mounts only; transient ones are removed on
// disconnect).
type Mount struct {
	Name string

	mu          sync.RWMutex
	settings    MountSettings
	streamURL   StreamURLSetting
	contentType string
	meta        models.IceMeta
	song        *string
	live        bool
	sourceStop  chan struct{}
	subs        map[uuid.UUID]*subscriber

	bytesIn  atomic.Int64
	bytesOut atomic.Int64
}

func NewMount(name string, settings MountSettings, defaultURL StreamURLSetting) *Mount {
	url := defaultURL
	if settings.StreamURL != nil {
		url = *settings.StreamURL
	}
	return &Mount{
		Name:      name,
		settings:  settings,
		streamURL: url,
		subs:      map[uuid.UUID]*subscriber{},
	}
}

// setSource claims the mount for a new source. The returned channel is
// closed when an admin kills the source.
func (m *Mount) setSource(contentType string, meta models.IceMeta) (<-chan struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.live {
		return nil, ErrMountHasSource
	}
	m.live = true
	m.contentType = contentType
	m.meta = meta
	m.song = nil
	m.sourceStop = make(chan struct{})
	sourcesConnected.Inc()
	return m.sourceStop, nil
}

// clearSource marks the mount off air and disconnects every listener.
func (m *Mount) clearSource() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.live {
		return
	}
	m.live = false
	m.sourceStop = nil
	sourcesConnected.Dec()
	for id, sub := range m.subs {
		delete(m.subs, id)
		close(sub.ch)
	}
	subscribersGauge.WithLabelValues(m.Name).Set(0)
}

// KickSource asks the current source loop to stop. The loop then runs the
// normal disconnect path, so transient mounts still get removed.
func (m *Mount) KickSource() {
	m.mu.Lock()
	stop := m.sourceStop
	m.sourceStop = nil
	m.mu.Unlock()
	if stop != nil {
		close(stop)
	}
}

func (m *Mount) Subscribe() (*subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.live {
		return nil, ErrMountNotConnected
	}
	sub := &subscriber{ID: uuid.New(), ch: make(chan []byte, subQueueDepth)}
	m.subs[sub.ID] = sub
	subscribersGauge.WithLabelValues(m.Name).Set(float64(len(m.subs)))
	return sub, nil
}

func (m *Mount) Unsubscribe(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.subs[id]; ok {
		delete(m.subs, id)
		close(sub.ch)
		subscribersGauge.WithLabelValues(m.Name).Set(float64(len(m.subs)))
	}
}

// Broadcast fans one chunk out to every listener. Listeners whose queue is
// full are dropped rather than allowed to stall the source. chunk must not
// be reused by the caller afterwards.
func (m *Mount) Broadcast(chunk []byte) {
	var lagged []uuid.UUID

	m.mu.RLock()
	for id, sub := range m.subs {
		select {
		case sub.ch <- chunk:
			m.bytesOut.Add(int64(len(chunk)))
			bytesOutTotal.WithLabelValues(m.Name).Add(float64(len(chunk)))
		default:
			lagged = append(lagged, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range lagged {
		subscribersKicked.WithLabelValues(m.Name).Inc()
		m.Unsubscribe(id)
	}
}

func (m *Mount) addBytesIn(n int) {
	m.bytesIn.Add(int64(n))
	bytesInTotal.WithLabelValues(m.Name).Add(float64(n))
}

// addBytesOut accounts bytes served outside the fan-out path, such as
// fallback files.
func (m *Mount) addBytesOut(n int) {
	m.bytesOut.Add(int64(n))
	bytesOutTotal.WithLabelValues(m.Name).Add(float64(n))
}

func (m *Mount) SubAuth() string {
	return m.settings.SubAuth
}

func (m *Mount) SetSong(song string) {
	m.mu.Lock()
	if song == "" {
		m.song = nil
	} else {
		m.song = &song
	}
	m.mu.Unlock()
}

func (m *Mount) Song() *string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.song == nil {
		return nil
	}
	s := *m.song
	return &s
}

func (m *Mount) Live() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.live
}

func (m *Mount) ContentType() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contentType
}

func (m *Mount) Subscribers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}

func (m *Mount) Permanent() bool {
	return m.settings.Permanent
}

func (m *Mount) Meta() models.IceMeta {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.meta
}

func (m *Mount) Stats() models.MountStats {
	m.mu.RLock()
	subs := len(m.subs)
	m.mu.RUnlock()
	return models.MountStats{
		Subscribers: subs,
		BytesIn:     m.bytesIn.Load(),
		BytesOut:    m.bytesOut.Load(),
	}
}

// Info renders the mount for /mount_info. host and forwardedHost come from
// the request being answered and feed the stream_url strategy.
func (m *Mount) Info(host, forwardedHost string) models.MountInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info := models.MountInfo{
		Name:        m.Name,
		Subscribers: len(m.subs),
		StreamURL:   m.streamURL.Resolve(m.Name, host, forwardedHost),
		BytesIn:     m.bytesIn.Load(),
		BytesOut:    m.bytesOut.Load(),
		OnAir:       m.live,
		IceMeta:     m.meta,
	}
	if m.song != nil {
		s := *m.song
		info.Song = &s
	}
	return info
}

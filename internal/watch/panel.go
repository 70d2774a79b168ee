package watch

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/datdenkikniet/Peroxidecast/internal/models"
)

// Visibility mirrors which parts of a block are shown. Everything hangs off
// on_air: a live mount shows all five, an off-air mount hides them while
// its on-air label keeps saying "No".
type Visibility struct {
	URL       bool `json:"url"`
	CopyField bool `json:"copy_field"`
	Title     bool `json:"title"`
	Listeners bool `json:"listeners"`
	Song      bool `json:"song"`
}

// DisplayBlock is the rendered state of one mount. Blocks are keyed by the
// raw mount name; no identifier encoding is involved anywhere.
type DisplayBlock struct {
	Name         string     `json:"name"`
	ListenerText string     `json:"listener_text"`
	SongText     string     `json:"song_text,omitempty"`
	Song         string     `json:"song,omitempty"`
	OnAirText    string     `json:"on_air_text"`
	StreamURL    string     `json:"stream_url,omitempty"`
	Visible      Visibility `json:"visible"`

	Subscribers int    `json:"subscribers"`
	BytesIn     int64  `json:"bytes_in"`
	BytesOut    int64  `json:"bytes_out"`
	StreamName  string `json:"stream_name,omitempty"`
	Genre       string `json:"genre,omitempty"`

	// URLRevision counts actual stream URL rewrites. An unchanged URL must
	// not bump it, so players are not reloaded for nothing.
	URLRevision int `json:"url_revision"`

	FirstSeen   time.Time `json:"first_seen"`
	LastUpdated time.Time `json:"last_updated"`
}

// SongChange is one observed now-playing transition.
type SongChange struct {
	Mount string
	Song  string
}

// OnAirChange is one observed live/off-air flip on an existing block.
type OnAirChange struct {
	Mount string
	Live  bool
}

// Changes summarizes one reconcile pass for the recorder and the mirror.
type Changes struct {
	Created []string
	Updated []string
	Removed []string
	Songs   []SongChange
	OnAir   []OnAirChange
}

// Panel holds one display block per mount currently reported by the
// station. Insertion order is preserved; a mount that vanishes and comes
// back starts over as a brand-new block.
type Panel struct {
	mu     sync.RWMutex
	scheme string
	clock  Clock
	blocks map[string]*DisplayBlock
	order  []string
}

// NewPanel builds an empty panel. scheme is what the page was served over
// and gets prepended to the schemeless stream URLs the station reports.
func NewPanel(scheme string, clock Clock) *Panel {
	if clock == nil {
		clock = RealClock{}
	}
	return &Panel{
		scheme: scheme,
		clock:  clock,
		blocks: map[string]*DisplayBlock{},
	}
}

// Reconcile aligns the panel with one freshly fetched mount list: missing
// blocks are created, existing ones updated in place, and blocks for names
// absent from records are removed outright. Records without a name are
// skipped.
func (p *Panel) Reconcile(records []models.MountInfo) Changes {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock.Now()
	var changes Changes
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		if rec.Name == "" {
			log.Printf("Warning: skipping mount record without a name")
			continue
		}
		_, dup := seen[rec.Name]
		if dup {
			log.Printf("Warning: duplicate mount record %q, last one wins", rec.Name)
		}
		seen[rec.Name] = struct{}{}

		block, exists := p.blocks[rec.Name]
		if !exists {
			block = &DisplayBlock{Name: rec.Name, FirstSeen: now}
			p.blocks[rec.Name] = block
			p.order = append(p.order, rec.Name)
		}
		p.apply(block, rec, now, exists, dup, &changes)
	}

	// Anything we did not just see is gone for good. If the name shows up
	// again later it starts over as a new block.
	kept := p.order[:0]
	for _, name := range p.order {
		if _, ok := seen[name]; ok {
			kept = append(kept, name)
			continue
		}
		delete(p.blocks, name)
		changes.Removed = append(changes.Removed, name)
	}
	p.order = kept

	return changes
}

func (p *Panel) apply(block *DisplayBlock, rec models.MountInfo, now time.Time, existed, dup bool, changes *Changes) {
	prevOnAir := block.OnAirText

	block.Subscribers = rec.Subscribers
	block.BytesIn = rec.BytesIn
	block.BytesOut = rec.BytesOut
	block.StreamName = rec.StreamName
	block.Genre = rec.Genre
	block.ListenerText = fmt.Sprintf("Current listeners: %d", rec.Subscribers)

	// A missing song leaves the previous text alone. Stale titles linger
	// until the mount reports again or the block is removed.
	if rec.Song != nil {
		text := "Now playing: " + *rec.Song
		if text != block.SongText {
			block.SongText = text
			block.Song = *rec.Song
			changes.Songs = append(changes.Songs, SongChange{Mount: rec.Name, Song: *rec.Song})
		}
	}

	if rec.OnAir {
		block.OnAirText = "Yes"
		abs := p.scheme + "://" + rec.StreamURL
		if block.StreamURL != abs {
			block.StreamURL = abs
			block.URLRevision++
		}
		block.Visible = Visibility{URL: true, CopyField: true, Title: true, Listeners: true, Song: true}
	} else {
		block.OnAirText = "No"
		block.Visible = Visibility{}
	}

	if existed && prevOnAir != "" && prevOnAir != block.OnAirText {
		changes.OnAir = append(changes.OnAir, OnAirChange{Mount: rec.Name, Live: rec.OnAir})
	}

	block.LastUpdated = now

	if dup {
		return
	}
	if existed {
		changes.Updated = append(changes.Updated, rec.Name)
	} else {
		changes.Created = append(changes.Created, rec.Name)
	}
}

// Blocks returns a snapshot of all blocks in insertion order.
func (p *Panel) Blocks() []DisplayBlock {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]DisplayBlock, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, *p.blocks[name])
	}
	return out
}

// Get returns a copy of one block by mount name.
func (p *Panel) Get(name string) (DisplayBlock, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	block, ok := p.blocks[name]
	if !ok {
		return DisplayBlock{}, false
	}
	return *block, true
}

func (p *Panel) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.blocks)
}

// Live counts blocks currently on air.
func (p *Panel) Live() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, block := range p.blocks {
		if block.OnAirText == "Yes" {
			n++
		}
	}
	return n
}

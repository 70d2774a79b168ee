package watch

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/datdenkikniet/Peroxidecast/internal/models"
)

// Recorder persists what each reconcile pass observed: song transitions
// plus mount lifecycle events. It only writes when something changed, so a
// quiet station costs nothing per pass.
type Recorder struct {
	db    *gorm.DB
	clock Clock
}

func NewRecorder(db *gorm.DB, clock Clock) *Recorder {
	if clock == nil {
		clock = RealClock{}
	}
	return &Recorder{db: db, clock: clock}
}

func (r *Recorder) Record(changes Changes) error {
	now := r.clock.Now()

	var events []models.MountEvent
	for _, name := range changes.Created {
		events = append(events, models.MountEvent{Mount: name, Kind: models.MountAppeared, At: now})
	}
	for _, name := range changes.Removed {
		events = append(events, models.MountEvent{Mount: name, Kind: models.MountRemoved, At: now})
	}
	for _, oc := range changes.OnAir {
		kind := models.MountOffAir
		if oc.Live {
			kind = models.MountLive
		}
		events = append(events, models.MountEvent{Mount: oc.Mount, Kind: kind, At: now})
	}
	if len(events) > 0 {
		if err := r.db.Create(&events).Error; err != nil {
			return fmt.Errorf("insert mount events: %w", err)
		}
	}

	var songs []models.SongEvent
	for _, sc := range changes.Songs {
		songs = append(songs, models.SongEvent{Mount: sc.Mount, Song: sc.Song, At: now})
	}
	if len(songs) > 0 {
		if err := r.db.Create(&songs).Error; err != nil {
			return fmt.Errorf("insert song events: %w", err)
		}
	}
	return nil
}

// RecentSongs returns the newest song events, optionally for one mount.
func (r *Recorder) RecentSongs(mount string, limit int) ([]models.SongEvent, error) {
	query := r.db.Model(&models.SongEvent{}).Order("at desc").Limit(limit)
	if mount != "" {
		query = query.Where("mount = ?", mount)
	}

	var out []models.SongEvent
	if err := query.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query song events: %w", err)
	}
	return out, nil
}

// RecentEvents returns the newest mount lifecycle events, optionally for
// one mount.
func (r *Recorder) RecentEvents(mount string, limit int) ([]models.MountEvent, error) {
	query := r.db.Model(&models.MountEvent{}).Order("at desc").Limit(limit)
	if mount != "" {
		query = query.Where("mount = ?", mount)
	}

	var out []models.MountEvent
	if err := query.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query mount events: %w", err)
	}
	return out, nil
}

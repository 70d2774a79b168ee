package models

import (
	"time"

	"gorm.io/gorm"
)

// MountEventKind enumerates lifecycle transitions the watcher records.
type MountEventKind string

const (
	MountAppeared MountEventKind = "appeared" // first seen in /mount_info
	MountRemoved  MountEventKind = "removed"  // no longer listed
	MountLive     MountEventKind = "live"     // on_air flipped true
	MountOffAir   MountEventKind = "off_air"  // on_air flipped false
)

// SongEvent records every now-playing change observed on a mount
type SongEvent struct {
	gorm.Model
	Mount string    `gorm:"index" json:"mount"`
	Song  string    `json:"song"`
	At    time.Time `gorm:"index" json:"at"`
}

// MountEvent records appear/remove/live/off-air transitions per mount
type MountEvent struct {
	gorm.Model
	Mount string         `gorm:"index" json:"mount"`
	Kind  MountEventKind `gorm:"size:16;index" json:"kind"`
	At    time.Time      `gorm:"index" json:"at"`
}

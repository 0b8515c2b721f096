package storage

import (
	"time"

	"gorm.io/gorm"
)

// RosterEntry is one cached follower row. The cache is the offline
// fallback when the live roster fetch is rate-limited or unreachable.
type RosterEntry struct {
	gorm.Model
	Handle      string `gorm:"uniqueIndex"`
	DisplayName string
	AvatarRef   string
	Strength    float64
	FetchedAt   time.Time
}

func (RosterEntry) TableName() string { return "roster_cache" }

// Customization is one purchased power-up/cosmetic modifier row, written
// by the presentation layer and consumed read-only by the simulator.
type Customization struct {
	gorm.Model
	Handle    string `gorm:"index"`
	Kind      string
	Magnitude float64
	ExpiresAt *time.Time
}

func (Customization) TableName() string { return "customizations" }

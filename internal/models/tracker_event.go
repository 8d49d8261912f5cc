package models

import (
	"time"

	"gorm.io/gorm"
)

type TrackerEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Kind      string         `gorm:"not null;index" json:"kind"`
	Title     string         `gorm:"not null;index" json:"title"`
	HasRect   bool           `gorm:"not null;default:false" json:"has_rect"`
	X         int32          `gorm:"not null;default:0" json:"x"`
	Y         int32          `gorm:"not null;default:0" json:"y"`
	Width     int32          `gorm:"not null;default:0" json:"width"`
	Height    int32          `gorm:"not null;default:0" json:"height"`
	Op        string         `json:"op,omitempty"`
	Message   string         `gorm:"not null" json:"message"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Session is one visibility period of the tracked window, from a found
// event to the matching closed event
type Session struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Open     bool      `json:"open"`     // no closed event yet
	Duration int64     `json:"duration"` // seconds
}

type Geometry struct {
	X      int32 `json:"x"`
	Y      int32 `json:"y"`
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month", "all"
}

type Report struct {
	Period         ReportPeriod `json:"period"`
	Title          string       `json:"title"`
	Appearances    int          `json:"appearances"`
	Sessions       []Session    `json:"sessions"`
	TotalSeconds   int64        `json:"total_seconds"`
	LongestSeconds int64        `json:"longest_seconds"`
	Restores       int          `json:"restores"`
	Errors         int          `json:"errors"`
	LastGeometry   *Geometry    `json:"last_geometry,omitempty"`
	LastGeometryAt *time.Time   `json:"last_geometry_at,omitempty"`
	GeneratedAt    time.Time    `json:"generated_at"`
}

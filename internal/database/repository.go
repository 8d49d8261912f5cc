package database

import (
	"time"

	"github.com/winkeep/winkeep/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for tracker events
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new tracker event into the database
func (r *Repository) Create(event *models.TrackerEvent) error {
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert tracker event")
	}
	return nil
}

// GetEventsSince retrieves all events since a given time, oldest first
func (r *Repository) GetEventsSince(since time.Time) ([]*models.TrackerEvent, error) {
	var events []*models.TrackerEvent
	result := r.db.Where("timestamp >= ?", since).Order("timestamp ASC, id ASC").Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query tracker events")
	}

	return events, nil
}

// Recent returns at most limit of the newest events, oldest first
func (r *Repository) Recent(limit int) ([]*models.TrackerEvent, error) {
	var events []*models.TrackerEvent
	result := r.db.Order("timestamp DESC, id DESC").Limit(limit).Find(&events)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query recent events")
	}

	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

// GetLatest retrieves the most recent event, or nil when the journal is empty
func (r *Repository) GetLatest() (*models.TrackerEvent, error) {
	var event models.TrackerEvent
	result := r.db.Order("timestamp DESC, id DESC").First(&event)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest event")
	}
	return &event, nil
}

// LatestOfKind retrieves the most recent event of the given kind, or nil
func (r *Repository) LatestOfKind(kind string) (*models.TrackerEvent, error) {
	var event models.TrackerEvent
	result := r.db.Where("kind = ?", kind).Order("timestamp DESC, id DESC").First(&event)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrapf(result.Error, "failed to get latest %s event", kind)
	}
	return &event, nil
}

// DeleteOldEvents permanently deletes events older than a specified date
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	result := r.db.Unscoped().Where("timestamp < ?", before).Delete(&models.TrackerEvent{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old events")
	}
	return result.RowsAffected, nil
}

// Clear removes all events from the journal
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM tracker_events")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear tracker events")
	}
	return nil
}

package storage

import (
	"errors"
	"time"
)

// Keys of the persisted records.
const (
	KeyMatches = "futsapp-matches"
	KeyStats   = "futsapp-stats"
)

var (
	ErrNotFound      = errors.New("storage record not found")
	// ErrCorruptRecord is returned by Restore when the stored document can't be decoded.
	ErrCorruptRecord = errors.New("storage record is corrupt")
)

// Record is one JSON document stored under a stable key.
type Record struct {
	Key       string    `gorm:"column:storage_key;primaryKey;size:128"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Record) TableName() string {
	return "storage_records"
}

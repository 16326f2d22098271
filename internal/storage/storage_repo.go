package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository stores raw JSON documents by key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GormRepository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates the records table.
func (r *GormRepository) Migrate() error {
	return r.db.AutoMigrate(&Record{})
}

// Get returns the stored document or ErrNotFound.
func (r *GormRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	err := r.db.WithContext(ctx).Where("storage_key = ?", key).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(rec.Value), nil
}

// Put inserts or replaces the document under key.
func (r *GormRepository) Put(ctx context.Context, key string, value []byte) error {
	rec := Record{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}

// Delete removes the document; deleting a missing key is not an error.
func (r *GormRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("storage_key = ?", key).Delete(&Record{}).Error
}

// MemoryRepository keeps documents in process memory. Used by the "memory" storage driver.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (r *MemoryRepository) Put(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = append([]byte(nil), value...)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

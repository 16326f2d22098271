package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DhavalSuthar-24/futsapp/internal/metrics"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestGormRepository_RoundTrip(t *testing.T) {
	repo := NewGormRepository(openTestDB(t))
	require.NoError(t, repo.Migrate())
	ctx := context.Background()

	_, err := repo.Get(ctx, KeyMatches)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Put(ctx, KeyMatches, []byte(`{"matches":[]}`)))
	require.NoError(t, repo.Put(ctx, KeyMatches, []byte(`{"matches":[1]}`)))

	got, err := repo.Get(ctx, KeyMatches)
	require.NoError(t, err)
	assert.JSONEq(t, `{"matches":[1]}`, string(got))

	require.NoError(t, repo.Delete(ctx, KeyMatches))
	require.NoError(t, repo.Delete(ctx, KeyMatches))
	_, err = repo.Get(ctx, KeyMatches)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepository_CopiesValues(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	buf := []byte(`{"a":1}`)
	require.NoError(t, repo.Put(ctx, KeyStats, buf))
	buf[2] = 'b'

	got, err := repo.Get(ctx, KeyStats)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
}

type snapshot struct {
	Count int `json:"count"`
}

func TestPersister_LatestValueWins(t *testing.T) {
	repo := NewMemoryRepository()
	m := metrics.New()
	p := NewPersister(repo, m)
	defer p.Close()

	for i := 1; i <= 50; i++ {
		p.Persist(KeyStats, snapshot{Count: i})
	}
	p.Flush()

	var got snapshot
	ok, err := p.Restore(context.Background(), KeyStats, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 50, got.Count)
}

func TestPersister_RestoreMissing(t *testing.T) {
	p := NewPersister(NewMemoryRepository(), nil)
	defer p.Close()

	var got snapshot
	ok, err := p.Restore(context.Background(), KeyMatches, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersister_RestoreCorrupt(t *testing.T) {
	repo := NewMemoryRepository()
	require.NoError(t, repo.Put(context.Background(), KeyMatches, []byte("not json")))
	p := NewPersister(repo, nil)
	defer p.Close()

	var got snapshot
	ok, err := p.Restore(context.Background(), KeyMatches, &got)
	assert.ErrorIs(t, err, ErrCorruptRecord)
	assert.False(t, ok)
}

func TestPersister_CloseDrainsAndDropsLater(t *testing.T) {
	repo := NewMemoryRepository()
	p := NewPersister(repo, nil)

	p.Persist(KeyMatches, snapshot{Count: 7})
	p.Close()
	p.Persist(KeyMatches, snapshot{Count: 8})
	p.Close()

	data, err := repo.Get(context.Background(), KeyMatches)
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":7}`, string(data))
}

type failingRepo struct {
	*MemoryRepository
	mu    sync.Mutex
	calls int
}

func (r *failingRepo) Put(context.Context, string, []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return errors.New("disk full")
}

func TestPersister_WriteFailureDoesNotBlock(t *testing.T) {
	repo := &failingRepo{MemoryRepository: NewMemoryRepository()}
	p := NewPersister(repo, nil)
	defer p.Close()

	p.Persist(KeyStats, snapshot{Count: 1})
	p.Flush()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, 1, repo.calls)
}

func TestPersister_SQLiteRoundTrip(t *testing.T) {
	repo := NewGormRepository(openTestDB(t))
	require.NoError(t, repo.Migrate())
	p := NewPersister(repo, nil)

	p.Persist(KeyMatches, []snapshot{{Count: 1}, {Count: 2}})
	p.Close()

	var got []snapshot
	ok, err := p.Restore(context.Background(), KeyMatches, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []snapshot{{Count: 1}, {Count: 2}}, got)
}

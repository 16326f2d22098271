package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DhavalSuthar-24/futsapp/internal/metrics"
)

// Snapshotter is what the stores need from persistence: queue the latest state under a key and
// read it back at startup.
type Snapshotter interface {
	Persist(key string, v interface{})
	Restore(ctx context.Context, key string, dst interface{}) (bool, error)
}

const defaultWriteTimeout = 5 * time.Second

// Persister writes store snapshots in the background. Persist never blocks on I/O: it queues the
// encoded value and the worker writes the latest value per key. Writes are not durable until
// Flush or Close returns.
type Persister struct {
	repo         Repository
	metrics      *metrics.Metrics
	writeTimeout time.Duration

	mu       sync.Mutex
	idle     *sync.Cond
	pending  map[string][]byte
	inflight bool
	closed   bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewPersister starts the background writer. m may be nil.
func NewPersister(repo Repository, m *metrics.Metrics) *Persister {
	p := &Persister{
		repo:         repo,
		metrics:      m,
		writeTimeout: defaultWriteTimeout,
		pending:      make(map[string][]byte),
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	p.idle = sync.NewCond(&p.mu)
	go p.run()
	return p
}

// Persist encodes v and queues it under key, replacing any value still queued for that key.
func (p *Persister) Persist(key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to encode snapshot")
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		log.Warn().Str("key", key).Msg("Persist after close, snapshot dropped")
		return
	}
	p.pending[key] = data
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Restore decodes the document stored under key into dst. It reports false when nothing is stored
// and wraps ErrCorruptRecord when the document doesn't decode.
func (p *Persister) Restore(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := p.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("%w: failed to decode %s: %v", ErrCorruptRecord, key, err)
	}
	return true, nil
}

// Flush blocks until every queued snapshot has been written.
func (p *Persister) Flush() {
	p.mu.Lock()
	for len(p.pending) > 0 || p.inflight {
		p.idle.Wait()
	}
	p.mu.Unlock()
}

// Close writes what is queued and stops the worker. Later Persist calls are dropped.
func (p *Persister) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.stop)
	<-p.done
}

func (p *Persister) run() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.drain()
		case <-p.stop:
			p.drain()
			return
		}
	}
}

func (p *Persister) drain() {
	for {
		p.mu.Lock()
		if len(p.pending) == 0 {
			p.inflight = false
			p.idle.Broadcast()
			p.mu.Unlock()
			return
		}
		batch := p.pending
		p.pending = make(map[string][]byte)
		p.inflight = true
		p.mu.Unlock()

		for key, data := range batch {
			p.write(key, data)
		}
	}
}

func (p *Persister) write(key string, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()

	err := p.repo.Put(ctx, key, data)
	p.metrics.PersistWrite(key, err)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to persist snapshot")
		return
	}
	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("Snapshot persisted")
}

// Package cart holds the cart state of a device session and keeps it
// synchronized with the key-value storage.
//
// Mutations are applied synchronously to a single state cell, so rapid
// sequential calls never lose an update. Persistence is asynchronous: one
// writer goroutine always stores the latest state and coalesces writes that
// pile up while a previous one is in flight.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nikolayk812/floating-cart/internal/domain"
	"github.com/nikolayk812/floating-cart/internal/port"
	"github.com/sirupsen/logrus"
)

// DefaultKey is the storage key the mobile client uses for the cart.
const DefaultKey = "@cart:products"

var (
	ErrPersistenceRead  = errors.New("cart: persistence read failed")
	ErrPersistenceWrite = errors.New("cart: persistence write failed")
	ErrAlreadyLoaded    = errors.New("cart: already loaded")
	ErrClosed           = errors.New("cart: store closed")
)

type Option func(*Store)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		s.log = log
	}
}

func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

type Store struct {
	kv  port.KeyValueStore
	key string
	log logrus.FieldLogger

	mu        sync.Mutex
	cart      domain.Cart
	loaded    bool
	pending   uint64 // version the writer has to store
	written   uint64 // version the writer stored last
	writeErr  error  // outcome of the last write
	listeners map[int]func(domain.Cart)
	nextID    int

	dirty chan struct{}
	flush chan chan error
	stop  chan struct{}
	done  chan struct{}

	cancel    context.CancelFunc
	closeOnce sync.Once
	closeErr  error
}

// New returns a store with an empty cart and starts its writer.
// Call Load to hydrate it and Close to stop the writer.
func New(kv port.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		key:       DefaultKey,
		log:       logrus.StandardLogger(),
		listeners: make(map[int]func(domain.Cart)),
		dirty:     make(chan struct{}, 1),
		flush:     make(chan chan error),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.log = s.log.WithField("key", s.key)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.run(ctx)

	return s
}

// Load hydrates the cart from storage. A missing value leaves the cart empty.
// A read failure or a malformed value also leaves the cart empty and is
// returned wrapped in ErrPersistenceRead. Load must run before the first
// mutation; afterwards it returns ErrAlreadyLoaded.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loaded || s.cart.Version > 0 {
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}
	s.loaded = true
	s.mu.Unlock()

	items, err := s.read(ctx)
	if err != nil {
		s.log.WithError(err).Error("cart hydration failed, starting empty")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.Version > 0 {
		// mutated while reading: the in-memory cart wins
		s.log.Warn("cart mutated during hydration, stored value ignored")
		return ErrAlreadyLoaded
	}

	if len(items) == 0 {
		return nil
	}

	s.cart = domain.Cart{Items: items, Version: 1}
	s.pending = s.cart.Version
	s.written = s.cart.Version
	s.notify()

	s.log.WithField("items", len(items)).Debug("cart hydrated")

	return nil
}

func (s *Store) read(ctx context.Context) ([]domain.LineItem, error) {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, port.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: kv.Get: %w", ErrPersistenceRead, err)
	}

	items, err := decodeItems(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decodeItems: %w", ErrPersistenceRead, err)
	}

	return items, nil
}

// AddToCart increments the quantity of the item with the same ID, leaving its
// other fields untouched, or appends the product with quantity 1.
func (s *Store) AddToCart(p domain.Product) {
	s.mutate(func(items []domain.LineItem) ([]domain.LineItem, bool) {
		if i := indexOf(items, p.ID); i >= 0 {
			items[i].Quantity++
			return items, true
		}

		return append(items, domain.LineItem{Product: p, Quantity: 1}), true
	})
}

// Increment adds one unit of the item. Unknown IDs are ignored.
func (s *Store) Increment(id string) {
	s.mutate(func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := indexOf(items, id)
		if i < 0 {
			return items, false
		}

		items[i].Quantity++
		return items, true
	})
}

// Decrement removes one unit of the item. The quantity never drops below 1,
// and unknown IDs are ignored.
func (s *Store) Decrement(id string) {
	s.mutate(func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := indexOf(items, id)
		if i < 0 || items[i].Quantity <= 1 {
			return items, false
		}

		items[i].Quantity--
		return items, true
	})
}

// mutate applies fn to a copy of the latest items under the lock. Published
// snapshots are never modified in place.
func (s *Store) mutate(fn func(items []domain.LineItem) ([]domain.LineItem, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, changed := fn(s.cart.Clone().Items)
	if !changed {
		return
	}

	s.cart = domain.Cart{Items: items, Version: s.cart.Version + 1}
	s.pending = s.cart.Version
	s.notify()

	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// Snapshot returns the latest cart.
func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Clone()
}

// Subscribe registers fn to be called with the new cart after every change,
// in the order the changes were applied. fn runs while the store is locked
// and must not call back into the store.
func (s *Store) Subscribe(fn func(domain.Cart)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.listeners, id)
	}
}

func (s *Store) notify() {
	if len(s.listeners) == 0 {
		return
	}

	snapshot := s.cart.Clone()
	for _, fn := range s.listeners {
		fn(snapshot)
	}
}

// Flush blocks until the latest cart has been handed to storage and returns
// the outcome of the last write.
func (s *Store) Flush(ctx context.Context) error {
	ack := make(chan error, 1)

	select {
	case s.flush <- ack:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-ack:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes any pending state and stops the writer. When ctx expires
// first, the in-flight write is cancelled.
func (s *Store) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		close(s.stop)
	})

	select {
	case <-s.done:
		return s.closeErr
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

func (s *Store) run(ctx context.Context) {
	defer s.cancel()

	for {
		select {
		case <-s.dirty:
			_ = s.persist(ctx)
		case ack := <-s.flush:
			ack <- s.persist(ctx)
		case <-s.stop:
			s.closeErr = s.persist(ctx)
			close(s.done)
			return
		}
	}
}

// persist writes the latest cart if it has not been written yet. A failed
// write is logged and not retried; the in-memory cart stays authoritative.
func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	if s.pending == s.written {
		err := s.writeErr
		s.mu.Unlock()
		return err
	}
	snapshot := s.cart.Clone()
	s.mu.Unlock()

	log := s.log.WithField("version", snapshot.Version)

	err := s.write(ctx, snapshot.Items)

	s.mu.Lock()
	s.written = snapshot.Version
	s.writeErr = err
	s.mu.Unlock()

	if err != nil {
		log.WithError(err).Error("cart write failed, keeping in-memory state")
		return err
	}

	log.Debug("cart written")

	return nil
}

func (s *Store) write(ctx context.Context, items []domain.LineItem) error {
	data, err := encodeItems(items)
	if err != nil {
		return fmt.Errorf("%w: encodeItems: %w", ErrPersistenceWrite, err)
	}

	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: kv.Set: %w", ErrPersistenceWrite, err)
	}

	return nil
}

func indexOf(items []domain.LineItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}

	return -1
}

package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/havenmod/haven/internal/metrics"
	"go.uber.org/zap"
)

var (
	// ErrUnknownKind is returned for a ledger kind outside the known set.
	ErrUnknownKind = errors.New("unknown ledger kind")
	// ErrEmptyUserID is returned when no user identity is given.
	ErrEmptyUserID = errors.New("user id is required")
)

// Kind selects one of the independent offense counters.
type Kind int

const (
	// KindPoster counts confirmed violations by message posters.
	KindPoster Kind = iota
	// KindReporter counts reports judged adversarial, against the reporter.
	KindReporter
)

// String returns the storage name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPoster:
		return "poster"
	case KindReporter:
		return "reporter"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindPoster || k == KindReporter
}

// Store is a durable key to count mapping.
// Increment must be atomic with respect to other Increment calls on the same key.
type Store interface {
	// Count returns the current count, or zero when the key was never incremented.
	Count(ctx context.Context, kind Kind, userID string) (int64, error)
	// Increment adds one to the count and returns the value before the increment.
	Increment(ctx context.Context, kind Kind, userID string) (int64, error)
	// Close releases the store's resources.
	Close() error
}

// Ledger serializes offense adjudications per user on top of a Store.
type Ledger struct {
	store  Store
	logger *zap.Logger
	mu     sync.Mutex
	locks  map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// New creates a Ledger backed by the given store.
func New(store Store, logger *zap.Logger) *Ledger {
	return &Ledger{
		store:  store,
		logger: logger.Named("ledger"),
		locks:  make(map[string]*keyLock),
	}
}

// Count returns the number of recorded offenses for the user.
func (l *Ledger) Count(ctx context.Context, kind Kind, userID string) (int64, error) {
	if err := validate(kind, userID); err != nil {
		return 0, err
	}

	count, err := l.store.Count(ctx, kind, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s count: %w", kind, err)
	}

	return count, nil
}

// Record adds one offense for the user and returns the number of offenses
// recorded before this one. Concurrent calls for the same user never interleave.
func (l *Ledger) Record(ctx context.Context, kind Kind, userID string) (int64, error) {
	if err := validate(kind, userID); err != nil {
		return 0, err
	}

	key := kind.String() + ":" + userID

	unlock := l.lock(key)
	defer unlock()

	prior, err := l.store.Increment(ctx, kind, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to record %s offense: %w", kind, err)
	}

	metrics.LedgerIncrements.WithLabelValues(kind.String()).Inc()
	l.logger.Info("Recorded offense",
		zap.String("kind", kind.String()),
		zap.String("userID", userID),
		zap.Int64("prior", prior))

	return prior, nil
}

// Close closes the underlying store.
func (l *Ledger) Close() error {
	return l.store.Close()
}

// lock acquires the per-key mutex and returns its release function.
func (l *Ledger) lock(key string) func() {
	l.mu.Lock()

	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{}
		l.locks[key] = kl
	}

	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()

	return func() {
		kl.mu.Unlock()

		l.mu.Lock()

		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, key)
		}

		l.mu.Unlock()
	}
}

func validate(kind Kind, userID string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}

	if userID == "" {
		return ErrEmptyUserID
	}

	return nil
}

package surface

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/oshokin/deskclock-shortcuts/internal/domain/shortcut"
)

// DefaultMaxShortcuts mirrors the per-activity limit of common launchers.
const DefaultMaxShortcuts = 5

var (
	// ErrQuotaExceeded is returned when a set is larger than the surface accepts.
	ErrQuotaExceeded = errors.New("shortcut quota exceeded")
	// ErrInvalidSet is returned when a set breaks the published-set invariants.
	ErrInvalidSet = errors.New("invalid shortcut set")
	// ErrNotPublished is returned when updating a category that was never published.
	ErrNotPublished = errors.New("shortcut category is not published")
)

// Memory is an in-process launcher surface.
type Memory struct {
	// mu protects entries.
	mu sync.RWMutex
	// entries maps each published category to its shortcut.
	entries map[shortcut.Category]shortcut.Descriptor
	// gate reports availability; nil means always available.
	gate Gate
	// maxShortcuts is the largest set ReplaceAll accepts.
	maxShortcuts int
}

// Option configures a Memory surface.
type Option func(*Memory)

// WithGate sets the availability gate.
func WithGate(gate Gate) Option {
	return func(m *Memory) {
		m.gate = gate
	}
}

// WithMaxShortcuts sets the shortcut quota. Non-positive values are ignored.
func WithMaxShortcuts(limit int) Option {
	return func(m *Memory) {
		if limit > 0 {
			m.maxShortcuts = limit
		}
	}
}

// NewMemory creates an empty surface.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		entries:      make(map[shortcut.Category]shortcut.Descriptor),
		maxShortcuts: DefaultMaxShortcuts,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// IsAvailable reports whether the surface accepts publishes right now.
func (m *Memory) IsAvailable(ctx context.Context) bool {
	return m.gate == nil || m.gate.Available(ctx)
}

// ReplaceAll swaps the whole published set for descriptors. Partial, empty
// or reordered sets are rejected and leave the published set untouched.
func (m *Memory) ReplaceAll(_ context.Context, descriptors []shortcut.Descriptor) error {
	if len(descriptors) > m.maxShortcuts {
		return fmt.Errorf("%w: %d shortcuts, limit %d", ErrQuotaExceeded, len(descriptors), m.maxShortcuts)
	}

	entries, err := index(descriptors)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()

	return nil
}

// UpdateOne replaces the published shortcut of the descriptor's category.
// Replaying the same descriptor leaves the set unchanged.
func (m *Memory) UpdateOne(_ context.Context, descriptor shortcut.Descriptor) error {
	if !descriptor.Category.Valid() {
		return fmt.Errorf("%w: unknown category %s", ErrInvalidSet, descriptor.Category)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, found := m.entries[descriptor.Category]
	if !found {
		return fmt.Errorf("%w: %s", ErrNotPublished, descriptor.Category)
	}

	if current.Rank != descriptor.Rank {
		return fmt.Errorf("%w: %q has rank %d, published rank is %d",
			ErrInvalidSet, descriptor.ID, descriptor.Rank, current.Rank)
	}

	for category, d := range m.entries {
		if category != descriptor.Category && d.ID == descriptor.ID {
			return fmt.Errorf("%w: id %q is already used by %s", ErrInvalidSet, d.ID, category)
		}
	}

	m.entries[descriptor.Category] = descriptor

	return nil
}

// List returns the published set in rank order.
func (m *Memory) List() []shortcut.Descriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return sorted(m.entries)
}

// restore puts back a previously listed set without validation.
func (m *Memory) restore(descriptors []shortcut.Descriptor) {
	entries := make(map[shortcut.Category]shortcut.Descriptor, len(descriptors))
	for _, d := range descriptors {
		entries[d.Category] = d
	}

	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()
}

// index validates descriptors and keys them by category. A valid set holds
// every category exactly once, in declaration order, with matching ranks.
func index(descriptors []shortcut.Descriptor) (map[shortcut.Category]shortcut.Descriptor, error) {
	if len(descriptors) != shortcut.Count() {
		return nil, fmt.Errorf("%w: %d shortcuts, want %d", ErrInvalidSet, len(descriptors), shortcut.Count())
	}

	entries := make(map[shortcut.Category]shortcut.Descriptor, len(descriptors))
	ids := make(map[string]struct{}, len(descriptors))

	for i, d := range descriptors {
		if want := shortcut.Category(i); d.Category != want {
			return nil, fmt.Errorf("%w: position %d holds %s, want %s", ErrInvalidSet, i, d.Category, want)
		}

		if d.Rank != i {
			return nil, fmt.Errorf("%w: %q at position %d has rank %d", ErrInvalidSet, d.ID, i, d.Rank)
		}

		if _, dup := ids[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidSet, d.ID)
		}

		entries[d.Category] = d
		ids[d.ID] = struct{}{}
	}

	return entries, nil
}

func sorted(entries map[shortcut.Category]shortcut.Descriptor) []shortcut.Descriptor {
	result := make([]shortcut.Descriptor, 0, len(entries))
	for _, d := range entries {
		result = append(result, d)
	}

	slices.SortFunc(result, func(a, b shortcut.Descriptor) int {
		return a.Rank - b.Rank
	})

	return result
}

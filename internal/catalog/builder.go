package catalog

import (
	"fmt"

	"github.com/oshokin/deskclock-shortcuts/internal/domain/shortcut"
)

// Describer produces the descriptor of a single category.
type Describer interface {
	Describe(category shortcut.Category, state shortcut.State) (shortcut.Descriptor, error)
}

// Builder assembles the complete shortcut set.
type Builder struct {
	// describer provides one descriptor per category.
	describer Describer
}

// NewBuilder creates a builder on top of describer.
func NewBuilder(describer Describer) *Builder {
	return &Builder{
		describer: describer,
	}
}

// BuildAll returns one descriptor per category in rank order, all derived
// from the same state snapshot.
func (b *Builder) BuildAll(state shortcut.State) ([]shortcut.Descriptor, error) {
	categories := shortcut.Categories()
	result := make([]shortcut.Descriptor, 0, len(categories))

	for _, category := range categories {
		descriptor, err := b.describer.Describe(category, state)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", category, err)
		}

		result = append(result, descriptor)
	}

	if err := Verify(result); err != nil {
		return nil, err
	}

	return result, nil
}

// Verify checks that descriptors form a complete set: one per category,
// ranks 0..N-1 in category order and no duplicate identifiers.
func Verify(descriptors []shortcut.Descriptor) error {
	if len(descriptors) != shortcut.Count() {
		return fmt.Errorf("%w: got %d shortcuts, want %d",
			shortcut.ErrInvariantViolation, len(descriptors), shortcut.Count())
	}

	ids := make(map[string]struct{}, len(descriptors))

	for i, d := range descriptors {
		if d.Rank != i || int(d.Category) != i {
			return fmt.Errorf("%w: shortcut %q has rank %d and category %s at position %d",
				shortcut.ErrInvariantViolation, d.ID, d.Rank, d.Category, i)
		}

		if _, found := ids[d.ID]; found {
			return fmt.Errorf("%w: duplicate shortcut id %q", shortcut.ErrInvariantViolation, d.ID)
		}

		ids[d.ID] = struct{}{}
	}

	return nil
}

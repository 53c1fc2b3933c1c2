package shortcut

import (
	"errors"
	"fmt"
)

// Category identifies one of the shortcuts published to the launcher.
// The declaration order is the display order.
type Category int

const (
	// CategoryCreateAlarm opens the "new alarm" flow.
	CategoryCreateAlarm Category = iota
	// CategoryCreateTimer opens the "new timer" flow.
	CategoryCreateTimer
	// CategoryStopwatch starts or pauses the stopwatch depending on its state.
	CategoryStopwatch
	// CategoryScreensaver shows the clock screensaver.
	CategoryScreensaver

	// categoryCount is the number of known categories.
	categoryCount = int(CategoryScreensaver) + 1
)

// Verb is the action part of a shortcut identifier.
type Verb string

const (
	// VerbCreate is used by the alarm and timer shortcuts.
	VerbCreate Verb = "create"
	// VerbStart is used by the stopwatch shortcut while the stopwatch is paused.
	VerbStart Verb = "start"
	// VerbPause is used by the stopwatch shortcut while the stopwatch is running.
	VerbPause Verb = "pause"
	// VerbShow is used by the screensaver shortcut.
	VerbShow Verb = "show"
)

var (
	// ErrInvariantViolation signals a programming error, such as an unknown
	// category or a built set with duplicate identifiers.
	ErrInvariantViolation = errors.New("shortcut invariant violation")
	// ErrFailedPublish signals that a launcher surface rejected or could not
	// perform a replace or update.
	ErrFailedPublish = errors.New("failed to publish shortcuts")
)

// Categories returns all categories in declaration order.
func Categories() []Category {
	return []Category{
		CategoryCreateAlarm,
		CategoryCreateTimer,
		CategoryStopwatch,
		CategoryScreensaver,
	}
}

// Count returns the number of known categories.
func Count() int {
	return categoryCount
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c >= CategoryCreateAlarm && c <= CategoryScreensaver
}

// String returns the category token used in shortcut identifiers.
func (c Category) String() string {
	switch c {
	case CategoryCreateAlarm:
		return "alarm"
	case CategoryCreateTimer:
		return "timer"
	case CategoryStopwatch:
		return "stopwatch"
	case CategoryScreensaver:
		return "screensaver"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// StableID returns the identifier of the shortcut for a category and verb.
// Re-deriving a shortcut for the same logical action always yields the same
// identifier, so surfaces treat it as an update rather than a new entry.
func StableID(category Category, verb Verb) string {
	return "shortcut_" + category.String() + "_" + string(verb)
}

// State is the dynamic state snapshot shortcuts are derived from.
type State struct {
	// StopwatchRunning indicates whether the stopwatch is currently running.
	StopwatchRunning bool
}

// Intent describes what a shortcut asks the application to do when invoked.
type Intent struct {
	// Action is the application action name, e.g. "pause_stopwatch".
	Action string
	// Component addresses the handler receiving the action.
	Component string
	// Extras carries additional action parameters.
	Extras map[string]string
}

// Descriptor is a single shortcut as published to a launcher surface.
type Descriptor struct {
	// ID is unique across the published set.
	ID string
	// Category is the category the descriptor was derived from.
	Category Category
	// Rank is the 0-based display position.
	Rank int
	// ShortLabel is the localized label shown on small launcher layouts.
	ShortLabel string
	// LongLabel is the localized label shown when there is enough room.
	LongLabel string
	// Target is the opaque encoded intent.
	Target string
	// Icon is the resolved icon reference.
	Icon string
	// Activity is the launcher activity the shortcut is attached to.
	Activity string
}

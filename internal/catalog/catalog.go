package catalog

import (
	"fmt"

	"github.com/oshokin/deskclock-shortcuts/internal/domain/shortcut"
)

// Actions carried by shortcut targets.
const (
	ActionSetAlarm        = "set_alarm"
	ActionSetTimer        = "set_timer"
	ActionStartStopwatch  = "start_stopwatch"
	ActionPauseStopwatch  = "pause_stopwatch"
	ActionShowScreensaver = "show_screensaver"
)

// Components addressed by shortcut targets.
const (
	ComponentAPICalls       = "api-calls"
	ComponentDeskClockCalls = "deskclock-api-calls"
	ComponentScreensaver    = "screensaver"
)

// DefaultActivity is the launcher activity shortcuts are attached to by default.
const DefaultActivity = "deskclock"

// Extras attached to every target.
const (
	extraEventLabel         = "event_label"
	extraEventLabelShortcut = "shortcut"
	extraFlags              = "flags"
	extraFlagsNewTask       = "new_task"
)

// Resource keys. Label keys get a "_short" or "_long" suffix.
const (
	labelNewAlarm         = "shortcut_new_alarm"
	labelNewTimer         = "shortcut_new_timer"
	labelStartStopwatch   = "shortcut_start_stopwatch"
	labelPauseStopwatch   = "shortcut_pause_stopwatch"
	labelStartScreensaver = "shortcut_start_screensaver"
	shortLabelSuffix      = "_short"
	longLabelSuffix       = "_long"

	iconNewAlarm    = "shortcut_new_alarm"
	iconNewTimer    = "shortcut_new_timer"
	iconStopwatch   = "shortcut_stopwatch"
	iconScreensaver = "shortcut_screensaver"
)

// Resolver looks up localized label text and icon references.
type Resolver interface {
	Label(key string) string
	Icon(key string) string
}

// Encoder turns an intent into the opaque target payload of a descriptor.
// It must be deterministic.
type Encoder interface {
	Encode(intent *shortcut.Intent) (string, error)
}

// Catalog maps a category and a state snapshot to a descriptor.
type Catalog struct {
	// resolver provides labels and icons.
	resolver Resolver
	// encoder builds target payloads.
	encoder Encoder
	// activity is attached to every descriptor.
	activity string
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithActivity sets the launcher activity shortcuts are attached to.
func WithActivity(activity string) Option {
	return func(c *Catalog) {
		if activity != "" {
			c.activity = activity
		}
	}
}

// definition is the state-independent description of one shortcut variant.
type definition struct {
	verb      shortcut.Verb
	labelKey  string
	iconKey   string
	action    string
	component string
}

// New creates a catalog backed by the provided collaborators.
func New(resolver Resolver, encoder Encoder, opts ...Option) *Catalog {
	c := &Catalog{
		resolver: resolver,
		encoder:  encoder,
		activity: DefaultActivity,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Describe returns the descriptor of category for state.
// An unknown category yields an error wrapping shortcut.ErrInvariantViolation.
func (c *Catalog) Describe(category shortcut.Category, state shortcut.State) (shortcut.Descriptor, error) {
	def, err := lookup(category, state)
	if err != nil {
		return shortcut.Descriptor{}, err
	}

	target, err := c.encoder.Encode(&shortcut.Intent{
		Action:    def.action,
		Component: def.component,
		Extras: map[string]string{
			extraEventLabel: extraEventLabelShortcut,
			extraFlags:      extraFlagsNewTask,
		},
	})
	if err != nil {
		return shortcut.Descriptor{}, fmt.Errorf("%w: encode %s target: %w", shortcut.ErrInvariantViolation, category, err)
	}

	return shortcut.Descriptor{
		ID:         shortcut.StableID(category, def.verb),
		Category:   category,
		Rank:       int(category),
		ShortLabel: c.resolver.Label(def.labelKey + shortLabelSuffix),
		LongLabel:  c.resolver.Label(def.labelKey + longLabelSuffix),
		Target:     target,
		Icon:       c.resolver.Icon(def.iconKey),
		Activity:   c.activity,
	}, nil
}

// lookup selects the definition for category. The stopwatch is the only
// category that consults state.
func lookup(category shortcut.Category, state shortcut.State) (definition, error) {
	switch category {
	case shortcut.CategoryCreateAlarm:
		return definition{
			verb:      shortcut.VerbCreate,
			labelKey:  labelNewAlarm,
			iconKey:   iconNewAlarm,
			action:    ActionSetAlarm,
			component: ComponentAPICalls,
		}, nil
	case shortcut.CategoryCreateTimer:
		return definition{
			verb:      shortcut.VerbCreate,
			labelKey:  labelNewTimer,
			iconKey:   iconNewTimer,
			action:    ActionSetTimer,
			component: ComponentAPICalls,
		}, nil
	case shortcut.CategoryStopwatch:
		if state.StopwatchRunning {
			return definition{
				verb:      shortcut.VerbPause,
				labelKey:  labelPauseStopwatch,
				iconKey:   iconStopwatch,
				action:    ActionPauseStopwatch,
				component: ComponentDeskClockCalls,
			}, nil
		}

		return definition{
			verb:      shortcut.VerbStart,
			labelKey:  labelStartStopwatch,
			iconKey:   iconStopwatch,
			action:    ActionStartStopwatch,
			component: ComponentDeskClockCalls,
		}, nil
	case shortcut.CategoryScreensaver:
		return definition{
			verb:      shortcut.VerbShow,
			labelKey:  labelStartScreensaver,
			iconKey:   iconScreensaver,
			action:    ActionShowScreensaver,
			component: ComponentScreensaver,
		}, nil
	default:
		return definition{}, fmt.Errorf("%w: unknown category %s", shortcut.ErrInvariantViolation, category)
	}
}

// Package catalog derives shortcut descriptors from the dynamic state.
//
// Catalog.Describe is a pure function of (category, state) for the four
// known categories; only the stopwatch shortcut depends on the state.
// Builder assembles the complete, ordered set used for full publishes and
// checks the set invariants before it leaves the package.
package catalog

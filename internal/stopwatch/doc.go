// Package stopwatch implements the in-memory stopwatch that drives the
// stopwatch shortcut.
//
// Listeners are notified synchronously after every change, in the order the
// changes happened.
package stopwatch

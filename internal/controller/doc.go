// Package controller keeps the shortcuts published on a launcher surface in
// sync with the stopwatch state.
//
// The controller subscribes to its state source once, at construction.
// Start publishes the full set in one replace; every later state change
// re-derives only the stopwatch shortcut and sends it as a single update,
// provided the surface is available. Publish failures are logged and
// reported through the failure handler, never retried.
package controller

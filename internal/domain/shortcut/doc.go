// Package shortcut contains the core domain types for launcher shortcuts.
//
// It defines the fixed, ordered set of shortcut categories, the dynamic state
// snapshot the shortcuts are derived from (the stopwatch running flag), the
// Descriptor published to a launcher surface and the error kinds shared by
// the catalog, the controller and the surfaces.
package shortcut

// Package resources resolves the presentation details of shortcuts.
//
// Bundle maps symbolic label and icon keys to localized text and icon
// references. Defaults are embedded; a YAML file can override any key.
// ProtoEncoder turns a shortcut intent into the opaque target payload
// stored in a Descriptor.
package resources

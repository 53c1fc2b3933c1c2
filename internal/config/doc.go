// Package config defines the settings used by the deskclock binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Besides the server address, the settings describe the launcher surface:
// where the published set is written and which gates decide whether the
// launcher can currently be reached.
package config

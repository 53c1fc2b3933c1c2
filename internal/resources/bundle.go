package resources

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultBundle []byte

// Bundle holds label text and icon references keyed by symbolic name.
type Bundle struct {
	// Labels maps label keys to localized text.
	Labels map[string]string `yaml:"labels"`
	// Icons maps icon keys to renderable icon references.
	Icons map[string]string `yaml:"icons"`
}

// Default returns the embedded bundle.
func Default() (*Bundle, error) {
	return parse(defaultBundle)
}

// Load returns the embedded bundle with keys from the YAML file at path
// layered on top. An empty path yields the defaults.
func Load(path string) (*Bundle, error) {
	bundle, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		return bundle, nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}

	overrides, err := parse(contents)
	if err != nil {
		return nil, err
	}

	maps.Copy(bundle.Labels, overrides.Labels)
	maps.Copy(bundle.Icons, overrides.Icons)

	return bundle, nil
}

// Label returns the text for key, or the key itself when it is unknown.
func (b *Bundle) Label(key string) string {
	if text, ok := b.Labels[key]; ok {
		return text
	}

	return key
}

// Icon returns the icon reference for key, or the key itself when it is unknown.
func (b *Bundle) Icon(key string) string {
	if ref, ok := b.Icons[key]; ok {
		return ref
	}

	return key
}

func parse(contents []byte) (*Bundle, error) {
	var bundle Bundle
	if err := yaml.Unmarshal(contents, &bundle); err != nil {
		return nil, fmt.Errorf("unmarshal labels: %w", err)
	}

	if bundle.Labels == nil {
		bundle.Labels = make(map[string]string)
	}

	if bundle.Icons == nil {
		bundle.Icons = make(map[string]string)
	}

	return &bundle, nil
}

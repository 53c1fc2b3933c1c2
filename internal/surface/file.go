package surface

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/deskclock-shortcuts/internal/domain/shortcut"
)

// filePermissions restricts the published file to its owner.
const filePermissions = 0o600

// File is a Memory surface mirrored into a JSON file after every
// successful change. JSON is produced via protojson from a
// google.protobuf.Struct.
type File struct {
	*Memory

	// path is the published file location.
	path string
	// mu serializes mutations with their file writes.
	mu sync.Mutex
}

// OpenFile creates an empty file surface writing to path. A set left at path
// by an earlier run is not restored: it describes a stopwatch that no longer
// exists and is overwritten by the first ReplaceAll.
func OpenFile(path string, opts ...Option) *File {
	return &File{
		Memory: NewMemory(opts...),
		path:   filepath.Clean(path),
	}
}

// Path returns the published file location.
func (f *File) Path() string {
	return f.path
}

// ReplaceAll swaps the published set and rewrites the file.
func (f *File) ReplaceAll(ctx context.Context, descriptors []shortcut.Descriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	previous := f.List()

	if err := f.Memory.ReplaceAll(ctx, descriptors); err != nil {
		return err
	}

	return f.persist(previous)
}

// UpdateOne replaces a single shortcut and rewrites the file.
func (f *File) UpdateOne(ctx context.Context, descriptor shortcut.Descriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	previous := f.List()

	if err := f.Memory.UpdateOne(ctx, descriptor); err != nil {
		return err
	}

	return f.persist(previous)
}

// persist writes the current set; on failure the in-memory set is rolled
// back to previous so memory and file never disagree.
func (f *File) persist(previous []shortcut.Descriptor) error {
	if err := writeFile(f.path, f.List()); err != nil {
		f.restore(previous)

		return err
	}

	return nil
}

func writeFile(path string, descriptors []shortcut.Descriptor) error {
	items := make([]any, 0, len(descriptors))
	for _, d := range descriptors {
		items = append(items, map[string]any{
			"id":          d.ID,
			"category":    d.Category.String(),
			"rank":        d.Rank,
			"short_label": d.ShortLabel,
			"long_label":  d.LongLabel,
			"target":      d.Target,
			"icon":        d.Icon,
			"activity":    d.Activity,
		})
	}

	message, err := structpb.NewStruct(map[string]any{"shortcuts": items})
	if err != nil {
		return fmt.Errorf("encode shortcuts: %w", err)
	}

	data, err := protojson.MarshalOptions{Multiline: true}.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode shortcuts: %w", err)
	}

	// Write next to the target and rename so readers never see a partial file.
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("write shortcuts file: %w", err)
	}

	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace shortcuts file: %w", err)
	}

	return nil
}

// ReadPublished returns the set stored at path, the way a launcher reads it.
// Files holding anything but a complete valid set are rejected.
func ReadPublished(path string) ([]shortcut.Descriptor, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}

		return nil, fmt.Errorf("read shortcuts file: %w", err)
	}

	var message structpb.Struct
	if err = protojson.Unmarshal(contents, &message); err != nil {
		return nil, fmt.Errorf("decode shortcuts file: %w", err)
	}

	values := message.GetFields()["shortcuts"].GetListValue().GetValues()
	result := make([]shortcut.Descriptor, 0, len(values))

	for _, v := range values {
		fields := v.GetStructValue().GetFields()

		category, ok := parseCategory(fields["category"].GetStringValue())
		if !ok {
			return nil, fmt.Errorf("decode shortcuts file: %w: unknown category %q",
				ErrInvalidSet, fields["category"].GetStringValue())
		}

		result = append(result, shortcut.Descriptor{
			ID:         fields["id"].GetStringValue(),
			Category:   category,
			Rank:       int(fields["rank"].GetNumberValue()),
			ShortLabel: fields["short_label"].GetStringValue(),
			LongLabel:  fields["long_label"].GetStringValue(),
			Target:     fields["target"].GetStringValue(),
			Icon:       fields["icon"].GetStringValue(),
			Activity:   fields["activity"].GetStringValue(),
		})
	}

	if _, err = index(result); err != nil {
		return nil, fmt.Errorf("decode shortcuts file: %w", err)
	}

	return result, nil
}

func parseCategory(s string) (shortcut.Category, bool) {
	for _, c := range shortcut.Categories() {
		if c.String() == s {
			return c, true
		}
	}

	return 0, false
}

// Package pkgjson reads and patches package.json files while preserving the
// key order the project's authors chose. Only patched sections are
// re-marshaled; everything else passes through verbatim, so a patch never
// churns unrelated lines in version control.
package pkgjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the manifest name probed under a project directory.
const FileName = "package.json"

var (
	ErrNotFound = errors.New("package.json not found")
	ErrInvalid  = errors.New("package.json invalid")
)

// File is one loaded package.json. Top-level values stay raw until a patch
// touches them; order remembers the original key sequence with new keys
// appended at the end.
type File struct {
	path   string
	order  []string
	fields map[string]json.RawMessage
	dirty  bool
}

// Load reads dir/package.json.
func Load(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	order, fields, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return &File{path: path, order: order, fields: fields}, nil
}

func parse(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errors.New("top-level value is not an object")
	}

	var order []string
	fields := make(map[string]json.RawMessage)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected key token %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("value of %q: %w", key, err)
		}
		if _, seen := fields[key]; !seen {
			order = append(order, key)
		}
		fields[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return order, fields, nil
}

// Name returns the package name, empty when absent.
func (f *File) Name() string {
	var name string
	_ = json.Unmarshal(f.fields["name"], &name)
	return name
}

// Main returns the entry point field, empty when absent.
func (f *File) Main() string {
	var main string
	_ = json.Unmarshal(f.fields["main"], &main)
	return main
}

// Scripts returns the scripts section as a map. Missing section yields an
// empty map.
func (f *File) Scripts() map[string]string {
	return f.stringMap("scripts")
}

// Dependencies returns the dependencies section.
func (f *File) Dependencies() map[string]string {
	return f.stringMap("dependencies")
}

// DevDependencies returns the devDependencies section.
func (f *File) DevDependencies() map[string]string {
	return f.stringMap("devDependencies")
}

// HasDependency reports whether name appears in dependencies or
// devDependencies.
func (f *File) HasDependency(name string) bool {
	if _, ok := f.Dependencies()[name]; ok {
		return true
	}
	_, ok := f.DevDependencies()[name]
	return ok
}

func (f *File) stringMap(key string) map[string]string {
	m := make(map[string]string)
	if raw, ok := f.fields[key]; ok {
		_ = json.Unmarshal(raw, &m)
	}
	return m
}

// SetMain sets the entry point field. No-op when already equal.
func (f *File) SetMain(entry string) error {
	if f.Main() == entry {
		return nil
	}
	return f.setField("main", entry)
}

// MergeScripts adds the given scripts, keeping any script the project already
// defines under the same name. Wiring must never clobber a project's own
// build commands.
func (f *File) MergeScripts(scripts map[string]string) error {
	current := f.Scripts()
	changed := false
	for name, cmd := range scripts {
		if _, exists := current[name]; exists {
			continue
		}
		current[name] = cmd
		changed = true
	}
	if !changed {
		return nil
	}
	return f.setField("scripts", current)
}

// AddDevDependencies records the given packages under devDependencies,
// keeping existing version constraints.
func (f *File) AddDevDependencies(deps map[string]string) error {
	current := f.DevDependencies()
	changed := false
	for name, version := range deps {
		if _, exists := current[name]; exists {
			continue
		}
		current[name] = version
		changed = true
	}
	if !changed {
		return nil
	}
	return f.setField("devDependencies", current)
}

func (f *File) setField(key string, value any) error {
	raw, err := marshalValue(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if _, exists := f.fields[key]; !exists {
		f.order = append(f.order, key)
	}
	f.fields[key] = raw
	f.dirty = true
	return nil
}

// marshalValue encodes without HTML escaping so registry URLs survive
// round-trips byte-identical.
func marshalValue(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Dirty reports whether any patch changed the file since Load.
func (f *File) Dirty() bool {
	return f.dirty
}

// Bytes renders the file with two-space indentation and a trailing newline,
// matching npm's own output format.
func (f *File) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, key := range f.order {
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.WriteString("  ")
		buf.Write(keyJSON)
		buf.WriteString(": ")

		var value bytes.Buffer
		if err := json.Indent(&value, f.fields[key], "  ", "  "); err != nil {
			return nil, fmt.Errorf("formatting %s: %w", key, err)
		}
		buf.Write(value.Bytes())

		if i < len(f.order)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// Save writes the file back when a patch changed it. Untouched files are not
// rewritten.
func (f *File) Save() error {
	if !f.dirty {
		return nil
	}
	data, err := f.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	f.dirty = false
	return nil
}

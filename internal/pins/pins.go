// Package pins stores the sidebar's default locations and user pins in
// pins.json.
package pins

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/kk-code-lab/carto/internal/ident"
)

// FileName is the pins file inside the config directory.
const FileName = "pins.json"

// Pin is a named location.
type Pin struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ID returns the sidebar element id for the pin in the given section.
func (p Pin) ID(suffix string) string {
	return ident.WithSuffix(p.Path, suffix)
}

// Pins is the on-disk document.
type Pins struct {
	Default []Pin `json:"default"`
	Pins    []Pin `json:"pins"`
}

// Contains reports whether path is a user pin.
func (p Pins) Contains(path string) bool {
	path = normalize(path)
	for _, pin := range p.Pins {
		if pin.Path == path {
			return true
		}
	}
	return false
}

// DefaultPins is written when no pins file exists.
func DefaultPins() Pins {
	return Pins{
		Default: []Pin{
			{Name: "Home", Path: "$HOME"},
			{Name: "Downloads", Path: "$DOWNLOADS"},
			{Name: "Documents", Path: "$DOCUMENTS"},
			{Name: "Desktop", Path: "$DESKTOP"},
			{Name: "Pictures", Path: "$PICTURES"},
			{Name: "Videos", Path: "$VIDEOS"},
			{Name: "Music", Path: "$MUSIC"},
		},
		Pins: []Pin{},
	}
}

// Vars maps variable names (without "$") to forward-slash directories.
type Vars map[string]string

// UserVars resolves the well-known directories for the current user.
// configDir becomes $CONFIG.
func UserVars(configDir string) Vars {
	home, _ := os.UserHomeDir()
	userDir := func(env, name string) string {
		if v := os.Getenv(env); v != "" {
			return v
		}
		return filepath.Join(home, name)
	}
	v := Vars{
		"HOME":      home,
		"DOWNLOADS": userDir("XDG_DOWNLOAD_DIR", "Downloads"),
		"DOCUMENTS": userDir("XDG_DOCUMENTS_DIR", "Documents"),
		"DESKTOP":   userDir("XDG_DESKTOP_DIR", "Desktop"),
		"PICTURES":  userDir("XDG_PICTURES_DIR", "Pictures"),
		"VIDEOS":    userDir("XDG_VIDEOS_DIR", "Videos"),
		"MUSIC":     userDir("XDG_MUSIC_DIR", "Music"),
		"CONFIG":    configDir,
	}
	for k, p := range v {
		v[k] = normalize(p)
	}
	return v
}

// Expand substitutes $VAR references and normalises separators.
func (v Vars) Expand(path string) string {
	for _, name := range v.byLength() {
		path = strings.ReplaceAll(path, "$"+name, v[name])
	}
	return normalize(path)
}

// Collapse replaces the longest matching directory prefix with its $VAR.
func (v Vars) Collapse(path string) string {
	path = normalize(path)
	for _, name := range v.byLength() {
		dir := v[name]
		if dir == "" || dir == "/" {
			continue
		}
		if path == dir || strings.HasPrefix(path, dir+"/") {
			return "$" + name + path[len(dir):]
		}
	}
	return path
}

// byLength orders variable names by descending value length, so nested
// directories win over their parents.
func (v Vars) byLength() []string {
	names := make([]string, 0, len(v))
	for k := range v {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(v[names[i]]) != len(v[names[j]]) {
			return len(v[names[i]]) > len(v[names[j]])
		}
		return names[i] < names[j]
	})
	return names
}

func normalize(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// Store gives locked access to pins.json. Writes go through a temp file and
// rename, under an flock shared with other running instances.
type Store struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
	vars Vars
}

// NewStore opens the pins file in configDir.
func NewStore(configDir string, vars Vars) (*Store, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(configDir, FileName)
	return &Store{path: path, lock: flock.New(path + ".lock"), vars: vars}, nil
}

// Path returns the pins file path.
func (s *Store) Path() string { return s.path }

// Load returns the expanded pins. A missing file is created with the
// defaults. A corrupt file yields the defaults together with the parse error.
func (s *Store) Load() (Pins, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return s.expand(DefaultPins()), fmt.Errorf("lock pins: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()
	return s.loadUnlocked()
}

// Add appends a user pin.
func (s *Store) Add(name, path string) (Pins, error) {
	return s.update(func(p *Pins) {
		p.Pins = append(p.Pins, Pin{Name: name, Path: normalize(path)})
	})
}

// Remove drops every user pin for path.
func (s *Store) Remove(path string) (Pins, error) {
	path = normalize(path)
	return s.update(func(p *Pins) {
		kept := p.Pins[:0]
		for _, pin := range p.Pins {
			if pin.Path != path {
				kept = append(kept, pin)
			}
		}
		p.Pins = kept
	})
}

// Toggle removes path if it is pinned and adds it otherwise. added reports
// which happened.
func (s *Store) Toggle(name, path string) (pins Pins, added bool, err error) {
	pins, err = s.update(func(p *Pins) {
		if p.Contains(path) {
			kept := p.Pins[:0]
			for _, pin := range p.Pins {
				if pin.Path != normalize(path) {
					kept = append(kept, pin)
				}
			}
			p.Pins = kept
			return
		}
		added = true
		p.Pins = append(p.Pins, Pin{Name: name, Path: normalize(path)})
	})
	return pins, added, err
}

func (s *Store) update(fn func(*Pins)) (Pins, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return Pins{}, fmt.Errorf("lock pins: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	p, err := s.loadUnlocked()
	if err != nil {
		return p, err
	}
	fn(&p)
	if err := s.saveUnlocked(p); err != nil {
		return p, err
	}
	return p, nil
}

func (s *Store) loadUnlocked() (Pins, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		def := DefaultPins()
		if err := s.saveUnlocked(s.expand(def)); err != nil {
			return s.expand(def), err
		}
		return s.expand(def), nil
	}
	if err != nil {
		return s.expand(DefaultPins()), fmt.Errorf("read pins: %w", err)
	}

	var raw struct {
		Default *[]Pin `json:"default"`
		Pins    *[]Pin `json:"pins"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return s.expand(DefaultPins()), fmt.Errorf("parse pins: %w", err)
	}
	p := DefaultPins()
	if raw.Default != nil {
		p.Default = *raw.Default
	}
	if raw.Pins != nil {
		p.Pins = *raw.Pins
	}
	return s.expand(p), nil
}

func (s *Store) saveUnlocked(p Pins) error {
	out := Pins{Default: s.collapse(p.Default), Pins: s.collapse(p.Pins)}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pins: %w", err)
	}
	b = append(b, '\n')
	if err := atomicWriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write pins: %w", err)
	}
	return nil
}

func (s *Store) expand(p Pins) Pins {
	conv := func(in []Pin) []Pin {
		out := make([]Pin, 0, len(in))
		for _, pin := range in {
			out = append(out, Pin{Name: pin.Name, Path: s.vars.Expand(pin.Path)})
		}
		return out
	}
	return Pins{Default: conv(p.Default), Pins: conv(p.Pins)}
}

func (s *Store) collapse(in []Pin) []Pin {
	out := make([]Pin, 0, len(in))
	for _, pin := range in {
		out = append(out, Pin{Name: pin.Name, Path: s.vars.Collapse(pin.Path)})
	}
	return out
}

// Package store holds the CCX display name shown and edited by the rename
// widget.
package store

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	// ErrEmptyName is returned by Validate when the trimmed candidate is empty.
	ErrEmptyName = errors.New("display name is empty")
	// ErrUnchanged is returned by Validate when the candidate equals the current name.
	ErrUnchanged = errors.New("display name is unchanged")
)

// Record is a single display name value. Records are replaced, never patched.
type Record struct {
	Name string `json:"name"`
}

// Store holds zero or one Record: the CCX's current display name.
//
// A Store is owned by a single goroutine (the Bubble Tea update loop or a
// one-shot command) and is not safe for concurrent mutation.
type Store struct {
	current *Record
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// NewSeeded returns a store holding the server-provided display name.
func NewSeeded(name string) *Store {
	s := New()
	s.SetDisplayName(name)
	return s
}

// CurrentNameJSON returns the serialized record, or an empty JSON object when
// the store is empty.
func (s *Store) CurrentNameJSON() []byte {
	if s == nil || s.current == nil {
		return []byte("{}")
	}
	data, err := json.Marshal(s.current)
	if err != nil {
		return []byte("{}")
	}
	return data
}

// CurrentName returns the display name and whether one is set.
func (s *Store) CurrentName() (string, bool) {
	if s == nil || s.current == nil {
		return "", false
	}
	return s.current.Name, true
}

// SetDisplayName resets the store to exactly one record holding name.
func (s *Store) SetDisplayName(name string) {
	s.current = &Record{Name: name}
}

// Validate trims raw and checks it against the current name. It returns the
// trimmed name, ErrEmptyName, or ErrUnchanged.
func (s *Store) Validate(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrEmptyName
	}
	if current, ok := s.CurrentName(); ok && current == name {
		return name, ErrUnchanged
	}
	return name, nil
}

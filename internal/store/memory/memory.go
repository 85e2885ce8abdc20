// Package memory implements the phonebook store in process memory. Entries are lost on restart.
package memory

import (
	"context"
	"sync"

	"gitlab.com/dirk.krummacker/phonebook-service/internal/model"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/store"
)

// Store keeps the entries in insertion order. Names are unique among entries created through
// Create; Replace does not check them.
type Store struct {
	mu      sync.Mutex
	entries []model.Entry
	ids     IDPolicy
}

var _ store.Store = (*Store)(nil)

// New returns a store holding a copy of the given entries.
func New(policy IDPolicy, entries ...model.Entry) *Store {
	return &Store{
		entries: append([]model.Entry(nil), entries...),
		ids:     policy,
	}
}

// Seed returns the entries the service starts with.
func Seed() []model.Entry {
	return []model.Entry{
		{Id: "1", Name: "Arto Hellas", Number: "040-123456"},
		{Id: "2", Name: "Ada Lovelace", Number: "39-44-5323523"},
		{Id: "3", Name: "Dan Abramov", Number: "12-43-234345"},
		{Id: "4", Name: "Mary Poppendieck", Number: "39-23-6423122"},
	}
}

func (s *Store) List(_ context.Context) ([]model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Entry{}, s.entries...), nil
}

func (s *Store) Get(_ context.Context, id string) (model.Entry, error) {
	id, err := normalize(id)
	if err != nil {
		return model.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Entry{}, store.ErrNotFound
	}
	return s.entries[i], nil
}

func (s *Store) Create(_ context.Context, name string, number string) (model.Entry, error) {
	if err := store.ValidateCreate(name, number); err != nil {
		return model.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if NameTaken(s.entries, name) {
		return model.Entry{}, store.ValidationError("name must be unique")
	}
	entry := model.Entry{
		Id:     FormatID(s.ids.Assign(s.entries)),
		Name:   name,
		Number: number,
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *Store) Replace(_ context.Context, id string, name string, number string) (model.Entry, error) {
	if err := store.ValidateReplace(name, number); err != nil {
		return model.Entry{}, err
	}
	id, err := normalize(id)
	if err != nil {
		return model.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Entry{}, store.NotFoundError("person not found")
	}
	s.entries[i].Name = name
	s.entries[i].Number = number
	return s.entries[i], nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	id, err := normalize(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.Id != id {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}

// normalize returns the canonical form of id, so that "007" and "7" address the same entry.
func normalize(id string) (string, error) {
	n, err := ParseID(id)
	if err != nil {
		return "", store.MalformedIDError(err)
	}
	return FormatID(n), nil
}

// indexOf returns the position of the entry with the given id or -1. The caller holds s.mu.
func (s *Store) indexOf(id string) int {
	for i, e := range s.entries {
		if e.Id == id {
			return i
		}
	}
	return -1
}

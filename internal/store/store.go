// Package store holds the task collection and mirrors it to a key-value
// backend after every change.
//
// A Store is owned by one caller and is not safe for concurrent use. Every
// mutation replaces the collection with a new snapshot, writes the whole
// snapshot under one key, and then notifies subscribers. Operations never
// fail: unknown ids are no-ops, and storage errors are logged while the
// in-memory collection stays authoritative.
package store

import (
	"errors"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Makepad-fr/todos/internal/logging"
	"github.com/Makepad-fr/todos/internal/model"
	"github.com/Makepad-fr/todos/internal/storage"
)

// DefaultKey is the storage key holding the collection.
const DefaultKey = "tasks"

// maxIDAttempts bounds retries of a custom id generator before falling back
// to random UUIDs.
const maxIDAttempts = 16

// Store is the task collection bound to one storage key.
type Store struct {
	kv    storage.KV
	key   string
	log   *log.Logger
	newID func() string

	tasks    []model.Task
	hydrated bool

	observers map[int]func([]model.Task)
	nextObs   int
}

// Option configures a Store in New.
type Option func(*Store)

// WithKey stores the collection under key instead of DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets where diagnostics go; the default discards them.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDGenerator replaces uuid.NewString as the id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New returns an empty, not yet hydrated store.
func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		key:       DefaultKey,
		log:       logging.Discard(),
		newID:     uuid.NewString,
		tasks:     []model.Task{},
		observers: make(map[int]func([]model.Task)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open returns a store already hydrated from kv.
func Open(kv storage.KV, opts ...Option) *Store {
	s := New(kv, opts...)
	s.Hydrate()
	return s
}

// Key is the storage key the collection lives under.
func (s *Store) Key() string { return s.key }

// Hydrate loads the persisted collection. Missing or invalid data leaves the
// collection empty. Only the first call has any effect.
func (s *Store) Hydrate() {
	if s.hydrated {
		return
	}
	s.hydrated = true

	raw, err := s.kv.Get(s.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.log.Debug("no persisted tasks", "key", s.key)
		return
	case err != nil:
		s.log.Warn("read persisted tasks", "key", s.key, "err", err)
		return
	}

	tasks, err := Decode(raw)
	if err != nil {
		s.log.Warn("discarding malformed snapshot", "key", s.key, "err", err)
		return
	}
	s.tasks = s.dedupe(tasks)
	s.log.Debug("hydrated", "key", s.key, "tasks", len(s.tasks))
	s.notify()
}

// dedupe keeps the first task for each id.
func (s *Store) dedupe(tasks []model.Task) []model.Task {
	seen := make(map[string]struct{}, len(tasks))
	out := tasks[:0]
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			s.log.Warn("dropping task with duplicate id", "id", t.ID, "title", t.Title)
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Add prepends a new active task and returns it. Surrounding whitespace is
// trimmed; rejecting empty titles is up to the caller.
func (s *Store) Add(title string) model.Task {
	t := model.Task{ID: s.uniqueID(), Title: strings.TrimSpace(title)}
	next := make([]model.Task, 0, len(s.tasks)+1)
	next = append(next, t)
	next = append(next, s.tasks...)
	s.commit(next)
	return t
}

// Toggle flips the completion flag of the task with id.
func (s *Store) Toggle(id string) {
	s.commit(s.mapTasks(func(t model.Task) model.Task {
		if t.ID == id {
			t.Completed = !t.Completed
		}
		return t
	}))
}

// Rename replaces the title of the task with id. The title is stored as
// given, empty included.
func (s *Store) Rename(id, title string) {
	s.commit(s.mapTasks(func(t model.Task) model.Task {
		if t.ID == id {
			t.Title = title
		}
		return t
	}))
}

// Remove deletes the task with id.
func (s *Store) Remove(id string) {
	s.commit(s.filterTasks(func(t model.Task) bool { return t.ID != id }))
}

// ClearCompleted deletes every completed task.
func (s *Store) ClearCompleted() {
	s.commit(s.filterTasks(model.Task.Active))
}

// SetAllCompleted sets the completion flag of every task to v.
func (s *Store) SetAllCompleted(v bool) {
	s.commit(s.mapTasks(func(t model.Task) model.Task {
		t.Completed = v
		return t
	}))
}

// FilteredView returns the tasks visible under f, in collection order.
func (s *Store) FilteredView(f model.Filter) []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// RemainingCount is the number of active tasks.
func (s *Store) RemainingCount() int {
	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// AllCompleted reports whether there is at least one task and every task
// is completed.
func (s *Store) AllCompleted() bool {
	return len(s.tasks) > 0 && s.RemainingCount() == 0
}

// AnyCompleted reports whether at least one task is completed.
func (s *Store) AnyCompleted() bool {
	return s.RemainingCount() < len(s.tasks)
}

// Tasks returns a copy of the current snapshot.
func (s *Store) Tasks() []model.Task { return slices.Clone(s.tasks) }

// Len is the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// Get looks a task up by id.
func (s *Store) Get(id string) (model.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// Subscribe registers fn to receive every new snapshot. The returned func
// unregisters it.
func (s *Store) Subscribe(fn func([]model.Task)) (cancel func()) {
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() { delete(s.observers, id) }
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

func (s *Store) uniqueID() string {
	for i := 0; ; i++ {
		id := uuid.NewString()
		if i < maxIDAttempts {
			id = s.newID()
		}
		if id != "" && s.index(id) < 0 {
			return id
		}
	}
}

func (s *Store) mapTasks(fn func(model.Task) model.Task) []model.Task {
	next := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		next[i] = fn(t)
	}
	return next
}

func (s *Store) filterTasks(keep func(model.Task) bool) []model.Task {
	next := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			next = append(next, t)
		}
	}
	return next
}

func (s *Store) commit(next []model.Task) {
	s.tasks = next
	s.persist()
	s.notify()
}

func (s *Store) persist() {
	b, err := Encode(s.tasks)
	if err != nil {
		s.log.Warn("encode snapshot", "err", err)
		return
	}
	if err := s.kv.Set(s.key, b); err != nil {
		s.log.Warn("persist snapshot", "key", s.key, "err", err)
	}
}

func (s *Store) notify() {
	for _, fn := range s.observers {
		fn(slices.Clone(s.tasks))
	}
}

// Package store keeps the set of trendlines in data-space and persists it
// as a JSON array after every mutation.
package store

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/example/trendlines/internal/config"
	"github.com/example/trendlines/internal/geom"
	"github.com/example/trendlines/internal/kv"
)

var (
	// ErrNotFound is returned when no trendline has the requested id.
	ErrNotFound = errors.New("trendline not found")

	// ErrInvalidPoint is returned for points with NaN or infinite coordinates.
	ErrInvalidPoint = errors.New("trendline point is not finite")
)

var logger = log.WithField("component", "store")

// Endpoint selects one end of a trendline.
type Endpoint int

const (
	EndpointStart Endpoint = iota
	EndpointEnd
)

func (e Endpoint) String() string {
	if e == EndpointEnd {
		return "end"
	}
	return "start"
}

// Trendline is a straight line between two data-space points.
type Trendline struct {
	ID    int64          `json:"id"`
	Start geom.DataPoint `json:"start"`
	End   geom.DataPoint `json:"end"`
}

// Point returns the requested endpoint.
func (t Trendline) Point(which Endpoint) geom.DataPoint {
	if which == EndpointEnd {
		return t.End
	}
	return t.Start
}

// Store is the ordered, persisted set of trendlines. It is owned by a single
// goroutine and is not safe for concurrent use.
type Store struct {
	kv        kv.KV
	key       string
	now       func() time.Time
	onPersist func(error)

	lines  []Trendline
	lastID int64
}

// Option configures a Store.
type Option func(*Store)

// WithKey changes the persistence key.
func WithKey(key string) Option { return func(s *Store) { s.key = key } }

// WithClock replaces the clock ids are derived from.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithPersistErrorHandler registers fn to observe failed writes. Failures
// never reach the caller of a mutation.
func WithPersistErrorHandler(fn func(error)) Option { return func(s *Store) { s.onPersist = fn } }

// New loads the trendlines held under the store key. Missing or malformed
// data yields an empty set.
func New(backend kv.KV, opts ...Option) *Store {
	s := &Store{
		kv:  backend,
		key: config.DefaultKey,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

// Key returns the persistence key.
func (s *Store) Key() string { return s.key }

func (s *Store) load() {
	l := logger.WithField("key", s.key)
	if s.kv == nil {
		return
	}
	raw, found, err := s.kv.Get(s.key)
	if err != nil {
		l.WithError(err).Warn("load trendlines")
		return
	}
	if !found {
		return
	}
	lines, err := Decode([]byte(raw))
	if err != nil {
		l.WithError(err).Warn("discarding malformed trendlines")
		return
	}
	seen := make(map[int64]bool, len(lines))
	for _, line := range lines {
		if seen[line.ID] {
			l.WithField("id", line.ID).Warn("dropping duplicate trendline id")
			continue
		}
		seen[line.ID] = true
		s.lines = append(s.lines, line)
		s.lastID = max(s.lastID, line.ID)
	}
	l.WithField("count", len(s.lines)).Debug("loaded trendlines")
}

// List returns a snapshot of the trendlines in insertion order.
func (s *Store) List() []Trendline {
	out := make([]Trendline, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of trendlines.
func (s *Store) Len() int { return len(s.lines) }

// Get returns the trendline with id.
func (s *Store) Get(id int64) (Trendline, bool) {
	if i := s.index(id); i >= 0 {
		return s.lines[i], true
	}
	return Trendline{}, false
}

func (s *Store) index(id int64) int {
	for i, line := range s.lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Add appends a new trendline and persists.
func (s *Store) Add(start, end geom.DataPoint) (Trendline, error) {
	if !start.Finite() || !end.Finite() {
		return Trendline{}, ErrInvalidPoint
	}
	line := Trendline{ID: s.nextID(), Start: start, End: end}
	s.lines = append(s.lines, line)
	s.persist()
	return line, nil
}

// Remove deletes the trendline with id and persists.
func (s *Store) Remove(id int64) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("remove %d: %w", id, ErrNotFound)
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persist()
	return nil
}

// UpdateEndpoint moves one end of a trendline and persists.
func (s *Store) UpdateEndpoint(id int64, which Endpoint, p geom.DataPoint) error {
	if !p.Finite() {
		return ErrInvalidPoint
	}
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	if which == EndpointEnd {
		s.lines[i].End = p
	} else {
		s.lines[i].Start = p
	}
	s.persist()
	return nil
}

// UpdateBoth replaces both ends of a trendline and persists.
func (s *Store) UpdateBoth(id int64, start, end geom.DataPoint) error {
	if !start.Finite() || !end.Finite() {
		return ErrInvalidPoint
	}
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	s.lines[i].Start = start
	s.lines[i].End = end
	s.persist()
	return nil
}

// Clear removes every trendline and persists the empty set.
func (s *Store) Clear() {
	s.lines = nil
	s.persist()
}

func (s *Store) persist() {
	if s.kv == nil {
		return
	}
	data, err := Encode(s.lines)
	if err == nil {
		err = s.kv.Set(s.key, string(data))
	}
	if err != nil {
		logger.WithError(err).WithField("key", s.key).Warn("persist trendlines")
		if s.onPersist != nil {
			s.onPersist(err)
		}
	}
}

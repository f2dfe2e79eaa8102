// Package store holds the tracker's persistent data model: dogs, runs, the
// configured distance set, and user settings. The Store struct is an explicit
// aggregate owned by the service layer; every mutation goes through a method
// on it and persistence writes the whole aggregate back in one piece.
package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pacedog/pacedog/internal/common"
	"github.com/pacedog/pacedog/internal/speed"
)

// SchemaVersion is the current snapshot schema version.
const SchemaVersion = 2

// MaxDistances caps the configured distance set.
const MaxDistances = 12

// Sport classifies a run.
type Sport string

const (
	SportSprint   Sport = "Sprint"
	SportAgility  Sport = "Agility"
	SportLure     Sport = "Lure"
	SportFlyball  Sport = "Flyball"
	SportTraining Sport = "Training"
)

// Sports lists the fixed vocabulary in display order.
var Sports = []Sport{SportSprint, SportAgility, SportLure, SportFlyball, SportTraining}

// ValidSport reports whether s is one of the fixed sport tags.
func ValidSport(s Sport) bool {
	for _, v := range Sports {
		if v == s {
			return true
		}
	}
	return false
}

// nowFn is a test seam for creation timestamps.
var nowFn = func() time.Time { return time.Now().UTC() }

// Dog is a tracked dog. Photo is an opaque pre-encoded reference (the caller
// guarantees it is bounded in size; the core never decodes it).
type Dog struct {
	ID        string
	Name      string
	Breed     string
	Notes     string
	Photo     string
	CreatedAt time.Time
}

// Run is one timed attempt over a fixed distance. SpeedKmH is computed once
// at creation and stored with four-decimal precision; it is never recomputed
// on read. Seq is a store-wide monotonic counter and the authoritative
// chronological tiebreak (timestamps alone are fragile under same-millisecond
// creates).
type Run struct {
	ID        string
	DogID     string
	DistanceM int
	ElapsedMs int64
	SpeedKmH  float64
	Sport     Sport
	Notes     string
	Seq       int64
	CreatedAt time.Time
}

// Elapsed returns the run time as a duration.
func (r Run) Elapsed() time.Duration {
	return time.Duration(r.ElapsedMs) * time.Millisecond
}

// Settings holds user preferences. ActiveDogID may point at a dog that has
// since been deleted only in imported data; resolve through Store.ActiveDog.
// Units is informational and never enforced in conversions.
type Settings struct {
	DefaultDistanceM int
	DefaultSport     Sport
	Units            string
	ActiveDogID      string
}

// Store is the root aggregate.
type Store struct {
	Version   int
	ActiveTab string
	Distances []int
	Dogs      []Dog
	Runs      []Run
	Settings  Settings
	NextSeq   int64
}

// Default returns a fresh Store with factory settings.
func Default() *Store {
	return &Store{
		Version:   SchemaVersion,
		ActiveTab: "timer",
		Distances: []int{50, 100, 150, 200, 300, 500},
		Dogs:      []Dog{},
		Runs:      []Run{},
		Settings: Settings{
			DefaultDistanceM: 100,
			DefaultSport:     SportSprint,
			Units:            "metric",
		},
		NextSeq: 1,
	}
}

// DogByID returns the dog with the given id, or nil.
func (s *Store) DogByID(id string) *Dog {
	for i := range s.Dogs {
		if s.Dogs[i].ID == id {
			return &s.Dogs[i]
		}
	}
	return nil
}

// ActiveDog resolves the active-dog setting, returning nil when unset or when
// the referenced dog no longer exists.
func (s *Store) ActiveDog() *Dog {
	if s.Settings.ActiveDogID == "" {
		return nil
	}
	return s.DogByID(s.Settings.ActiveDogID)
}

// RunsForDog returns the dog's runs in creation (seq) order.
func (s *Store) RunsForDog(dogID string) []Run {
	out := make([]Run, 0)
	for _, r := range s.RunsChronological() {
		if r.DogID == dogID {
			out = append(out, r)
		}
	}
	return out
}

// RunsChronological returns all runs ordered by their sequence number.
func (s *Store) RunsChronological() []Run {
	out := make([]Run, len(s.Runs))
	copy(out, s.Runs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// AddDog creates a dog. Name must be non-empty after trimming.
func (s *Store) AddDog(name, breed, notes, photo string) (Dog, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Dog{}, fmt.Errorf("dog name is required: %w", common.ErrInvalidInput)
	}
	d := Dog{
		ID:        uuid.NewString(),
		Name:      name,
		Breed:     strings.TrimSpace(breed),
		Notes:     notes,
		Photo:     photo,
		CreatedAt: nowFn(),
	}
	s.Dogs = append(s.Dogs, d)
	return d, nil
}

// UpdateDog replaces the mutable fields of an existing dog.
func (s *Store) UpdateDog(id, name, breed, notes, photo string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("dog name is required: %w", common.ErrInvalidInput)
	}
	d := s.DogByID(id)
	if d == nil {
		return fmt.Errorf("dog %s: %w", id, common.ErrNotFound)
	}
	d.Name = name
	d.Breed = strings.TrimSpace(breed)
	d.Notes = notes
	d.Photo = photo
	return nil
}

// DeleteDog removes a dog, cascades deletion of its runs, and clears the
// active-dog setting when it pointed at the deleted dog.
func (s *Store) DeleteDog(id string) error {
	idx := -1
	for i := range s.Dogs {
		if s.Dogs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("dog %s: %w", id, common.ErrNotFound)
	}

	s.Dogs = append(s.Dogs[:idx], s.Dogs[idx+1:]...)

	kept := s.Runs[:0]
	for _, r := range s.Runs {
		if r.DogID != id {
			kept = append(kept, r)
		}
	}
	s.Runs = kept

	if s.Settings.ActiveDogID == id {
		s.Settings.ActiveDogID = ""
	}
	return nil
}

// AddRun records a timed attempt. The dog must exist, the distance must be in
// the configured set, elapsed must be positive, and sport must come from the
// fixed vocabulary. The stored speed is computed here, once.
func (s *Store) AddRun(dogID string, distanceM int, elapsed time.Duration, sport Sport, notes string) (Run, error) {
	if s.DogByID(dogID) == nil {
		return Run{}, fmt.Errorf("dog %s: %w", dogID, common.ErrNotFound)
	}
	if !s.hasDistance(distanceM) {
		return Run{}, fmt.Errorf("distance %dm is not configured: %w", distanceM, common.ErrInvalidInput)
	}
	if elapsed < time.Millisecond {
		return Run{}, fmt.Errorf("elapsed time must be positive: %w", common.ErrInvalidInput)
	}
	if !ValidSport(sport) {
		return Run{}, fmt.Errorf("unknown sport %q: %w", sport, common.ErrInvalidInput)
	}

	r := Run{
		ID:        uuid.NewString(),
		DogID:     dogID,
		DistanceM: distanceM,
		ElapsedMs: elapsed.Milliseconds(),
		SpeedKmH:  speed.StoredKmH(distanceM, elapsed),
		Sport:     sport,
		Notes:     notes,
		Seq:       s.NextSeq,
		CreatedAt: nowFn(),
	}
	s.NextSeq++
	s.Runs = append(s.Runs, r)
	return r, nil
}

// DeleteRun removes a single run by id.
func (s *Store) DeleteRun(id string) error {
	for i := range s.Runs {
		if s.Runs[i].ID == id {
			s.Runs = append(s.Runs[:i], s.Runs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("run %s: %w", id, common.ErrNotFound)
}

// ClearRunsForDog deletes every run belonging to the dog and returns how many
// were removed. The dog itself must exist.
func (s *Store) ClearRunsForDog(dogID string) (int, error) {
	if s.DogByID(dogID) == nil {
		return 0, fmt.Errorf("dog %s: %w", dogID, common.ErrNotFound)
	}
	kept := s.Runs[:0]
	removed := 0
	for _, r := range s.Runs {
		if r.DogID == dogID {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.Runs = kept
	return removed, nil
}

// SetDistances replaces the configured distance set. Input is deduplicated
// preserving order and capped at MaxDistances; an empty or non-positive set
// is rejected. If the current default distance disappears from the set, the
// default falls back to the new smallest distance.
func (s *Store) SetDistances(distances []int) error {
	if len(distances) == 0 {
		return fmt.Errorf("distance list is empty: %w", common.ErrInvalidInput)
	}

	seen := make(map[int]struct{}, len(distances))
	deduped := make([]int, 0, len(distances))
	for _, d := range distances {
		if d <= 0 {
			return fmt.Errorf("distance %d must be positive: %w", d, common.ErrInvalidInput)
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		deduped = append(deduped, d)
		if len(deduped) == MaxDistances {
			break
		}
	}

	s.Distances = deduped
	if !s.hasDistance(s.Settings.DefaultDistanceM) {
		s.Settings.DefaultDistanceM = smallest(deduped)
	}
	return nil
}

// SetDefaultDistance picks the default distance; it must be configured.
func (s *Store) SetDefaultDistance(distanceM int) error {
	if !s.hasDistance(distanceM) {
		return fmt.Errorf("distance %dm is not configured: %w", distanceM, common.ErrInvalidInput)
	}
	s.Settings.DefaultDistanceM = distanceM
	return nil
}

// SetDefaultSport picks the default sport tag.
func (s *Store) SetDefaultSport(sport Sport) error {
	if !ValidSport(sport) {
		return fmt.Errorf("unknown sport %q: %w", sport, common.ErrInvalidInput)
	}
	s.Settings.DefaultSport = sport
	return nil
}

// SetActiveDog selects the dog new runs default to; empty id clears the
// selection.
func (s *Store) SetActiveDog(id string) error {
	if id != "" && s.DogByID(id) == nil {
		return fmt.Errorf("dog %s: %w", id, common.ErrNotFound)
	}
	s.Settings.ActiveDogID = id
	return nil
}

// SetActiveTab remembers the UI tab for resume convenience. The core never
// interprets the value.
func (s *Store) SetActiveTab(tab string) {
	s.ActiveTab = tab
}

// FactoryReset discards everything and returns to defaults.
func (s *Store) FactoryReset() {
	*s = *Default()
}

func (s *Store) hasDistance(d int) bool {
	for _, v := range s.Distances {
		if v == d {
			return true
		}
	}
	return false
}

func smallest(values []int) int {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pacedog/pacedog/internal/common"
	"github.com/pacedog/pacedog/internal/speed"
)

// Snapshot DTOs. This is the portable backup format and the shape the local
// persistence blob shares. Field names are part of the external contract.

type snapshot struct {
	Version   int              `json:"version"`
	ActiveTab string           `json:"activeTab"`
	Distances []int            `json:"distances"`
	Dogs      []dogSnapshot    `json:"dogs"`
	Runs      []runSnapshot    `json:"runs"`
	Settings  settingsSnapshot `json:"settings"`
	NextSeq   int64            `json:"nextSeq,omitempty"`
}

type dogSnapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Breed     string    `json:"breed,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type runSnapshot struct {
	ID        string    `json:"id"`
	DogID     string    `json:"dogId"`
	DistanceM int       `json:"distanceM"`
	TimeMs    int64     `json:"timeMs"`
	SpeedKmH  float64   `json:"speedKmh"`
	Sport     string    `json:"sport,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Seq       int64     `json:"seq,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type settingsSnapshot struct {
	DefaultDistanceM int    `json:"defaultDistanceM"`
	DefaultSport     string `json:"defaultSport"`
	Units            string `json:"units"`
	ActiveDogID      string `json:"activeDogId,omitempty"`
}

// ExportSnapshot serializes the whole store as a portable backup artifact.
func ExportSnapshot(s *Store) ([]byte, error) {
	snap := snapshot{
		Version:   SchemaVersion,
		ActiveTab: s.ActiveTab,
		Distances: append([]int{}, s.Distances...),
		Dogs:      make([]dogSnapshot, 0, len(s.Dogs)),
		Runs:      make([]runSnapshot, 0, len(s.Runs)),
		Settings: settingsSnapshot{
			DefaultDistanceM: s.Settings.DefaultDistanceM,
			DefaultSport:     string(s.Settings.DefaultSport),
			Units:            s.Settings.Units,
			ActiveDogID:      s.Settings.ActiveDogID,
		},
		NextSeq: s.NextSeq,
	}

	for _, d := range s.Dogs {
		snap.Dogs = append(snap.Dogs, dogSnapshot(d))
	}
	for _, r := range s.RunsChronological() {
		snap.Runs = append(snap.Runs, runSnapshot{
			ID:        r.ID,
			DogID:     r.DogID,
			DistanceM: r.DistanceM,
			TimeMs:    r.ElapsedMs,
			SpeedKmH:  r.SpeedKmH,
			Sport:     string(r.Sport),
			Notes:     r.Notes,
			Seq:       r.Seq,
			CreatedAt: r.CreatedAt,
		})
	}

	return json.MarshalIndent(snap, "", "  ")
}

// ImportSnapshot parses a backup payload into a fully validated Store. A
// payload that does not parse, lacks a schema version marker, or declares a
// version newer than this build understands is rejected with ErrCorruptData
// and the caller's current store is left untouched. Version-1 payloads are
// migrated up. Runs referencing a missing dog are dropped silently, per the
// referential-integrity rule.
func ImportSnapshot(data []byte) (*Store, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unparsable snapshot: %w", common.ErrCorruptData)
	}
	if snap.Version < 1 {
		return nil, fmt.Errorf("snapshot has no schema version: %w", common.ErrCorruptData)
	}
	if snap.Version > SchemaVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported %d: %w",
			snap.Version, SchemaVersion, common.ErrCorruptData)
	}

	s := fromSnapshot(&snap)
	if snap.Version < SchemaVersion {
		migrate(s, snap.Version)
	}
	normalize(s)
	return s, nil
}

func fromSnapshot(snap *snapshot) *Store {
	s := &Store{
		Version:   SchemaVersion,
		ActiveTab: snap.ActiveTab,
		Distances: append([]int{}, snap.Distances...),
		Dogs:      make([]Dog, 0, len(snap.Dogs)),
		Runs:      make([]Run, 0, len(snap.Runs)),
		Settings: Settings{
			DefaultDistanceM: snap.Settings.DefaultDistanceM,
			DefaultSport:     Sport(snap.Settings.DefaultSport),
			Units:            snap.Settings.Units,
			ActiveDogID:      snap.Settings.ActiveDogID,
		},
		NextSeq: snap.NextSeq,
	}

	for _, d := range snap.Dogs {
		s.Dogs = append(s.Dogs, Dog(d))
	}
	for _, r := range snap.Runs {
		s.Runs = append(s.Runs, Run{
			ID:        r.ID,
			DogID:     r.DogID,
			DistanceM: r.DistanceM,
			ElapsedMs: r.TimeMs,
			SpeedKmH:  r.SpeedKmH,
			Sport:     Sport(r.Sport),
			Notes:     r.Notes,
			Seq:       r.Seq,
			CreatedAt: r.CreatedAt,
		})
	}
	return s
}

// migrate upgrades data written by older schema versions. Version 1 predates
// sport tags, the configurable distance set, and stored speeds.
func migrate(s *Store, fromVersion int) {
	if fromVersion > 1 {
		return
	}
	if len(s.Distances) == 0 {
		s.Distances = Default().Distances
	}
	for i := range s.Runs {
		if s.Runs[i].Sport == "" {
			s.Runs[i].Sport = SportSprint
		}
		if s.Runs[i].SpeedKmH == 0 {
			s.Runs[i].SpeedKmH = speed.StoredKmH(s.Runs[i].DistanceM, s.Runs[i].Elapsed())
		}
	}
	if s.Settings.DefaultSport == "" {
		s.Settings.DefaultSport = SportSprint
	}
}

// normalize enforces the aggregate invariants on freshly parsed data:
// distance set bounds, orphaned-run removal, and sequence assignment for
// payloads written before seq existed.
func normalize(s *Store) {
	// distance set: dedupe, cap, never empty
	seen := make(map[int]struct{}, len(s.Distances))
	deduped := make([]int, 0, len(s.Distances))
	for _, d := range s.Distances {
		if d <= 0 {
			continue
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
	if len(deduped) == 0 {
		deduped = Default().Distances
	}
	s.Distances = deduped
	if !s.hasDistance(s.Settings.DefaultDistanceM) {
		s.Settings.DefaultDistanceM = smallest(s.Distances)
	}
	if s.Settings.DefaultSport == "" {
		s.Settings.DefaultSport = SportSprint
	}
	if s.Settings.Units == "" {
		s.Settings.Units = "metric"
	}

	// drop runs whose dog is gone or whose elapsed time is nonsense
	kept := s.Runs[:0]
	for _, r := range s.Runs {
		if r.ElapsedMs <= 0 || s.DogByID(r.DogID) == nil {
			continue
		}
		kept = append(kept, r)
	}
	s.Runs = kept

	// payloads written before explicit sequence numbers carry all-zero seq;
	// array position was their implicit chronological order, so preserve it
	allZero := len(s.Runs) > 0
	for _, r := range s.Runs {
		if r.Seq != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		for i := range s.Runs {
			s.Runs[i].Seq = int64(i + 1)
		}
	}

	var maxSeq int64
	for _, r := range s.Runs {
		if r.Seq > maxSeq {
			maxSeq = r.Seq
		}
	}
	if s.NextSeq <= maxSeq {
		s.NextSeq = maxSeq + 1
	}
	if s.NextSeq < 1 {
		s.NextSeq = 1
	}
}

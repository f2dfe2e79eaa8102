// Package services wires the data model, ranking, and persistence together
// behind the operations the front end calls.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pacedog/pacedog/internal/logging"
	"github.com/pacedog/pacedog/internal/ranking"
	"github.com/pacedog/pacedog/internal/repositories/stores"
	"github.com/pacedog/pacedog/internal/store"
)

// TrackerService exposes every mutation and query the presentation layer
// needs. Mutations apply to the in-memory aggregate and persist the whole
// store before returning.
type TrackerService interface {
	AddDog(ctx context.Context, name, breed, notes, photo string) (store.Dog, error)
	UpdateDog(ctx context.Context, id, name, breed, notes, photo string) error
	DeleteDog(ctx context.Context, id string) error
	SetActiveDog(ctx context.Context, id string) error

	RecordRun(ctx context.Context, dogID string, distanceM int, elapsed time.Duration, sport store.Sport, notes string) (store.Run, error)
	DeleteRun(ctx context.Context, id string) error
	ClearRunsForDog(ctx context.Context, dogID string) (int, error)

	SetDistances(ctx context.Context, distances []int) error
	SetDefaultDistance(ctx context.Context, distanceM int) error
	SetDefaultSport(ctx context.Context, sport store.Sport) error
	SetActiveTab(ctx context.Context, tab string) error
	FactoryReset(ctx context.Context) error

	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) error

	Dogs() []store.Dog
	DogByID(id string) *store.Dog
	ActiveDog() *store.Dog
	Runs() []store.Run
	RunsForDog(dogID string) []store.Run
	Settings() store.Settings
	Distances() []int
	BestRun(dogID string) (store.Run, bool)
	Leaderboard() []ranking.Entry
}

type trackerService struct {
	store *store.Store
	repo  stores.Repository
	log   logging.Logger
}

// NewTrackerService loads the persisted store (or defaults) and returns a
// ready service.
func NewTrackerService(ctx context.Context, repo stores.Repository, log logging.Logger) (TrackerService, error) {
	s, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading store: %w", err)
	}
	return &trackerService{store: s, repo: repo, log: log}, nil
}

func (t *trackerService) persist(ctx context.Context) error {
	if err := t.repo.Save(ctx, t.store); err != nil {
		t.log.Error(ctx, "persisting store failed", "error", err)
		return fmt.Errorf("saving store: %w", err)
	}
	return nil
}

func (t *trackerService) AddDog(ctx context.Context, name, breed, notes, photo string) (store.Dog, error) {
	d, err := t.store.AddDog(name, breed, notes, photo)
	if err != nil {
		return store.Dog{}, err
	}
	if err := t.persist(ctx); err != nil {
		return store.Dog{}, err
	}
	t.log.Info(ctx, "dog added", "id", d.ID, "name", d.Name)
	return d, nil
}

func (t *trackerService) UpdateDog(ctx context.Context, id, name, breed, notes, photo string) error {
	if err := t.store.UpdateDog(id, name, breed, notes, photo); err != nil {
		return err
	}
	return t.persist(ctx)
}

func (t *trackerService) DeleteDog(ctx context.Context, id string) error {
	if err := t.store.DeleteDog(id); err != nil {
		return err
	}
	if err := t.persist(ctx); err != nil {
		return err
	}
	t.log.Info(ctx, "dog deleted", "id", id)
	return nil
}

func (t *trackerService) SetActiveDog(ctx context.Context, id string) error {
	if err := t.store.SetActiveDog(id); err != nil {
		return err
	}
	return t.persist(ctx)
}

func (t *trackerService) RecordRun(ctx context.Context, dogID string, distanceM int, elapsed time.Duration, sport store.Sport, notes string) (store.Run, error) {
	r, err := t.store.AddRun(dogID, distanceM, elapsed, sport, notes)
	if err != nil {
		return store.Run{}, err
	}
	if err := t.persist(ctx); err != nil {
		return store.Run{}, err
	}
	t.log.Info(ctx, "run recorded",
		"dog", dogID, "distance_m", r.DistanceM, "time_ms", r.ElapsedMs, "speed_kmh", r.SpeedKmH)
	return r, nil
}

func (t *trackerService) DeleteRun(ctx context.Context, id string) error {
	if err := t.store.DeleteRun(id); err != nil {
		return err
	}
	return t.persist(ctx)
}

func (t *trackerService) ClearRunsForDog(ctx context.Context, dogID string) (int, error) {
	n, err := t.store.ClearRunsForDog(dogID)
	if err != nil {
		return 0, err
	}
	if err := t.persist(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

func (t *trackerService) SetDistances(ctx context.Context, distances []int) error {
	if err := t.store.SetDistances(distances); err != nil {
		return err
	}
	return t.persist(ctx)
}

func (t *trackerService) SetDefaultDistance(ctx context.Context, distanceM int) error {
	if err := t.store.SetDefaultDistance(distanceM); err != nil {
		return err
	}
	return t.persist(ctx)
}

func (t *trackerService) SetDefaultSport(ctx context.Context, sport store.Sport) error {
	if err := t.store.SetDefaultSport(sport); err != nil {
		return err
	}
	return t.persist(ctx)
}

func (t *trackerService) SetActiveTab(ctx context.Context, tab string) error {
	t.store.SetActiveTab(tab)
	return t.persist(ctx)
}

func (t *trackerService) FactoryReset(ctx context.Context) error {
	t.store.FactoryReset()
	if err := t.persist(ctx); err != nil {
		return err
	}
	t.log.Warn(ctx, "factory reset performed")
	return nil
}

func (t *trackerService) Export(ctx context.Context) ([]byte, error) {
	data, err := store.ExportSnapshot(t.store)
	if err != nil {
		return nil, fmt.Errorf("exporting snapshot: %w", err)
	}
	return data, nil
}

// Import replaces the whole store with the parsed payload. A rejected payload
// leaves the current store untouched, in memory and on disk.
func (t *trackerService) Import(ctx context.Context, data []byte) error {
	imported, err := store.ImportSnapshot(data)
	if err != nil {
		return err
	}
	previous := t.store
	t.store = imported
	if err := t.persist(ctx); err != nil {
		t.store = previous
		return err
	}
	t.log.Info(ctx, "snapshot imported", "dogs", len(imported.Dogs), "runs", len(imported.Runs))
	return nil
}

func (t *trackerService) Dogs() []store.Dog {
	out := make([]store.Dog, len(t.store.Dogs))
	copy(out, t.store.Dogs)
	return out
}

func (t *trackerService) DogByID(id string) *store.Dog {
	return t.store.DogByID(id)
}

func (t *trackerService) ActiveDog() *store.Dog {
	return t.store.ActiveDog()
}

func (t *trackerService) Runs() []store.Run {
	return t.store.RunsChronological()
}

func (t *trackerService) RunsForDog(dogID string) []store.Run {
	return t.store.RunsForDog(dogID)
}

func (t *trackerService) Settings() store.Settings {
	return t.store.Settings
}

func (t *trackerService) Distances() []int {
	out := make([]int, len(t.store.Distances))
	copy(out, t.store.Distances)
	return out
}

func (t *trackerService) BestRun(dogID string) (store.Run, bool) {
	return ranking.BestRun(t.store, dogID)
}

func (t *trackerService) Leaderboard() []ranking.Entry {
	return ranking.Leaderboard(t.store)
}

package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacedog/pacedog/internal/common"
	"github.com/pacedog/pacedog/internal/config"
	"github.com/pacedog/pacedog/internal/logging"
	"github.com/pacedog/pacedog/internal/repositories/stores"
	"github.com/pacedog/pacedog/internal/services"
	"github.com/pacedog/pacedog/internal/store"
	"github.com/pacedog/pacedog/internal/timer"
)

// ------------ helpers ------------

// chdir is a stand-in for t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func newTestApp(t *testing.T, lines ...string) (*App, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()

	repo, err := stores.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	tracker, err := services.NewTrackerService(ctx, repo, logger)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	a := &App{
		config:  &config.Config{DatabaseDSN: ":memory:", TimerRefreshInterval: 10 * time.Millisecond},
		tracker: tracker,
		engine:  timer.New(),
		repo:    repo,
		reader:  readerFromLines(lines...),
		out:     out,
	}
	return a, out
}

func addTestDog(t *testing.T, a *App, name string) store.Dog {
	t.Helper()
	ctx := context.Background()
	dog, err := a.tracker.AddDog(ctx, name, "", "", "")
	require.NoError(t, err)
	require.NoError(t, a.tracker.SetActiveDog(ctx, dog.ID))
	return dog
}

// ------------ dogs ------------

func TestAddDog_FirstBecomesActive(t *testing.T) {
	a, out := newTestApp(t,
		"Rex",           // name
		"Border Collie", // breed
		"fast starter",  // notes
		"",              // end of notes
	)
	require.NoError(t, a.addDog(context.Background()))

	dogs := a.tracker.Dogs()
	require.Len(t, dogs, 1)
	assert.Equal(t, "Rex", dogs[0].Name)
	assert.Equal(t, "Border Collie", dogs[0].Breed)

	active := a.tracker.ActiveDog()
	require.NotNil(t, active)
	assert.Equal(t, dogs[0].ID, active.ID)
	assert.Contains(t, out.String(), "Added Rex")
}

func TestAddDog_EmptyNameRejected(t *testing.T) {
	a, _ := newTestApp(t, "", "", "")
	err := a.addDog(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestListDogs_MarksActive(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()
	rex := addTestDog(t, a, "Rex")
	_, err := a.tracker.AddDog(ctx, "Luna", "", "", "")
	require.NoError(t, err)

	require.NoError(t, a.listDogs())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, out.String(), "* "+rex.ID)
}

func TestDeleteDog_RequiresConfirmation(t *testing.T) {
	a, out := newTestApp(t, "n")
	dog := addTestDog(t, a, "Rex")

	require.NoError(t, a.deleteDog(context.Background(), []string{dog.ID}))
	assert.Contains(t, out.String(), "Cancelled")
	assert.Len(t, a.tracker.Dogs(), 1)
}

func TestDeleteDog_Confirmed(t *testing.T) {
	a, _ := newTestApp(t, "y")
	dog := addTestDog(t, a, "Rex")

	require.NoError(t, a.deleteDog(context.Background(), []string{dog.ID}))
	assert.Empty(t, a.tracker.Dogs())
}

// ------------ saving runs ------------

func TestSaveRun_DefaultDistanceAndSport(t *testing.T) {
	a, out := newTestApp(t, "clean start") // notes prompt
	dog := addTestDog(t, a, "Rex")

	require.NoError(t, a.engine.SetManual(10520*time.Millisecond))
	require.NoError(t, a.saveRun(context.Background(), nil))

	runs := a.tracker.RunsForDog(dog.ID)
	require.Len(t, runs, 1)
	assert.Equal(t, 100, runs[0].DistanceM)
	assert.Equal(t, store.SportSprint, runs[0].Sport)
	assert.Equal(t, int64(10520), runs[0].ElapsedMs)
	assert.Equal(t, "clean start", runs[0].Notes)

	// the clock is cleared after a successful save
	assert.Equal(t, time.Duration(0), a.engine.Sample())
	assert.Contains(t, out.String(), "Saved: Rex over 100m")
	assert.Contains(t, out.String(), "New personal best!")
}

func TestSaveRun_OverridesDistanceAndSport(t *testing.T) {
	a, _ := newTestApp(t, "")
	dog := addTestDog(t, a, "Rex")

	require.NoError(t, a.engine.SetManual(20*time.Second))
	require.NoError(t, a.saveRun(context.Background(), []string{"200", "Agility"}))

	runs := a.tracker.RunsForDog(dog.ID)
	require.Len(t, runs, 1)
	assert.Equal(t, 200, runs[0].DistanceM)
	assert.Equal(t, store.SportAgility, runs[0].Sport)
}

func TestSaveRun_NoActiveDog(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, a.engine.SetManual(time.Second))
	require.NoError(t, a.saveRun(context.Background(), nil))
	assert.Contains(t, out.String(), "No active dog")
}

func TestSaveRun_NothingOnClock(t *testing.T) {
	a, out := newTestApp(t)
	addTestDog(t, a, "Rex")
	require.NoError(t, a.saveRun(context.Background(), nil))
	assert.Contains(t, out.String(), "Nothing on the clock")
	assert.Empty(t, a.tracker.Runs())
}

func TestSaveRun_UnknownDistanceRejected(t *testing.T) {
	a, _ := newTestApp(t, "")
	addTestDog(t, a, "Rex")
	require.NoError(t, a.engine.SetManual(time.Second))

	err := a.saveRun(context.Background(), []string{"123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

// ------------ runs and leaderboard ------------

func TestListRuns_Empty(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, a.listRuns(nil))
	assert.Contains(t, out.String(), "No runs recorded.")
}

func TestLeaderboard_Order(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()
	rex := addTestDog(t, a, "Rex")
	luna, err := a.tracker.AddDog(ctx, "Luna", "", "", "")
	require.NoError(t, err)

	_, err = a.tracker.RecordRun(ctx, rex.ID, 100, 18*time.Second, store.SportSprint, "")
	require.NoError(t, err)
	_, err = a.tracker.RecordRun(ctx, luna.ID, 100, 12*time.Second, store.SportSprint, "")
	require.NoError(t, err)

	a.leaderboard()
	text := out.String()
	assert.Less(t, strings.Index(text, "Luna"), strings.Index(text, "Rex"))
	assert.Contains(t, text, "30.00 km/h")
}

func TestClearRuns_ReportsCount(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()
	dog := addTestDog(t, a, "Rex")
	for i := 0; i < 3; i++ {
		_, err := a.tracker.RecordRun(ctx, dog.ID, 100, 10*time.Second, store.SportSprint, "")
		require.NoError(t, err)
	}

	require.NoError(t, a.clearRuns(ctx, []string{dog.ID}))
	assert.Contains(t, out.String(), "Removed 3 run(s).")
	assert.Empty(t, a.tracker.Runs())
}

// ------------ timer commands ------------

func TestManualTime_SetsClock(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, a.manualTime([]string{"01:05.43"}))
	assert.Equal(t, 65430*time.Millisecond, a.engine.Sample())
	assert.Contains(t, out.String(), "01:05.43")
}

func TestManualTime_BadInput(t *testing.T) {
	a, _ := newTestApp(t)
	err := a.manualTime([]string{"abc"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestStopTimer_WhenIdle(t *testing.T) {
	a, _ := newTestApp(t)
	err := a.stopTimer()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidState)
}

// ------------ distances and sport ------------

func TestSetDistances_CommaSeparated(t *testing.T) {
	a, _ := newTestApp(t)
	require.NoError(t, a.setDistances(context.Background(), []string{"50,75,120"}))
	assert.Equal(t, []int{50, 75, 120}, a.tracker.Distances())
}

func TestSetDistances_SpaceSeparated(t *testing.T) {
	a, _ := newTestApp(t)
	require.NoError(t, a.setDistances(context.Background(), []string{"60", "90"}))
	assert.Equal(t, []int{60, 90}, a.tracker.Distances())
}

func TestSetSport_BadName(t *testing.T) {
	a, _ := newTestApp(t)
	err := a.setSport(context.Background(), []string{"Surfing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

// ------------ snapshot commands ------------

func TestExportImport_RoundTrip(t *testing.T) {
	chdir(t, t.TempDir())

	a, out := newTestApp(t)
	ctx := context.Background()
	dog := addTestDog(t, a, "Rex")
	_, err := a.tracker.RecordRun(ctx, dog.ID, 100, 10*time.Second, store.SportSprint, "")
	require.NoError(t, err)

	require.NoError(t, a.exportSnapshot(ctx, []string{"backup.json"}))
	assert.Contains(t, out.String(), "Exported to")

	// a fresh app imports the same file
	b, bout := newTestApp(t)
	require.NoError(t, b.importSnapshot(ctx, []string{"backups/backup.json"}))
	assert.Contains(t, bout.String(), "Imported 1 dog(s), 1 run(s).")
	require.Len(t, b.tracker.Dogs(), 1)
	assert.Equal(t, "Rex", b.tracker.Dogs()[0].Name)
}

func TestImport_CorruptFileLeavesDataIntact(t *testing.T) {
	chdir(t, t.TempDir())

	a, _ := newTestApp(t)
	ctx := context.Background()
	addTestDog(t, a, "Rex")

	require.NoError(t, os.WriteFile("bad.json", []byte("{not json"), 0600))
	err := a.importSnapshot(ctx, []string{"bad.json"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCorruptData)
	assert.Len(t, a.tracker.Dogs(), 1)
}

func TestFactoryReset_Confirmed(t *testing.T) {
	a, out := newTestApp(t, "y")
	ctx := context.Background()
	dog := addTestDog(t, a, "Rex")
	_, err := a.tracker.RecordRun(ctx, dog.ID, 100, 10*time.Second, store.SportSprint, "")
	require.NoError(t, err)
	require.NoError(t, a.engine.SetManual(5*time.Second))

	require.NoError(t, a.factoryReset(ctx))
	assert.Contains(t, out.String(), "All data erased.")
	assert.Empty(t, a.tracker.Dogs())
	assert.Empty(t, a.tracker.Runs())
	assert.Equal(t, time.Duration(0), a.engine.Sample())
}

func TestFactoryReset_Declined(t *testing.T) {
	a, out := newTestApp(t, "")
	addTestDog(t, a, "Rex")

	require.NoError(t, a.factoryReset(context.Background()))
	assert.Contains(t, out.String(), "Cancelled")
	assert.Len(t, a.tracker.Dogs(), 1)
}

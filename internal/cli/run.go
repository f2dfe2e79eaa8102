package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pacedog/pacedog/internal/store"
	"github.com/pacedog/pacedog/internal/timecodec"
)

// saveRun records the value on the clock as a run for the active dog.
// Distance and sport default from settings and can be overridden:
//
//	save
//	save 200
//	save 200 Agility
func (a *App) saveRun(ctx context.Context, args []string) error {
	dog := a.tracker.ActiveDog()
	if dog == nil {
		fmt.Fprintln(a.out, "No active dog. Use 'active <dog-id>' first.")
		return nil
	}

	elapsed := a.engine.Sample()
	if elapsed <= 0 {
		fmt.Fprintln(a.out, "Nothing on the clock. Use start/stop or 'manual' first.")
		return nil
	}

	settings := a.tracker.Settings()
	distanceM := settings.DefaultDistanceM
	sport := settings.DefaultSport

	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(a.out, "Distance must be a number of meters:", args[0])
			return nil
		}
		distanceM = d
	}
	if len(args) > 1 {
		sport = store.Sport(args[1])
	}

	notes, err := GetSimpleText(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return err
	}

	run, err := a.tracker.RecordRun(ctx, dog.ID, distanceM, elapsed, sport, notes)
	if err != nil {
		return err
	}

	a.engine.Reset()
	fmt.Fprintf(a.out, "Saved: %s over %dm in %s = %.2f km/h\n",
		dog.Name, run.DistanceM, timecodec.Format(run.Elapsed()), run.SpeedKmH)

	if best, ok := a.tracker.BestRun(dog.ID); ok && best.ID == run.ID {
		fmt.Fprintln(a.out, "New personal best!")
	}
	return nil
}

func (a *App) listRuns(args []string) error {
	var runs []store.Run
	if len(args) > 0 {
		runs = a.tracker.RunsForDog(args[0])
	} else {
		runs = a.tracker.Runs()
	}

	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No runs recorded.")
		return nil
	}

	for _, r := range runs {
		name := r.DogID
		if dog := a.tracker.DogByID(r.DogID); dog != nil {
			name = dog.Name
		}
		line := fmt.Sprintf("%s  %-10s %4dm  %s  %6.2f km/h  %s",
			r.ID, name, r.DistanceM, timecodec.Format(r.Elapsed()), r.SpeedKmH, r.Sport)
		if r.Notes != "" {
			line += "  " + r.Notes
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func (a *App) deleteRun(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: delrun <run-id>")
		return nil
	}
	if err := a.tracker.DeleteRun(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *App) clearRuns(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: clearruns <dog-id>")
		return nil
	}
	n, err := a.tracker.ClearRunsForDog(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed %d run(s).\n", n)
	return nil
}

func (a *App) leaderboard() {
	board := a.tracker.Leaderboard()
	if len(board) == 0 {
		fmt.Fprintln(a.out, "No runs recorded yet.")
		return
	}

	for i, entry := range board {
		fmt.Fprintf(a.out, "%2d. %-15s %6.2f km/h  (%dm in %s)\n",
			i+1, entry.Dog.Name, entry.BestRun.SpeedKmH,
			entry.BestRun.DistanceM, timecodec.Format(entry.BestRun.Elapsed()))
	}
}

func (a *App) listDistances() {
	settings := a.tracker.Settings()
	parts := make([]string, 0)
	for _, d := range a.tracker.Distances() {
		s := strconv.Itoa(d)
		if d == settings.DefaultDistanceM {
			s += "*"
		}
		parts = append(parts, s)
	}
	fmt.Fprintf(a.out, "Distances (m): %s   Sport: %s\n", strings.Join(parts, ", "), settings.DefaultSport)
}

// setDistances replaces the configured distance set:
//
//	setdist 50,100,200
//	setdist 50 100 200
func (a *App) setDistances(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: setdist <m,m,...>")
		return nil
	}

	fields := strings.FieldsFunc(strings.Join(args, ","), func(r rune) bool { return r == ',' })
	distances := make([]int, 0, len(fields))
	for _, f := range fields {
		d, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			fmt.Fprintln(a.out, "Distance must be a number of meters:", f)
			return nil
		}
		distances = append(distances, d)
	}

	if err := a.tracker.SetDistances(ctx, distances); err != nil {
		return err
	}
	a.listDistances()
	return nil
}

func (a *App) setSport(ctx context.Context, args []string) error {
	if len(args) == 0 {
		names := make([]string, 0, len(store.Sports))
		for _, s := range store.Sports {
			names = append(names, string(s))
		}
		fmt.Fprintf(a.out, "Usage: sport <%s>\n", strings.Join(names, "|"))
		return nil
	}
	if err := a.tracker.SetDefaultSport(ctx, store.Sport(args[0])); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Default sport: %s\n", args[0])
	return nil
}

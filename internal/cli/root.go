package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/pacedog/pacedog/internal/timecodec"
)

// getStatus renders the prompt suffix: the active dog's name (if any) and the
// stopwatch value when something is on the clock.
func (a *App) getStatus() string {
	s := ""
	if dog := a.tracker.ActiveDog(); dog != nil {
		s = dog.Name
	}
	if sample := a.engine.Sample(); sample > 0 {
		if s != "" {
			s += " "
		}
		s += timecodec.Format(sample)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) help() {
	fmt.Fprintln(a.out, "Dogs:   dogs, adddog, editdog, deldog <id>, active <id>")
	fmt.Fprintln(a.out, "Timing: start, stop, reset, manual <mm:ss.cc|ss.cc>, time, watch")
	fmt.Fprintln(a.out, "Runs:   save [distance] [sport], runs [dog-id], delrun <id>, clearruns <id>, board")
	fmt.Fprintln(a.out, "Data:   dist, setdist <m,m,...>, sport <name>, export [file], import <file>, wipe")
	fmt.Fprintln(a.out, "Other:  help, exit")
}

// Root starts the read-eval-print loop. It reads a line, parses the first
// token as the command, and dispatches to methods on App. Unknown commands
// are reported back to the user. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// Any errors returned by command handlers are rendered here; handlers only
// produce them. This keeps the loop resilient and focused on I/O.
func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to PaceDog CLI (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "pd %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		var cmdErr error

		switch cmd {
		case "help":
			a.help()

		case "dogs":
			cmdErr = a.listDogs()
		case "adddog":
			cmdErr = a.addDog(ctx)
		case "editdog":
			cmdErr = a.editDog(ctx, args)
		case "deldog":
			cmdErr = a.deleteDog(ctx, args)
		case "active":
			cmdErr = a.setActive(ctx, args)

		case "start":
			cmdErr = a.startTimer()
		case "stop":
			cmdErr = a.stopTimer()
		case "reset":
			a.resetTimer()
		case "manual":
			cmdErr = a.manualTime(args)
		case "time":
			a.showTime()
		case "watch":
			a.watch(ctx)

		case "save":
			cmdErr = a.saveRun(ctx, args)
		case "runs":
			cmdErr = a.listRuns(args)
		case "delrun":
			cmdErr = a.deleteRun(ctx, args)
		case "clearruns":
			cmdErr = a.clearRuns(ctx, args)
		case "board", "leaderboard":
			a.leaderboard()

		case "dist":
			a.listDistances()
		case "setdist":
			cmdErr = a.setDistances(ctx, args)
		case "sport":
			cmdErr = a.setSport(ctx, args)
		case "export":
			cmdErr = a.exportSnapshot(ctx, args)
		case "import":
			cmdErr = a.importSnapshot(ctx, args)
		case "wipe":
			cmdErr = a.factoryReset(ctx)

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(a.out, "Error:", cmdErr)
		}
	}
}

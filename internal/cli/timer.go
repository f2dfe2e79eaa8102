package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pacedog/pacedog/internal/timecodec"
)

func (a *App) startTimer() error {
	if err := a.engine.Start(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Timer started.")
	return nil
}

func (a *App) stopTimer() error {
	if err := a.engine.Stop(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Stopped at %s\n", timecodec.Format(a.engine.Sample()))
	return nil
}

func (a *App) resetTimer() {
	a.engine.Reset()
	fmt.Fprintln(a.out, "Timer reset.")
}

func (a *App) manualTime(args []string) error {
	text := strings.Join(args, "")
	if text == "" {
		fmt.Fprintln(a.out, "Usage: manual <mm:ss.cc|ss.cc>")
		return nil
	}
	d, err := timecodec.Parse(text)
	if err != nil {
		return err
	}
	if err := a.engine.SetManual(d); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Time set to %s\n", timecodec.Format(a.engine.Sample()))
	return nil
}

func (a *App) showTime() {
	fmt.Fprintln(a.out, timecodec.Format(a.engine.Sample()))
}

// watch redraws the running stopwatch at the configured refresh interval
// until the user presses Enter. The engine only ever gets sampled; the
// cadence is entirely this loop's choice.
func (a *App) watch(ctx context.Context) {
	fmt.Fprintln(a.out, "(press Enter to stop watching)")

	done := make(chan struct{})
	go func() {
		_, _ = a.reader.ReadString('\n')
		close(done)
	}()

	ticker := time.NewTicker(a.config.TimerRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fmt.Fprintf(a.out, "\r%s ", timecodec.Format(a.engine.Sample()))
		case <-done:
			fmt.Fprintln(a.out)
			return
		case <-ctx.Done():
			return
		}
	}
}

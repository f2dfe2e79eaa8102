package config

import (
	"flag"
	"os"
	"time"

	"github.com/pacedog/pacedog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path/DSN of the local database (default from Config)
//	-r int      timer display refresh interval in milliseconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path of the local database")
	refreshMs := fs.Int("r", int(cfg.TimerRefreshInterval.Milliseconds()), "timer refresh interval (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TimerRefreshInterval = time.Duration(*refreshMs) * time.Millisecond
}

// Package cli provides the interactive PaceDog command-line front end.
//
// It wires configuration, the local SQLite store, the tracker service, and an
// interactive REPL around the stopwatch. Typical flow: open the database,
// pick the active dog, time a run (start/stop or a hand-typed manual time),
// and save it; the leaderboard and run history are derived on demand.
//
// Key commands:
//   - Dogs: dogs, adddog, editdog, deldog, active
//   - Timing: start, stop, reset, manual, time, watch
//   - Runs: save, runs, delrun, clearruns, board
//   - Data: dist, setdist, sport, export, import, wipe
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli

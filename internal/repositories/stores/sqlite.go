package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/pacedog/pacedog/internal/dbx"
	"github.com/pacedog/pacedog/internal/migrations"
	"github.com/pacedog/pacedog/internal/store"
)

const (
	metaSchemaVersion = "schema_version"
	metaActiveTab     = "active_tab"
	metaNextSeq       = "next_seq"
)

// SQLiteRepository implements Repository on a local SQLite database. SQLite
// gives no single-call whole-document write, so Save rewrites every table
// inside one transaction instead.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a repository bound to an already migrated db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn, applies migrations, and
// returns a ready repository.
func InitDatabase(ctx context.Context, dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one local writer; also keeps :memory: databases on a single connection
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewSQLiteRepository(db), nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Load reads the persisted store. A database without a schema version row
// (fresh file) or with an unreadable one yields a fresh default store; the
// load path never fails over recoverable corruption. Runs referencing a
// missing dog are dropped here, enforcing the referential-integrity rule on
// anything that slipped into the file.
func (r *SQLiteRepository) Load(ctx context.Context) (*store.Store, error) {
	version, ok := r.metaInt(ctx, metaSchemaVersion)
	if !ok || version < 1 || version > store.SchemaVersion {
		return store.Default(), nil
	}

	s := &store.Store{
		Version:  store.SchemaVersion,
		Dogs:     []store.Dog{},
		Runs:     []store.Run{},
		Settings: store.Default().Settings,
		NextSeq:  1,
	}

	if tab, ok := r.metaString(ctx, metaActiveTab); ok {
		s.ActiveTab = tab
	}
	if seq, ok := r.metaInt(ctx, metaNextSeq); ok && seq >= 1 {
		s.NextSeq = int64(seq)
	}

	if err := r.loadDistances(ctx, s); err != nil {
		return store.Default(), nil
	}
	if err := r.loadDogs(ctx, s); err != nil {
		return store.Default(), nil
	}
	if err := r.loadRuns(ctx, s); err != nil {
		return store.Default(), nil
	}
	if err := r.loadSettings(ctx, s); err != nil {
		return store.Default(), nil
	}

	if len(s.Distances) == 0 {
		s.Distances = store.Default().Distances
	}

	// drop orphans, fix the sequence counter
	kept := s.Runs[:0]
	var maxSeq int64
	for _, run := range s.Runs {
		if s.DogByID(run.DogID) == nil {
			continue
		}
		kept = append(kept, run)
		if run.Seq > maxSeq {
			maxSeq = run.Seq
		}
	}
	s.Runs = kept
	if s.NextSeq <= maxSeq {
		s.NextSeq = maxSeq + 1
	}

	return s, nil
}

// Save rewrites all tables from s inside a single transaction.
func (r *SQLiteRepository) Save(ctx context.Context, s *store.Store) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, table := range []string{"runs", "dogs", "distances", "settings", "meta"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		meta := map[string]string{
			metaSchemaVersion: strconv.Itoa(store.SchemaVersion),
			metaActiveTab:     s.ActiveTab,
			metaNextSeq:       strconv.FormatInt(s.NextSeq, 10),
		}
		for key, value := range meta {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO meta (key, value) VALUES (?, ?)`, key, value); err != nil {
				return fmt.Errorf("write meta %s: %w", key, err)
			}
		}

		for i, meters := range s.Distances {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO distances (position, meters) VALUES (?, ?)`, i, meters); err != nil {
				return fmt.Errorf("write distance: %w", err)
			}
		}

		for _, d := range s.Dogs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO dogs (id, name, breed, notes, photo, created_at)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				d.ID, d.Name, d.Breed, d.Notes, d.Photo, d.CreatedAt.Format(time.RFC3339Nano)); err != nil {
				return fmt.Errorf("write dog %s: %w", d.ID, err)
			}
		}

		for _, run := range s.RunsChronological() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO runs (id, dog_id, distance_m, time_ms, speed_kmh, sport, notes, seq, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID, run.DogID, run.DistanceM, run.ElapsedMs, run.SpeedKmH,
				string(run.Sport), run.Notes, run.Seq, run.CreatedAt.Format(time.RFC3339Nano)); err != nil {
				return fmt.Errorf("write run %s: %w", run.ID, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settings (id, default_distance_m, default_sport, units, active_dog_id)
			 VALUES (1, ?, ?, ?, ?)`,
			s.Settings.DefaultDistanceM, string(s.Settings.DefaultSport),
			s.Settings.Units, s.Settings.ActiveDogID); err != nil {
			return fmt.Errorf("write settings: %w", err)
		}

		return nil
	})
}

func (r *SQLiteRepository) metaString(ctx context.Context, key string) (string, bool) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

func (r *SQLiteRepository) metaInt(ctx context.Context, key string) (int, bool) {
	value, ok := r.metaString(ctx, key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (r *SQLiteRepository) loadDistances(ctx context.Context, s *store.Store) error {
	rows, err := r.db.QueryContext(ctx, `SELECT meters FROM distances ORDER BY position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var meters int
		if err := rows.Scan(&meters); err != nil {
			return err
		}
		s.Distances = append(s.Distances, meters)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadDogs(ctx context.Context, s *store.Store) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, breed, notes, photo, created_at FROM dogs ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var d store.Dog
		var createdAt string
		if err := rows.Scan(&d.ID, &d.Name, &d.Breed, &d.Notes, &d.Photo, &createdAt); err != nil {
			return err
		}
		d.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return err
		}
		s.Dogs = append(s.Dogs, d)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadRuns(ctx context.Context, s *store.Store) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, dog_id, distance_m, time_ms, speed_kmh, sport, notes, seq, created_at
		 FROM runs ORDER BY seq`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var run store.Run
		var sport, createdAt string
		if err := rows.Scan(&run.ID, &run.DogID, &run.DistanceM, &run.ElapsedMs,
			&run.SpeedKmH, &sport, &run.Notes, &run.Seq, &createdAt); err != nil {
			return err
		}
		run.Sport = store.Sport(sport)
		run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return err
		}
		s.Runs = append(s.Runs, run)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadSettings(ctx context.Context, s *store.Store) error {
	var sport string
	err := r.db.QueryRowContext(ctx,
		`SELECT default_distance_m, default_sport, units, active_dog_id FROM settings WHERE id = 1`).
		Scan(&s.Settings.DefaultDistanceM, &sport, &s.Settings.Units, &s.Settings.ActiveDogID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	s.Settings.DefaultSport = store.Sport(sport)
	return nil
}

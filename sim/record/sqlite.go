// Package record exports scenario results to a SQLite database for offline
// analysis. Nothing written here is ever read back by the simulator.
package record

import (
	"database/sql"
	"fmt"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"

	"github.com/rampsim/rampsim/sim"
)

// Recorder stores the outcome of scenario runs.
type Recorder interface {
	// RecordScenario buffers one scenario's result and its vehicle records.
	// It may flush, in which case a write failure is returned.
	RecordScenario(cfg sim.ScenarioConfig, res sim.ScenarioResult, vehicles []sim.VehicleRecord) error

	// Flush writes all buffered rows.
	Flush() error

	// Close flushes and releases the database.
	Close() error
}

const createScenariosSQL = `CREATE TABLE IF NOT EXISTS scenarios (
	run_id TEXT,
	scenario TEXT,
	lanes INTEGER,
	duration REAL,
	arrival_cutoff TEXT,
	vehicles INTEGER,
	avg_wait REAL,
	avg_exit REAL,
	avg_total REAL,
	max_wait REAL,
	peak_occupied INTEGER,
	peak_queue INTEGER,
	end_time REAL,
	throughput REAL
);`

const createVehiclesSQL = `CREATE TABLE IF NOT EXISTS vehicles (
	run_id TEXT,
	scenario TEXT,
	vehicle_index INTEGER,
	arrival REAL,
	grant_time REAL,
	wait REAL,
	exit REAL,
	queued INTEGER
);`

type scenarioRow struct {
	cfg sim.ScenarioConfig
	res sim.ScenarioResult
}

type vehicleRow struct {
	scenario string
	rec      sim.VehicleRecord
}

// SQLiteRecorder writes results into a SQLite database. Rows from one
// process share a RunID, so several invocations can append to one file.
type SQLiteRecorder struct {
	*sql.DB

	Path      string
	RunID     string
	batchSize int

	scenarios []scenarioRow
	vehicles  []vehicleRow
	closed    bool
}

// NewSQLiteRecorder opens (or creates) the database at path. An empty path
// creates rampsim_results_<id>.sqlite3 in the working directory.
// Buffered rows are flushed by Close or, failing that, by atexit.Exit.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	runID := xid.New().String()
	if path == "" {
		path = "rampsim_results_" + runID + ".sqlite3"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening results database %s: %w", path, err)
	}
	for _, stmt := range []string{createScenariosSQL, createVehiclesSQL} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating results tables in %s: %w", path, err)
		}
	}

	w := &SQLiteRecorder{
		DB:        db,
		Path:      path,
		RunID:     runID,
		batchSize: 100000,
	}

	atexit.Register(func() {
		if err := w.Close(); err != nil {
			logrus.Errorf("closing results database %s: %v", w.Path, err)
		}
	})

	logrus.Infof("Recording results to %s (run %s)", path, runID)
	return w, nil
}

// RecordScenario buffers one scenario. Buffers are flushed once batchSize
// vehicle rows accumulate; on a failed flush the rows stay buffered.
func (w *SQLiteRecorder) RecordScenario(cfg sim.ScenarioConfig, res sim.ScenarioResult, vehicles []sim.VehicleRecord) error {
	w.scenarios = append(w.scenarios, scenarioRow{cfg: cfg, res: res})
	for _, v := range vehicles {
		w.vehicles = append(w.vehicles, vehicleRow{scenario: res.Name, rec: v})
	}
	if len(w.vehicles) < w.batchSize {
		return nil
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing results database %s: %w", w.Path, err)
	}
	return nil
}

// Flush writes all buffered rows in a single transaction.
func (w *SQLiteRecorder) Flush() error {
	if w.closed || (len(w.scenarios) == 0 && len(w.vehicles) == 0) {
		return nil
	}

	tx, err := w.Begin()
	if err != nil {
		return err
	}
	if err := w.insertScenarios(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := w.insertVehicles(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	w.scenarios = w.scenarios[:0]
	w.vehicles = w.vehicles[:0]
	return nil
}

func (w *SQLiteRecorder) insertScenarios(tx *sql.Tx) error {
	stmt, err := tx.Prepare(insertSQL("scenarios", 14))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range w.scenarios {
		cfg, res := row.cfg, row.res
		_, err := stmt.Exec(
			w.RunID, res.Name, cfg.Lanes, cfg.Duration, string(cfg.Cutoff()),
			res.TotalVehicles, res.AvgWait, res.AvgExit, res.AvgTotal, res.MaxWait,
			res.PeakOccupied, res.PeakQueueLength, res.EndTime, res.Throughput,
		)
		if err != nil {
			return fmt.Errorf("inserting scenario %q: %w", res.Name, err)
		}
	}
	return nil
}

func (w *SQLiteRecorder) insertVehicles(tx *sql.Tx) error {
	stmt, err := tx.Prepare(insertSQL("vehicles", 8))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range w.vehicles {
		r := row.rec
		_, err := stmt.Exec(
			w.RunID, row.scenario, r.Index, r.ArrivalTime, r.GrantTime,
			r.WaitDuration, r.ExitDuration, r.Queued,
		)
		if err != nil {
			return fmt.Errorf("inserting vehicle %d of %q: %w", r.Index, row.scenario, err)
		}
	}
	return nil
}

// Close flushes pending rows and closes the database. Calling Close more
// than once is a no-op.
func (w *SQLiteRecorder) Close() error {
	if w.closed {
		return nil
	}
	err := w.Flush()
	w.closed = true
	if cerr := w.DB.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func insertSQL(table string, columns int) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", columns), ", ")
	return "INSERT INTO " + table + " VALUES (" + placeholders + ")"
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/purepursuit/internal/simulation"
)

// Run is the stored summary of one simulation.
type Run struct {
	RunID     string    `json:"run_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	simulation.Summary
	Passed bool `json:"passed"`
	// VehicleJSON and PursuitJSON hold the configuration the run used.
	VehicleJSON string `json:"vehicle,omitempty"`
	PursuitJSON string `json:"pursuit,omitempty"`
	// Error is set when the run ended without completing the path.
	Error string `json:"error,omitempty"`
}

// RunFromData builds a Run from recorded simulation data. pursuitConfig is
// stored verbatim as JSON and may be nil.
func RunFromData(id uuid.UUID, name string, data *simulation.Data, threshold float64, pursuitConfig interface{}, runErr error) (*Run, error) {
	run := &Run{
		RunID:     id.String(),
		Name:      name,
		CreatedAt: time.Now(),
		Summary:   data.Summarize(),
		Passed:    runErr == nil && data.Check(threshold).Passed(),
	}
	vehicleJSON, err := json.Marshal(data.Vehicle)
	if err != nil {
		return nil, fmt.Errorf("marshal vehicle: %w", err)
	}
	run.VehicleJSON = string(vehicleJSON)
	if pursuitConfig != nil {
		pursuitJSON, err := json.Marshal(pursuitConfig)
		if err != nil {
			return nil, fmt.Errorf("marshal pursuit config: %w", err)
		}
		run.PursuitJSON = string(pursuitJSON)
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	return run, nil
}

// RunStore persists runs and their cross-track error series.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db.DB}
}

// Insert stores a run together with its per-step cross-track errors.
// If run.RunID is empty, a new UUID is generated.
func (s *RunStore) Insert(ctx context.Context, run *Run, crossTrackErrors []float64) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert run: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO pursuit_runs (
			run_id, name, created_at, path_length, average_waypoint_angle,
			steps, runtime_s, average_step_time_ns, avg_abs_cross_track_error,
			average_velocity, max_angular_velocity, end_point_distance, passed,
			vehicle_json, pursuit_json, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		run.RunID,
		run.Name,
		run.CreatedAt.UnixNano(),
		run.PathLength,
		run.AverageWaypointAngle,
		run.Steps,
		run.Runtime,
		run.AverageStepTime.Nanoseconds(),
		run.AverageAbsCrossTrackError,
		run.AverageVelocity,
		run.MaxAngularVelocity,
		run.EndPointDistance,
		run.Passed,
		nullString(run.VehicleJSON),
		nullString(run.PursuitJSON),
		nullString(run.Error),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pursuit_cross_track_errors (run_id, step, cross_track_error) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare cross track insert: %w", err)
	}
	defer stmt.Close()
	for i, e := range crossTrackErrors {
		if _, err := stmt.ExecContext(ctx, run.RunID, i, e); err != nil {
			return fmt.Errorf("insert cross track error %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = `
	run_id, name, created_at, path_length, average_waypoint_angle,
	steps, runtime_s, average_step_time_ns, avg_abs_cross_track_error,
	average_velocity, max_angular_velocity, end_point_distance, passed,
	vehicle_json, pursuit_json, error`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	r := &Run{}
	var createdAt, stepTimeNs int64
	var vehicleJSON, pursuitJSON, runErr sql.NullString
	err := row.Scan(
		&r.RunID, &r.Name, &createdAt, &r.PathLength, &r.AverageWaypointAngle,
		&r.Steps, &r.Runtime, &stepTimeNs, &r.AverageAbsCrossTrackError,
		&r.AverageVelocity, &r.MaxAngularVelocity, &r.EndPointDistance, &r.Passed,
		&vehicleJSON, &pursuitJSON, &runErr,
	)
	if err != nil {
		return nil, err
	}
	r.CreatedAt = time.Unix(0, createdAt)
	r.AverageStepTime = time.Duration(stepTimeNs)
	r.VehicleJSON = vehicleJSON.String
	r.PursuitJSON = pursuitJSON.String
	r.Error = runErr.String
	return r, nil
}

// Get returns the run with the given ID, or sql.ErrNoRows.
func (s *RunStore) Get(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM pursuit_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return r, nil
}

// List returns the most recent runs first. A limit of zero or less returns
// every run.
func (s *RunStore) List(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM pursuit_runs ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// CrossTrackErrors returns the stored series for a run in step order.
func (s *RunStore) CrossTrackErrors(ctx context.Context, runID string) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cross_track_error FROM pursuit_cross_track_errors WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("list cross track errors: %w", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var e float64
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scan cross track error: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes a run and its series.
func (s *RunStore) Delete(ctx context.Context, runID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM pursuit_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

package repos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/models"
)

// column types match the MySQL power tables of earlier installs so their databases can be reused
var schemas = map[string][]string{
	"sqlite3": {
		`CREATE TABLE IF NOT EXISTS power_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			light_id VARCHAR(10) NOT NULL,
			light_name VARCHAR(100) NOT NULL,
			watts DECIMAL(5,2) NOT NULL,
			brightness INT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_power_log_timestamp ON power_log(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_power_log_light ON power_log(light_id)`,
		`CREATE TABLE IF NOT EXISTS total_consumption (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			total_watts DECIMAL(7,2) NOT NULL,
			active_lights INT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_total_consumption_timestamp ON total_consumption(timestamp)`,
	},
	"mysql": {
		`CREATE TABLE IF NOT EXISTS power_log (
			id INT AUTO_INCREMENT PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			light_id VARCHAR(10) NOT NULL,
			light_name VARCHAR(100) NOT NULL,
			watts DECIMAL(5,2) NOT NULL,
			brightness INT NOT NULL,
			INDEX idx_timestamp (timestamp),
			INDEX idx_light_id (light_id)
		)`,
		`CREATE TABLE IF NOT EXISTS total_consumption (
			id INT AUTO_INCREMENT PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			total_watts DECIMAL(7,2) NOT NULL,
			active_lights INT NOT NULL,
			INDEX idx_timestamp (timestamp)
		)`,
	},
}

// PowerRepo stores the power samples. Timestamps are written in UTC.
type PowerRepo struct {
	logger  *log.Logger
	db      *sql.DB
	timeout time.Duration
}

func NewPowerRepo(logger *log.Logger, db *sql.DB, driver string) (*PowerRepo, error) {
	statements, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("no power schema for driver %q", driver)
	}

	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return nil, fmt.Errorf("Error initialising power schema: %w", err)
		}
	}

	return &PowerRepo{logger: logger, db: db, timeout: constants.DBQueryTimeout}, nil
}

// AddReading writes one tick's samples and totals in a single transaction
func (r *PowerRepo) AddReading(ctx context.Context, reading models.PowerReading) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("Error starting power log transaction", err)
	}
	defer tx.Rollback()

	for _, sample := range reading.Samples {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO power_log (timestamp, light_id, light_name, watts, brightness) VALUES (?, ?, ?, ?, ?)`,
			sample.Timestamp.UTC(),
			sample.LightID,
			sample.LightName,
			sample.Watts,
			sample.Brightness,
		)
		if err != nil {
			return unavailable(fmt.Sprintf("Error logging power for light (%s)", sample.LightID), err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO total_consumption (timestamp, total_watts, active_lights) VALUES (?, ?, ?)`,
		reading.Totals.Timestamp.UTC(),
		reading.Totals.TotalWatts,
		reading.Totals.ActiveLights,
	)
	if err != nil {
		return unavailable("Error logging total consumption", err)
	}

	if err := tx.Commit(); err != nil {
		return unavailable("Error committing power log", err)
	}
	return nil
}

// ReadTotalsSince returns the totals logged at or after since, oldest first
func (r *PowerRepo) ReadTotalsSince(ctx context.Context, since time.Time) ([]models.TotalsSample, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT timestamp, total_watts, active_lights FROM total_consumption WHERE timestamp >= ? ORDER BY timestamp`,
		since.UTC(),
	)
	if err != nil {
		return nil, unavailable("Error reading total consumption", err)
	}
	defer rows.Close()

	totals := []models.TotalsSample{}
	for rows.Next() {
		var sample models.TotalsSample
		if err := rows.Scan(&sample.Timestamp, &sample.TotalWatts, &sample.ActiveLights); err != nil {
			return nil, unavailable("Error scanning total consumption", err)
		}
		totals = append(totals, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("Error reading total consumption", err)
	}
	return totals, nil
}

// ReadLightConsumption returns the cumulative sums per light over the whole log
func (r *PowerRepo) ReadLightConsumption(ctx context.Context) ([]models.LightConsumption, error) {
	return r.readConsumption(ctx, "", nil)
}

// ReadLightConsumptionSince returns the sums per light over the samples logged at or after since
func (r *PowerRepo) ReadLightConsumptionSince(ctx context.Context, since time.Time) ([]models.LightConsumption, error) {
	return r.readConsumption(ctx, "WHERE timestamp >= ?", []any{since.UTC()})
}

func (r *PowerRepo) readConsumption(ctx context.Context, where string, args []any) ([]models.LightConsumption, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT light_id, MAX(light_name), SUM(watts), MAX(watts), COUNT(*), SUM(CASE WHEN brightness > 0 THEN 1 ELSE 0 END)
		FROM power_log `+where+` GROUP BY light_id`,
		args...,
	)
	if err != nil {
		return nil, unavailable("Error reading light consumption", err)
	}
	defer rows.Close()

	consumption := []models.LightConsumption{}
	for rows.Next() {
		var c models.LightConsumption
		var name sql.NullString
		if err := rows.Scan(&c.LightID, &name, &c.SumWatts, &c.MaxWatts, &c.Measurements, &c.OnSamples); err != nil {
			return nil, unavailable("Error scanning light consumption", err)
		}
		c.LightName = name.String
		consumption = append(consumption, c)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("Error reading light consumption", err)
	}
	return consumption, nil
}

// ReadLightSamplesSince returns one light's samples logged at or after since, oldest first
func (r *PowerRepo) ReadLightSamplesSince(ctx context.Context, lightID string, since time.Time) ([]models.PowerSample, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT timestamp, light_id, light_name, watts, brightness FROM power_log WHERE light_id = ? AND timestamp >= ? ORDER BY timestamp`,
		lightID,
		since.UTC(),
	)
	if err != nil {
		return nil, unavailable(fmt.Sprintf("Error reading power log for light (%s)", lightID), err)
	}
	defer rows.Close()

	samples := []models.PowerSample{}
	for rows.Next() {
		var sample models.PowerSample
		if err := rows.Scan(&sample.Timestamp, &sample.LightID, &sample.LightName, &sample.Watts, &sample.Brightness); err != nil {
			return nil, unavailable(fmt.Sprintf("Error scanning power log for light (%s)", lightID), err)
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(fmt.Sprintf("Error reading power log for light (%s)", lightID), err)
	}
	return samples, nil
}

func unavailable(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, models.ErrPersistenceUnavailable, err)
}

// Package telemetry stores periodic laser readings in a local sqlite
// database for the monitor daemon.
package telemetry

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Reading is one polled snapshot of the laser's sensed values.
type Reading struct {
	DeviceID        int       `json:"device_id"`
	WavelengthNm    float64   `json:"wavelength_nm"`
	PowerMw         float64   `json:"power_mw"`
	DiodeCurrentMa  float64   `json:"diode_current_ma"`
	DiodeTempC      float64   `json:"diode_temp_c"`
	CavityTempC     float64   `json:"cavity_temp_c"`
	PiezoVoltagePct float64   `json:"piezo_voltage_pct"`
	Timestamp       time.Time `json:"timestamp"`
}

type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the reading store at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS readings (
			device_id         BIGINT,
			wavelength_nm     DOUBLE,
			power_mw          DOUBLE,
			diode_current_ma  DOUBLE,
			diode_temp_c      DOUBLE,
			cavity_temp_c     DOUBLE,
			piezo_voltage_pct DOUBLE,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// RecordReading appends one reading. A zero Timestamp is stamped with the
// current time.
func (db *DB) RecordReading(r Reading) error {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := db.Exec(`
		INSERT INTO readings (
			device_id, wavelength_nm, power_mw, diode_current_ma,
			diode_temp_c, cavity_temp_c, piezo_voltage_pct, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.DeviceID, r.WavelengthNm, r.PowerMw, r.DiodeCurrentMa,
		r.DiodeTempC, r.CavityTempC, r.PiezoVoltagePct, ts,
	)
	return err
}

// Readings returns the most recent readings, newest first, up to limit.
func (db *DB) Readings(limit int) ([]Reading, error) {
	rows, err := db.Query(`
		SELECT device_id, wavelength_nm, power_mw, diode_current_ma,
		       diode_temp_c, cavity_temp_c, piezo_voltage_pct, timestamp
		FROM readings
		ORDER BY timestamp DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		var r Reading
		if err := rows.Scan(
			&r.DeviceID, &r.WavelengthNm, &r.PowerMw, &r.DiodeCurrentMa,
			&r.DiodeTempC, &r.CavityTempC, &r.PiezoVoltagePct, &r.Timestamp,
		); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// LatestReading returns the most recent reading, or sql.ErrNoRows if the
// store is empty.
func (db *DB) LatestReading() (Reading, error) {
	readings, err := db.Readings(1)
	if err != nil {
		return Reading{}, err
	}
	if len(readings) == 0 {
		return Reading{}, sql.ErrNoRows
	}
	return readings[0], nil
}

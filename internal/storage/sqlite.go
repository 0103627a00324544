package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"nutrition-chat/internal/core/learning"
	"nutrition-chat/internal/core/nutrition"
	"nutrition-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// SQLiteStorage persists pending foods and patient daily logs in one
// sqlite database file.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the database and ensures the schema.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS pending_foods (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        raw_name TEXT NOT NULL,
        canonical_name TEXT NOT NULL,
        suggested_action TEXT NOT NULL,
        confidence REAL,
        example_input TEXT NOT NULL DEFAULT '',
        nutrition_data TEXT,
        source TEXT NOT NULL DEFAULT '',
        status TEXT NOT NULL DEFAULT 'pending',
        seen_count INTEGER NOT NULL DEFAULT 1,
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL,
        UNIQUE (raw_name, canonical_name)
    );

    CREATE TABLE IF NOT EXISTS daily_logs (
        patient_id TEXT NOT NULL,
        day TEXT NOT NULL,
        daily_totals TEXT NOT NULL,
        entries TEXT NOT NULL,
        last_updated TEXT NOT NULL,
        PRIMARY KEY (patient_id, day)
    );

    CREATE INDEX IF NOT EXISTS idx_pending_foods_status ON pending_foods(status);
    CREATE INDEX IF NOT EXISTS idx_daily_logs_day ON daily_logs(day);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// ----------------------------
// pending_foods (learning.Store)
// ----------------------------

const pendingColumns = `id, raw_name, canonical_name, suggested_action, confidence,
    example_input, nutrition_data, source, status, seen_count, created_at, updated_at`

func scanPendingFood(row interface{ Scan(...interface{}) error }) (*learning.PendingFood, error) {
	p := &learning.PendingFood{}
	var confidence sql.NullFloat64
	var nutritionRaw sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID, &p.RawName, &p.CanonicalName, &p.SuggestedAction, &confidence,
		&p.ExampleInput, &nutritionRaw, &p.Source, &p.Status, &p.SeenCount,
		&createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, err
	}

	if confidence.Valid {
		v := confidence.Float64
		p.Confidence = &v
	}
	if nutritionRaw.Valid && nutritionRaw.String != "" {
		var n nutrition.Nutrients
		if err := json.Unmarshal([]byte(nutritionRaw.String), &n); err == nil {
			p.NutritionData = &n
		}
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return p, nil
}

func marshalNutrition(n *nutrition.Nutrients) interface{} {
	if n == nil {
		return nil
	}
	data, err := json.Marshal(n)
	if err != nil {
		return nil
	}
	return string(data)
}

func confidenceValue(c *float64) interface{} {
	if c == nil {
		return nil
	}
	return *c
}

// GetByKey returns the row for a (raw, canonical) pair, or nil when absent.
func (s *SQLiteStorage) GetByKey(ctx context.Context, rawName, canonicalName string) (*learning.PendingFood, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_foods WHERE raw_name = ? AND canonical_name = ?`
	p, err := scanPendingFood(s.db.QueryRowContext(ctx, query, rawName, canonicalName))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pending food: %w", err)
	}
	return p, nil
}

// GetByID returns the row by id, or nil when absent.
func (s *SQLiteStorage) GetByID(ctx context.Context, id int64) (*learning.PendingFood, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_foods WHERE id = ?`
	p, err := scanPendingFood(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pending food: %w", err)
	}
	return p, nil
}

// Insert stores a new pending food and backfills its id.
func (s *SQLiteStorage) Insert(ctx context.Context, p *learning.PendingFood) error {
	query := `
        INSERT INTO pending_foods
            (raw_name, canonical_name, suggested_action, confidence, example_input,
             nutrition_data, source, status, seen_count, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	result, err := s.db.ExecContext(ctx, query,
		p.RawName, p.CanonicalName, p.SuggestedAction, confidenceValue(p.Confidence),
		p.ExampleInput, marshalNutrition(p.NutritionData), p.Source, p.Status,
		p.SeenCount, p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert pending food: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read insert id: %w", err)
	}
	p.ID = id
	return nil
}

// Update rewrites every mutable column of an existing row.
func (s *SQLiteStorage) Update(ctx context.Context, p *learning.PendingFood) error {
	query := `
        UPDATE pending_foods SET
            raw_name = ?, canonical_name = ?, suggested_action = ?, confidence = ?,
            example_input = ?, nutrition_data = ?, source = ?, status = ?,
            seen_count = ?, updated_at = ?
        WHERE id = ?
    `
	result, err := s.db.ExecContext(ctx, query,
		p.RawName, p.CanonicalName, p.SuggestedAction, confidenceValue(p.Confidence),
		p.ExampleInput, marshalNutrition(p.NutritionData), p.Source, p.Status,
		p.SeenCount, p.UpdatedAt.Format(time.RFC3339), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update pending food: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return common.ErrPendingNotFound
	}
	return nil
}

// List returns pending foods matching the filter, newest first.
func (s *SQLiteStorage) List(ctx context.Context, filter learning.ListFilter) ([]learning.PendingFood, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_foods WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Action != "" {
		query += " AND suggested_action = ?"
		args = append(args, filter.Action)
	}
	if filter.Query != "" {
		query += " AND (raw_name LIKE ? OR canonical_name LIKE ?)"
		like := "%" + strings.TrimSpace(filter.Query) + "%"
		args = append(args, like, like)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	query += " ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending foods: %w", err)
	}
	defer rows.Close()

	var items []learning.PendingFood
	for rows.Next() {
		p, err := scanPendingFood(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending food: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// ----------------------------
// daily_logs
// ----------------------------

func rowToDailyLog(patientID, day, totalsRaw, entriesRaw, lastUpdated string) *DailyLog {
	log := &DailyLog{
		PatientID:   patientID,
		Day:         day,
		LastUpdated: lastUpdated,
		Entries:     []MealEntry{},
	}
	// Corrupt blobs decode to empty defaults rather than failing the read.
	if err := json.Unmarshal([]byte(totalsRaw), &log.DailyTotals); err != nil {
		common.LogWarn("corrupt daily_totals blob, using empty totals",
			zap.String("patient_id", patientID), zap.String("day", day))
		log.DailyTotals = EntrySummary{}
	}
	if err := json.Unmarshal([]byte(entriesRaw), &log.Entries); err != nil {
		common.LogWarn("corrupt entries blob, using empty entry list",
			zap.String("patient_id", patientID), zap.String("day", day))
		log.Entries = []MealEntry{}
	}
	return log
}

// GetDailyLog returns the log for a patient-day, or nil when absent.
func (s *SQLiteStorage) GetDailyLog(ctx context.Context, patientID, day string) (*DailyLog, error) {
	query := `SELECT daily_totals, entries, last_updated FROM daily_logs WHERE patient_id = ? AND day = ?`
	var totalsRaw, entriesRaw, lastUpdated string
	err := s.db.QueryRowContext(ctx, query, patientID, day).Scan(&totalsRaw, &entriesRaw, &lastUpdated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query daily log: %w", err)
	}
	return rowToDailyLog(patientID, day, totalsRaw, entriesRaw, lastUpdated), nil
}

// GetPatientLogs returns every log for a patient, newest day first.
func (s *SQLiteStorage) GetPatientLogs(ctx context.Context, patientID string) ([]*DailyLog, error) {
	query := `SELECT day, daily_totals, entries, last_updated FROM daily_logs WHERE patient_id = ? ORDER BY day DESC`
	rows, err := s.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query patient logs: %w", err)
	}
	defer rows.Close()

	var logs []*DailyLog
	for rows.Next() {
		var day, totalsRaw, entriesRaw, lastUpdated string
		if err := rows.Scan(&day, &totalsRaw, &entriesRaw, &lastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan daily log: %w", err)
		}
		logs = append(logs, rowToDailyLog(patientID, day, totalsRaw, entriesRaw, lastUpdated))
	}
	return logs, rows.Err()
}

// GetHistory returns a patient's logs inside an inclusive [from, to] day
// range; empty bounds are open-ended.
func (s *SQLiteStorage) GetHistory(ctx context.Context, patientID, from, to string) ([]*DailyLog, error) {
	query := `SELECT day, daily_totals, entries, last_updated FROM daily_logs WHERE patient_id = ?`
	args := []interface{}{patientID}

	if from != "" {
		query += " AND day >= ?"
		args = append(args, from)
	}
	if to != "" {
		query += " AND day <= ?"
		args = append(args, to)
	}
	query += " ORDER BY day DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var logs []*DailyLog
	for rows.Next() {
		var day, totalsRaw, entriesRaw, lastUpdated string
		if err := rows.Scan(&day, &totalsRaw, &entriesRaw, &lastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan daily log: %w", err)
		}
		logs = append(logs, rowToDailyLog(patientID, day, totalsRaw, entriesRaw, lastUpdated))
	}
	return logs, rows.Err()
}

// AppendEntry adds a meal entry to the (patient, day) log, creating the
// log when needed, and recomputes the day totals.
func (s *SQLiteStorage) AppendEntry(ctx context.Context, patientID, day string, entry MealEntry) (*DailyLog, error) {
	return s.mutateLog(ctx, patientID, day, true, func(entries []MealEntry) ([]MealEntry, error) {
		return append(entries, entry), nil
	})
}

// UpdateEntry applies updater to the entry with entryID inside the
// (patient, day) log and recomputes the day totals. Returns nil when the
// log or the entry does not exist.
func (s *SQLiteStorage) UpdateEntry(ctx context.Context, patientID, day, entryID string, updater func(MealEntry) MealEntry) (*DailyLog, error) {
	return s.mutateLog(ctx, patientID, day, false, func(entries []MealEntry) ([]MealEntry, error) {
		for i, e := range entries {
			if e.EntryID == entryID {
				entries[i] = updater(e)
				return entries, nil
			}
		}
		return nil, common.ErrLogEntryNotFound
	})
}

// mutateLog runs a read-modify-write cycle over one log row inside a
// transaction.
func (s *SQLiteStorage) mutateLog(ctx context.Context, patientID, day string, createMissing bool, mutate func([]MealEntry) ([]MealEntry, error)) (*DailyLog, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var totalsRaw, entriesRaw, lastUpdated string
	err = tx.QueryRowContext(ctx,
		`SELECT daily_totals, entries, last_updated FROM daily_logs WHERE patient_id = ? AND day = ?`,
		patientID, day).Scan(&totalsRaw, &entriesRaw, &lastUpdated)

	var log *DailyLog
	switch {
	case err == sql.ErrNoRows:
		if !createMissing {
			return nil, nil
		}
		log = &DailyLog{PatientID: patientID, Day: day, Entries: []MealEntry{}}
	case err != nil:
		return nil, fmt.Errorf("failed to query daily log: %w", err)
	default:
		log = rowToDailyLog(patientID, day, totalsRaw, entriesRaw, lastUpdated)
	}

	entries, err := mutate(log.Entries)
	if err != nil {
		if err == common.ErrLogEntryNotFound {
			return nil, nil
		}
		return nil, err
	}
	log.Entries = entries
	log.DailyTotals = sumDayTotals(entries)
	log.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	totalsJSON, err := json.Marshal(log.DailyTotals)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal totals: %w", err)
	}
	entriesJSON, err := json.Marshal(log.Entries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entries: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO daily_logs (patient_id, day, daily_totals, entries, last_updated)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(patient_id, day) DO UPDATE SET
            daily_totals = excluded.daily_totals,
            entries = excluded.entries,
            last_updated = excluded.last_updated
    `, patientID, day, string(totalsJSON), string(entriesJSON), log.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert daily log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return log, nil
}

// DeleteDailyLog removes one patient-day log. Returns false when no row
// matched.
func (s *SQLiteStorage) DeleteDailyLog(ctx context.Context, patientID, day string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM daily_logs WHERE patient_id = ? AND day = ?`, patientID, day)
	if err != nil {
		return false, fmt.Errorf("failed to delete daily log: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IterEntries streams (patientID, day, entries) triples across all
// patients inside an inclusive day range, for analytics.
func (s *SQLiteStorage) IterEntries(ctx context.Context, from, to string, fn func(patientID, day string, entries []MealEntry)) error {
	query := `SELECT patient_id, day, daily_totals, entries, last_updated FROM daily_logs WHERE 1=1`
	args := []interface{}{}

	if from != "" {
		query += " AND day >= ?"
		args = append(args, from)
	}
	if to != "" {
		query += " AND day <= ?"
		args = append(args, to)
	}
	query += " ORDER BY day ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var patientID, day, totalsRaw, entriesRaw, lastUpdated string
		if err := rows.Scan(&patientID, &day, &totalsRaw, &entriesRaw, &lastUpdated); err != nil {
			return fmt.Errorf("failed to scan daily log: %w", err)
		}
		log := rowToDailyLog(patientID, day, totalsRaw, entriesRaw, lastUpdated)
		fn(patientID, day, log.Entries)
	}
	return rows.Err()
}

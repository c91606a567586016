package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/calorietracker/backend/internal/domain"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// profileRowID is the fixed key of the single profile row
const profileRowID = 1

// SQLiteStorage stages inserted records in memory and writes them in one
// transaction on Save.
type SQLiteStorage struct {
	db     *sql.DB
	logger *zap.Logger

	mu      sync.Mutex
	pending []domain.Record
}

// NewSQLiteStorage opens (or creates) the database at dbPath
func NewSQLiteStorage(dbPath string, logger *zap.Logger) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", domain.ErrStorage, err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	storage, err := NewSQLiteStorageWithDB(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return storage, nil
}

// NewSQLiteStorageWithDB uses an already opened database and creates the schema
func NewSQLiteStorageWithDB(db *sql.DB, logger *zap.Logger) (*SQLiteStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	storage := &SQLiteStorage{db: db, logger: logger.Named("storage")}
	if err := storage.initSchema(); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize schema: %v", domain.ErrStorage, err)
	}
	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS meals (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        timestamp TEXT NOT NULL,
        calories INTEGER NOT NULL,
        protein REAL NOT NULL,
        carbs REAL NOT NULL,
        fat REAL NOT NULL,
        notes TEXT NOT NULL DEFAULT '',
        is_activity INTEGER NOT NULL DEFAULT 0,
        duration_minutes INTEGER NOT NULL DEFAULT 0,
        source TEXT NOT NULL DEFAULT ''
    );

    CREATE TABLE IF NOT EXISTS weight_entries (
        id TEXT PRIMARY KEY,
        weight_kg REAL NOT NULL,
        date TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS profile (
        id INTEGER PRIMARY KEY,
        name TEXT NOT NULL,
        gender TEXT NOT NULL,
        age INTEGER NOT NULL,
        height_cm REAL NOT NULL,
        weight_kg REAL NOT NULL,
        activity_level TEXT NOT NULL,
        goal TEXT NOT NULL,
        goal_weight_kg REAL NOT NULL,
        initial_weight_kg REAL NOT NULL,
        daily_calorie_goal INTEGER NOT NULL,
        daily_calorie_burn_goal INTEGER NOT NULL,
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_meals_timestamp ON meals(timestamp);
    CREATE INDEX IF NOT EXISTS idx_weight_entries_date ON weight_entries(date);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Insert stages a record for the next Save
func (s *SQLiteStorage) Insert(record domain.Record) {
	if record == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, record)
}

// Pending returns the number of staged records
func (s *SQLiteStorage) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Save writes every staged record in a single transaction. The stage is
// cleared whether or not the transaction commits.
func (s *SQLiteStorage) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}
	defer func() { s.pending = nil }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to start transaction: %v", domain.ErrStorage, err)
	}
	defer tx.Rollback()

	for _, record := range s.pending {
		if err := writeRecord(ctx, tx, record); err != nil {
			s.logger.Error("save failed", zap.Int("pending", len(s.pending)), zap.Error(err))
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit: %v", domain.ErrStorage, err)
	}

	s.logger.Debug("saved records", zap.Int("count", len(s.pending)))
	return nil
}

func writeRecord(ctx context.Context, tx *sql.Tx, record domain.Record) error {
	switch r := record.(type) {
	case *domain.MealRecord:
		_, err := tx.ExecContext(ctx, `
            INSERT INTO meals (id, name, timestamp, calories, protein, carbs, fat, notes, is_activity, duration_minutes, source)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        `,
			r.ID, r.Name, formatTime(r.Timestamp), r.Calories, r.Protein, r.Carbs, r.Fat,
			r.Notes, r.IsActivity, r.DurationMinutes, r.Source)
		if err != nil {
			return fmt.Errorf("failed to insert meal: %w", err)
		}
	case *domain.WeightEntry:
		_, err := tx.ExecContext(ctx, `
            INSERT INTO weight_entries (id, weight_kg, date) VALUES (?, ?, ?)
        `, r.ID, r.WeightKg, formatTime(r.Date))
		if err != nil {
			return fmt.Errorf("failed to insert weight entry: %w", err)
		}
	case *domain.ProfileRecord:
		p := r.Profile
		_, err := tx.ExecContext(ctx, `
            INSERT INTO profile (id, name, gender, age, height_cm, weight_kg, activity_level, goal, goal_weight_kg,
                initial_weight_kg, daily_calorie_goal, daily_calorie_burn_goal, created_at, updated_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(id) DO UPDATE SET
                name = excluded.name,
                gender = excluded.gender,
                age = excluded.age,
                height_cm = excluded.height_cm,
                weight_kg = excluded.weight_kg,
                activity_level = excluded.activity_level,
                goal = excluded.goal,
                goal_weight_kg = excluded.goal_weight_kg,
                initial_weight_kg = excluded.initial_weight_kg,
                daily_calorie_goal = excluded.daily_calorie_goal,
                daily_calorie_burn_goal = excluded.daily_calorie_burn_goal,
                updated_at = excluded.updated_at
        `,
			profileRowID, r.Name, string(p.Gender), p.Age, p.HeightCm, p.WeightKg,
			string(p.ActivityLevel), string(p.Goal), p.GoalWeightKg, r.InitialWeightKg,
			r.Goals.DailyCalorieGoal, r.Goals.DailyCalorieBurnGoal,
			formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
		if err != nil {
			return fmt.Errorf("failed to upsert profile: %w", err)
		}
	default:
		return fmt.Errorf("unsupported record type %T", record)
	}
	return nil
}

// Profile returns the stored profile or domain.ErrProfileNotFound
func (s *SQLiteStorage) Profile(ctx context.Context) (*domain.ProfileRecord, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT name, gender, age, height_cm, weight_kg, activity_level, goal, goal_weight_kg,
            initial_weight_kg, daily_calorie_goal, daily_calorie_burn_goal, created_at, updated_at
        FROM profile WHERE id = ?
    `, profileRowID)

	var (
		rec                  domain.ProfileRecord
		gender, level, goal  string
		createdAt, updatedAt string
	)
	err := row.Scan(&rec.Name, &gender, &rec.Profile.Age, &rec.Profile.HeightCm, &rec.Profile.WeightKg,
		&level, &goal, &rec.Profile.GoalWeightKg, &rec.InitialWeightKg,
		&rec.Goals.DailyCalorieGoal, &rec.Goals.DailyCalorieBurnGoal, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan profile: %v", domain.ErrStorage, err)
	}

	rec.Profile.Gender = domain.ParseGender(gender)
	rec.Profile.ActivityLevel = domain.ParseActivityLevel(level)
	rec.Profile.Goal = domain.ParseGoal(goal)
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("%w: failed to parse created_at: %v", domain.ErrStorage, err)
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("%w: failed to parse updated_at: %v", domain.ErrStorage, err)
	}

	return &rec, nil
}

// MealsBetween returns meal and activity records with start <= timestamp < end, oldest first
func (s *SQLiteStorage) MealsBetween(ctx context.Context, start, end time.Time) ([]domain.MealRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, timestamp, calories, protein, carbs, fat, notes, is_activity, duration_minutes, source
        FROM meals
        WHERE timestamp >= ? AND timestamp < ?
        ORDER BY timestamp ASC
    `, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query meals: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var meals []domain.MealRecord
	for rows.Next() {
		var (
			meal         domain.MealRecord
			timestampStr string
		)
		err := rows.Scan(&meal.ID, &meal.Name, &timestampStr, &meal.Calories, &meal.Protein,
			&meal.Carbs, &meal.Fat, &meal.Notes, &meal.IsActivity, &meal.DurationMinutes, &meal.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan meal: %v", domain.ErrStorage, err)
		}
		if meal.Timestamp, err = parseTime(timestampStr); err != nil {
			return nil, fmt.Errorf("%w: failed to parse timestamp: %v", domain.ErrStorage, err)
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	return meals, nil
}

// WeightEntries returns up to limit entries, newest first
func (s *SQLiteStorage) WeightEntries(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT id, weight_kg, date FROM weight_entries ORDER BY date DESC LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query weight entries: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var entries []domain.WeightEntry
	for rows.Next() {
		var (
			entry   domain.WeightEntry
			dateStr string
		)
		if err := rows.Scan(&entry.ID, &entry.WeightKg, &dateStr); err != nil {
			return nil, fmt.Errorf("%w: failed to scan weight entry: %v", domain.ErrStorage, err)
		}
		if entry.Date, err = parseTime(dateStr); err != nil {
			return nil, fmt.Errorf("%w: failed to parse date: %v", domain.ErrStorage, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	return entries, nil
}

// DeleteMeal removes a meal or activity record
func (s *SQLiteStorage) DeleteMeal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM meals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete meal: %v", domain.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if n == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// Timestamps are stored as UTC RFC3339 with fixed-width nanoseconds so that
// lexical order in SQL matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nguyenvanduocit/rag-cost-calculator/internal/model"
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
}

// User represents a registered account
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Scenario is a saved estimator configuration belonging to a user
type Scenario struct {
	ID        int64
	UserID    string
	Name      string
	Config    model.UsageConfig
	CreatedAt time.Time
}

// Open opens a SQLite database connection
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors under concurrent load
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return &DB{db}, nil
}

// Migrate creates the database schema
func (db *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS scenarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		config TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		UNIQUE(user_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_scenarios_user ON scenarios(user_id);

	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_expiry ON sessions(expiry);
	`

	_, err := db.Exec(schema)
	return err
}

// CreateUser creates a new user
func (db *DB) CreateUser(user *User) error {
	_, err := db.Exec(
		`INSERT INTO users (id, username, password_hash, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt,
	)
	return err
}

// GetUserByUsername retrieves a user by username
func (db *DB) GetUserByUsername(username string) (*User, error) {
	user := &User{}
	err := db.QueryRow(
		`SELECT id, username, password_hash, created_at
		 FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (db *DB) GetUserByID(id string) (*User, error) {
	user := &User{}
	err := db.QueryRow(
		`SELECT id, username, password_hash, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SaveScenario inserts or replaces a named scenario for a user
func (db *DB) SaveScenario(userID, name string, cfg model.UsageConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize scenario: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO scenarios (user_id, name, config, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, name) DO UPDATE SET config = excluded.config`,
		userID, name, string(data), time.Now(),
	)
	return err
}

// ListScenarios returns a user's saved scenarios, newest first
func (db *DB) ListScenarios(userID string) ([]Scenario, error) {
	rows, err := db.Query(
		`SELECT id, user_id, name, config, created_at
		 FROM scenarios WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenarios []Scenario
	for rows.Next() {
		var s Scenario
		var raw string
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &raw, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &s.Config); err != nil {
			// Skip rows with unreadable configs
			continue
		}
		scenarios = append(scenarios, s)
	}

	return scenarios, rows.Err()
}

// GetScenario retrieves one scenario, scoped to its owner
func (db *DB) GetScenario(userID string, id int64) (*Scenario, error) {
	s := &Scenario{}
	var raw string
	err := db.QueryRow(
		`SELECT id, user_id, name, config, created_at
		 FROM scenarios WHERE user_id = ? AND id = ?`,
		userID, id,
	).Scan(&s.ID, &s.UserID, &s.Name, &raw, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &s.Config); err != nil {
		return nil, fmt.Errorf("failed to read scenario config: %w", err)
	}
	return s, nil
}

// DeleteScenario removes a scenario, scoped to its owner
func (db *DB) DeleteScenario(userID string, id int64) error {
	_, err := db.Exec(`DELETE FROM scenarios WHERE user_id = ? AND id = ?`, userID, id)
	return err
}

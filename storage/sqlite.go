package storage

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// sqlStorage is a [KeyValueStore] over a single-table SQL database. Used
// with SQLite for installations that already keep local client state in a
// database file.
type sqlStorage struct {
	db *sql.DB
}

const sqlConfigSchema = `
CREATE TABLE IF NOT EXISTS config (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

// NewSQLiteStorage opens (or creates) the SQLite database at dsn and ensures
// the config table exists.
func NewSQLiteStorage(dsn string) (KeyValueStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite storage: %w", err)
	}
	return NewSQLStorage(db)
}

// NewSQLStorage wraps an already-open database. The caller keeps ownership
// of db.
func NewSQLStorage(db *sql.DB) (KeyValueStore, error) {
	if _, err := db.Exec(sqlConfigSchema); err != nil {
		return nil, fmt.Errorf("init config table: %w", err)
	}
	return &sqlStorage{db: db}, nil
}

func (s *sqlStorage) GetString(key ConfigKey) (string, error) {
	query, args, err := sq.Select("value").
		From("config").
		Where(sq.Eq{"key": string(key)}).
		ToSql()
	if err != nil {
		return "", err
	}

	var value string
	err = s.db.QueryRow(query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query config %s: %w", key, err)
	}
	return value, nil
}

func (s *sqlStorage) SaveString(key ConfigKey, value string) error {
	query, args, err := sq.Insert("config").
		Columns("key", "value").
		Values(string(key), value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("save config %s: %w", key, err)
	}
	return nil
}

func (s *sqlStorage) GetBytes(key ConfigKey) ([]byte, error) {
	value, err := s.GetString(key)
	if err != nil {
		return nil, err
	}
	raw, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return raw, nil
}

func (s *sqlStorage) SaveBytes(key ConfigKey, value []byte) error {
	return s.SaveString(key, base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(value))
}

func (s *sqlStorage) Delete(key ConfigKey) error {
	query, args, err := sq.Delete("config").
		Where(sq.Eq{"key": string(key)}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("delete config %s: %w", key, err)
	}
	return nil
}

package db

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/yumyai/keggmap/logger"
	"github.com/yumyai/keggmap/pkg/model"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

const restSchema = `
CREATE TABLE IF NOT EXISTS rest_data (
	file  TEXT NOT NULL,
	key   TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (file, key)
)`

// RestDB stores the KEGG REST lists (ko, compound, path, ...) used to describe
// annotations. One row per "key\tvalue" line.
type RestDB struct {
	sql *sql.DB
}

// OpenRestDB opens (or creates) the sqlite database at path.
func OpenRestDB(ctx context.Context, path string) (*RestDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening rest db %s: %w", path, err)
	}
	// sqlite allows one writer; imports run in parallel
	db.SetMaxOpenConns(1)
	rest, err := NewRestDB(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return rest, nil
}

func NewRestDB(ctx context.Context, db *sql.DB) (*RestDB, error) {
	if _, err := db.ExecContext(ctx, restSchema); err != nil {
		return nil, fmt.Errorf("creating rest_data table: %w", err)
	}
	return &RestDB{sql: db}, nil
}

func (r *RestDB) Close() error {
	return r.sql.Close()
}

// Import replaces the rows of file with the lines read from src. Repeated keys
// keep their first value. It returns the number of stored rows.
func (r *RestDB) Import(ctx context.Context, file string, src io.Reader) (int, error) {

	tx, err := r.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rest_data WHERE file = ?`, file); err != nil {
		return 0, fmt.Errorf("clearing %s: %w", file, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO rest_data (file, key, value) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	n := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value := splitRestLine(line)
		res, err := stmt.ExecContext(ctx, file, key, value)
		if err != nil {
			return 0, fmt.Errorf("inserting %s/%s: %w", file, key, err)
		}
		if affected, _ := res.RowsAffected(); affected > 0 {
			n++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading %s: %w", file, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	logger.Debug("Imported rest data", zap.String("file", file), zap.Int("rows", n))
	return n, nil
}

// "K00001\tE1.1.1.1, adh; alcohol dehydrogenase" -> key, value. No tab means no value.
func splitRestLine(line string) (string, string) {
	key, value, _ := strings.Cut(line, "\t")
	return key, value
}

// Snapshot loads the given files (all files when none are given) into memory.
func (r *RestDB) Snapshot(ctx context.Context, files ...string) (model.DescriptionTable, error) {

	query := `SELECT file, key, value FROM rest_data`
	args := make([]any, len(files))
	if len(files) > 0 {
		query += ` WHERE file IN (?` + strings.Repeat(`, ?`, len(files)-1) + `)`
		for i, f := range files {
			args[i] = f
		}
	}

	rows, err := r.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying rest data: %w", err)
	}
	defer rows.Close()

	table := model.DescriptionTable{}
	for rows.Next() {
		var file, key, value string
		if err := rows.Scan(&file, &key, &value); err != nil {
			return nil, err
		}
		table.Put(file, key, value)
	}
	return table, rows.Err()
}

// MapTitles reads the "path" list: map id (5 digits) -> title.
func (r *RestDB) MapTitles(ctx context.Context) (map[string]string, error) {

	rows, err := r.sql.QueryContext(ctx, `SELECT key, value FROM rest_data WHERE file = 'path'`)
	if err != nil {
		return nil, fmt.Errorf("querying map titles: %w", err)
	}
	defer rows.Close()

	titles := make(map[string]string)
	for rows.Next() {
		var key, title string
		if err := rows.Scan(&key, &title); err != nil {
			return nil, err
		}

		// older lists write "path:map00010"
		key = strings.TrimPrefix(key, "path:")
		if !strings.HasPrefix(key, "map") {
			continue
		}
		mapID := strings.TrimPrefix(key, "map")
		if !model.ValidMapID(mapID) {
			logger.Warn("Skipping map with bad id", zap.String("key", key))
			continue
		}
		titles[mapID] = strings.TrimRight(title, " \t\r\n")
	}
	return titles, rows.Err()
}

// Files lists the imported rest files.
func (r *RestDB) Files(ctx context.Context) ([]string, error) {
	rows, err := r.sql.QueryContext(ctx, `SELECT DISTINCT file FROM rest_data ORDER BY file`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

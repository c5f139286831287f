package cli

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sift"
)

// LoadError is a dataset or config loading failure carrying the error
// code the CLI reports in its structured output.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadRecords reads a dataset from disk. The format is chosen by file
// extension: .json holds an array of objects (a single top-level object
// is accepted as a one-record dataset), .jsonl/.ndjson hold one object
// per line, and .db/.sqlite/.sqlite3 are SQLite databases read with the
// table flag.
func LoadRecords(path, table string) ([]sift.Record, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("dataset not found: %s", path), Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".jsonl", ".ndjson":
		return loadJSONLines(path)
	case ".db", ".sqlite", ".sqlite3":
		if table == "" {
			return nil, &LoadError{Code: ErrCodeQueryError, Message: "--table is required for SQLite datasets"}
		}
		return loadSQLite(path, table)
	default:
		return nil, &LoadError{Code: ErrCodeBadFormat, Message: fmt.Sprintf("unsupported dataset format: %s", filepath.Ext(path))}
	}
}

func loadJSON(path string) ([]sift.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "reading dataset", Err: err}
	}

	var records []sift.Record
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}

	var single sift.Record
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, &LoadError{Code: ErrCodeBadFormat, Message: "decoding JSON dataset", Err: err}
	}
	return []sift.Record{single}, nil
}

func loadJSONLines(path string) ([]sift.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "reading dataset", Err: err}
	}
	defer f.Close()

	var records []sift.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec sift.Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, &LoadError{Code: ErrCodeBadFormat, Message: fmt.Sprintf("decoding line %d", line), Err: err}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBadFormat, Message: "reading dataset", Err: err}
	}
	return records, nil
}

// loadSQLite reads every row of one table into flat records. TEXT columns
// holding JSON objects or arrays are decoded in place, so nested data
// round-trips through a database dump.
func loadSQLite(path, table string) ([]sift.Record, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadFormat, Message: "opening database", Err: err}
	}
	defer db.Close()

	if !validTableName(table) {
		return nil, &LoadError{Code: ErrCodeQueryError, Message: fmt.Sprintf("invalid table name: %s", table)}
	}

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %q", table))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadFormat, Message: fmt.Sprintf("querying table %s", table), Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadFormat, Message: "reading columns", Err: err}
	}

	var records []sift.Record
	for rows.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &LoadError{Code: ErrCodeBadFormat, Message: "scanning row", Err: err}
		}

		rec := sift.Record{}
		for i, col := range cols {
			rec[col] = normalizeColumn(values[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBadFormat, Message: "iterating rows", Err: err}
	}
	return records, nil
}

func validTableName(table string) bool {
	if table == "" {
		return false
	}
	for _, r := range table {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

func normalizeColumn(v any) any {
	raw, ok := v.([]byte)
	if !ok {
		return v
	}
	text := string(raw)
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var decoded any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			return decoded
		}
	}
	return text
}

// fileConfig is the YAML shape of a sift config file.
type fileConfig struct {
	UseIndex       *bool `yaml:"use_index"`
	IndexThreshold *int  `yaml:"index_threshold"`
	CacheCapacity  *int  `yaml:"cache_capacity"`
}

// LoadConfig reads a YAML config file and layers it over the default
// options. Absent keys keep their defaults.
func LoadConfig(path string) (sift.Options, error) {
	opts := sift.DefaultOptions()

	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, &LoadError{Code: ErrCodeBadConfig, Message: fmt.Sprintf("config not found: %s", path), Err: err}
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return opts, &LoadError{Code: ErrCodeBadConfig, Message: "decoding config", Err: err}
	}

	if cfg.UseIndex != nil {
		opts.UseIndex = *cfg.UseIndex
	}
	if cfg.IndexThreshold != nil {
		opts.IndexThreshold = *cfg.IndexThreshold
	}
	if cfg.CacheCapacity != nil {
		opts.CacheCapacity = *cfg.CacheCapacity
	}
	return opts, nil
}

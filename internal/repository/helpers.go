package repository

import (
	"database/sql"
	"encoding/json"
	"time"
)

// parseNullableTime parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite
// storage. Returns nil (SQL NULL) for a nil pointer.
func nullableTimeToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

// parseTime parses an RFC3339 string, returning the zero time on failure.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// floatsToJSON encodes a float slice for TEXT column storage.
func floatsToJSON(fs []float64) string {
	if len(fs) == 0 {
		return "[]"
	}
	data, err := json.Marshal(fs)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// stringsToJSON encodes a string slice for TEXT column storage.
func stringsToJSON(ss []string) string {
	if len(ss) == 0 {
		return "[]"
	}
	data, err := json.Marshal(ss)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// floatsFromJSON decodes a TEXT column back into a float slice.
func floatsFromJSON(s string) []float64 {
	if s == "" || s == "[]" {
		return nil
	}
	var fs []float64
	if err := json.Unmarshal([]byte(s), &fs); err != nil {
		return nil
	}
	return fs
}

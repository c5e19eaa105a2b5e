package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
)

// parseNullableDate parses a nullable YYYY-MM-DD column. NULL and empty
// values yield the zero time.
func parseNullableDate(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	return domain.ParseDate(s.String)
}

// parseFields decodes the JSON object stored in the fields column.
func parseFields(s sql.NullString) (map[string]any, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
		return nil, fmt.Errorf("decoding fields: %w", err)
	}
	return m, nil
}

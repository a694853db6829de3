package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimelineEntry records one observed status change. The timeline is
// append-only: entries are never reordered or deleted.
type TimelineEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// Timeline marshals to a jsonb array column.
type Timeline []TimelineEntry

func (t Timeline) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(t)
}

func (t *Timeline) Scan(src any) error {
	return scanJSON(src, t)
}

// StringList marshals a []string to a jsonb column without pulling a driver
// dependency into the domain package.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(l)
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

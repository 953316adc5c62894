package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap stores an arbitrary JSON object in a jsonb column.
type JSONMap map[string]any

// Value marshals the map for the driver.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan decodes a jsonb value into the map.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	raw, ok := toBytes(value)
	if !ok {
		return fmt.Errorf("jsonmap: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(raw, m)
}

// JSONSlice stores an arbitrary JSON array in a jsonb column.
type JSONSlice []any

func (s JSONSlice) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

func (s *JSONSlice) Scan(value any) error {
	if value == nil {
		*s = JSONSlice{}
		return nil
	}

	raw, ok := toBytes(value)
	if !ok {
		return fmt.Errorf("jsonslice: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*s = JSONSlice{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

func toBytes(value any) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}

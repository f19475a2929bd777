package entity

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}

	result := map[string]interface{}{}
	err = json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}
}

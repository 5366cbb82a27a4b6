package util

import (
	"encoding/json"
	"fmt"
)

// JSONF renders v as a compact JSON string for logging.
func JSONF(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}

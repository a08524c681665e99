// Package rputil holds the few cross-cutting helpers shared by the
// rustperms components.
package rputil

import (
	"encoding/json"

	"github.com/google/uuid"
)

// GenerateUUIDv7 returns a new time-ordered UUID, used where records need
// an id that sorts chronologically (the audit trail).
func GenerateUUIDv7() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// StructToJSONString renders s as a JSON string, used for telemetry span
// attributes.
func StructToJSONString(s any) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

package tracking

import (
	"encoding/json"
	"fmt"

	"dogwalk-tracker/internal/models"
)

// LastWalkKey is the single persistence slot holding the saved walk
const LastWalkKey = "lastWalk"

// EncodeWalk serializes points for the persistence slot
func EncodeWalk(points models.Path) (string, error) {
	if len(points) == 0 {
		return "", ErrNothingToSave
	}
	data, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("failed to encode walk: %w", err)
	}
	return string(data), nil
}

// DecodeWalk reads a stored walk. An empty value means nothing was saved.
func DecodeWalk(value string) (models.Path, error) {
	if value == "" {
		return nil, ErrNothingSaved
	}
	var points models.Path
	if err := json.Unmarshal([]byte(value), &points); err != nil {
		return nil, fmt.Errorf("failed to decode saved walk: %w", err)
	}
	if len(points) == 0 {
		return nil, ErrNothingSaved
	}
	return points, nil
}

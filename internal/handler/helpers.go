package handler

import (
	"time"

	"taskboard/internal/audit"
)

// parseDueDate accepts RFC3339 or a bare date.
func parseDueDate(s string) (*time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func auditHint(dragAndDrop bool) audit.Hint {
	return audit.Hint{DragAndDrop: dragAndDrop}
}

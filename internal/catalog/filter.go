package catalog

import (
	"strings"

	"campus-connect-backend/internal/models"
)

// Search keeps events whose name or category contains text, ignoring case.
// Blank text matches everything.
func Search(events []models.Event, text string) []models.Event {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return events
	}

	matched := make([]models.Event, 0, len(events))
	for _, event := range events {
		if strings.Contains(strings.ToLower(event.Name), needle) ||
			strings.Contains(strings.ToLower(event.Category), needle) {
			matched = append(matched, event)
		}
	}
	return matched
}

// Select returns the events whose id is in ids, in catalog order. Ids that
// no longer exist in the catalog are ignored.
func Select(events []models.Event, ids []string) []models.Event {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	selected := make([]models.Event, 0, len(ids))
	for _, event := range events {
		if _, ok := wanted[event.ID]; ok {
			selected = append(selected, event)
		}
	}
	return selected
}

// Find returns the event with id
func Find(events []models.Event, id string) (models.Event, bool) {
	for _, event := range events {
		if event.ID == id {
			return event, true
		}
	}
	return models.Event{}, false
}

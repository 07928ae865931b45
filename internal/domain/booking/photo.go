package booking

import "github.com/google/uuid"

// Photo is an attachment on a boarding stay. Photos are ordered and
// append-only in practice; equality is by id.
type Photo struct {
	ID      uuid.UUID `json:"id"`
	URL     string    `json:"url"`
	Caption string    `json:"caption,omitempty"`
}

// HasNewPhoto reports whether after contains a photo id absent from before.
func HasNewPhoto(before, after []Photo) bool {
	seen := make(map[uuid.UUID]struct{}, len(before))
	for _, p := range before {
		seen[p.ID] = struct{}{}
	}
	for _, p := range after {
		if _, ok := seen[p.ID]; !ok {
			return true
		}
	}
	return false
}

package models

// Worker is a clinic assistant. Workers are created by reconciliation on
// first sighting in the source roster and soft-deactivated when they drop
// out of it; historical shifts keep referencing the id, so rows are never
// hard-deleted.
type Worker struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	FileID     string `json:"file_id"`
	ChatID     string `json:"chat_id"`
	Speciality string `json:"speciality"`
	Phone      string `json:"phone"`
	IsActive   bool   `json:"is_active"`
}

// Registered reports whether the worker has been linked to an external
// contact handle.
func (w *Worker) Registered() bool {
	return w.ChatID != ""
}

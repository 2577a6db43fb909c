package models

const (
	ShiftMorning = "morning"
	ShiftEvening = "evening"
)

// Shift is a doctor+date+type slot that at most one assistant occupies.
// AssistantID nil means the slot is open. ScheduledAssistantName is the
// roster's planned assistant, advisory only.
type Shift struct {
	ID                     int64  `json:"id"`
	DoctorName             string `json:"doctor_name"`
	Date                   string `json:"date"` // DD.MM.YYYY, compared as an exact string
	Type                   string `json:"type"`
	Speciality             string `json:"speciality"`
	Cabinet                string `json:"cabinet"`
	ScheduledAssistantName string `json:"scheduled_assistant_name"`
	AssistantID            *int64 `json:"assistant_id"`
	AssistantName          string `json:"assistant_name"`
	Manual                 bool   `json:"manual"`
}

// Open reports whether the slot can still be claimed.
func (s *Shift) Open() bool {
	return s.AssistantID == nil
}

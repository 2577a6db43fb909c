package models

// Pair is a scheduled questionnaire pairing for a single date.
type Pair struct {
	ID      int64  `json:"id"`
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Survey  string `json:"survey"`
	Weekday string `json:"weekday"`
	Date    string `json:"date"` // DD.MM.YYYY
}

package models

// MaxSurveyQuestions is the number of question slots a survey row carries.
const MaxSurveyQuestions = 5

// SurveyQuestion is one (text, type) slot of a survey definition.
type SurveyQuestion struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// Survey is a questionnaire definition. The id is assigned by the external
// source; the persisted set is fully replaced on every reconciliation pass.
type Survey struct {
	ID         int64                              `json:"id"`
	Speciality string                             `json:"speciality"`
	Questions  [MaxSurveyQuestions]SurveyQuestion `json:"questions"`
}

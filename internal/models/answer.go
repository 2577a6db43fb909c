package models

// Answer is a read-only projection of a completed questionnaire, joined
// from pairs, surveys and responses. Consumed only by the export engine.
type Answer struct {
	Object      string `json:"object"`
	Subject     string `json:"subject"`
	Survey      string `json:"survey"`
	SurveyDate  string `json:"survey_date"`
	CompletedAt string `json:"completed_at"`
	Question1   string `json:"question1"`
	Answer1     string `json:"answer1"`
	Question2   string `json:"question2"`
	Answer2     string `json:"answer2"`
	Question3   string `json:"question3"`
	Answer3     string `json:"answer3"`
	Question4   string `json:"question4"`
	Answer4     string `json:"answer4"`
	Question5   string `json:"question5"`
	Answer5     string `json:"answer5"`
}

// Row flattens the answer in the fixed export column order.
func (a *Answer) Row() []string {
	return []string{
		a.Object, a.Subject, a.Survey, a.SurveyDate, a.CompletedAt,
		a.Question1, a.Answer1,
		a.Question2, a.Answer2,
		a.Question3, a.Answer3,
		a.Question4, a.Answer4,
		a.Question5, a.Answer5,
	}
}

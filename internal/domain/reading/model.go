package reading

import "time"

// Reading is a generated textual astrology interpretation tied to one
// questionnaire.
type Reading struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	QuestionnaireID int64     `json:"questionnaireId"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	ReadingType     string    `json:"readingType"`
	IsPaid          bool      `json:"isPaid"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Reading types
const (
	TypeBirthChart    = "birth_chart"
	TypeTransit       = "transit"
	TypeCompatibility = "compatibility"
)

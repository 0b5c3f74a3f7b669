package questionnaire

import "time"

// Questionnaire is the structured intake form capturing birth and personal
// data used to generate a reading. A user may submit several over time; the
// newest one is treated as their current profile.
type Questionnaire struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"userId"`
	BirthDate           string    `json:"birthDate"`
	BirthTime           string    `json:"birthTime"`
	BirthCity           string    `json:"birthCity"`
	BirthCountry        string    `json:"birthCountry"`
	ZodiacSign          string    `json:"zodiacSign"`
	PersonalityTraits   []string  `json:"personalityTraits,omitempty"`
	SpiritualGoals      string    `json:"spiritualGoals,omitempty"`
	RelationshipHistory string    `json:"relationshipHistory,omitempty"`
	LifeIntentions      string    `json:"lifeIntentions,omitempty"`
	SpecificQuestions   string    `json:"specificQuestions,omitempty"`
	CompletedAt         time.Time `json:"completedAt"`
}

// ZodiacSigns lists the accepted values for ZodiacSign.
var ZodiacSigns = []string{
	"aries", "taurus", "gemini", "cancer", "leo", "virgo",
	"libra", "scorpio", "sagittarius", "capricorn", "aquarius", "pisces",
}

package dto

import (
	"github.com/lunaria-app/lunaria/internal/domain/questionnaire"
	"github.com/lunaria-app/lunaria/internal/domain/reading"
)

// QuestionnaireRequest represents a questionnaire submission
type QuestionnaireRequest struct {
	BirthDate           string   `json:"birthDate" validate:"required,datetime=2006-01-02"`
	BirthTime           string   `json:"birthTime" validate:"required,datetime=15:04"`
	BirthCity           string   `json:"birthCity" validate:"required,max=100"`
	BirthCountry        string   `json:"birthCountry" validate:"required,max=100"`
	ZodiacSign          string   `json:"zodiacSign" validate:"required,oneof=aries taurus gemini cancer leo virgo libra scorpio sagittarius capricorn aquarius pisces"`
	PersonalityTraits   []string `json:"personalityTraits,omitempty" validate:"max=20,dive,max=50"`
	SpiritualGoals      string   `json:"spiritualGoals,omitempty" validate:"max=2000"`
	RelationshipHistory string   `json:"relationshipHistory,omitempty" validate:"max=2000"`
	LifeIntentions      string   `json:"lifeIntentions,omitempty" validate:"max=2000"`
	SpecificQuestions   string   `json:"specificQuestions,omitempty" validate:"max=2000"`
}

// QuestionnaireResponse wraps a single questionnaire, with the inline
// reading when submission generated one.
type QuestionnaireResponse struct {
	Questionnaire *questionnaire.Questionnaire `json:"questionnaire"`
	Reading       *reading.Reading             `json:"reading,omitempty"`
}

// QuestionnairesResponse wraps a questionnaire list
type QuestionnairesResponse struct {
	Questionnaires []*questionnaire.Questionnaire `json:"questionnaires"`
}

package dto

import "github.com/lunaria-app/lunaria/internal/domain/reading"

// GenerateReadingRequest represents an explicit reading generation request
type GenerateReadingRequest struct {
	QuestionnaireID int64  `json:"questionnaireId" validate:"required,gt=0"`
	ReadingType     string `json:"readingType" validate:"required,oneof=birth_chart transit compatibility"`
}

// ReadingResponse wraps a single reading
type ReadingResponse struct {
	Reading *reading.Reading `json:"reading"`
}

// ReadingsResponse wraps a reading list
type ReadingsResponse struct {
	Readings []*reading.Reading `json:"readings"`
}

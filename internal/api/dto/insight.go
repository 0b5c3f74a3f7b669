package dto

import "github.com/lunaria-app/lunaria/internal/domain/insight"

// InsightResponse wraps a single daily insight
type InsightResponse struct {
	Insight *insight.Insight `json:"insight"`
}

// InsightRequest represents an admin creating or updating a daily insight
type InsightRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Content    string `json:"content" validate:"required,max=5000"`
	Date       string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ZodiacSign string `json:"zodiacSign,omitempty" validate:"omitempty,oneof=aries taurus gemini cancer leo virgo libra scorpio sagittarius capricorn aquarius pisces"`
	IsActive   *bool  `json:"isActive,omitempty"`
}

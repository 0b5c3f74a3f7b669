package insight

import "time"

// Insight is a short editorial or generated message scoped to a calendar
// date, optionally to a single zodiac sign.
type Insight struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Date       string    `json:"date"` // YYYY-MM-DD
	ZodiacSign string    `json:"zodiacSign,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DateKey formats a time as the calendar key insights are stored under.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

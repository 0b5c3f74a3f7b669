// Package providers holds thin clients for the external services Lunaria
// talks to: the model API for reading text, the payment processor, and SMTP.
package providers

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lunaria-app/lunaria/internal/domain/questionnaire"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

// ReadingGenerator produces reading text. Implementations may call an
// external model or synthesize locally.
type ReadingGenerator interface {
	// GenerateReading returns the content for a reading of the given type.
	GenerateReading(ctx context.Context, q *questionnaire.Questionnaire, readingType string) (string, error)

	// GenerateDailyInsight returns a short message for the given date key.
	GenerateDailyInsight(ctx context.Context, date string) (string, error)
}

// OpenAIGenerator calls the chat-completion API. When no API key is
// configured it falls back to template text so the product works without
// the integration.
type OpenAIGenerator struct {
	client *openai.Client
}

// NewOpenAIGenerator creates a generator. An empty apiKey yields a
// template-only generator.
func NewOpenAIGenerator(apiKey string) *OpenAIGenerator {
	if apiKey == "" {
		return &OpenAIGenerator{}
	}
	return &OpenAIGenerator{client: openai.NewClient(apiKey)}
}

// GenerateReading returns the content for a reading of the given type
func (g *OpenAIGenerator) GenerateReading(ctx context.Context, q *questionnaire.Questionnaire, readingType string) (string, error) {
	if g.client == nil {
		return templateReading(q, readingType), nil
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a warm, insightful astrologer. Write a personal " +
					"reading in flowing prose, around four paragraphs. Do not use headings.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: readingPrompt(q, readingType),
			},
		},
		MaxTokens: 900,
	})
	if err != nil {
		return "", errors.Upstream("openai", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.Upstream("openai", fmt.Errorf("empty completion"))
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateDailyInsight returns a short message for the given date key
func (g *OpenAIGenerator) GenerateDailyInsight(ctx context.Context, date string) (string, error) {
	if g.client == nil {
		return templateInsight(date), nil
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(
				"Write a two-sentence cosmic insight for %s, encouraging and sign-agnostic.", date),
		}},
		MaxTokens: 120,
	})
	if err != nil || len(resp.Choices) == 0 {
		// The insight is filler content, never worth failing a publish over.
		return templateInsight(date), nil
	}

	return resp.Choices[0].Message.Content, nil
}

func readingPrompt(q *questionnaire.Questionnaire, readingType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reading type: %s.\n", readingType)
	fmt.Fprintf(&b, "Born %s at %s in %s, %s. Sun sign %s.\n",
		q.BirthDate, q.BirthTime, q.BirthCity, q.BirthCountry, q.ZodiacSign)
	if len(q.PersonalityTraits) > 0 {
		fmt.Fprintf(&b, "Self-described traits: %s.\n", strings.Join(q.PersonalityTraits, ", "))
	}
	if q.SpiritualGoals != "" {
		fmt.Fprintf(&b, "Spiritual goals: %s.\n", q.SpiritualGoals)
	}
	if q.RelationshipHistory != "" {
		fmt.Fprintf(&b, "Relationship background: %s.\n", q.RelationshipHistory)
	}
	if q.LifeIntentions != "" {
		fmt.Fprintf(&b, "Life intentions: %s.\n", q.LifeIntentions)
	}
	if q.SpecificQuestions != "" {
		fmt.Fprintf(&b, "They specifically ask: %s.\n", q.SpecificQuestions)
	}
	return b.String()
}

func templateReading(q *questionnaire.Questionnaire, readingType string) string {
	sign := capitalize(q.ZodiacSign)
	switch readingType {
	case "transit":
		return fmt.Sprintf(
			"The current planetary transits touch your %s sun in a quiet but persistent way. "+
				"Expect the themes you named in your intentions to resurface over the coming weeks, "+
				"asking to be handled rather than postponed. Moments of friction are invitations to "+
				"adjust course, not verdicts. Give extra attention to commitments made around your "+
				"birth time of %s, when your chart is most receptive.",
			sign, q.BirthTime)
	case "compatibility":
		return fmt.Sprintf(
			"As a %s, you bring steadiness and a distinctive emotional signature into your "+
				"relationships. The patterns you described suggest you are drawn to partners who "+
				"mirror your intensity but not always your pace. Compatibility for you is less about "+
				"matching signs and more about matching rhythms. Look for people who make your "+
				"stated intentions feel lighter, not heavier.",
			sign)
	default:
		return fmt.Sprintf(
			"Your birth chart, anchored by a %s sun and shaped by your birth on %s in %s, "+
				"points to a person who leads with intuition and verifies with experience. The traits "+
				"you recognize in yourself are not accidents of personality but the visible edge of "+
				"the chart's deeper geometry. The goals you named align with this season of your life; "+
				"the chart suggests beginning with the smallest concrete step rather than the grandest "+
				"plan. Return to this reading when the path feels unclear.",
			sign, q.BirthDate, q.BirthCity)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func templateInsight(date string) string {
	return fmt.Sprintf(
		"The sky on %s favors deliberate beginnings. Choose one intention, name it plainly, "+
			"and let the rest of the day arrange itself around it.", date)
}

package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"github.com/studyloop/lecturecast/internal/affect"
	"github.com/studyloop/lecturecast/internal/telemetry"
)

// DefaultModel is used when GeminiConfig.Model is empty.
const DefaultModel = "gemini-2.0-flash"

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	Timeout         time.Duration
}

// Gemini generates section narration, answers and study material with the
// Gemini API.
type Gemini struct {
	client *genai.Client
	cfg    GeminiConfig
	logger *log.Logger
}

// NewGemini creates a Gemini client. It returns ErrGeneratorUnavailable
// when no API key is configured.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrGeneratorUnavailable
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 1024
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		cfg:    cfg,
		logger: log.WithPrefix("gemini"),
	}, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string { return g.cfg.Model }

// Complete sends prompt, prefixed with the notation rule, and returns the
// response text.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := telemetry.Tracer("content").Start(ctx, "gemini.complete")
	defer span.End()
	span.SetAttributes(attribute.String("model", g.cfg.Model))

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model,
		genai.Text(notationRule+"\n\n"+prompt),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(g.cfg.Temperature),
			MaxOutputTokens: g.cfg.MaxOutputTokens,
		})
	if err != nil {
		err = classify(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	g.logger.Debug("Gemini: response received", "chars", len(text))
	return text, nil
}

// Generate produces the narration for section.
func (g *Gemini) Generate(ctx context.Context, section string) (string, error) {
	brief, ok := sectionBriefs[section]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	return g.Complete(ctx, fmt.Sprintf(sectionPrompt, brief))
}

// Answer answers q in the style matching its tone.
func (g *Gemini) Answer(ctx context.Context, q Question) (string, error) {
	category := q.Affect.Category
	if category == "" {
		category = affect.Simple
	}
	return g.Complete(ctx, fmt.Sprintf(answerPrompt, q.Topic, q.Text, category, affect.Style(category)))
}

// classify maps transport failures onto ErrOverloaded and ErrTimeout so
// callers can decide whether to retry.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests, http.StatusServiceUnavailable:
			return fmt.Errorf("%w: %d %s", ErrOverloaded, apiErr.Code, apiErr.Message)
		case http.StatusGatewayTimeout:
			return fmt.Errorf("%w: %s", ErrTimeout, apiErr.Message)
		}
		return fmt.Errorf("gemini error %d: %s", apiErr.Code, apiErr.Message)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

const notationRule = `Math notation rule: always write mathematics with symbols such as x/5, 20/x + 2, x = 7, d/2 = 7, 3x and y/4.
Never describe it in words such as "x over 5" or "x equals seven". A post-processor reads the symbols aloud.
Write plain sentences without markdown, headings or bullet lists.`

const sectionPrompt = `You are a friendly tutor teaching a Class 7 lesson called "Algebra Level 1: The Language of Division".
Write the spoken narration for one slide of the lesson in 150 to 200 words, with warm and energetic language.
This slide covers: %s`

const answerPrompt = `You are a friendly tutor teaching a Class 7 algebra lesson. The current topic is %q.
A student asked: %q
The student sounds %s. %s
Answer in under 120 words.`

var sectionBriefs = map[string]string{
	Introduction:        "a warm welcome, algebra as the language where numbers meet letters, and what the lesson will cover.",
	FractionBarNotation: "why algebra replaces the ÷ symbol with the fraction bar, with examples like x/5 and (a+b)/2, and the bar as a grouping symbol.",
	AlgebraicVocabulary: "variables, constants and terms, explained with the expression 4/y + 9.",
	SubstitutionImage:   "substitution, evaluating 20/x + 2 when x = 5 step by step while the learner looks at a diagram.",
	InverseOperations:   "inverse operations, dividing to undo 3x and multiplying to undo y/4, and the equation as a balanced scale.",
	WordProblemImage:    "translating 'a number divided by six is seven' into x/6 = 7 while the learner looks at a diagram.",
	RealWorldImage:      "everyday uses of division in algebra, such as splitting a bill with 10 + d/2 or sharing pizza slices p/4.",
	Conclusion:          "a recap of the fraction bar, vocabulary, substitution, inverse operations and word problems, ending with encouragement for level two.",
}

package advisory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 60 * time.Second
)

var errEmptyResponse = errors.New("model returned no text")

// GeminiConfig configures the Gemini-backed security oracle.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// generateFunc sends one prompt to a model and returns its text answer.
type generateFunc func(ctx context.Context, model, prompt string) (string, error)

// GeminiOracle asks a Gemini model to assess each version transition and
// reads the answer with ParseAssessment. Every failure is an unsafe verdict.
type GeminiOracle struct {
	generate generateFunc
	model    string
	timeout  time.Duration
}

// NewGeminiOracle creates an oracle backed by the Gemini API.
func NewGeminiOracle(ctx context.Context, config GeminiConfig) (*GeminiOracle, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGeminiOracle(geminiGenerate(client), config), nil
}

func newGeminiOracle(generate generateFunc, config GeminiConfig) *GeminiOracle {
	model := config.Model
	if model == "" {
		model = defaultModel
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &GeminiOracle{generate: generate, model: model, timeout: timeout}
}

func (o *GeminiOracle) AssessTransition(
	ctx context.Context,
	request repositories.AssessmentRequest,
) (verdict entities.SecurityVerdict) {
	fields := logger.Fields{
		"ecosystem":  request.Ecosystem,
		"dependency": request.Name,
		"stage":      "security",
	}
	defer func() {
		if r := recover(); r != nil {
			logger.WithFields(fields).Errorf("[advisory] assessment panicked: %v", r)
			verdict = entities.UnsafeVerdict(fmt.Sprintf("security assessment failed: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	text, err := o.generate(ctx, o.model, BuildPrompt(request))
	if err != nil {
		logger.WithFields(fields).Warnf("[advisory] assessment failed: %v", err)
		return entities.UnsafeVerdict("security assessment failed: " + err.Error())
	}

	verdict = ParseAssessment(text)
	logger.WithFields(fields).Debugf(
		"[advisory] %s -> %s: %s (%d current, %d new vulnerabilities)",
		request.CurrentVersion, request.NewVersion, verdict.EffectiveState(),
		len(verdict.CurrentVulnerabilities), len(verdict.NewVulnerabilities),
	)
	return verdict
}

// BuildPrompt asks for an answer in the sectioned layout ParseAssessment reads.
func BuildPrompt(request repositories.AssessmentRequest) string {
	var sb strings.Builder
	sb.WriteString("You are a software supply-chain security reviewer.\n")
	fmt.Fprintf(
		&sb, "Assess upgrading the %s package %q from version %s to version %s.\n\n",
		request.Ecosystem, request.Name, request.CurrentVersion, request.NewVersion,
	)
	sb.WriteString("Answer using exactly these three sections:\n\n")
	sb.WriteString("## Current Version\n")
	fmt.Fprintf(
		&sb, "One bullet per known vulnerability affecting %s: identifier (CVE, GHSA, PYSEC or GO), "+
			"severity (critical, high, medium or low), a one-sentence description and the advisory URL. "+
			"Write \"No known vulnerabilities.\" when there are none.\n\n",
		request.CurrentVersion,
	)
	sb.WriteString("## New Version\n")
	fmt.Fprintf(&sb, "The same list for %s.\n\n", request.NewVersion)
	sb.WriteString("## Verdict\n")
	sb.WriteString(
		"A single line \"VERDICT: SAFE\" when the new version has no known critical or high " +
			"severity vulnerability, otherwise \"VERDICT: UNSAFE\". If you are not certain, answer UNSAFE.\n",
	)
	return sb.String()
}

func geminiGenerate(client *genai.Client) generateFunc {
	return func(ctx context.Context, model, prompt string) (string, error) {
		temperature := float32(0)
		resp, err := client.Models.GenerateContent(ctx, model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			&genai.GenerateContentConfig{Temperature: &temperature},
		)
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", errEmptyResponse
		}
		var sb strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
		if strings.TrimSpace(sb.String()) == "" {
			return "", errEmptyResponse
		}
		return sb.String(), nil
	}
}

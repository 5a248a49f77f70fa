package narration

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/guest-tracker/internal/ai"
	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/host"
	"github.com/spigell/guest-tracker/internal/scoring"
	"github.com/spigell/guest-tracker/internal/utils"
	"go.uber.org/zap"
)

const (
	profileBudget   = 1000
	dnaBudget       = 1000
	analysisBudget  = 2000
	defaultLogLimit = 500
)

//go:embed prompt.md
var promptTemplate string

var errNoGenerator = errors.New("text generation is disabled")

// Narrator explains a relevance result in a few sentences.
type Narrator struct {
	generator  ai.Generator
	logger     *zap.Logger
	maxLogLen  int
	onFallback func(reason error)
}

type Option func(*Narrator)

// WithFallbackHook is called every time the templated rationale is used.
func WithFallbackHook(fn func(reason error)) Option {
	return func(n *Narrator) {
		n.onFallback = fn
	}
}

// New builds a Narrator. A nil generator always yields the templated rationale.
func New(generator ai.Generator, logger *zap.Logger, maxLogLength int, opts ...Option) *Narrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultLogLimit
	}
	n := &Narrator{generator: generator, logger: logger, maxLogLen: maxLogLength}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Narrate never fails. Provider errors and empty answers fall back to
// Fallback(result).
func (n *Narrator) Narrate(ctx context.Context, result *scoring.Result, profile *guest.Profile, analysis *host.Analysis) string {
	if result == nil {
		return ""
	}
	if n.generator == nil {
		return n.fallback(result, errNoGenerator)
	}

	prompt, err := BuildPrompt(result, profile, analysis)
	if err != nil {
		return n.fallback(result, err)
	}

	n.logger.Debug("narration request",
		zap.String("guest", result.GuestName),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, n.maxLogLen)),
	)

	text, err := n.generator.GenerateContent(ctx, prompt)
	if err != nil {
		n.logger.Warn("narration failed", zap.String("guest", result.GuestName), zap.Error(err))
		return n.fallback(result, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return n.fallback(result, ai.ErrEmptyResponse)
	}

	n.logger.Debug("narration response",
		zap.String("guest", result.GuestName),
		zap.String("response_preview", utils.TruncateForLog(text, n.maxLogLen)),
	)
	return text
}

func (n *Narrator) fallback(result *scoring.Result, reason error) string {
	if n.onFallback != nil {
		n.onFallback(reason)
	}
	return Fallback(result)
}

// BuildPrompt renders the narration prompt with every section clipped to its budget.
func BuildPrompt(result *scoring.Result, profile *guest.Profile, analysis *host.Analysis) (string, error) {
	profileJSON, err := marshal(profile)
	if err != nil {
		return "", fmt.Errorf("encode guest profile: %w", err)
	}
	var dna any = host.Report{}
	if analysis != nil {
		dna = analysis.ChannelDNA
	}
	dnaJSON, err := marshal(dna)
	if err != nil {
		return "", fmt.Errorf("encode channel dna: %w", err)
	}
	resultJSON, err := marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode relevance analysis: %w", err)
	}

	replacer := strings.NewReplacer(
		"{{GUEST_PROFILE}}", utils.Clip(profileJSON, profileBudget),
		"{{CHANNEL_DNA}}", utils.Clip(dnaJSON, dnaBudget),
		"{{RELEVANCE_ANALYSIS}}", utils.Clip(resultJSON, analysisBudget),
	)
	return strings.TrimSpace(replacer.Replace(promptTemplate)), nil
}

func marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

package guest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/guest-tracker/internal/ai"
	"github.com/spigell/guest-tracker/internal/utils"
	"go.uber.org/zap"
)

const (
	SourceFile = "profile_file"
	SourceLLM  = "text_generation"

	defaultMaxLogLength = 200
)

// Extractor builds a guest profile for a person.
type Extractor interface {
	Extract(ctx context.Context, name, url string) (*Profile, error)
}

// FileExtractor reads hand curated profiles from <dir>/<slug>.json.
type FileExtractor struct {
	dir    string
	next   Extractor
	logger *zap.Logger
	now    func() time.Time
}

// NewFileExtractor returns an extractor backed by dir. When no file exists
// for a guest the call is passed to next, or a minimal profile is returned.
func NewFileExtractor(dir string, next Extractor, logger *zap.Logger) *FileExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileExtractor{dir: dir, next: next, logger: logger, now: time.Now}
}

func (e *FileExtractor) Extract(ctx context.Context, name, url string) (*Profile, error) {
	path := filepath.Join(e.dir, Slug(name)+".json")

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if e.next != nil {
			return e.next.Extract(ctx, name, url)
		}
		e.logger.Info("no profile file for guest", zap.String("path", path))
		return Minimal(name, "no profile source available"), nil
	}
	if err != nil {
		e.logger.Warn("reading profile file failed", zap.String("path", path), zap.Error(err))
		return Minimal(name, err.Error()), nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		e.logger.Warn("profile file is not valid json", zap.String("path", path), zap.Error(err))
		return Minimal(name, fmt.Sprintf("parse %s: %v", filepath.Base(path), err)), nil
	}
	if s, _ := raw["name"].(string); strings.TrimSpace(s) == "" {
		raw["name"] = name
	}

	profile, err := Decode(raw)
	if err != nil {
		e.logger.Warn("profile file could not be decoded", zap.String("path", path), zap.Error(err))
		return Minimal(name, err.Error()), nil
	}

	if profile.Metadata.Timestamp == "" {
		profile.Metadata.Timestamp = e.now().UTC().Format(time.RFC3339)
	}
	if len(profile.Metadata.SourcesUsed) == 0 {
		profile.Metadata.SourcesUsed = []string{SourceFile}
	}
	if profile.Metadata.DataQualityScore == 0 {
		profile.Metadata.DataQualityScore = Completeness(profile)
	}
	if profile.Metadata.ConfidenceScore == 0 {
		profile.Metadata.ConfidenceScore = profile.Metadata.DataQualityScore
	}

	return profile, nil
}

//go:embed prompt.md
var promptTemplate string

// LLMExtractor asks a text generation service to describe the guest.
type LLMExtractor struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
	now       func() time.Time
}

func NewLLMExtractor(generator ai.Generator, logger *zap.Logger, maxLogLength int) *LLMExtractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMExtractor{generator: generator, logger: logger, maxLogLen: maxLogLength, now: time.Now}
}

// Extract never fails on provider problems: a minimal profile carrying the
// error in its metadata is returned instead. Only cancellation is reported.
func (e *LLMExtractor) Extract(ctx context.Context, name, url string) (*Profile, error) {
	prompt := buildPrompt(name, url)

	e.logger.Debug("guest profile request",
		zap.String("guest", name),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.logger.Warn("guest profile generation failed", zap.String("guest", name), zap.Error(err))
		return e.fallback(name, err), nil
	}

	e.logger.Debug("guest profile response",
		zap.String("guest", name),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	data, err := ai.ParseObject(raw)
	if err != nil {
		e.logger.Warn("guest profile response is not json", zap.String("guest", name), zap.Error(err))
		return e.fallback(name, err), nil
	}
	if s, _ := data["name"].(string); strings.TrimSpace(s) == "" {
		data["name"] = name
	}
	delete(data, "extraction_metadata")

	profile, err := Decode(data)
	if err != nil {
		return e.fallback(name, err), nil
	}

	quality := Completeness(profile)
	profile.Metadata = Metadata{
		Timestamp:        e.now().UTC().Format(time.RFC3339),
		DataQualityScore: quality,
		// Generated profiles are unverified.
		ConfidenceScore: quality * 7 / 10,
		SourcesUsed:     []string{SourceLLM},
	}
	if url != "" {
		profile.Metadata.SourcesUsed = append(profile.Metadata.SourcesUsed, url)
	}

	return profile, nil
}

func (e *LLMExtractor) fallback(name string, cause error) *Profile {
	p := Minimal(name, cause.Error())
	p.Metadata.Timestamp = e.now().UTC().Format(time.RFC3339)
	return p
}

func buildPrompt(name, url string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Guest: {{GUEST_NAME}}\nURL: {{GUEST_URL}}\n\nJSON Response:"
	}
	if strings.TrimSpace(url) == "" {
		url = "not provided"
	}
	prompt := strings.ReplaceAll(template, "{{GUEST_NAME}}", name)
	return strings.ReplaceAll(prompt, "{{GUEST_URL}}", url)
}

// Completeness scores how many descriptive fields of p are filled, 0-100.
func Completeness(p *Profile) int {
	if p == nil {
		return 0
	}
	filled := []bool{
		p.Designation != "",
		p.Company != "",
		p.Industry != "",
		p.BioSummary != "",
		len(p.ExpertiseAreas) > 0,
		len(p.KeyTopics) > 0,
		len(p.AuthorityIndicators) > 0,
		p.hasSocialCounts(),
		len(p.PreviousPodcasts) > 0 && p.HasPodcastHistory(),
		len(p.RecentActivities) > 0,
	}
	score := 0
	for _, ok := range filled {
		if ok {
			score += 10
		}
	}
	return score
}

func (p *Profile) hasSocialCounts() bool {
	for _, count := range p.SocialFollowing {
		if count != "" && !strings.EqualFold(count, "unknown") {
			return true
		}
	}
	return false
}

// Slug turns a guest name into a file friendly identifier.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

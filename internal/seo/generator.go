package seo

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/script"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/topics"
)

// Strategy is one way of producing upload metadata. Like script generation,
// strategies form an ordered chain ending in an infallible template.
type Strategy interface {
	Name() string
	Produce(ctx context.Context, topic topics.RankedTopic, sc *script.Script) (*Metadata, error)
}

type Generator struct {
	cfg        config.MetadataConfig
	visibility string
	language   string
	strategies []Strategy
}

func NewGenerator(cfg *config.Config) *Generator {
	var strategies []Strategy
	if cfg.Credentials.OpenAIAPIKey != "" {
		strategies = append(strategies, NewOpenAIStrategy(cfg.Metadata, cfg.Credentials.OpenAIAPIKey))
	}
	strategies = append(strategies, NewTemplateStrategy(cfg.Metadata))
	return &Generator{
		cfg:        cfg.Metadata,
		visibility: cfg.Upload.Visibility,
		language:   cfg.Upload.DefaultLanguage,
		strategies: strategies,
	}
}

// NewGeneratorWithStrategies is the injection point for tests.
func NewGeneratorWithStrategies(cfg config.MetadataConfig, strategies ...Strategy) *Generator {
	return &Generator{cfg: cfg, visibility: "public", language: "en", strategies: strategies}
}

// Generate walks the chain and normalizes whatever comes back: privacy and
// language defaults, tag dedupe + cap, title validation.
func (g *Generator) Generate(ctx context.Context, topic topics.RankedTopic, sc *script.Script) (*Metadata, error) {
	var lastErr error
	for _, strat := range g.strategies {
		m, err := strat.Produce(ctx, topic, sc)
		if err == nil {
			if err = validateTitle(m.Title, g.cfg.TitleMaxChars); err == nil {
				g.normalize(m, topic)
				return m, nil
			}
		}
		log.Printf("[seo] strategy %s failed for %q: %v", strat.Name(), topic.DisplayTitle, err)
		lastErr = err
	}
	return nil, fmt.Errorf("all metadata strategies failed: %w", lastErr)
}

func (g *Generator) normalize(m *Metadata, topic topics.RankedTopic) {
	if m.Privacy == "" {
		m.Privacy = g.visibility
	}
	if m.Language == "" {
		m.Language = g.language
	}
	if m.DefaultAudioLanguage == "" {
		m.DefaultAudioLanguage = m.Language
	}
	if m.CategoryID == "" {
		m.CategoryID = CategoryFor(topic.ContentType)
	}
	m.Tags = cleanTags(m.Tags, g.cfg.TagsCount)
}

// cleanTags lowercases, trims, drops near-empty entries and duplicates, and
// caps at the configured count.
func cleanTags(tags []string, limit int) []string {
	if limit <= 0 {
		limit = 15
	}
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if len(t) <= 2 || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out
}

func validateTitle(title string, maxChars int) error {
	if maxChars <= 0 {
		maxChars = 100
	}
	if title == "" {
		return fmt.Errorf("empty title")
	}
	if len(title) > maxChars {
		return fmt.Errorf("title too long: %d chars (max %d)", len(title), maxChars)
	}
	if strings.ContainsAny(title, `<>"`) {
		return fmt.Errorf("title contains forbidden characters")
	}
	return nil
}

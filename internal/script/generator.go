package script

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/topics"
)

// Strategy is one way of producing a script. Strategies are tried in order
// until one succeeds; the last one in a well-formed chain is a deterministic
// template that cannot fail.
type Strategy interface {
	Name() string
	Produce(ctx context.Context, topic topics.RankedTopic, style string) (*Script, error)
}

// Generator walks an ordered strategy chain.
type Generator struct {
	cfg        config.ScriptConfig
	strategies []Strategy
}

// NewGenerator builds the default chain: OpenAI first when a key is
// configured, templates always last.
func NewGenerator(cfg *config.Config) *Generator {
	var strategies []Strategy
	if cfg.Credentials.OpenAIAPIKey != "" {
		strategies = append(strategies, NewOpenAIStrategy(cfg.Script, cfg.Credentials.OpenAIAPIKey))
	}
	strategies = append(strategies, NewTemplateStrategy(cfg.Script))
	return &Generator{cfg: cfg.Script, strategies: strategies}
}

// NewGeneratorWithStrategies is the injection point for tests.
func NewGeneratorWithStrategies(cfg config.ScriptConfig, strategies ...Strategy) *Generator {
	return &Generator{cfg: cfg, strategies: strategies}
}

// Generate produces a validated script for the topic. Strategy failures are
// logged and the chain falls through; an error only escapes when every
// strategy fails, which a template-terminated chain never does.
func (g *Generator) Generate(ctx context.Context, topic topics.RankedTopic) (*Script, error) {
	var lastErr error
	for _, strat := range g.strategies {
		s, err := strat.Produce(ctx, topic, g.cfg.Style)
		if err == nil {
			if err = g.validate(s); err == nil {
				return s, nil
			}
		}
		log.Printf("[script] strategy %s failed for %q: %v", strat.Name(), topic.DisplayTitle, err)
		lastErr = err
	}
	return nil, fmt.Errorf("all script strategies failed: %w", lastErr)
}

// GenerateBatch fans out script generation across several candidates. Each
// task's outcome is isolated; one failure never cancels the siblings.
func (g *Generator) GenerateBatch(ctx context.Context, candidates []topics.RankedTopic) []*Script {
	type result struct {
		index  int
		script *Script
	}

	results := make(chan result, len(candidates))
	var wg sync.WaitGroup
	for i, topic := range candidates {
		wg.Add(1)
		go func(i int, topic topics.RankedTopic) {
			defer wg.Done()
			s, err := g.Generate(ctx, topic)
			if err != nil {
				log.Printf("[script] batch candidate %q failed: %v", topic.DisplayTitle, err)
				return
			}
			results <- result{index: i, script: s}
		}(i, topic)
	}
	wg.Wait()
	close(results)

	ordered := make([]*Script, len(candidates))
	for res := range results {
		ordered[res.index] = res.script
	}

	scripts := make([]*Script, 0, len(candidates))
	for _, s := range ordered {
		if s != nil {
			scripts = append(scripts, s)
		}
	}
	return scripts
}

func (g *Generator) validate(s *Script) error {
	switch {
	case s == nil || len(s.FullScript) < 50:
		return fmt.Errorf("script too short or empty")
	case s.WordCount < 20:
		return fmt.Errorf("script too short: %d words", s.WordCount)
	case s.WordCount > g.cfg.MaxWords:
		return fmt.Errorf("script too long: %d words (max %d)", s.WordCount, g.cfg.MaxWords)
	case s.EstimatedDuration > g.cfg.TargetDuration:
		return fmt.Errorf("script too long: %ds (max %ds)", s.EstimatedDuration, g.cfg.TargetDuration)
	}
	return nil
}

package script

import (
	"context"
	"fmt"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/topics"
)

// TemplateStrategy assembles a script from fixed phrasing, keyed by content
// type. It is fully deterministic and local, which makes it the terminal
// fallback of every chain.
type TemplateStrategy struct {
	cfg config.ScriptConfig
}

func NewTemplateStrategy(cfg config.ScriptConfig) *TemplateStrategy {
	return &TemplateStrategy{cfg: cfg}
}

func (t *TemplateStrategy) Name() string { return "template" }

func (t *TemplateStrategy) Produce(_ context.Context, topic topics.RankedTopic, style string) (*Script, error) {
	title := topic.Origin.Title

	var hook string
	switch topic.ContentType {
	case topics.ContentEducational:
		hook = fmt.Sprintf("Here's what you need to know about %s!", title)
	case topics.ContentEntertainment:
		hook = fmt.Sprintf("The shocking truth about %s!", title)
	case topics.ContentNews:
		hook = fmt.Sprintf("Here's why everyone's talking about %s!", title)
	default:
		hook = fmt.Sprintf("You won't believe what I just learned about %s!", title)
	}

	main := fmt.Sprintf(
		"First, %s is more important than most people realize. "+
			"Second, recent studies show fascinating insights about this topic. "+
			"Finally, this could impact your daily life in ways you never imagined.",
		title)

	cta := "What do you think? Drop a comment below!"

	return Assemble(topic, hook, main, cta, style, "template", t.cfg.WordsPerSecond), nil
}

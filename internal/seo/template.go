package seo

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/script"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/topics"
)

const templateTitleLimit = 60

// titleTemplates hold the %s slot for the topic title. Selection is
// deterministic per topic so reruns produce identical metadata.
var titleTemplates = map[topics.ContentType][]string{
	topics.ContentEducational: {
		"The Truth About %s",
		"5 Facts About %s",
		"How %s Works",
		"Everything About %s",
		"The Science Behind %s",
	},
	topics.ContentEntertainment: {
		"This %s Will Shock You",
		"Amazing %s Facts",
		"You Won't Believe This %s",
		"Incredible %s Story",
		"Mind-Blowing %s",
	},
	topics.ContentNews: {
		"Breaking: %s",
		"Latest Update on %s",
		"What's Happening with %s",
		"The Real Story: %s",
		"Today's News: %s",
	},
	topics.ContentLifestyle: {
		"Life-Changing %s Tips",
		"Transform Your Life with %s",
		"The Secret to %s",
		"Master %s Today",
		"Ultimate %s Guide",
	},
}

var descriptionHooks = []string{
	"Did you know about this?",
	"This will change how you think!",
	"Amazing facts you need to know!",
}

var descriptionCTAs = []string{
	"🔔 Subscribe for more amazing content!",
	"👍 Like if this was helpful!",
	"💬 Comment your thoughts below!",
}

// TemplateStrategy builds metadata from fixed tables. It never errors.
type TemplateStrategy struct {
	cfg config.MetadataConfig
}

func NewTemplateStrategy(cfg config.MetadataConfig) *TemplateStrategy {
	return &TemplateStrategy{cfg: cfg}
}

func (t *TemplateStrategy) Name() string { return "template" }

func (t *TemplateStrategy) Produce(_ context.Context, topic topics.RankedTopic, sc *script.Script) (*Metadata, error) {
	return &Metadata{
		Title:       t.title(topic),
		Description: t.description(topic, sc),
		Tags:        t.tags(topic),
		CategoryID:  CategoryFor(topic.ContentType),
		Provider:    "template",
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (t *TemplateStrategy) title(topic topics.RankedTopic) string {
	tmpls, ok := titleTemplates[topic.ContentType]
	if !ok {
		tmpls = titleTemplates[topics.ContentEducational]
	}
	pick := tmpls[pickIndex(topic.Origin.Title, len(tmpls))]

	base := topic.Origin.Title
	title := fmt.Sprintf(pick, base)
	if utf8.RuneCountInString(title) > templateTitleLimit {
		// shorten the topic portion, not the template framing
		frame := utf8.RuneCountInString(title) - utf8.RuneCountInString(base)
		room := templateTitleLimit - frame
		if room > 3 {
			runes := []rune(base)
			title = fmt.Sprintf(pick, string(runes[:room-3])+"...")
		} else {
			runes := []rune(topic.Origin.Title)
			if len(runes) > templateTitleLimit-3 {
				runes = runes[:templateTitleLimit-3]
			}
			title = string(runes) + "..."
		}
	}
	return title
}

func (t *TemplateStrategy) description(topic topics.RankedTopic, sc *script.Script) string {
	var sb strings.Builder
	sb.WriteString("🎯 " + sc.MainContent + "\n\n")
	sb.WriteString(descriptionHooks[pickIndex(topic.Origin.Title, len(descriptionHooks))] + "\n\n")
	sb.WriteString(descriptionCTAs[pickIndex(topic.DisplayTitle, len(descriptionCTAs))] + "\n\n")
	sb.WriteString(strings.Join(Hashtags(topic), " "))
	return sb.String()
}

func (t *TemplateStrategy) tags(topic topics.RankedTopic) []string {
	var tags []string
	tags = append(tags, firstN(topic.Keywords, 5)...)
	tags = append(tags, firstN(seoKeywords[topic.ContentType], 3)...)
	tags = append(tags, firstN(shortsTags, 3)...)
	return tags
}

// Hashtags builds the description hashtag block: top keywords, the content
// type, and the standing Shorts tags.
func Hashtags(topic topics.RankedTopic) []string {
	var out []string
	for _, kw := range firstN(topic.Keywords, 3) {
		out = append(out, "#"+strings.ToLower(strings.ReplaceAll(kw, " ", "")))
	}
	out = append(out, "#"+string(topic.ContentType))
	out = append(out, "#shorts", "#viral", "#trending")
	return out
}

// pickIndex maps a string to a stable table index.
func pickIndex(s string, n int) int {
	if n <= 0 {
		return 0
	}
	sum := 0
	for _, r := range s {
		sum += int(r)
	}
	return sum % n
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

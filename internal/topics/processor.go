package topics

import (
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
)

var wordPattern = regexp.MustCompile(`[a-zA-Z0-9_']+`)

// Processor filters, classifies and ranks raw topics. It is a pure function
// over its inputs given the fixed ruleset: no network calls, deterministic
// ordering, safe for concurrent use.
type Processor struct {
	cfg   config.TopicsConfig
	rules *Ruleset
	now   func() time.Time
}

// NewProcessor builds a Processor. A nil ruleset selects the defaults.
func NewProcessor(cfg config.TopicsConfig, rules *Ruleset) *Processor {
	if rules == nil {
		rules = DefaultRuleset()
	}
	return &Processor{cfg: cfg, rules: rules, now: time.Now}
}

// Process filters and ranks a batch. Inappropriate topics are dropped
// silently; a malformed topic is skipped without aborting the batch. The
// result is sorted descending by engagement with input order preserved for
// ties.
func (p *Processor) Process(raw []RawTopic) []RankedTopic {
	ranked := make([]RankedTopic, 0, len(raw))

	for _, topic := range raw {
		if !p.appropriate(topic) {
			log.Printf("[topics] filtered out: %q", topic.Title)
			continue
		}

		rt, err := p.processOne(topic)
		if err != nil {
			log.Printf("[topics] skipping %q: %v", topic.Title, err)
			continue
		}
		ranked = append(ranked, rt)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Engagement > ranked[j].Engagement
	})
	return ranked
}

// BestTopic prefers the highest-scoring easy or medium topic; hard topics
// need more research and fact-checking than an unattended run can do. When
// every survivor is hard it still returns the top one.
func (p *Processor) BestTopic(ranked []RankedTopic) (RankedTopic, bool) {
	if len(ranked) == 0 {
		return RankedTopic{}, false
	}
	for _, rt := range ranked {
		if rt.Difficulty == DifficultyEasy || rt.Difficulty == DifficultyMedium {
			return rt, true
		}
	}
	return ranked[0], true
}

// FilterByContentType keeps only topics of the given type, order preserved.
func FilterByContentType(ranked []RankedTopic, ct ContentType) []RankedTopic {
	var out []RankedTopic
	for _, rt := range ranked {
		if rt.ContentType == ct {
			out = append(out, rt)
		}
	}
	return out
}

func (p *Processor) appropriate(t RawTopic) bool {
	text := strings.ToLower(t.Title + " " + t.Description)
	for _, term := range p.cfg.Blacklist {
		if strings.Contains(text, term) {
			return false
		}
	}

	titleLen := utf8.RuneCountInString(t.Title)
	if titleLen < p.cfg.MinTitleLength || titleLen > p.cfg.MaxTitleLength {
		return false
	}
	return t.Score >= p.cfg.MinScore
}

func (p *Processor) processOne(t RawTopic) (RankedTopic, error) {
	if strings.TrimSpace(t.Title) == "" {
		return RankedTopic{}, fmt.Errorf("empty title")
	}

	contentType := p.classify(t)
	angle := p.videoAngle(t, contentType)

	return RankedTopic{
		Origin:       t,
		DisplayTitle: p.displayTitle(t.Title, angle),
		VideoAngle:   angle,
		Keywords:     p.extractKeywords(t),
		Engagement:   p.engagement(t, contentType),
		ContentType:  contentType,
		Difficulty:   p.difficulty(t),
	}, nil
}

// classify votes each content type by pattern-word hits; the first type in
// table order wins ties, and an all-zero vote defaults to educational.
func (p *Processor) classify(t RawTopic) ContentType {
	text := strings.ToLower(t.Title + " " + t.Description)

	best := ContentEducational
	bestScore := 0
	for _, cp := range p.rules.ContentPatterns {
		score := 0
		for _, pattern := range cp.Patterns {
			if strings.Contains(text, pattern) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = cp.Type, score
		}
	}
	return best
}

func (p *Processor) videoAngle(t RawTopic, ct ContentType) string {
	templates := p.rules.AngleTemplates[ct]
	if len(templates) == 0 {
		templates = p.rules.AngleTemplates[ContentEducational]
	}
	return fmt.Sprintf(templates[0], t.Title)
}

// displayTitle picks the angle when it is short and carries an engaging
// hook word, otherwise enhances the original title and clamps it to the
// display limit with a trailing ellipsis.
func (p *Processor) displayTitle(original, angle string) string {
	limit := p.rules.DisplayTitleLimit

	if utf8.RuneCountInString(angle) <= limit && containsAny(strings.ToLower(angle), p.rules.EngagingWords) {
		return angle
	}

	title := original
	if utf8.RuneCountInString(title) < p.rules.ShortTitleBoundary {
		title = p.rules.TitlePrefix + " " + title
	}

	if utf8.RuneCountInString(title) > limit {
		runes := []rune(title)
		title = string(runes[:limit-3]) + "..."
	}
	return title
}

// extractKeywords unions source keywords with title/description tokens,
// deduplicated in first-seen order and capped.
func (p *Processor) extractKeywords(t RawTopic) []string {
	keywords := make([]string, 0, p.rules.MaxKeywords)
	seen := make(map[string]bool)

	add := func(word string) {
		if word == "" || seen[word] {
			return
		}
		seen[word] = true
		keywords = append(keywords, word)
	}

	for _, kw := range t.Keywords {
		add(strings.ToLower(kw))
	}

	for _, word := range wordPattern.FindAllString(strings.ToLower(t.Title+" "+t.Description), -1) {
		if len(word) > 2 && !p.rules.StopWords[word] {
			add(word)
		}
	}

	if len(keywords) > p.rules.MaxKeywords {
		keywords = keywords[:p.rules.MaxKeywords]
	}
	return keywords
}

// engagement normalizes the raw score into a cross-source comparable value.
// Only the first matching keyword multiplier applies; compounding every
// match would let wordy descriptions inflate the ranking.
func (p *Processor) engagement(t RawTopic, ct ContentType) float64 {
	base := t.Score
	multiplier := 1.0

	for _, m := range p.rules.EngagementMultipliers {
		if m.Key == string(ct) {
			multiplier = m.Factor
			break
		}
	}

	text := strings.ToLower(t.Title + " " + t.Description)
	for _, m := range p.rules.EngagementMultipliers {
		if strings.Contains(text, m.Key) {
			multiplier *= m.Factor
			break
		}
	}

	for _, m := range p.rules.SourceMultipliers {
		if strings.Contains(t.Source, m.Key) {
			multiplier *= m.Factor
			break
		}
	}

	if t.DiscoveredAt != nil {
		age := p.now().Sub(*t.DiscoveredAt)
		switch {
		case age < 6*time.Hour:
			multiplier *= 1.3
		case age < 24*time.Hour:
			multiplier *= 1.1
		}
	}

	return base * multiplier
}

func (p *Processor) difficulty(t RawTopic) Difficulty {
	text := strings.ToLower(t.Title + " " + t.Description)

	complex := 0
	for _, kw := range p.rules.ComplexKeywords {
		if strings.Contains(text, kw) {
			complex++
		}
	}
	simple := 0
	for _, kw := range p.rules.SimpleKeywords {
		if strings.Contains(text, kw) {
			simple++
		}
	}

	switch {
	case complex > simple:
		return DifficultyHard
	case simple > complex:
		return DifficultyEasy
	default:
		return DifficultyMedium
	}
}

// Stats summarizes a ranked batch for reporting.
func Stats(ranked []RankedTopic) Statistics {
	if len(ranked) == 0 {
		return Statistics{}
	}

	stats := Statistics{
		Total:         len(ranked),
		ByContentType: make(map[ContentType]int),
		ByDifficulty:  make(map[Difficulty]int),
	}

	var sum float64
	counts := make(map[string]int)
	var order []string
	for _, rt := range ranked {
		stats.ByContentType[rt.ContentType]++
		stats.ByDifficulty[rt.Difficulty]++
		sum += rt.Engagement
		for _, kw := range rt.Keywords {
			if counts[kw] == 0 {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}
	stats.AverageEngagement = sum / float64(len(ranked))

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > 10 {
		order = order[:10]
	}
	stats.TopKeywords = order

	return stats
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

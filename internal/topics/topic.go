package topics

import "time"

// ContentType classifies a topic's tone/genre. The set is closed; the scorer
// never emits anything outside of it.
type ContentType string

const (
	ContentEducational   ContentType = "educational"
	ContentEntertainment ContentType = "entertainment"
	ContentNews          ContentType = "news"
	ContentLifestyle     ContentType = "lifestyle"
)

// Difficulty estimates how much domain expertise a topic needs to present
// accurately. Hard topics are deprioritized for the fully automated path.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// RawTopic is one candidate topic as discovered from an external source.
// Score is source-local and not comparable across sources until the
// processor normalizes it. Created once per fetch, never mutated.
type RawTopic struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Source       string     `json:"source"`
	Score        float64    `json:"score"`
	Keywords     []string   `json:"keywords"`
	URL          string     `json:"url,omitempty"`
	DiscoveredAt *time.Time `json:"discovered_at,omitempty"`
}

// RankedTopic is a RawTopic augmented with derived classification. It owns a
// copy of its origin topic and is immutable after the processor builds it.
type RankedTopic struct {
	Origin       RawTopic    `json:"original_topic"`
	DisplayTitle string      `json:"display_title"`
	VideoAngle   string      `json:"video_angle"`
	Keywords     []string    `json:"target_keywords"`
	Engagement   float64     `json:"estimated_engagement"`
	ContentType  ContentType `json:"content_type"`
	Difficulty   Difficulty  `json:"difficulty_level"`
}

// Statistics summarizes a ranked batch for the run report.
type Statistics struct {
	Total             int                 `json:"total_topics"`
	ByContentType     map[ContentType]int `json:"content_types"`
	ByDifficulty      map[Difficulty]int  `json:"difficulty_levels"`
	AverageEngagement float64             `json:"average_engagement"`
	TopKeywords       []string            `json:"top_keywords"`
}

package script

import (
	"strings"
	"time"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/topics"
)

// Script is the narration for one short, split into the three beats the
// voiceover reads in order.
type Script struct {
	Topic             topics.RankedTopic `json:"topic"`
	Hook              string             `json:"hook"`
	MainContent       string             `json:"main_content"`
	CallToAction      string             `json:"call_to_action"`
	FullScript        string             `json:"full_script"`
	WordCount         int                `json:"word_count"`
	EstimatedDuration int                `json:"estimated_duration"`
	Style             string             `json:"style"`
	Provider          string             `json:"provider"`
	GeneratedAt       time.Time          `json:"generated_at"`
}

// Assemble joins the beats, recomputing the derived fields.
func Assemble(topic topics.RankedTopic, hook, main, cta, style, provider string, wordsPerSecond float64) *Script {
	full := hook + "\n\n" + main + "\n\n" + cta
	words := len(strings.Fields(full))
	return &Script{
		Topic:             topic,
		Hook:              hook,
		MainContent:       main,
		CallToAction:      cta,
		FullScript:        full,
		WordCount:         words,
		EstimatedDuration: int(float64(words) / wordsPerSecond),
		Style:             style,
		Provider:          provider,
		GeneratedAt:       time.Now().UTC(),
	}
}

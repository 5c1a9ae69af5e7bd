package script

import (
	"testing"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/topics"
)

func TestCompletionParamsCarryModelAndTemperature(t *testing.T) {
	cfg := config.ScriptConfig{
		Model:          "gpt-4o-mini",
		Temperature:    0.55,
		MaxWords:       75,
		TargetDuration: 60,
		WordsPerSecond: 2.5,
	}
	s := NewOpenAIStrategy(cfg, "test-key")

	topic := topics.RankedTopic{
		DisplayTitle: "Why Octopuses Have Three Hearts",
		ContentType:  topics.ContentEducational,
		VideoAngle:   "5 mind-blowing facts about octopuses",
		Keywords:     []string{"octopus", "hearts", "biology"},
	}

	params := s.completionParams(topic, "informative")

	if string(params.Model) != cfg.Model {
		t.Errorf("model = %q, want %q", params.Model, cfg.Model)
	}
	if params.Temperature.Value != cfg.Temperature {
		t.Errorf("temperature = %v, want %v", params.Temperature.Value, cfg.Temperature)
	}
	if params.ResponseFormat.OfJSONSchema == nil {
		t.Fatal("structured output format not set")
	}
	if len(params.Messages) != 2 {
		t.Errorf("got %d messages, want system + user", len(params.Messages))
	}
}

package pipeline

import (
	"time"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/topics"
)

// Run statuses. Degraded runs produced a video through one or more fallback
// providers; they still count as successful.
const (
	StatusSuccess  = "success"
	StatusDegraded = "degraded"
	StatusFailed   = "failed"
	StatusNoTopics = "no_topics"
)

// Stage outcome statuses.
const (
	StageOK       = "ok"
	StageDegraded = "degraded"
	StageFailed   = "failed"
	StageSkipped  = "skipped"
)

// StageOutcome records how one stage finished.
type StageOutcome struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Provider   string `json:"provider,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// Run is the full report for one pipeline execution, written to report.json
// at the end of the run.
type Run struct {
	ID          string              `json:"id"`
	StartedAt   time.Time           `json:"started_at"`
	CompletedAt time.Time           `json:"completed_at"`
	Status      string              `json:"status"`
	Debug       bool                `json:"debug"`
	Topic       *topics.RankedTopic `json:"topic,omitempty"`
	VideoPath   string              `json:"video_path,omitempty"`
	VideoID     string              `json:"video_id,omitempty"`
	VideoURL    string              `json:"video_url,omitempty"`
	Error       string              `json:"error,omitempty"`
	Stages      []StageOutcome      `json:"stages"`
}

// Succeeded reports whether the run produced a usable result. Degraded runs
// count; only hard failures and empty topic pools do not.
func (r *Run) Succeeded() bool {
	return r.Status == StatusSuccess || r.Status == StatusDegraded
}

func (r *Run) record(name, status, provider string, start time.Time, err error) {
	outcome := StageOutcome{
		Name:       name,
		Status:     status,
		Provider:   provider,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		outcome.Error = err.Error()
	}
	r.Stages = append(r.Stages, outcome)
}

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/script"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/seo"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/store"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/topics"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/upload"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/video"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/visuals"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/voice"
)

func happyTopic() topics.RankedTopic {
	return topics.RankedTopic{
		Origin:       topics.RawTopic{Title: "Deep sea creatures", Source: "reddit"},
		DisplayTitle: "The Truth About Deep sea creatures",
		ContentType:  topics.ContentEducational,
		Difficulty:   topics.DifficultyEasy,
		Engagement:   66,
	}
}

func happyScript() *script.Script {
	return script.Assemble(happyTopic(),
		"Here's what you need to know about deep sea creatures!",
		"They live in total darkness and extreme pressure, and most have never been photographed alive.",
		"What do you think? Drop a comment below!",
		"engaging", "template", 2.5)
}

// happyStages returns a fully succeeding stage set; tests override fields.
func happyStages(uploadCalls *int) Stages {
	return Stages{
		FetchTopics: func(context.Context) []topics.RawTopic {
			return []topics.RawTopic{{Title: "Deep sea creatures", Score: 60}}
		},
		Rank: func([]topics.RawTopic) []topics.RankedTopic {
			return []topics.RankedTopic{happyTopic()}
		},
		Select: func(ranked []topics.RankedTopic) (topics.RankedTopic, bool) {
			if len(ranked) == 0 {
				return topics.RankedTopic{}, false
			}
			return ranked[0], true
		},
		GenerateScript: func(context.Context, topics.RankedTopic) (*script.Script, error) {
			return happyScript(), nil
		},
		GenerateVoiceover: func(_ context.Context, _ *script.Script, dir string) (*voice.Voiceover, error) {
			return &voice.Voiceover{Path: filepath.Join(dir, "v.mp3"), DurationSec: 24, Provider: "edge-tts"}, nil
		},
		VoiceoverFallback: func(_ *script.Script, dir string) (*voice.Voiceover, error) {
			return &voice.Voiceover{Path: filepath.Join(dir, "fallback.mp3"), DurationSec: 24, Provider: "fallback"}, nil
		},
		GenerateVisuals: func(_ context.Context, _ topics.RankedTopic, dir string) (*visuals.VisualSet, error) {
			return &visuals.VisualSet{Images: []visuals.Image{{Path: filepath.Join(dir, "1.jpg")}}, Provider: "pexels"}, nil
		},
		VisualsFallback: func(_ topics.RankedTopic, dir string) (*visuals.VisualSet, error) {
			return &visuals.VisualSet{Images: []visuals.Image{{Path: filepath.Join(dir, "f.jpg")}}, Provider: "fallback"}, nil
		},
		GenerateVideo: func(_ context.Context, _ *script.Script, _ *voice.Voiceover, _ *visuals.VisualSet, dir string) (*video.Video, error) {
			return &video.Video{Path: filepath.Join(dir, "final.mp4"), DurationSec: 24, Provider: "ffmpeg"}, nil
		},
		VideoFallback: func(_ *script.Script, _ *voice.Voiceover, _ *visuals.VisualSet, dir string) (*video.Video, error) {
			return &video.Video{Path: filepath.Join(dir, "placeholder.mp4"), Provider: "fallback"}, nil
		},
		GenerateMetadata: func(context.Context, topics.RankedTopic, *script.Script) (*seo.Metadata, error) {
			return &seo.Metadata{Title: "The Truth About Deep Sea Creatures", Privacy: "public", CategoryID: "27", Provider: "template"}, nil
		},
		Upload: func(context.Context, *video.Video, *seo.Metadata) (*upload.Result, error) {
			if uploadCalls != nil {
				*uploadCalls++
			}
			return &upload.Result{VideoID: "abc123", VideoURL: "https://www.youtube.com/watch?v=abc123"}, nil
		},
	}
}

func newTestOrchestrator(t *testing.T, stages Stages, debug bool) *Orchestrator {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	return NewWithStages(cfg, stages, store.NewFiles(t.TempDir()), nil, debug)
}

func stageStatus(t *testing.T, run *Run, name string) string {
	t.Helper()
	for _, s := range run.Stages {
		if s.Name == name {
			return s.Status
		}
	}
	t.Fatalf("stage %s missing from run trail: %+v", name, run.Stages)
	return ""
}

func TestExecuteHappyPath(t *testing.T) {
	var uploads int
	o := newTestOrchestrator(t, happyStages(&uploads), false)

	run, err := o.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != StatusSuccess || !run.Succeeded() {
		t.Errorf("status = %q", run.Status)
	}
	if uploads != 1 {
		t.Errorf("upload called %d times, want 1", uploads)
	}
	if run.VideoID != "abc123" {
		t.Errorf("video id = %q", run.VideoID)
	}
	for _, name := range []string{"fetch_topics", "rank_topics", "select_topic", "generate_script",
		"generate_voiceover", "generate_visuals", "generate_video", "generate_metadata", "upload"} {
		if got := stageStatus(t, run, name); got != StageOK {
			t.Errorf("stage %s = %q, want ok", name, got)
		}
	}
}

func TestExecuteNoTopicsFound(t *testing.T) {
	stages := happyStages(nil)
	stages.FetchTopics = func(context.Context) []topics.RawTopic { return nil }
	o := newTestOrchestrator(t, stages, false)

	run, err := o.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != StatusNoTopics || run.Error != "no topics found" {
		t.Errorf("status = %q error = %q", run.Status, run.Error)
	}
	if len(run.Stages) != 1 {
		t.Errorf("run continued past fetch: %+v", run.Stages)
	}
}

func TestExecuteNoSuitableTopics(t *testing.T) {
	stages := happyStages(nil)
	stages.Rank = func([]topics.RawTopic) []topics.RankedTopic { return nil }
	o := newTestOrchestrator(t, stages, false)

	run, err := o.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != StatusNoTopics || run.Error != "no suitable topics after processing" {
		t.Errorf("status = %q error = %q", run.Status, run.Error)
	}
}

func TestExecuteDegradedVoiceoverStillSucceeds(t *testing.T) {
	var uploads int
	stages := happyStages(&uploads)
	stages.GenerateVoiceover = func(context.Context, *script.Script, string) (*voice.Voiceover, error) {
		return nil, errors.New("edge-tts not installed")
	}
	o := newTestOrchestrator(t, stages, false)

	run, err := o.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != StatusDegraded || !run.Succeeded() {
		t.Errorf("status = %q", run.Status)
	}
	if got := stageStatus(t, run, "generate_voiceover"); got != StageDegraded {
		t.Errorf("voiceover stage = %q, want degraded", got)
	}
	if uploads != 1 {
		t.Errorf("degraded run skipped the upload")
	}
}

func TestExecuteFailsWhenScriptAndNoFallback(t *testing.T) {
	stages := happyStages(nil)
	stages.GenerateScript = func(context.Context, topics.RankedTopic) (*script.Script, error) {
		return nil, errors.New("all strategies failed")
	}
	o := newTestOrchestrator(t, stages, false)

	run, err := o.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != StatusFailed || run.Succeeded() {
		t.Errorf("status = %q", run.Status)
	}
	if got := stageStatus(t, run, "generate_script"); got != StageFailed {
		t.Errorf("script stage = %q, want failed", got)
	}
}

func TestExecuteDebugSkipsUpload(t *testing.T) {
	var uploads int
	o := newTestOrchestrator(t, happyStages(&uploads), true)

	run, err := o.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != StatusSuccess {
		t.Errorf("status = %q", run.Status)
	}
	if uploads != 0 {
		t.Errorf("debug run uploaded anyway")
	}
	if got := stageStatus(t, run, "upload"); got != StageSkipped {
		t.Errorf("upload stage = %q, want skipped", got)
	}
}

func TestExecutePersistsArtifacts(t *testing.T) {
	outDir := t.TempDir()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	o := NewWithStages(cfg, happyStages(nil), store.NewFiles(outDir), nil, false)

	run, err := o.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"topics.json", "ranked.json", "topic.json", "script.json",
		"voiceover.json", "visuals.json", "video.json", "metadata.json", "upload.json", "report.json"} {
		path := filepath.Join(outDir, run.ID, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

func TestRunReportRoundTrip(t *testing.T) {
	files := store.NewFiles(t.TempDir())

	topic := happyTopic()
	in := &Run{
		ID:          "run-abc123",
		StartedAt:   time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2026, 8, 29, 8, 4, 30, 0, time.UTC),
		Status:      StatusDegraded,
		Topic:       &topic,
		VideoPath:   "/tmp/out/final.mp4",
		VideoID:     "vid123",
		VideoURL:    "https://www.youtube.com/watch?v=vid123",
		Stages: []StageOutcome{
			{Name: "fetch_topics", Status: StageOK, DurationMS: 1200},
			{Name: "generate_voiceover", Status: StageDegraded, Provider: "fallback", Error: "tts: exit status 1", DurationMS: 300},
			{Name: "upload", Status: StageOK, Provider: "youtube", DurationMS: 9000},
		},
	}

	if err := files.WriteJSON(in.ID, "report.json", in); err != nil {
		t.Fatal(err)
	}
	var out Run
	if err := files.ReadJSON(in.ID, "report.json", &out); err != nil {
		t.Fatal(err)
	}

	if !out.StartedAt.Equal(in.StartedAt) || !out.CompletedAt.Equal(in.CompletedAt) {
		t.Fatalf("timestamps did not survive: %v / %v", out.StartedAt, out.CompletedAt)
	}
	out.StartedAt, out.CompletedAt = in.StartedAt, in.CompletedAt
	if !reflect.DeepEqual(*in, out) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", *in, out)
	}
	if !out.Succeeded() {
		t.Error("degraded run should still count as succeeded after reload")
	}
}

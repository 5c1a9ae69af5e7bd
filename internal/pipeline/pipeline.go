package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

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

// Stages holds the stage functions the orchestrator walks in order. Each
// fallback pairs with its primary; a nil fallback means failure of the
// primary fails the run. Tests swap individual fields for stubs.
type Stages struct {
	FetchTopics       func(ctx context.Context) []topics.RawTopic
	Rank              func(raw []topics.RawTopic) []topics.RankedTopic
	Select            func(ranked []topics.RankedTopic) (topics.RankedTopic, bool)
	GenerateScript    func(ctx context.Context, t topics.RankedTopic) (*script.Script, error)
	GenerateVoiceover func(ctx context.Context, sc *script.Script, dir string) (*voice.Voiceover, error)
	VoiceoverFallback func(sc *script.Script, dir string) (*voice.Voiceover, error)
	GenerateVisuals   func(ctx context.Context, t topics.RankedTopic, dir string) (*visuals.VisualSet, error)
	VisualsFallback   func(t topics.RankedTopic, dir string) (*visuals.VisualSet, error)
	GenerateVideo     func(ctx context.Context, sc *script.Script, vo *voice.Voiceover, vs *visuals.VisualSet, dir string) (*video.Video, error)
	VideoFallback     func(sc *script.Script, vo *voice.Voiceover, vs *visuals.VisualSet, dir string) (*video.Video, error)
	GenerateMetadata  func(ctx context.Context, t topics.RankedTopic, sc *script.Script) (*seo.Metadata, error)
	Upload            func(ctx context.Context, v *video.Video, meta *seo.Metadata) (*upload.Result, error)
}

// Orchestrator drives one full run: topic discovery through upload, with
// per-stage fallbacks and artifact persistence at every stage boundary.
type Orchestrator struct {
	cfg     *config.Config
	stages  Stages
	files   *store.Files
	history *store.History
	debug   bool
}

// New wires the production stage set.
func New(cfg *config.Config, history *store.History, debug bool) *Orchestrator {
	fetcher := topics.NewFetcher(cfg)
	processor := topics.NewProcessor(cfg.Topics, nil)
	scriptGen := script.NewGenerator(cfg)
	synth := voice.NewSynthesizer(cfg.Voice)
	sourcer := visuals.NewSourcer(cfg.Visuals, cfg.Credentials)
	stitcher := video.NewStitcher(cfg.Video)
	metaGen := seo.NewGenerator(cfg)
	uploader := upload.New(cfg)

	stages := Stages{
		FetchTopics: func(ctx context.Context) []topics.RawTopic {
			return fetcher.FetchAll(ctx, cfg.Topics.FetchLimit)
		},
		Rank:   processor.Process,
		Select: processor.BestTopic,
		GenerateScript: func(ctx context.Context, t topics.RankedTopic) (*script.Script, error) {
			return scriptGen.Generate(ctx, t)
		},
		GenerateVoiceover: synth.Synthesize,
		VoiceoverFallback: voice.Fallback,
		GenerateVisuals:   sourcer.Source,
		VisualsFallback: func(t topics.RankedTopic, dir string) (*visuals.VisualSet, error) {
			return visuals.Fallback(cfg.Visuals, t, dir)
		},
		GenerateVideo: stitcher.Stitch,
		VideoFallback: video.Fallback,
		GenerateMetadata: func(ctx context.Context, t topics.RankedTopic, sc *script.Script) (*seo.Metadata, error) {
			return metaGen.Generate(ctx, t, sc)
		},
		Upload: uploader.Upload,
	}

	return &Orchestrator{
		cfg:     cfg,
		stages:  stages,
		files:   store.NewFiles(cfg.Paths.Output),
		history: history,
		debug:   debug,
	}
}

// NewWithStages is the injection point for tests.
func NewWithStages(cfg *config.Config, stages Stages, files *store.Files, history *store.History, debug bool) *Orchestrator {
	return &Orchestrator{cfg: cfg, stages: stages, files: files, history: history, debug: debug}
}

// Execute runs the pipeline once. The returned Run always carries the full
// stage trail; err is non-nil only for infrastructure failures outside the
// stage model.
func (o *Orchestrator) Execute(ctx context.Context) (*Run, error) {
	runID := uuid.NewString()[:8]
	run := &Run{
		ID:        runID,
		StartedAt: time.Now().UTC(),
		Status:    StatusSuccess,
		Debug:     o.debug,
	}

	runDir, err := o.files.RunDir(runID)
	if err != nil {
		return nil, err
	}

	log.Printf("🎬 Shorts pipeline starting — Run ID: %s", runID)
	log.Printf("📁 Output dir: %s", runDir)

	defer func() {
		run.CompletedAt = time.Now().UTC()
		o.persist(runID, "report.json", run)
		o.recordHistory(ctx, run)
		switch {
		case run.Status == StatusNoTopics:
			log.Printf("⏹ Pipeline stopped: %s", run.Error)
		case run.Succeeded():
			log.Printf("✅ Pipeline complete (%s)", run.Status)
		default:
			log.Printf("❌ Pipeline failed: %s", run.Error)
		}
	}()

	// fetch_topics
	start := time.Now()
	raw := o.stages.FetchTopics(ctx)
	if len(raw) == 0 {
		run.record("fetch_topics", StageFailed, "", start, fmt.Errorf("no topics found"))
		run.Status = StatusNoTopics
		run.Error = "no topics found"
		return run, nil
	}
	run.record("fetch_topics", StageOK, "", start, nil)
	o.persist(runID, "topics.json", raw)

	// rank_topics
	start = time.Now()
	ranked := o.stages.Rank(raw)
	ranked = o.dropUsed(ctx, ranked)
	if len(ranked) == 0 {
		run.record("rank_topics", StageFailed, "", start, fmt.Errorf("no suitable topics after processing"))
		run.Status = StatusNoTopics
		run.Error = "no suitable topics after processing"
		return run, nil
	}
	run.record("rank_topics", StageOK, "", start, nil)
	o.persist(runID, "ranked.json", ranked)

	// select_topic
	start = time.Now()
	topic, ok := o.stages.Select(ranked)
	if !ok {
		run.record("select_topic", StageFailed, "", start, fmt.Errorf("no suitable topics after processing"))
		run.Status = StatusNoTopics
		run.Error = "no suitable topics after processing"
		return run, nil
	}
	run.record("select_topic", StageOK, "", start, nil)
	run.Topic = &topic
	o.persist(runID, "topic.json", topic)
	log.Printf("[pipeline] Selected topic: %q (%.1f, %s)", topic.DisplayTitle, topic.Engagement, topic.ContentType)

	// generate_script
	start = time.Now()
	sc, err := o.stages.GenerateScript(ctx, topic)
	if err != nil {
		return o.fail(run, "generate_script", start, err), nil
	}
	run.record("generate_script", StageOK, sc.Provider, start, nil)
	o.persist(runID, "script.json", sc)
	if o.debug {
		log.Printf("[pipeline] Script (%d words):\n%s", sc.WordCount, sc.FullScript)
	}

	// generate_voiceover
	start = time.Now()
	vo, err := o.stages.GenerateVoiceover(ctx, sc, filepath.Join(runDir, "audio"))
	if err != nil {
		log.Printf("[pipeline] ⚠️ voiceover failed: %v — using fallback", err)
		vo, err = o.stages.VoiceoverFallback(sc, filepath.Join(runDir, "audio"))
		if err != nil {
			return o.fail(run, "generate_voiceover", start, err), nil
		}
		run.record("generate_voiceover", StageDegraded, vo.Provider, start, nil)
		run.Status = StatusDegraded
	} else {
		run.record("generate_voiceover", StageOK, vo.Provider, start, nil)
	}
	o.persist(runID, "voiceover.json", vo)

	// generate_visuals
	start = time.Now()
	vs, err := o.stages.GenerateVisuals(ctx, topic, filepath.Join(runDir, "visuals"))
	if err != nil {
		log.Printf("[pipeline] ⚠️ visuals failed: %v — using fallback", err)
		vs, err = o.stages.VisualsFallback(topic, filepath.Join(runDir, "visuals"))
		if err != nil {
			return o.fail(run, "generate_visuals", start, err), nil
		}
		run.record("generate_visuals", StageDegraded, vs.Provider, start, nil)
		run.Status = StatusDegraded
	} else {
		run.record("generate_visuals", StageOK, vs.Provider, start, nil)
	}
	o.persist(runID, "visuals.json", vs)

	// generate_video
	start = time.Now()
	vid, err := o.stages.GenerateVideo(ctx, sc, vo, vs, filepath.Join(runDir, "video"))
	if err != nil {
		log.Printf("[pipeline] ⚠️ video stitch failed: %v — using fallback", err)
		vid, err = o.stages.VideoFallback(sc, vo, vs, filepath.Join(runDir, "video"))
		if err != nil {
			return o.fail(run, "generate_video", start, err), nil
		}
		run.record("generate_video", StageDegraded, vid.Provider, start, nil)
		run.Status = StatusDegraded
	} else {
		run.record("generate_video", StageOK, vid.Provider, start, nil)
	}
	run.VideoPath = vid.Path
	o.persist(runID, "video.json", vid)

	// generate_metadata
	start = time.Now()
	meta, err := o.stages.GenerateMetadata(ctx, topic, sc)
	if err != nil {
		return o.fail(run, "generate_metadata", start, err), nil
	}
	run.record("generate_metadata", StageOK, meta.Provider, start, nil)
	o.persist(runID, "metadata.json", meta)

	// upload
	start = time.Now()
	if o.debug {
		run.record("upload", StageSkipped, "", start, nil)
		log.Printf("[pipeline] Debug mode: skipping upload of %s", vid.Path)
		return run, nil
	}
	res, err := o.stages.Upload(ctx, vid, meta)
	if err != nil {
		return o.fail(run, "upload", start, err), nil
	}
	run.record("upload", StageOK, "youtube", start, nil)
	run.VideoID = res.VideoID
	run.VideoURL = res.VideoURL
	o.persist(runID, "upload.json", res)
	o.markUsed(ctx, topic)

	return run, nil
}

func (o *Orchestrator) fail(run *Run, stage string, start time.Time, err error) *Run {
	run.record(stage, StageFailed, "", start, err)
	run.Status = StatusFailed
	run.Error = fmt.Sprintf("%s: %v", stage, err)
	return run
}

// dropUsed filters out topics that already produced a video in a past run.
func (o *Orchestrator) dropUsed(ctx context.Context, ranked []topics.RankedTopic) []topics.RankedTopic {
	if o.history == nil {
		return ranked
	}
	out := ranked[:0:0]
	for _, t := range ranked {
		used, err := o.history.TopicUsed(ctx, t.Origin.Title)
		if err != nil {
			log.Printf("[pipeline] ⚠️ used-topic lookup failed: %v", err)
			out = append(out, t)
			continue
		}
		if used {
			log.Printf("[pipeline] Skipping already used topic: %q", t.Origin.Title)
			continue
		}
		out = append(out, t)
	}
	return out
}

func (o *Orchestrator) markUsed(ctx context.Context, t topics.RankedTopic) {
	if o.history == nil {
		return
	}
	if err := o.history.MarkTopicUsed(ctx, t.Origin.Title, t.Origin.Source); err != nil {
		log.Printf("[pipeline] ⚠️ mark topic used: %v", err)
	}
}

func (o *Orchestrator) recordHistory(ctx context.Context, run *Run) {
	if o.history == nil {
		return
	}
	rec := store.RunRecord{
		ID:         run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.CompletedAt,
		Status:     run.Status,
		VideoID:    run.VideoID,
		VideoURL:   run.VideoURL,
		Error:      run.Error,
	}
	if run.Topic != nil {
		rec.TopicTitle = run.Topic.Origin.Title
	}
	if err := o.history.RecordRun(ctx, rec); err != nil {
		log.Printf("[pipeline] ⚠️ record run: %v", err)
	}
}

func (o *Orchestrator) persist(runID, name string, v interface{}) {
	if o.files == nil {
		return
	}
	if err := o.files.WriteJSON(runID, name, v); err != nil {
		log.Printf("[pipeline] ⚠️ persist %s: %v", name, err)
	}
}

package upload

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/seo"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/video"
)

func testUploadConfig() *config.Config {
	cfg, _ := config.Load("nonexistent.yaml")
	cfg.Credentials = config.Credentials{
		YouTubeClientID:     "id",
		YouTubeClientSecret: "secret",
		YouTubeRefreshToken: "token",
	}
	return cfg
}

func TestUploadFailsClosedWithoutCredentials(t *testing.T) {
	cfg := testUploadConfig()
	cfg.Credentials.YouTubeRefreshToken = ""
	u := New(cfg)

	_, err := u.Upload(context.Background(), &video.Video{Path: "x.mp4"}, &seo.Metadata{Title: "t"})
	if err == nil {
		t.Fatal("expected credential error")
	}
	if !strings.Contains(err.Error(), "YOUTUBE_REFRESH_TOKEN") {
		t.Errorf("error does not name the missing credential: %v", err)
	}
}

func TestAttemptContextAppliesTimeout(t *testing.T) {
	cfg := testUploadConfig()
	cfg.Upload.Timeout = 5 * time.Minute
	u := New(cfg)

	ctx, cancel := u.attemptContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("attempt context has no deadline despite upload.timeout being set")
	}
	if remaining := time.Until(deadline); remaining > 5*time.Minute || remaining < 4*time.Minute {
		t.Errorf("deadline %v away, want about 5m", remaining)
	}
}

func TestAttemptContextWithoutTimeout(t *testing.T) {
	cfg := testUploadConfig()
	cfg.Upload.Timeout = 0
	u := New(cfg)

	ctx, cancel := u.attemptContext(context.Background())
	defer cancel()

	if _, ok := ctx.Deadline(); ok {
		t.Error("attempt context has a deadline with upload.timeout unset")
	}
}

func TestFileSizeMBSurvivesStatFailure(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "video-*.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(make([]byte, 2*1024*1024)); err != nil {
		t.Fatal(err)
	}

	if mb, ok := fileSizeMB(f); !ok || mb != 2.0 {
		t.Errorf("got (%v, %v), want (2.0, true)", mb, ok)
	}

	// Stat on a closed file must not panic; the size is simply unknown.
	f.Close()
	if _, ok := fileSizeMB(f); ok {
		t.Error("expected ok=false after close")
	}
}

func TestBuildVideoMapsMetadata(t *testing.T) {
	u := New(testUploadConfig())

	meta := &seo.Metadata{
		Title:       "The Truth About Deep Sea Creatures",
		Description: "desc",
		Tags:        []string{"ocean", "biology"},
		CategoryID:  "27",
		Privacy:     "public",
	}

	v := u.buildVideo(meta)
	if v.Snippet.Title != meta.Title || v.Snippet.CategoryId != "27" {
		t.Errorf("snippet = %+v", v.Snippet)
	}
	if len(v.Snippet.Tags) != 2 {
		t.Errorf("tags = %v", v.Snippet.Tags)
	}
	if v.Status.PrivacyStatus != "public" {
		t.Errorf("privacy = %q", v.Status.PrivacyStatus)
	}
}

func TestBuildVideoSchedulesAsPrivate(t *testing.T) {
	cfg := testUploadConfig()
	cfg.Upload.PublishAtUTC = "2026-09-01T12:00:00Z"
	u := New(cfg)

	v := u.buildVideo(&seo.Metadata{Title: "t", Privacy: "public"})
	if v.Status.PrivacyStatus != "private" {
		t.Errorf("scheduled upload privacy = %q, want private", v.Status.PrivacyStatus)
	}
	if v.Status.PublishAt != "2026-09-01T12:00:00Z" {
		t.Errorf("publishAt = %q", v.Status.PublishAt)
	}
}

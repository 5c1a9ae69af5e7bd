package upload

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/seo"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/video"
)

// Result records a completed upload.
type Result struct {
	VideoID    string    `json:"video_id"`
	VideoURL   string    `json:"video_url"`
	Title      string    `json:"title"`
	Privacy    string    `json:"privacy"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Uploader pushes finished videos to YouTube via Data API v3. Credentials
// come from the environment; a missing credential fails closed before any
// network call.
type Uploader struct {
	cfg   config.UploadConfig
	creds config.Credentials

	// newService is swapped in tests to avoid real API construction.
	newService func(ctx context.Context) (*youtube.Service, error)
}

func New(cfg *config.Config) *Uploader {
	u := &Uploader{cfg: cfg.Upload, creds: cfg.Credentials}
	u.newService = u.buildService
	return u
}

// Upload inserts the video with metadata, retrying transient failures a few
// times with a fixed backoff.
func (u *Uploader) Upload(ctx context.Context, v *video.Video, meta *seo.Metadata) (*Result, error) {
	if err := u.checkCredentials(); err != nil {
		return nil, err
	}

	log.Println("[upload] Authenticating with YouTube API...")
	svc, err := u.newService(ctx)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}

	ytVideo := u.buildVideo(meta)

	retries := u.cfg.Retries
	if retries <= 0 {
		retries = 3
	}
	backoff := u.cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 5 * time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		attemptCtx, cancel := u.attemptContext(ctx)
		res, err := u.insert(attemptCtx, svc, ytVideo, v.Path, meta)
		cancel()
		if err == nil {
			return res, nil
		}
		lastErr = err
		log.Printf("[upload] ⚠️ attempt %d/%d failed: %v", attempt, retries, err)
		if attempt < retries {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("upload failed after %d attempts: %w", retries, lastErr)
}

// attemptContext bounds a single insert attempt to the configured timeout.
func (u *Uploader) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.cfg.Timeout)
}

func (u *Uploader) insert(ctx context.Context, svc *youtube.Service, ytVideo *youtube.Video, path string, meta *seo.Metadata) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	if mb, ok := fileSizeMB(f); ok {
		log.Printf("[upload] Uploading %q (%.1f MB)", meta.Title, mb)
	} else {
		log.Printf("[upload] Uploading %q", meta.Title)
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, ytVideo)
	call.NotifySubscribers(u.cfg.NotifySubscribers)
	call.Media(f)

	uploaded, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube upload: %w", err)
	}

	res := &Result{
		VideoID:    uploaded.Id,
		VideoURL:   fmt.Sprintf("https://www.youtube.com/watch?v=%s", uploaded.Id),
		Title:      meta.Title,
		Privacy:    ytVideo.Status.PrivacyStatus,
		UploadedAt: time.Now().UTC(),
	}
	log.Printf("[upload] ✅ Uploaded: %s", res.VideoURL)
	return res, nil
}

// fileSizeMB reports the file size for logging. Stat can fail on some
// filesystems; the upload proceeds without the size in that case.
func fileSizeMB(f *os.File) (float64, bool) {
	fi, err := f.Stat()
	if err != nil {
		return 0, false
	}
	return float64(fi.Size()) / 1024 / 1024, true
}

func (u *Uploader) buildVideo(meta *seo.Metadata) *youtube.Video {
	snippet := &youtube.VideoSnippet{
		Title:                meta.Title,
		Description:          meta.Description,
		Tags:                 meta.Tags,
		CategoryId:           meta.CategoryID,
		DefaultLanguage:      u.cfg.DefaultLanguage,
		DefaultAudioLanguage: u.cfg.DefaultLanguage,
	}

	status := &youtube.VideoStatus{
		PrivacyStatus:           meta.Privacy,
		SelfDeclaredMadeForKids: u.cfg.MadeForKids,
	}

	// Scheduling requires the video to sit private until publish time.
	if u.cfg.PublishAtUTC != "" && meta.Privacy == "public" {
		status.PrivacyStatus = "private"
		status.PublishAt = u.cfg.PublishAtUTC
		log.Printf("[upload] Scheduled for: %s UTC", u.cfg.PublishAtUTC)
	}

	return &youtube.Video{Snippet: snippet, Status: status}
}

func (u *Uploader) checkCredentials() error {
	if u.creds.YouTubeClientID == "" || u.creds.YouTubeClientSecret == "" || u.creds.YouTubeRefreshToken == "" {
		return fmt.Errorf("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, or YOUTUBE_REFRESH_TOKEN not set")
	}
	return nil
}

func (u *Uploader) buildService(ctx context.Context) (*youtube.Service, error) {
	client, err := u.oauthClient(ctx)
	if err != nil {
		return nil, err
	}
	return youtube.NewService(ctx, option.WithHTTPClient(client))
}

// oauthClient exchanges the long-lived refresh token for access tokens on
// demand.
func (u *Uploader) oauthClient(ctx context.Context) (*http.Client, error) {
	conf := &oauth2.Config{
		ClientID:     u.creds.YouTubeClientID,
		ClientSecret: u.creds.YouTubeClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}

	token := &oauth2.Token{
		RefreshToken: u.creds.YouTubeRefreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token)), nil
}

package video

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/script"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/visuals"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/voice"
)

// Video is the stitched final clip.
type Video struct {
	Path        string    `json:"path"`
	DurationSec float64   `json:"duration_sec"`
	Provider    string    `json:"provider"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Stitcher drives ffmpeg as an external tool: image slideshow + narration
// audio + burned subtitles. Nothing here touches codecs directly.
type Stitcher struct {
	cfg config.VideoConfig
}

func NewStitcher(cfg config.VideoConfig) *Stitcher {
	return &Stitcher{cfg: cfg}
}

// Stitch assembles the final MP4 under outputDir. The subtitle burn is best
// effort; the clip without subtitles is still a valid artifact.
func (s *Stitcher) Stitch(ctx context.Context, sc *script.Script, vo *voice.Voiceover, vs *visuals.VisualSet, outputDir string) (*Video, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create video dir: %w", err)
	}

	slideshow, err := s.buildSlideshow(ctx, vs, vo.DurationSec, outputDir)
	if err != nil {
		return nil, fmt.Errorf("build slideshow: %w", err)
	}

	combined, err := s.combine(ctx, slideshow, vo.Path, outputDir)
	if err != nil {
		return nil, fmt.Errorf("combine video+audio: %w", err)
	}

	srtFile := filepath.Join(outputDir, "subtitles.srt")
	if err := WriteSubtitles(sc, vo.DurationSec, srtFile); err != nil {
		log.Printf("[video] subtitle generation failed: %v — continuing without subtitles", err)
	} else if burned, err := s.burnSubtitles(ctx, combined, srtFile, outputDir); err != nil {
		log.Printf("[video] subtitle burn failed: %v — using video without subtitles", err)
	} else {
		combined = burned
	}

	log.Printf("[video] ✅ final video ready: %s", combined)
	return &Video{
		Path:        combined,
		DurationSec: vo.DurationSec,
		Provider:    "ffmpeg",
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// buildSlideshow spreads the images evenly across the narration duration
// using the concat demuxer.
func (s *Stitcher) buildSlideshow(ctx context.Context, vs *visuals.VisualSet, totalSec float64, outputDir string) (string, error) {
	if len(vs.Images) == 0 {
		return "", fmt.Errorf("no images to stitch")
	}

	perImage := totalSec / float64(len(vs.Images))
	listFile := filepath.Join(outputDir, "slides_concat.txt")

	var lines []string
	for _, img := range vs.Images {
		lines = append(lines, fmt.Sprintf("file '%s'", img.Path))
		lines = append(lines, fmt.Sprintf("duration %.3f", perImage))
	}
	// concat demuxer needs the last entry repeated without a duration
	lines = append(lines, fmt.Sprintf("file '%s'", vs.Images[len(vs.Images)-1].Path))

	if err := os.WriteFile(listFile, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return "", err
	}

	outFile := filepath.Join(outputDir, "slideshow.mp4")
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "22",
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
			s.cfg.Width, s.cfg.Height, s.cfg.Width, s.cfg.Height),
		"-r", fmt.Sprintf("%d", s.cfg.FPS),
		"-pix_fmt", "yuv420p",
		"-an",
		outFile,
	)
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg slideshow: %w", err)
	}
	return outFile, nil
}

func (s *Stitcher) combine(ctx context.Context, videoFile, audioFile, outputDir string) (string, error) {
	outFile := filepath.Join(outputDir, "final_video.mp4")

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", videoFile,
		"-i", audioFile,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-movflags", "+faststart",
		outFile,
	)
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg combine: %w", err)
	}
	return outFile, nil
}

func (s *Stitcher) burnSubtitles(ctx context.Context, videoFile, srtFile, outputDir string) (string, error) {
	outFile := filepath.Join(outputDir, "final_video_subtitled.mp4")

	filter := fmt.Sprintf(
		"subtitles=%s:force_style='FontSize=14,PrimaryColour=&H00FFFFFF,OutlineColour=&H00000000,Outline=1,Alignment=2,MarginV=60'",
		escapeSubtitlePath(srtFile),
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", videoFile,
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "20",
		"-c:a", "copy",
		outFile,
	)
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg subtitle burn: %w", err)
	}
	return outFile, nil
}

// Fallback writes a deterministic placeholder file describing the inputs.
func Fallback(sc *script.Script, vo *voice.Voiceover, vs *visuals.VisualSet, outputDir string) (*Video, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create video dir: %w", err)
	}

	outFile := filepath.Join(outputDir, "video_placeholder.mp4")
	var sb strings.Builder
	sb.WriteString("# Video placeholder\n")
	sb.WriteString("Script: " + sc.FullScript + "\n")
	sb.WriteString("Voiceover: " + vo.Path + "\n")
	for _, img := range vs.Images {
		sb.WriteString("Visual: " + img.Path + "\n")
	}
	if err := os.WriteFile(outFile, []byte(sb.String()), 0644); err != nil {
		return nil, fmt.Errorf("write placeholder: %w", err)
	}

	return &Video{
		Path:        outFile,
		DurationSec: vo.DurationSec,
		Provider:    "fallback",
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func escapeSubtitlePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.ReplaceAll(path, ":", "\\:")
	return path
}

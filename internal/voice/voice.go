package voice

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
)

// Voiceover is the audio artifact for one script.
type Voiceover struct {
	Path        string    `json:"path"`
	DurationSec float64   `json:"duration_sec"`
	Provider    string    `json:"provider"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Synthesizer renders narration audio via an external TTS command. When
// voice.command is unset it probes for edge-tts on PATH.
type Synthesizer struct {
	cfg config.VoiceConfig

	// sleep is swapped in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewSynthesizer(cfg config.VoiceConfig) *Synthesizer {
	return &Synthesizer{cfg: cfg, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Synthesize writes the narration audio under outputDir and measures its
// real duration with ffprobe. Transient failures retry up to 3 times.
func (s *Synthesizer) Synthesize(ctx context.Context, sc *script.Script, outputDir string) (*Voiceover, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}

	ttsCmd := s.cfg.Command
	if ttsCmd == "" {
		if _, err := exec.LookPath("edge-tts"); err != nil {
			return nil, fmt.Errorf("no TTS engine found: set voice.command or install edge-tts")
		}
		ttsCmd = "edge-tts"
	}

	outFile := filepath.Join(outputDir, "voiceover."+s.cfg.OutputFormat)

	const attempts = 3
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = s.runTTS(ctx, ttsCmd, sc.FullScript, outFile)
		if err == nil {
			break
		}
		log.Printf("[voice] TTS attempt %d failed: %v", attempt, err)
		if attempt < attempts {
			if serr := s.sleep(ctx, time.Duration(attempt)*2*time.Second); serr != nil {
				return nil, serr
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("tts: %w", err)
	}

	duration, err := probeDuration(outFile)
	if err != nil {
		log.Printf("[voice] could not measure duration, using estimate: %v", err)
		duration = float64(sc.EstimatedDuration)
	}

	log.Printf("[voice] ✅ voiceover ready: %s (%.1fs)", outFile, duration)
	return &Voiceover{
		Path:        outFile,
		DurationSec: duration,
		Provider:    ttsCmd,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (s *Synthesizer) runTTS(ctx context.Context, ttsCmd, text, outFile string) error {
	var cmd *exec.Cmd
	switch {
	case ttsCmd == "edge-tts":
		cmd = exec.CommandContext(ctx, "edge-tts",
			"--voice", s.cfg.VoiceName,
			"--text", text,
			"--write-media", outFile,
		)
	case strings.HasSuffix(ttsCmd, ".py"):
		cmd = exec.CommandContext(ctx, "python3", ttsCmd,
			"--text", text,
			"--output", outFile,
		)
	default:
		cmd = exec.CommandContext(ctx, ttsCmd,
			"--text", text,
			"--output", outFile,
		)
	}
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// probeDuration reads the audio duration in seconds via ffprobe.
func probeDuration(audioFile string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioFile,
	).Output()
	if err != nil {
		return 0, err
	}
	var dur float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur)
	return dur, err
}

// Fallback writes a deterministic placeholder audio file so the pipeline
// always moves forward with a well-formed artifact.
func Fallback(sc *script.Script, outputDir string) (*Voiceover, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}

	outFile := filepath.Join(outputDir, "voiceover_placeholder.mp3")
	content := "# Voiceover placeholder for script:\n" + sc.FullScript
	if err := os.WriteFile(outFile, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("write placeholder: %w", err)
	}

	return &Voiceover{
		Path:        outFile,
		DurationSec: float64(sc.EstimatedDuration),
		Provider:    "fallback",
		GeneratedAt: time.Now().UTC(),
	}, nil
}

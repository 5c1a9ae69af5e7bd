package video

import (
	"fmt"
	"os"
	"strings"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/script"
)

const maxWordsPerCue = 7

// WriteSubtitles produces an SRT from the script text, allocating time to
// each cue in proportion to its word count against the narration duration.
func WriteSubtitles(sc *script.Script, durationSec float64, path string) error {
	cues := splitCues(sc.FullScript)
	if len(cues) == 0 {
		return fmt.Errorf("script has no words")
	}

	totalWords := 0
	for _, c := range cues {
		totalWords += len(strings.Fields(c))
	}
	if totalWords == 0 {
		return fmt.Errorf("script has no words")
	}

	var sb strings.Builder
	elapsed := 0.0
	for i, cue := range cues {
		share := float64(len(strings.Fields(cue))) / float64(totalWords)
		start := elapsed
		end := elapsed + share*durationSec
		elapsed = end

		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", srtTimestamp(start), srtTimestamp(end)))
		sb.WriteString(cue + "\n\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// splitCues breaks the script into short caption lines. Long sentences are
// chunked so no cue exceeds a few words on screen.
func splitCues(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")
	words := strings.Fields(text)

	var cues []string
	var current []string
	for _, w := range words {
		current = append(current, w)
		if len(current) >= maxWordsPerCue || endsSentence(w) {
			cues = append(cues, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		cues = append(cues, strings.Join(current, " "))
	}
	return cues
}

func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") ||
		strings.HasSuffix(word, "!") ||
		strings.HasSuffix(word, "?")
}

func srtTimestamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	h := int(sec) / 3600
	m := (int(sec) % 3600) / 60
	s := int(sec) % 60
	ms := int((sec - float64(int(sec))) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

package topics

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
)

// Source pulls candidate topics from one external provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context, limit int) ([]RawTopic, error)
}

const sourceTimeout = 15 * time.Second

// Fetcher queries all configured sources concurrently and merges their
// results. A failing source logs a warning and contributes nothing; it never
// aborts the others.
type Fetcher struct {
	sources []Source
}

// NewFetcher wires the sources named in the config. Sources whose
// credentials are missing are skipped at construction time.
func NewFetcher(cfg *config.Config) *Fetcher {
	var sources []Source
	for _, name := range cfg.Topics.Sources {
		switch name {
		case "google_trends":
			sources = append(sources, NewTrendsSource(cfg.Topics.Region))
		case "reddit":
			sources = append(sources, NewRedditSource(cfg.Credentials, cfg.Topics.Subreddits))
		case "youtube":
			if cfg.Credentials.YouTubeAPIKey == "" {
				log.Printf("[topics] youtube source skipped: YOUTUBE_API_KEY not set")
				continue
			}
			sources = append(sources, NewYouTubeSource(cfg.Credentials.YouTubeAPIKey, cfg.Topics.Region))
		default:
			log.Printf("[topics] unknown source %q ignored", name)
		}
	}
	return &Fetcher{sources: sources}
}

// NewFetcherWithSources is the injection point for tests.
func NewFetcherWithSources(sources ...Source) *Fetcher {
	return &Fetcher{sources: sources}
}

type fetchResult struct {
	source string
	topics []RawTopic
	err    error
}

// FetchAll runs every source in a fixed fan-out, captures each outcome as a
// tagged result, and merges the successes. The combined list is sorted
// descending by raw score before truncation to limit; raw scores are
// source-local, so this is only a coarse pre-filter ahead of the processor.
func (f *Fetcher) FetchAll(ctx context.Context, limit int) []RawTopic {
	if len(f.sources) == 0 {
		return nil
	}

	results := make(chan fetchResult, len(f.sources))
	for _, src := range f.sources {
		go func(src Source) {
			sctx, cancel := context.WithTimeout(ctx, sourceTimeout)
			defer cancel()

			topics, err := src.Fetch(sctx, limit)
			results <- fetchResult{source: src.Name(), topics: topics, err: err}
		}(src)
	}

	var combined []RawTopic
	for range f.sources {
		res := <-results
		if res.err != nil {
			log.Printf("[topics] %s fetch warning: %v", res.source, res.err)
			continue
		}
		log.Printf("[topics] %s: found %d topics", res.source, len(res.topics))
		combined = append(combined, res.topics...)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Score > combined[j].Score
	})
	if len(combined) > limit {
		combined = combined[:limit]
	}
	return combined
}

// truncateRunes shortens s to at most n runes, never splitting a multi-byte
// character.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// keywordsFromText is the light extraction used at fetch time; the processor
// does the real keyword work later.
func keywordsFromText(text string, stop map[string]bool, max int) []string {
	var keywords []string
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(word) > 2 && !stop[word] {
			keywords = append(keywords, word)
		}
		if len(keywords) == max {
			break
		}
	}
	return keywords
}

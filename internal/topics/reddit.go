package topics

import (
	"context"
	"fmt"
	"time"

	"github.com/vartanbeno/go-reddit/v2/reddit"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
)

// fetchStopWords is the light stop-word set used at fetch time.
var fetchStopWords = DefaultRuleset().StopWords

// RedditSource pulls hot posts from a set of subreddits. Post scores are
// divided by 100 so they land in the same rough range as the other sources.
type RedditSource struct {
	creds      config.Credentials
	subreddits []string
}

func NewRedditSource(creds config.Credentials, subreddits []string) *RedditSource {
	return &RedditSource{creds: creds, subreddits: subreddits}
}

func (s *RedditSource) Name() string { return "reddit" }

func (s *RedditSource) Fetch(ctx context.Context, limit int) ([]RawTopic, error) {
	client, err := s.client()
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}

	cutoff := time.Now().Add(-24 * time.Hour)

	var topics []RawTopic
	for _, sub := range s.subreddits {
		posts, _, err := client.Subreddit.HotPosts(ctx, sub, &reddit.ListOptions{Limit: limit})
		if err != nil {
			// one subreddit failing should not starve the rest
			continue
		}

		for _, post := range posts {
			if post.Created != nil && post.Created.Before(cutoff) {
				continue
			}

			description := truncateRunes(post.Body, 200)
			if description == "" {
				description = fmt.Sprintf("Reddit post from r/%s", sub)
			}

			topic := RawTopic{
				Title:       post.Title,
				Description: description,
				Source:      fmt.Sprintf("reddit_r_%s", sub),
				Score:       float64(post.Score) / 100,
				Keywords:    keywordsFromText(post.Title, fetchStopWords, 5),
				URL:         "https://reddit.com" + post.Permalink,
			}
			if post.Created != nil {
				created := post.Created.Time
				topic.DiscoveredAt = &created
			}
			topics = append(topics, topic)
		}
	}
	return topics, nil
}

func (s *RedditSource) client() (*reddit.Client, error) {
	ua := reddit.WithUserAgent(s.creds.RedditUserAgent)
	if s.creds.RedditClientID == "" || s.creds.RedditClientSecret == "" {
		return reddit.NewReadonlyClient(ua)
	}
	return reddit.NewClient(reddit.Credentials{
		ID:     s.creds.RedditClientID,
		Secret: s.creds.RedditClientSecret,
	}, ua)
}

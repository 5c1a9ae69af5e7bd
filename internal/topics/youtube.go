package topics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubeSource reads the mostPopular chart via the Data API. View counts
// are scaled down so scores stay comparable to the other sources before the
// processor normalizes them properly.
type YouTubeSource struct {
	apiKey string
	region string
}

func NewYouTubeSource(apiKey, region string) *YouTubeSource {
	return &YouTubeSource{apiKey: apiKey, region: region}
}

func (s *YouTubeSource) Name() string { return "youtube_trending" }

func (s *YouTubeSource) Fetch(ctx context.Context, limit int) ([]RawTopic, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}

	resp, err := svc.Videos.List([]string{"snippet", "statistics"}).
		Chart("mostPopular").
		RegionCode(s.region).
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube mostPopular: %w", err)
	}

	var topics []RawTopic
	for _, video := range resp.Items {
		if video.Snippet == nil {
			continue
		}

		description := truncateRunes(video.Snippet.Description, 200)

		keywords := make([]string, 0, 5)
		for _, tag := range video.Snippet.Tags {
			keywords = append(keywords, strings.ToLower(tag))
			if len(keywords) == 5 {
				break
			}
		}
		if len(keywords) == 0 {
			keywords = keywordsFromText(video.Snippet.Title, fetchStopWords, 5)
		}

		var score float64
		if video.Statistics != nil {
			score = float64(video.Statistics.ViewCount) / 10000
		}

		topic := RawTopic{
			Title:       video.Snippet.Title,
			Description: description,
			Source:      "youtube_trending",
			Score:       score,
			Keywords:    keywords,
			URL:         "https://www.youtube.com/watch?v=" + video.Id,
		}
		if published, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt); err == nil {
			topic.DiscoveredAt = &published
		}
		topics = append(topics, topic)
	}
	return topics, nil
}

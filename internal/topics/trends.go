package topics

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// TrendsSource scrapes the Google Trends daily RSS feed. Scores are
// position-scaled: the top spot gets 100, each following spot 10 less.
type TrendsSource struct {
	region     string
	httpClient *http.Client
	feedURL    string
}

func NewTrendsSource(region string) *TrendsSource {
	return &TrendsSource{
		region:     region,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		feedURL:    "https://trends.google.com/trending/rss",
	}
}

func (s *TrendsSource) Name() string { return "google_trends" }

func (s *TrendsSource) Fetch(ctx context.Context, limit int) ([]RawTopic, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?geo=%s", s.feedURL, s.region), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; shorts-pipeline/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trends feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends feed: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse trends feed: %w", err)
	}

	now := time.Now()
	var topics []RawTopic
	doc.Find("item").EachWithBreak(func(idx int, item *goquery.Selection) bool {
		if idx >= limit {
			return false
		}

		title := strings.TrimSpace(item.Find("title").First().Text())
		if title == "" {
			return true
		}

		description := "Trending topic: " + title
		if traffic := strings.TrimSpace(item.Find(`ht\:approx_traffic`).First().Text()); traffic != "" {
			description = fmt.Sprintf("Trending topic: %s (approx. %s searches)", title, traffic)
		}

		score := 100 - idx*10
		if score < 10 {
			score = 10
		}

		discovered := now
		topics = append(topics, RawTopic{
			Title:        title,
			Description:  description,
			Source:       "google_trends",
			Score:        float64(score),
			Keywords:     keywordsFromText(title, fetchStopWords, 5),
			DiscoveredAt: &discovered,
		})
		return true
	})

	return topics, nil
}

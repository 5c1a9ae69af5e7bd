package visuals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/topics"
)

// Image is one sourced background image.
type Image struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// VisualSet is the visual artifact for one topic.
type VisualSet struct {
	Images      []Image   `json:"images"`
	Provider    string    `json:"provider"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Sourcer fetches or generates imagery for a topic, preferring Pexels stock
// search when a key is configured and falling back to Pollinations AI
// generation, which needs no key.
type Sourcer struct {
	cfg        config.VisualsConfig
	pexelsKey  string
	httpClient *http.Client
}

func NewSourcer(cfg config.VisualsConfig, creds config.Credentials) *Sourcer {
	return &Sourcer{
		cfg:        cfg,
		pexelsKey:  creds.PexelsAPIKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Source downloads up to desired_count images for the topic's keywords.
// Partial results are acceptable; zero results is an error so the caller
// can fall back.
func (s *Sourcer) Source(ctx context.Context, topic topics.RankedTopic, outputDir string) (*VisualSet, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create visuals dir: %w", err)
	}

	var (
		images   []Image
		provider string
	)

	if s.pexelsKey != "" {
		images, provider = s.fromPexels(ctx, topic, outputDir), "pexels"
	}
	if len(images) == 0 {
		images, provider = s.fromPollinations(ctx, topic, outputDir), "pollinations"
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no images produced for %q", topic.DisplayTitle)
	}

	log.Printf("[visuals] ✅ sourced %d images via %s", len(images), provider)
	return &VisualSet{Images: images, Provider: provider, GeneratedAt: time.Now().UTC()}, nil
}

type pexelsResponse struct {
	Photos []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
		Src    struct {
			Portrait string `json:"portrait"`
		} `json:"src"`
	} `json:"photos"`
}

func (s *Sourcer) fromPexels(ctx context.Context, topic topics.RankedTopic, outputDir string) []Image {
	query := topic.Origin.Title
	if len(topic.Keywords) > 0 {
		query = strings.Join(topic.Keywords[:min(3, len(topic.Keywords))], " ")
	}

	reqURL := fmt.Sprintf("https://api.pexels.com/v1/search?query=%s&orientation=portrait&per_page=%d",
		url.QueryEscape(query), s.cfg.DesiredCount)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", s.pexelsKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("[visuals] pexels search failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	var result pexelsResponse
	if err := decodeJSON(resp.Body, &result); err != nil {
		log.Printf("[visuals] pexels response: %v", err)
		return nil
	}

	var images []Image
	for i, photo := range result.Photos {
		outFile := filepath.Join(outputDir, fmt.Sprintf("pexels_%02d.jpg", i))
		if err := s.download(ctx, photo.Src.Portrait, outFile); err != nil {
			log.Printf("[visuals] pexels download %d failed: %v", i, err)
			continue
		}
		images = append(images, Image{Path: outFile, Width: photo.Width, Height: photo.Height})
	}
	return images
}

func (s *Sourcer) fromPollinations(ctx context.Context, topic topics.RankedTopic, outputDir string) []Image {
	var images []Image
	for i := 0; i < s.cfg.DesiredCount; i++ {
		prompt := fmt.Sprintf("%s, %s style, vertical composition, vivid, high detail",
			topic.Origin.Title, topic.ContentType)

		// deterministic seed per slot for reproducibility
		imageURL := fmt.Sprintf(
			"https://image.pollinations.ai/prompt/%s?width=%d&height=%d&nologo=true&model=%s&seed=%d",
			url.PathEscape(prompt), s.cfg.Width, s.cfg.Height, s.cfg.ImageModel, i*42+7,
		)

		outFile := filepath.Join(outputDir, fmt.Sprintf("generated_%02d.jpg", i))

		var err error
		for attempt := 1; attempt <= 3; attempt++ {
			err = s.download(ctx, imageURL, outFile)
			if err == nil {
				break
			}
			log.Printf("[visuals] pollinations attempt %d for slot %d failed: %v", attempt, i, err)
		}
		if err != nil {
			continue
		}
		images = append(images, Image{Path: outFile, Width: s.cfg.Width, Height: s.cfg.Height})
	}
	return images
}

func (s *Sourcer) download(ctx context.Context, srcURL, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, resp.Body)
	return err
}

// Fallback writes deterministic placeholder image files.
func Fallback(cfg config.VisualsConfig, topic topics.RankedTopic, outputDir string) (*VisualSet, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create visuals dir: %w", err)
	}

	outFile := filepath.Join(outputDir, "visuals_placeholder.jpg")
	content := "# Visuals placeholder for topic: " + topic.DisplayTitle
	if err := os.WriteFile(outFile, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("write placeholder: %w", err)
	}

	return &VisualSet{
		Images:      []Image{{Path: outFile, Width: cfg.Width, Height: cfg.Height}},
		Provider:    "fallback",
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func decodeJSON(r io.Reader, v interface{}) error {
	return json.NewDecoder(r).Decode(v)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

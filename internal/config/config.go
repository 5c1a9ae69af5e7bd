package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all settings for one pipeline process. It is built once at
// startup and passed by reference into every component constructor; nothing
// reads ambient state after Load returns.
type Config struct {
	Topics   TopicsConfig   `yaml:"topics"`
	Script   ScriptConfig   `yaml:"script"`
	Voice    VoiceConfig    `yaml:"voice"`
	Visuals  VisualsConfig  `yaml:"visuals"`
	Video    VideoConfig    `yaml:"video"`
	Metadata MetadataConfig `yaml:"metadata"`
	Upload   UploadConfig   `yaml:"upload"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Paths    PathsConfig    `yaml:"paths"`

	Credentials Credentials `yaml:"-"`
}

// TopicsConfig controls the trending-topic sources and the safety filter.
type TopicsConfig struct {
	Sources        []string `yaml:"sources"`
	FetchLimit     int      `yaml:"fetch_limit"`
	Subreddits     []string `yaml:"subreddits"`
	Region         string   `yaml:"region"`
	Blacklist      []string `yaml:"blacklist"`
	MinTitleLength int      `yaml:"min_title_length"`
	MaxTitleLength int      `yaml:"max_title_length"`
	MinScore       float64  `yaml:"min_score"`
}

type ScriptConfig struct {
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	MaxWords       int     `yaml:"max_words"`
	TargetDuration int     `yaml:"target_duration_sec"`
	WordsPerSecond float64 `yaml:"words_per_second"`
	Style          string  `yaml:"style"`
}

type VoiceConfig struct {
	Command      string `yaml:"command"`
	VoiceName    string `yaml:"voice_name"`
	OutputFormat string `yaml:"output_format"`
}

type VisualsConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	DesiredCount int    `yaml:"desired_count"`
	ImageModel   string `yaml:"image_model"`
}

type VideoConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type MetadataConfig struct {
	Model         string `yaml:"model"`
	TitleMaxChars int    `yaml:"title_max_chars"`
	TagsCount     int    `yaml:"tags_count"`
}

type UploadConfig struct {
	Visibility        string        `yaml:"visibility"`
	PublishAtUTC      string        `yaml:"publish_at_utc"`
	NotifySubscribers bool          `yaml:"notify_subscribers"`
	MadeForKids       bool          `yaml:"made_for_kids"`
	DefaultLanguage   string        `yaml:"default_language"`
	Timeout           time.Duration `yaml:"timeout"`
	Retries           int           `yaml:"retries"`
	RetryBackoff      time.Duration `yaml:"retry_backoff"`
}

type ScheduleConfig struct {
	CronExpression string `yaml:"cron_expression"`
	Timezone       string `yaml:"timezone"`
}

type PathsConfig struct {
	Output   string `yaml:"output"`
	Logs     string `yaml:"logs"`
	Database string `yaml:"database"`
}

// Credentials carries secret material read from the environment. Adapters
// with a missing credential fail closed and the orchestrator falls back.
type Credentials struct {
	OpenAIAPIKey        string
	PexelsAPIKey        string
	RedditClientID      string
	RedditClientSecret  string
	RedditUserAgent     string
	YouTubeAPIKey       string
	YouTubeClientID     string
	YouTubeClientSecret string
	YouTubeRefreshToken string
}

// Load reads the yaml config file, fills defaults, and captures credentials
// from the environment. A missing file yields pure defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.Credentials = Credentials{
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		PexelsAPIKey:        os.Getenv("PEXELS_API_KEY"),
		RedditClientID:      os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret:  os.Getenv("REDDIT_CLIENT_SECRET"),
		RedditUserAgent:     envOr("REDDIT_USER_AGENT", "youtube-shorts-bot/1.0"),
		YouTubeAPIKey:       os.Getenv("YOUTUBE_API_KEY"),
		YouTubeClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		YouTubeClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		YouTubeRefreshToken: os.Getenv("YOUTUBE_REFRESH_TOKEN"),
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Topics: TopicsConfig{
			Sources:        []string{"google_trends", "reddit"},
			FetchLimit:     15,
			Subreddits:     []string{"todayilearned", "science", "technology"},
			Region:         "US",
			Blacklist: []string{
				"death", "suicide", "murder", "violence", "war", "terrorism",
				"explicit", "nsfw", "drug", "alcohol", "gambling", "hate",
				"political", "election", "voting", "government", "protest",
			},
			MinTitleLength: 10,
			MaxTitleLength: 100,
			MinScore:       10.0,
		},
		Script: ScriptConfig{
			Model:          "gpt-4o-mini",
			Temperature:    0.7,
			MaxWords:       75,
			TargetDuration: 60,
			WordsPerSecond: 2.5,
			Style:          "engaging",
		},
		Voice: VoiceConfig{
			VoiceName:    "en-US-GuyNeural",
			OutputFormat: "mp3",
		},
		Visuals: VisualsConfig{
			Width:        720,
			Height:       1280,
			DesiredCount: 3,
			ImageModel:   "flux",
		},
		Video: VideoConfig{
			Width:  720,
			Height: 1280,
			FPS:    30,
		},
		Metadata: MetadataConfig{
			Model:         "gpt-4o-mini",
			TitleMaxChars: 100,
			TagsCount:     15,
		},
		Upload: UploadConfig{
			Visibility:      "public",
			DefaultLanguage: "en",
			Timeout:         5 * time.Minute,
			Retries:         3,
			RetryBackoff:    5 * time.Second,
		},
		Schedule: ScheduleConfig{
			CronExpression: "0 8 * * *",
			Timezone:       "America/New_York",
		},
		Paths: PathsConfig{
			Output:   "output",
			Logs:     "logs",
			Database: "youtube_shorts.db",
		},
	}
}

// Validate checks settings that would otherwise surface mid-run. Upload
// credentials are required unless skipUpload is set (debug mode).
func (c *Config) Validate(skipUpload bool) error {
	var missing []string

	if len(c.Topics.Sources) == 0 {
		missing = append(missing, "topics.sources")
	}
	if c.Topics.MinTitleLength <= 0 || c.Topics.MaxTitleLength <= c.Topics.MinTitleLength {
		return fmt.Errorf("invalid title length bounds [%d, %d]", c.Topics.MinTitleLength, c.Topics.MaxTitleLength)
	}
	if c.Script.WordsPerSecond <= 0 {
		return fmt.Errorf("script.words_per_second must be positive")
	}

	if !skipUpload {
		if c.Credentials.YouTubeClientID == "" {
			missing = append(missing, "YOUTUBE_CLIENT_ID")
		}
		if c.Credentials.YouTubeClientSecret == "" {
			missing = append(missing, "YOUTUBE_CLIENT_SECRET")
		}
		if c.Credentials.YouTubeRefreshToken == "" {
			missing = append(missing, "YOUTUBE_REFRESH_TOKEN")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Location resolves the schedule timezone, defaulting to UTC.
func (s ScheduleConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

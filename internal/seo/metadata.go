package seo

import (
	"time"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/topics"
)

// Metadata is everything the upload stage needs beyond the video file.
type Metadata struct {
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Tags                 []string  `json:"tags"`
	CategoryID           string    `json:"category_id"`
	Privacy              string    `json:"privacy"`
	Language             string    `json:"language"`
	DefaultAudioLanguage string    `json:"default_audio_language"`
	Provider             string    `json:"provider"`
	GeneratedAt          time.Time `json:"generated_at"`
}

// YouTube category IDs by content type. Unknown types map to Education.
var categories = map[topics.ContentType]string{
	topics.ContentEducational:   "27",
	topics.ContentEntertainment: "24",
	topics.ContentNews:          "25",
	topics.ContentLifestyle:     "26",
}

const defaultCategoryID = "27"

func CategoryFor(ct topics.ContentType) string {
	if id, ok := categories[ct]; ok {
		return id
	}
	return defaultCategoryID
}

// seoKeywords feeds the tag builder with terms that perform well per niche.
var seoKeywords = map[topics.ContentType][]string{
	topics.ContentEducational:   {"learn", "facts", "explained", "education", "knowledge", "tutorial"},
	topics.ContentEntertainment: {"viral", "funny", "amazing", "incredible", "must watch", "trending"},
	topics.ContentNews:          {"breaking", "news", "update", "latest", "today", "current"},
	topics.ContentLifestyle:     {"tips", "life", "lifestyle", "wellness", "health", "fitness"},
}

var shortsTags = []string{"shorts", "viral", "trending", "facts", "amazing"}

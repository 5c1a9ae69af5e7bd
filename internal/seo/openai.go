package seo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/script"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/topics"
)

// metadataResponse is the structured output the model must return.
type metadataResponse struct {
	Title       string   `json:"title" jsonschema_description:"An SEO-optimized YouTube title under 60 characters, title case, no clickbait"`
	Description string   `json:"description" jsonschema_description:"2-3 engaging sentences, main keywords used naturally, a call to action, hashtags at the end, under 300 words"`
	Tags        []string `json:"tags" jsonschema_description:"Up to 15 lowercase search tags mixing topic keywords and niche terms"`
}

var metadataResponseSchema = generateSchema[metadataResponse]()

func generateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// OpenAIStrategy drafts title, description, and tags in one structured call.
type OpenAIStrategy struct {
	cfg    config.MetadataConfig
	client openai.Client
}

func NewOpenAIStrategy(cfg config.MetadataConfig, apiKey string) *OpenAIStrategy {
	return &OpenAIStrategy{
		cfg:    cfg,
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (s *OpenAIStrategy) Name() string { return "openai" }

func (s *OpenAIStrategy) Produce(ctx context.Context, topic topics.RankedTopic, sc *script.Script) (*Metadata, error) {
	prompt := fmt.Sprintf(`Create YouTube Shorts upload metadata for this video:

Topic: %s
Content type: %s
Keywords: %s
Script: %s

Requirements:
- Title under 60 characters with 1-2 main keywords, no misleading language
- Description opens with 2-3 engaging sentences, includes a call to action, ends with hashtags
- Up to %d lowercase tags`,
		topic.DisplayTitle,
		topic.ContentType,
		strings.Join(firstN(topic.Keywords, 5), ", "),
		sc.MainContent,
		s.cfg.TagsCount,
	)

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "video_metadata",
		Description: openai.String("YouTube upload metadata"),
		Schema:      metadataResponseSchema,
		Strict:      openai.Bool(true),
	}

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a YouTube SEO expert. Create optimized titles, descriptions, and tags."),
			openai.UserMessage(prompt),
		},
		Model: s.cfg.Model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	var resp metadataResponse
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &resp); err != nil {
		return nil, fmt.Errorf("parse metadata response: %w", err)
	}
	if resp.Title == "" || resp.Description == "" {
		return nil, fmt.Errorf("openai returned incomplete metadata")
	}

	return &Metadata{
		Title:       strings.Trim(strings.TrimSpace(resp.Title), `"`),
		Description: strings.TrimSpace(resp.Description),
		Tags:        resp.Tags,
		CategoryID:  CategoryFor(topic.ContentType),
		Provider:    "openai",
		GeneratedAt: time.Now().UTC(),
	}, nil
}

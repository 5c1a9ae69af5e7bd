package script

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/topics"
)

// scriptResponse is the structured output the model must return.
type scriptResponse struct {
	Hook         string `json:"hook" jsonschema_description:"A 5-8 second opening hook under 20 words that creates curiosity or urgency"`
	MainContent  string `json:"main_content" jsonschema_description:"2-3 concise key facts in conversational language, 35-50 words total"`
	CallToAction string `json:"call_to_action" jsonschema_description:"An engagement ask under 15 words, enthusiastic and specific to the topic"`
}

// GenerateSchema builds a strict JSON schema for structured outputs.
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var scriptResponseSchema = GenerateSchema[scriptResponse]()

// OpenAIStrategy drafts the script with a single structured chat completion.
type OpenAIStrategy struct {
	cfg    config.ScriptConfig
	client openai.Client
}

func NewOpenAIStrategy(cfg config.ScriptConfig, apiKey string) *OpenAIStrategy {
	return &OpenAIStrategy{
		cfg:    cfg,
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (s *OpenAIStrategy) Name() string { return "openai" }

func (s *OpenAIStrategy) Produce(ctx context.Context, topic topics.RankedTopic, style string) (*Script, error) {
	completion, err := s.client.Chat.Completions.New(ctx, s.completionParams(topic, style))
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	var resp scriptResponse
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &resp); err != nil {
		return nil, fmt.Errorf("parse script response: %w", err)
	}
	if resp.Hook == "" || resp.MainContent == "" {
		return nil, fmt.Errorf("openai returned an incomplete script")
	}

	return Assemble(topic, strings.TrimSpace(resp.Hook), strings.TrimSpace(resp.MainContent),
		strings.TrimSpace(resp.CallToAction), style, "openai", s.cfg.WordsPerSecond), nil
}

func (s *OpenAIStrategy) completionParams(topic topics.RankedTopic, style string) openai.ChatCompletionNewParams {
	prompt := fmt.Sprintf(`Write a YouTube Short script about "%s".

Topic details:
- Content type: %s
- Video angle: %s
- Keywords: %s
- Style: %s

The script has three parts: a hook, the main content, and a call to action.
Keep the whole script under %d words so it reads aloud in under %d seconds.
Use active voice and simple conversational language.`,
		topic.DisplayTitle,
		topic.ContentType,
		topic.VideoAngle,
		strings.Join(firstN(topic.Keywords, 5), ", "),
		style,
		s.cfg.MaxWords,
		s.cfg.TargetDuration,
	)

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "short_script",
		Description: openai.String("A three-part YouTube Short script"),
		Schema:      scriptResponseSchema,
		Strict:      openai.Bool(true),
	}

	return openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a YouTube Shorts script writer. Create engaging, concise content that captures viewers' attention immediately."),
			openai.UserMessage(prompt),
		},
		Model:       s.cfg.Model,
		Temperature: openai.Float(s.cfg.Temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	}
}

func firstN(words []string, n int) []string {
	if len(words) > n {
		return words[:n]
	}
	return words
}

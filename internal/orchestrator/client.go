package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"jurisai-api/internal/config"
	"jurisai-api/internal/models"
	"jurisai-api/internal/validation"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	openai "github.com/sashabaranov/go-openai"
)

const defaultAnthropicModel = anthropic.ModelClaudeSonnet4_20250514

// Client is the LLM-backed Orchestrator implementation. The primary backend
// is Anthropic (directly or via AWS Bedrock); OpenAI serves as fallback when
// an Anthropic call fails or no Anthropic backend is configured.
type Client struct {
	anthropic   *anthropic.Client // nil when not configured
	model       anthropic.Model
	openai      *openai.Client // nil when not configured
	openaiModel string
	temperature float64
	maxTokens   int
	schemaPath  string
}

// NewClient creates the LLM delegate from configuration. It returns an error
// when neither backend is configured; callers treat that as "orchestrator not
// initialized" and keep the HTTP surface up.
func NewClient(anthropicCfg config.AnthropicConfig, openaiCfg config.OpenAIConfig, schemaPath string) (*Client, error) {
	c := &Client{
		openaiModel: openaiCfg.Model,
		temperature: openaiCfg.Temperature,
		maxTokens:   openaiCfg.MaxTokens,
		schemaPath:  schemaPath,
	}
	if c.maxTokens <= 0 {
		c.maxTokens = 4096
	}

	if anthropicCfg.UseBedrock || anthropicCfg.APIKey != "" {
		var opts []option.RequestOption
		if anthropicCfg.UseBedrock {
			var loadOpts []func(*awsconfig.LoadOptions) error
			if anthropicCfg.AWSRegion != "" {
				loadOpts = append(loadOpts, awsconfig.WithRegion(anthropicCfg.AWSRegion))
			}
			if anthropicCfg.AWSProfile != "" {
				loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(anthropicCfg.AWSProfile))
			}
			opts = append(opts, bedrock.WithLoadDefaultConfig(context.Background(), loadOpts...))
		} else {
			opts = append(opts, option.WithAPIKey(anthropicCfg.APIKey))
		}
		inner := anthropic.NewClient(opts...)
		c.anthropic = &inner

		c.model = anthropic.Model(anthropicCfg.Model)
		if c.model == "" {
			c.model = defaultAnthropicModel
		}
		if anthropicCfg.UseBedrock {
			c.model = translateModelForBedrock(c.model)
		}
	}

	if openaiCfg.APIKey != "" {
		c.openai = openai.NewClient(openaiCfg.APIKey)
		if c.openaiModel == "" {
			c.openaiModel = openai.GPT4oMini
		}
	}

	if c.anthropic == nil && c.openai == nil {
		return nil, fmt.Errorf("no LLM backend configured (set ANTHROPIC_API_KEY, USE_AWS_BEDROCK, or OPENAI_API_KEY)")
	}

	return c, nil
}

// translateModelForBedrock converts standard Anthropic model names to Bedrock
// inference profile format. Bedrock uses cross-region inference profiles:
// us.anthropic.{model}-v1:0
func translateModelForBedrock(model anthropic.Model) anthropic.Model {
	bedrockModels := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:   "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.ModelClaudeSonnet4_5_20250929: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.ModelClaudeHaiku4_5_20251001:  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaudeOpus4_1_20250805:   "us.anthropic.claude-opus-4-1-20250805-v1:0",
		anthropic.ModelClaudeOpus4_5_20251101:   "us.anthropic.claude-opus-4-5-20251101-v1:0",
		anthropic.ModelClaude3_7Sonnet20250219:  "us.anthropic.claude-3-7-sonnet-20250219-v1:0",
		anthropic.ModelClaude3_5Haiku20241022:   "us.anthropic.claude-3-5-haiku-20241022-v1:0",
	}

	if bedrockModel, ok := bedrockModels[model]; ok {
		return anthropic.Model(bedrockModel)
	}

	// Not in map: might already be Bedrock format or a custom model
	return model
}

// ProcessQuery answers a legal question and returns a success Result whose
// Output is the validated advice text.
func (c *Client) ProcessQuery(ctx context.Context, query, clientType, jurisdiction string) (*Result, error) {
	system := querySystemPrompt(clientType, jurisdiction)
	user := queryUserPrompt(query)

	advice, err := c.completeAdvice(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("legal query failed: %w", err)
	}

	return &Result{
		Status:     StatusSuccess,
		Output:     renderAdvice(advice),
		ClientType: clientType,
	}, nil
}

// AnalyzeDocument reviews document content for the given focus area.
func (c *Client) AnalyzeDocument(ctx context.Context, content, focus, clientType string) (*Result, error) {
	system := documentSystemPrompt(focus, clientType)
	user := documentUserPrompt(content)

	advice, err := c.completeAdvice(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("document analysis failed: %w", err)
	}

	return &Result{
		Status:     StatusSuccess,
		Output:     renderAdvice(advice),
		ClientType: clientType,
	}, nil
}

// completeAdvice runs one completion, strips code fences, and validates the
// JSON payload against the advice schema.
func (c *Client) completeAdvice(ctx context.Context, system, user string) (*models.Advice, error) {
	raw, err := c.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	raw = stripCodeFences(raw)

	advice, err := validation.ValidateAndParseAdvice(raw, c.schemaPath)
	if err != nil {
		preview := raw
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		return nil, fmt.Errorf("invalid advice payload: %w (response preview: %s)", err, preview)
	}

	return advice, nil
}

// complete sends the prompt to the primary backend, falling back to OpenAI
// when the primary call fails.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if c.anthropic != nil {
		text, err := c.completeAnthropic(ctx, system, user)
		if err == nil {
			return text, nil
		}
		if c.openai == nil {
			return "", err
		}
		log.Printf("WARNING: Anthropic call failed, falling back to OpenAI: %v", err)
	}
	return c.completeOpenAI(ctx, system, user)
}

func (c *Client) completeAnthropic(ctx context.Context, system, user string) (string, error) {
	resp, err := c.anthropic.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: int64(c.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(variant.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from Anthropic")
	}
	return sb.String(), nil
}

func (c *Client) completeOpenAI(ctx context.Context, system, user string) (string, error) {
	resp, err := c.openai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.openaiModel,
		Temperature: float32(c.temperature),
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// stripCodeFences removes markdown code fences that LLMs wrap JSON in
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// renderAdvice flattens the structured advice into the output text stored on
// the task result.
func renderAdvice(advice *models.Advice) string {
	var sb strings.Builder
	sb.WriteString(advice.Output)

	if len(advice.KeyPoints) > 0 {
		sb.WriteString("\n\nKey Points:\n")
		for _, point := range advice.KeyPoints {
			sb.WriteString("- ")
			sb.WriteString(point)
			sb.WriteString("\n")
		}
	}
	if advice.Disclaimer != "" {
		sb.WriteString("\n")
		sb.WriteString(advice.Disclaimer)
	}
	return sb.String()
}

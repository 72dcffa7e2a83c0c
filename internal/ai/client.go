package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// Client talks to an OpenAI-compatible chat completions endpoint
// (OpenRouter in production). It answers small talk and extracts company
// addresses as structured output.
type Client struct {
	client openai.Client
	model  string
}

// NewClient returns nil when no API key is configured, so callers can skip
// the AI tier.
func NewClient(apiKey, baseURL, model string) *Client {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{client: openai.NewClient(opts...), model: model}
}

const assistantSystemPrompt = "Kamu adalah asisten pembuatan dokumen untuk perusahaan pengelolaan limbah. " +
	"Jawab singkat dan ramah dalam bahasa Indonesia. Jika pengguna ingin membuat dokumen, " +
	"arahkan mereka untuk menyebut: invoice, MoU, atau penawaran."

// SmallTalk answers a free-form message that matched no document flow.
func (c *Client) SmallTalk(ctx context.Context, text string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(assistantSystemPrompt),
			openai.UserMessage(text),
		},
		Temperature: param.NewOpt(0.3),
		MaxTokens:   param.NewOpt(int64(2000)),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// companyAddress is the structured extraction target. Known=false means
// the model was not confident enough to answer.
type companyAddress struct {
	Address string `json:"address" jsonschema_description:"Alamat lengkap kantor pusat, satu baris"`
	Known   bool   `json:"known" jsonschema_description:"True hanya jika alamat diketahui dengan yakin"`
}

const addressSystemPrompt = "Tulis alamat lengkap kantor pusat perusahaan di Indonesia jika Anda yakin. " +
	"Jika tidak yakin, set known=false dan kosongkan address. Jawaban hanya alamat satu baris."

// ExtractAddress asks the model for the company's head-office address. It
// returns "" when the model declines or the answer is too short to be an
// address.
func (c *Client) ExtractAddress(ctx context.Context, companyName string) (string, error) {
	name := strings.TrimSpace(companyName)
	if len(name) < 3 {
		return "", nil
	}

	schemaMap, err := addressSchema()
	if err != nil {
		return "", err
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(addressSystemPrompt),
			openai.UserMessage(name),
		},
		Temperature: param.NewOpt(0.3),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				Type: constant.JSONSchema("json_schema"),
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "company_address",
					Strict: param.NewOpt(true),
					Schema: schemaMap,
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("address completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	var out companyAddress
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return "", fmt.Errorf("parse address completion: %w", err)
	}
	if !out.Known {
		return "", nil
	}
	addr := cleanAddress(out.Address)
	if len(addr) < 10 {
		return "", nil
	}
	return addr, nil
}

func addressSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schemaJSON, err := json.Marshal(reflector.Reflect(companyAddress{}))
	if err != nil {
		return nil, fmt.Errorf("marshal address schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("unmarshal address schema: %w", err)
	}
	return schemaMap, nil
}

package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const openAIInstructions = "You label the dominant emotion of a personal journal entry. " +
	"Reply with a single lowercase label and a confidence between 0 and 1."

var labelSchema = generateSchema[labelPayload]()

// OpenAI classifies text via the OpenAI Responses API with a strict JSON schema
type OpenAI struct {
	client *openai.Client
	model  string
	labels []string
}

// OpenAIOptions configures the OpenAI backend
type OpenAIOptions struct {
	APIKey  string
	Model   string
	Labels  []string
	Timeout time.Duration
	// BaseURL overrides the API host
	BaseURL string
}

// NewOpenAI creates a new OpenAI classifier
func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("openai model not set")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(reqOpts...)

	return &OpenAI{client: &client, model: opts.Model, labels: opts.Labels}, nil
}

// OpenAILoader returns a Loader for the OpenAI backend
func OpenAILoader(opts OpenAIOptions) Loader {
	return func(context.Context) (Model, error) {
		o, err := NewOpenAI(opts)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
}

// Predict asks the model for the dominant emotion of text
func (o *OpenAI) Predict(ctx context.Context, text string) (Prediction, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "EmotionLabel",
			Schema:      labelSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Dominant emotion label JSON"),
			Type:        "json_schema",
		},
	}

	instructions := openAIInstructions
	if len(o.labels) > 0 {
		instructions += " Allowed labels: " + strings.Join(o.labels, ", ") + "."
	}

	params := responses.ResponseNewParams{
		Model:           o.model,
		MaxOutputTokens: openai.Int(100),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return Prediction{}, fmt.Errorf("api call: %w", err)
	}

	return parseResponse(resp.OutputText())
}

func generateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	// strict mode rejects schemas that allow extra keys
	m["additionalProperties"] = false
	return m
}

package classifier

import (
	"context"
	"testing"

	"github.com/pbaille/moodlog/internal/config"
)

func TestLoaderForMissingKeys(t *testing.T) {
	for _, backend := range []string{config.BackendAnthropic, config.BackendOpenAI} {
		load, err := LoaderFor(config.ClassifierConfig{Backend: backend, AnthropicModel: "m", OpenAIModel: "m"}, nil)
		if err != nil {
			t.Fatalf("%s: LoaderFor: %v", backend, err)
		}
		if _, err := load(context.Background()); err == nil {
			t.Fatalf("%s: expected load error without api key", backend)
		}
	}
}

func TestLoaderForUnknownBackend(t *testing.T) {
	if _, err := LoaderFor(config.ClassifierConfig{Backend: "fasttext"}, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLabelSchema(t *testing.T) {
	props, ok := labelSchema["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("schema has no properties: %v", labelSchema)
	}
	for _, key := range []string{"label", "confidence"} {
		if _, ok := props[key]; !ok {
			t.Fatalf("schema missing %q", key)
		}
	}
	if labelSchema["additionalProperties"] != false {
		t.Fatalf("additionalProperties=%v", labelSchema["additionalProperties"])
	}
}

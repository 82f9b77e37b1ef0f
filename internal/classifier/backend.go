package classifier

import (
	"fmt"

	"github.com/pbaille/moodlog/internal/config"
)

// LoaderFor picks the model backend named in cfg. labels lists the emotions
// the lookup tables know about and steers the LLM backends toward them.
func LoaderFor(cfg config.ClassifierConfig, labels []string) (Loader, error) {
	switch cfg.Backend {
	case config.BackendLexicon, "":
		return LexiconLoader(cfg.ModelPath), nil
	case config.BackendAnthropic:
		return AnthropicLoader(AnthropicOptions{
			APIKey:  cfg.AnthropicKey,
			Model:   cfg.AnthropicModel,
			Labels:  labels,
			Timeout: cfg.Timeout,
		}), nil
	case config.BackendOpenAI:
		return OpenAILoader(OpenAIOptions{
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModel,
			Labels:  labels,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", cfg.Backend)
	}
}

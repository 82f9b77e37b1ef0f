package analysis

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pbaille/moodlog/internal/domain"
)

//go:embed default_settings.yaml
var defaultSettingsYAML []byte

// TopN holds how many ranked items each report section keeps
type TopN struct {
	Triggers      int `yaml:"triggers"`
	Sensations    int `yaml:"sensations"`
	Thoughts      int `yaml:"thoughts"`
	RiskyThoughts int `yaml:"risky_thoughts"`
}

// StateRule maps a dominant share of one emotion label to a state
type StateRule struct {
	Label     string  `yaml:"label"`
	Threshold float64 `yaml:"threshold"`
	State     string  `yaml:"state"`
}

// MentalState is evaluated rule by rule; the first rule whose label share
// exceeds its threshold wins, otherwise Default applies
type MentalState struct {
	Rules   []StateRule `yaml:"rules"`
	Default string      `yaml:"default"`
}

// RiskPattern is a named cluster of phrases signaling a thinking style
type RiskPattern struct {
	Name    string   `yaml:"name"`
	Phrases []string `yaml:"phrases"`
}

// Messages are the user-facing texts of a report. Placeholders in braces
// are substituted: {pattern}, {label}, {percent}, {items}.
type Messages struct {
	NoData          string `yaml:"no_data"`
	NoneIdentified  string `yaml:"none_identified"`
	RiskExplanation string `yaml:"risk_explanation"`
	MostCommon      string `yaml:"most_common"`
	Physiological   string `yaml:"physiological"`
	Cognitive       string `yaml:"cognitive"`
}

// Settings parameterizes the aggregation engine
type Settings struct {
	TopN         TopN            `yaml:"top_n"`
	MentalState  MentalState     `yaml:"mental_state"`
	RiskPatterns []RiskPattern   `yaml:"risk_patterns"`
	Messages     Messages        `yaml:"messages"`
	Guidance     domain.Guidance `yaml:"guidance"`
}

// DefaultSettings returns the embedded settings
func DefaultSettings() *Settings {
	var s Settings
	if err := yaml.Unmarshal(defaultSettingsYAML, &s); err != nil {
		panic(fmt.Sprintf("embedded analysis settings: %v", err))
	}
	return &s
}

// LoadSettings returns the defaults overlaid with the YAML file at path.
// An empty path yields the defaults.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	if strings.TrimSpace(path) == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analysis settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("parse analysis settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("analysis settings %s: %w", path, err)
	}
	return s, nil
}

// Validate checks the settings for values the engine cannot work with
func (s *Settings) Validate() error {
	if s.TopN.Triggers < 1 || s.TopN.Sensations < 1 || s.TopN.Thoughts < 1 || s.TopN.RiskyThoughts < 1 {
		return errors.New("top_n values must be >= 1")
	}
	for i, r := range s.MentalState.Rules {
		if r.Label == "" || r.State == "" {
			return fmt.Errorf("mental_state rule %d needs a label and a state", i)
		}
		if r.Threshold < 0 || r.Threshold > 1 {
			return fmt.Errorf("mental_state rule %q: threshold %v outside [0,1]", r.Label, r.Threshold)
		}
	}
	if s.MentalState.Default == "" {
		return errors.New("mental_state default is empty")
	}
	for i, p := range s.RiskPatterns {
		if p.Name == "" {
			return fmt.Errorf("risk pattern %d has no name", i)
		}
		if len(p.Phrases) == 0 {
			return fmt.Errorf("risk pattern %q has no phrases", p.Name)
		}
	}
	return nil
}

func fill(template string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(template)
}

package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one resolution test case: a set of repositories built
// in memory, a project request, and the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Repositories are loaded in list order.
	Repositories []RepositorySpec `yaml:"repositories"`

	// Request lists the qualified module names to resolve.
	Request []string `yaml:"request"`

	// Options are overrides applied in list order; later entries win.
	Options []OptionSetting `yaml:"options,omitempty"`

	// Expect describes the outcome: either the selected modules in
	// order, or an error code.
	Expect ExpectClause `yaml:"expect"`
}

// RepositorySpec declares one in-memory repository.
type RepositorySpec struct {
	Name    string       `yaml:"name"`
	Options []OptionDecl `yaml:"options,omitempty"`
	Modules []ModuleDecl `yaml:"modules,omitempty"`
}

// OptionDecl declares a repository option. A nil Default leaves the
// option unset until an override provides a value.
type OptionDecl struct {
	Name    string  `yaml:"name"`
	Default *string `yaml:"default,omitempty"`
}

// ModuleDecl declares one module and its gating condition.
type ModuleDecl struct {
	Name    string   `yaml:"name"`
	Depends []string `yaml:"depends,omitempty"`

	// AvailableWhen gates the module on an option value. Absent means
	// unconditionally available.
	AvailableWhen *Condition `yaml:"available_when,omitempty"`
}

// Condition compares an option value. Option may be bare (own repository)
// or qualified.
type Condition struct {
	Option string `yaml:"option"`
	Equals string `yaml:"equals"`
}

// OptionSetting is one override entry.
type OptionSetting struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// ExpectClause specifies the expected outcome. Exactly one of Modules or
// Error must be set.
type ExpectClause struct {
	// Modules is the expected selection in resolution order.
	Modules []string `yaml:"modules,omitempty"`

	// Error is the expected error code, e.g. "E202".
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly instead of silently weakening a test.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Repositories) == 0 {
		return fmt.Errorf("repositories list is required and must be non-empty")
	}
	for _, repo := range s.Repositories {
		if repo.Name == "" {
			return fmt.Errorf("every repository needs a name")
		}
	}
	if len(s.Request) == 0 {
		return fmt.Errorf("request list is required and must be non-empty")
	}
	if len(s.Expect.Modules) == 0 && s.Expect.Error == "" {
		return fmt.Errorf("expect needs either modules or an error code")
	}
	if len(s.Expect.Modules) > 0 && s.Expect.Error != "" {
		return fmt.Errorf("expect cannot combine modules with an error code")
	}
	return nil
}

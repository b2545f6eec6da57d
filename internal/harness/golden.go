package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// snapshot is the serialized form of a scenario outcome compared against
// golden files. Field order is fixed and map keys sort, so serialization
// is deterministic.
type snapshot struct {
	ScenarioName string            `json:"scenario_name"`
	Modules      []string          `json:"modules,omitempty"`
	BuildOrder   []string          `json:"build_order,omitempty"`
	Options      map[string]string `json:"options,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// RunWithGolden executes a scenario, checks its expect clause, and
// compares the outcome snapshot against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result := Run(scenario)
	if err := Check(scenario, result); err != nil {
		return err
	}

	snap := snapshot{
		ScenarioName: scenario.Name,
		Modules:      result.Modules,
		BuildOrder:   result.BuildOrder,
		Options:      result.Options,
		Warnings:     result.Warnings,
		Error:        result.ErrorCode,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("serializing snapshot: %w", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, buf.Bytes())
	return nil
}

package staticscenario

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"stratforge/internal/app/ports"
	"stratforge/internal/domain/strategy"
)

type scenarioFile struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Difficulty  string `yaml:"difficulty"`
	MapSize     struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"map_size"`
	InitialState map[string]any `yaml:"initial_state"`
}

// Repo serves the scenario catalog from a directory of YAML files, read
// once at startup. Each initial state passes the same structural
// validation as a stored game state before the scenario is accepted.
type Repo struct {
	scenarios []strategy.Scenario
}

func NewRepo(root string) (*Repo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}

	names := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]strategy.Scenario, 0, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			return nil, fmt.Errorf("read scenario %s: %w", name, err)
		}
		sc, err := parseScenario(raw)
		if err != nil {
			return nil, fmt.Errorf("parse scenario %s: %w", name, err)
		}
		scenarios = append(scenarios, sc)
	}
	return &Repo{scenarios: scenarios}, nil
}

func parseScenario(raw []byte) (strategy.Scenario, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return strategy.Scenario{}, err
	}
	if f.ID == "" {
		return strategy.Scenario{}, fmt.Errorf("missing id")
	}

	fillExploredGrid(f.InitialState)

	// The initial state is authored in YAML but shares the JSON wire
	// shape with stored games; round-trip through JSON to reuse the
	// decode gate.
	stateJSON, err := json.Marshal(f.InitialState)
	if err != nil {
		return strategy.Scenario{}, fmt.Errorf("encode initial_state: %w", err)
	}
	state, err := strategy.DecodeState(stateJSON)
	if err != nil {
		return strategy.Scenario{}, fmt.Errorf("initial_state: %w", err)
	}

	return strategy.Scenario{
		ID:           f.ID,
		Name:         f.Name,
		Description:  f.Description,
		Difficulty:   f.Difficulty,
		MapSize:      strategy.MapSize{Width: f.MapSize.Width, Height: f.MapSize.Height},
		InitialState: state,
	}, nil
}

// fillExploredGrid lets scenario authors omit map.explored; a zeroed
// grid matching the declared size is synthesized in its place.
func fillExploredGrid(state map[string]any) {
	m, ok := state["map"].(map[string]any)
	if !ok {
		return
	}
	if _, ok := m["explored"]; ok {
		return
	}
	size, ok := m["size"].(map[string]any)
	if !ok {
		return
	}
	width, _ := size["width"].(int)
	height, _ := size["height"].(int)
	if width <= 0 || height <= 0 {
		return
	}
	explored := make([][]int, height)
	for y := range explored {
		explored[y] = make([]int, width)
	}
	m["explored"] = explored
}

var _ ports.ScenarioRepository = (*Repo)(nil)

func (r *Repo) List(_ context.Context) ([]strategy.Scenario, error) {
	out := make([]strategy.Scenario, len(r.scenarios))
	copy(out, r.scenarios)
	return out, nil
}

func (r *Repo) GetByID(_ context.Context, scenarioID string) (strategy.Scenario, error) {
	for _, sc := range r.scenarios {
		if sc.ID == scenarioID {
			return sc, nil
		}
	}
	return strategy.Scenario{}, ports.ErrNotFound
}

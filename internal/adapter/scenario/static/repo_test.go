package staticscenario

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stratforge/internal/app/ports"
)

const smallContinentYAML = `id: small_continent
name: Small Continent
description: A compact landmass for short games.
difficulty: easy
map_size:
  width: 10
  height: 10
initial_state:
  turn: 1
  current_player: player
  player:
    cities: []
    units:
      - id: player_unit_1
        type: settler
        location: {x: 5, y: 5}
        owner: player
        movement_points: 2
        health: 100
  ai: []
  map:
    size: {width: 10, height: 10}
`

func writeScenario(t *testing.T, root, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestNewRepo_LoadsCatalog(t *testing.T) {
	root := t.TempDir()
	writeScenario(t, root, "small_continent.yaml", smallContinentYAML)

	repo, err := NewRepo(root)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	scenarios, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(scenarios) != 1 || scenarios[0].ID != "small_continent" {
		t.Fatalf("unexpected catalog %+v", scenarios)
	}

	sc, err := repo.GetByID(context.Background(), "small_continent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sc.InitialState.Turn != 1 || len(sc.InitialState.Player.Units) != 1 {
		t.Fatalf("initial state not decoded: %+v", sc.InitialState)
	}
	// map.explored was omitted; a zeroed grid is synthesized.
	if len(sc.InitialState.Map.Explored) != 10 || len(sc.InitialState.Map.Explored[0]) != 10 {
		t.Fatalf("explored grid not synthesized: %dx%d rows", len(sc.InitialState.Map.Explored), len(sc.InitialState.Map.Explored[0]))
	}

	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewRepo_RejectsInvalidInitialState(t *testing.T) {
	root := t.TempDir()
	writeScenario(t, root, "bad.yaml", "id: bad\ninitial_state:\n  turn: 0\n")

	if _, err := NewRepo(root); err == nil {
		t.Fatal("expected error for invalid initial state")
	}
}

func TestNewRepo_SkipsNonYAMLFiles(t *testing.T) {
	root := t.TempDir()
	writeScenario(t, root, "small_continent.yaml", smallContinentYAML)
	writeScenario(t, root, "README.md", "not a scenario")

	repo, err := NewRepo(root)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	scenarios, _ := repo.List(context.Background())
	if len(scenarios) != 1 {
		t.Fatalf("expected 1 scenario, got %d", len(scenarios))
	}
}

package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"

	"stratforge/internal/adapter/repo/memory"
	"stratforge/internal/app/act"
	"stratforge/internal/app/cheat"
	"stratforge/internal/app/game"
	"stratforge/internal/app/ports"
	"stratforge/internal/app/scenario"
	"stratforge/internal/app/turn"
	"stratforge/internal/domain/strategy"
)

type staticVerifier struct {
	id  string
	err error
}

func (v staticVerifier) Verify(string) (string, error) {
	return v.id, v.err
}

func testHandler() (Handler, *memory.Store) {
	store := memory.NewStore()
	explored := make([][]int, 10)
	for y := range explored {
		explored[y] = make([]int, 10)
	}
	store.SeedGame(strategy.GameRecord{
		ID:         "game_1",
		UserID:     "user_1",
		Name:       "First Campaign",
		CheatsUsed: []string{},
		State: strategy.GameState{
			Turn:          1,
			CurrentPlayer: strategy.SidePlayer,
			Player: strategy.Roster{
				Cities: []strategy.City{{ID: "player_city_1", Name: "Alpha", Location: strategy.Location{X: 2, Y: 3}, Population: 5, Owner: strategy.SidePlayer}},
			},
			Map: strategy.WorldMap{Size: strategy.MapSize{Width: 10, Height: 10}, Explored: explored},
		},
		Version: 1,
	})
	store.SeedScenarios([]strategy.Scenario{{ID: "small_continent", Name: "Small Continent"}})

	repo := memory.NewGameRepo(store)
	now := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return Handler{
		GameUC:     game.UseCase{Games: repo, Scenarios: memory.NewScenarioRepo(store), Now: now},
		ActUC:      act.UseCase{Games: repo, Now: now},
		TurnUC:     turn.UseCase{Games: repo, Now: now},
		CheatUC:    cheat.UseCase{Games: repo, Now: now},
		ScenarioUC: scenario.UseCase{Scenarios: memory.NewScenarioRepo(store)},
		Tokens:     staticVerifier{id: "user_1"},
	}, store
}

func authedCtx(gameID string) *app.RequestContext {
	ctx := &app.RequestContext{}
	ctx.Request.Header.Set("Authorization", "Bearer token-1")
	if gameID != "" {
		ctx.Params = param.Params{{Key: "id", Value: gameID}}
	}
	return ctx
}

func decodeBody(t *testing.T, ctx *app.RequestContext, out any) {
	t.Helper()
	if err := json.Unmarshal(ctx.Response.Body(), out); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
}

func TestRequireCaller(t *testing.T) {
	h := Handler{Tokens: staticVerifier{id: "user_1"}}

	ctx := &app.RequestContext{}
	if _, err := h.requireCaller(ctx); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}

	ctx.Request.Header.Set("Authorization", "Basic abc")
	if _, err := h.requireCaller(ctx); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong scheme, got %v", err)
	}

	ctx.Request.Header.Set("Authorization", "Bearer token-1")
	userID, err := h.requireCaller(ctx)
	if err != nil || userID != "user_1" {
		t.Fatalf("requireCaller: %q, %v", userID, err)
	}

	h.Tokens = staticVerifier{err: errors.New("expired")}
	if _, err := h.requireCaller(ctx); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on verify failure, got %v", err)
	}
}

func TestWriteError_StatusMapping(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
		code   string
	}{
		"missing token":  {ErrMissingToken, consts.StatusUnauthorized, "missing_token"},
		"not found":      {ports.ErrNotFound, consts.StatusNotFound, "not_found"},
		"conflict":       {ports.ErrConflict, consts.StatusConflict, "conflict"},
		"out of turn":    {act.ErrNotPlayersTurn, consts.StatusConflict, "not_players_turn"},
		"bad request":    {game.ErrInvalidRequest, consts.StatusBadRequest, "bad_request"},
		"unknown cheat":  {cheat.ErrUnknownCode, consts.StatusBadRequest, "unknown_cheat_code"},
		"internal error": {errors.New("boom"), consts.StatusInternalServerError, "internal_error"},
	}
	for name, tc := range cases {
		ctx := &app.RequestContext{}
		writeError(ctx, tc.err)
		if got := ctx.Response.StatusCode(); got != tc.status {
			t.Fatalf("%s: status %d, want %d", name, got, tc.status)
		}
		var body map[string]map[string]any
		decodeBody(t, ctx, &body)
		if got := body["error"]["code"]; got != tc.code {
			t.Fatalf("%s: code %v, want %q", name, got, tc.code)
		}
	}
}

func TestWriteError_ItemizesStateShapeFields(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, &strategy.StateShapeError{Fields: []strategy.FieldError{
		{Field: "turn", Reason: "must be >= 1"},
		{Field: "current_player", Reason: "missing"},
	}})

	if got := ctx.Response.StatusCode(); got != consts.StatusBadRequest {
		t.Fatalf("status %d", got)
	}
	var body map[string]map[string]any
	decodeBody(t, ctx, &body)
	fields, _ := body["error"]["fields"].([]any)
	if len(fields) != 2 {
		t.Fatalf("expected 2 itemized fields, got %v", body)
	}
}

func TestEndTurn_AdvancesGame(t *testing.T) {
	h, _ := testHandler()
	ctx := authedCtx("game_1")
	h.endTurn(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("status %d, body %s", got, ctx.Response.Body())
	}
	var body struct {
		Game strategy.GameRecord `json:"game"`
	}
	decodeBody(t, ctx, &body)
	if body.Game.State.Turn != 2 || body.Game.Version != 2 {
		t.Fatalf("turn/version not advanced: %+v", body.Game)
	}
}

func TestAction_AppliesBatch(t *testing.T) {
	h, _ := testHandler()
	ctx := authedCtx("game_1")
	ctx.Request.SetBody([]byte(`{"actions":[{"type":"foundCity","details":{"location":{"x":4,"y":4}}}]}`))
	h.action(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("status %d, body %s", got, ctx.Response.Body())
	}
	var body act.Response
	decodeBody(t, ctx, &body)
	if len(body.Record.State.Player.Cities) != 2 {
		t.Fatalf("city not founded: %+v", body.Record.State.Player.Cities)
	}
}

func TestAction_SingleActionField(t *testing.T) {
	h, _ := testHandler()
	ctx := authedCtx("game_1")
	ctx.Request.SetBody([]byte(`{"action":{"type":"researchTechnology","details":{"technology":"Pottery"}}}`))
	h.action(context.Background(), ctx)

	var body act.Response
	decodeBody(t, ctx, &body)
	if !body.Record.State.Player.HasTechnology("Pottery") {
		t.Fatal("single action not applied")
	}
}

func TestCheat_UnknownCode(t *testing.T) {
	h, _ := testHandler()
	ctx := authedCtx("game_1")
	ctx.Request.SetBody([]byte(`{"code":"god_mode","target_type":"city","target_id":"player_city_1"}`))
	h.cheat(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusBadRequest {
		t.Fatalf("status %d", got)
	}
}

func TestCreateGame_InvalidJSON(t *testing.T) {
	h, _ := testHandler()
	ctx := authedCtx("")
	ctx.Request.SetBody([]byte(`{"name":`))
	h.createGame(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusBadRequest {
		t.Fatalf("status %d", got)
	}
	var body map[string]map[string]any
	decodeBody(t, ctx, &body)
	if body["error"]["code"] != "invalid_json" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestListScenarios(t *testing.T) {
	h, _ := testHandler()
	ctx := authedCtx("")
	h.listScenarios(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("status %d", got)
	}
	var body struct {
		Scenarios []strategy.Scenario `json:"scenarios"`
	}
	decodeBody(t, ctx, &body)
	if len(body.Scenarios) != 1 || body.Scenarios[0].ID != "small_continent" {
		t.Fatalf("unexpected scenarios %+v", body.Scenarios)
	}
}

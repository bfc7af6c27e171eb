package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"stratforge/internal/app/act"
	"stratforge/internal/app/cheat"
	"stratforge/internal/app/game"
	"stratforge/internal/app/ports"
	"stratforge/internal/app/scenario"
	"stratforge/internal/app/turn"
	"stratforge/internal/domain/strategy"
)

// TokenVerifier resolves a bearer token into an opaque user id. The
// engine treats the id as already authenticated.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

type Handler struct {
	GameUC     game.UseCase
	ActUC      act.UseCase
	TurnUC     turn.UseCase
	CheatUC    cheat.UseCase
	ScenarioUC scenario.UseCase
	Tokens     TokenVerifier
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	api := s.Group("/api")
	api.GET("/games", h.listGames)
	api.POST("/games", h.createGame)
	api.GET("/games/:id", h.getGame)
	api.DELETE("/games/:id", h.deleteGame)
	api.POST("/games/:id/save", h.saveGame)
	api.POST("/games/:id/action", h.action)
	api.POST("/games/:id/endTurn", h.endTurn)
	api.POST("/games/:id/cheat", h.cheat)
	api.GET("/scenarios", h.listScenarios)
}

type createGameRequest struct {
	Name       string              `json:"name"`
	ScenarioID string              `json:"scenario_id"`
	State      *strategy.GameState `json:"game_state,omitempty"`
}

type saveGameRequest struct {
	State strategy.GameState `json:"game_state"`
}

type actionRequest struct {
	Action  *strategy.Action  `json:"action,omitempty"`
	Actions []strategy.Action `json:"actions,omitempty"`
	Strict  bool              `json:"strict,omitempty"`
}

type cheatRequest struct {
	Code       string `json:"code"`
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
}

func (h Handler) listGames(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireCaller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	games, err := h.GameUC.List(c, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"games": games})
}

func (h Handler) createGame(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireCaller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body createGameRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	rec, err := h.GameUC.Create(c, game.CreateRequest{
		UserID:     userID,
		Name:       body.Name,
		ScenarioID: body.ScenarioID,
		State:      body.State,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, rec)
}

func (h Handler) getGame(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireCaller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	rec, err := h.GameUC.Get(c, userID, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, rec)
}

func (h Handler) deleteGame(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireCaller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if err := h.GameUC.Delete(c, userID, ctx.Param("id")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]bool{"deleted": true})
}

func (h Handler) saveGame(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireCaller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body saveGameRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	rec, err := h.GameUC.Save(c, userID, ctx.Param("id"), body.State)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, rec)
}

func (h Handler) action(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireCaller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body actionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	actions := body.Actions
	if body.Action != nil {
		actions = append([]strategy.Action{*body.Action}, actions...)
	}
	resp, err := h.ActUC.Execute(c, act.Request{
		UserID:  userID,
		GameID:  ctx.Param("id"),
		Actions: actions,
		Strict:  body.Strict,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) endTurn(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireCaller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.TurnUC.Execute(c, turn.Request{UserID: userID, GameID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) cheat(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireCaller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body cheatRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.CheatUC.Execute(c, cheat.Request{
		UserID:     userID,
		GameID:     ctx.Param("id"),
		Code:       body.Code,
		TargetType: body.TargetType,
		TargetID:   body.TargetID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) listScenarios(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireCaller(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	scenarios, err := h.ScenarioUC.List(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"scenarios": scenarios})
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (h Handler) requireCaller(ctx *app.RequestContext) (string, error) {
	header := strings.TrimSpace(string(ctx.GetHeader("Authorization")))
	if header == "" {
		return "", ErrMissingToken
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", ErrInvalidToken
	}
	userID, err := h.Tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func writeError(ctx *app.RequestContext, err error) {
	var shapeErr *strategy.StateShapeError
	switch {
	case errors.Is(err, ErrMissingToken):
		writeErrorBody(ctx, consts.StatusUnauthorized, "missing_token", err.Error())
	case errors.Is(err, ErrInvalidToken):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_token", err.Error())
	case errors.As(err, &shapeErr):
		ctx.JSON(consts.StatusBadRequest, map[string]any{
			"error": map[string]any{
				"code":    "invalid_state_shape",
				"message": err.Error(),
				"fields":  shapeErr.Fields,
			},
		})
	case errors.Is(err, act.ErrNotPlayersTurn), errors.Is(err, turn.ErrNotPlayersTurn):
		writeErrorBody(ctx, consts.StatusConflict, "not_players_turn", err.Error())
	case errors.Is(err, cheat.ErrUnknownCode):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_cheat_code", err.Error())
	case errors.Is(err, cheat.ErrBadTarget):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_cheat_target", err.Error())
	case errors.Is(err, game.ErrInvalidRequest),
		errors.Is(err, act.ErrInvalidRequest),
		errors.Is(err, turn.ErrInvalidRequest),
		errors.Is(err, cheat.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"stratforge/internal/adapter/repo/gorm/model"
	"stratforge/internal/app/ports"
	"stratforge/internal/domain/strategy"
)

type GameRepo struct {
	db *gorm.DB
}

func NewGameRepo(db *gorm.DB) GameRepo {
	return GameRepo{db: db}
}

func (r GameRepo) GetByID(ctx context.Context, gameID string) (strategy.GameRecord, error) {
	var m model.Game
	if err := r.db.WithContext(ctx).Where("id = ?", gameID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return strategy.GameRecord{}, ports.ErrNotFound
		}
		return strategy.GameRecord{}, err
	}
	return toRecord(m)
}

func (r GameRepo) GetByName(ctx context.Context, userID, name string) (strategy.GameRecord, error) {
	var m model.Game
	err := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return strategy.GameRecord{}, ports.ErrNotFound
		}
		return strategy.GameRecord{}, err
	}
	return toRecord(m)
}

func (r GameRepo) ListByUserID(ctx context.Context, userID string) ([]strategy.GameRecord, error) {
	var rows []model.Game
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]strategy.GameRecord, 0, len(rows))
	for _, m := range rows {
		rec, err := toRecord(m)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r GameRepo) Create(ctx context.Context, rec strategy.GameRecord) error {
	m, err := fromRecord(rec)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r GameRepo) SaveWithVersion(ctx context.Context, rec strategy.GameRecord, expectedVersion int64) error {
	m, err := fromRecord(rec)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&model.Game{}).
		Where("id = ? AND version = ?", rec.ID, expectedVersion).
		Updates(map[string]any{
			"name":        m.Name,
			"last_saved":  m.LastSaved,
			"is_autosave": m.IsAutosave,
			"cheats_used": m.CheatsUsed,
			"game_state":  m.GameState,
			"version":     m.Version,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r GameRepo) Delete(ctx context.Context, gameID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", gameID).Delete(&model.Game{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// toRecord rehydrates a stored row. The state column goes through the
// same deserialize-or-reject gate as every other entry point; a corrupt
// row surfaces as an itemized shape error, never as partial data.
func toRecord(m model.Game) (strategy.GameRecord, error) {
	state, err := strategy.DecodeState(m.GameState)
	if err != nil {
		return strategy.GameRecord{}, err
	}
	cheats := []string{}
	if len(m.CheatsUsed) > 0 {
		if err := json.Unmarshal(m.CheatsUsed, &cheats); err != nil {
			return strategy.GameRecord{}, fmt.Errorf("decode cheats_used: %w", err)
		}
	}
	return strategy.GameRecord{
		ID:         m.ID,
		UserID:     m.UserID,
		Name:       m.Name,
		ScenarioID: m.ScenarioID,
		CreatedAt:  m.CreatedAt,
		LastSaved:  m.LastSaved,
		IsAutosave: m.IsAutosave,
		CheatsUsed: cheats,
		State:      state,
		Version:    m.Version,
	}, nil
}

func fromRecord(rec strategy.GameRecord) (model.Game, error) {
	state, err := json.Marshal(rec.State)
	if err != nil {
		return model.Game{}, fmt.Errorf("encode game_state: %w", err)
	}
	cheats := rec.CheatsUsed
	if cheats == nil {
		cheats = []string{}
	}
	cheatsRaw, err := json.Marshal(cheats)
	if err != nil {
		return model.Game{}, fmt.Errorf("encode cheats_used: %w", err)
	}
	return model.Game{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Name:       rec.Name,
		ScenarioID: rec.ScenarioID,
		CreatedAt:  rec.CreatedAt,
		LastSaved:  rec.LastSaved,
		IsAutosave: rec.IsAutosave,
		CheatsUsed: cheatsRaw,
		GameState:  state,
		Version:    rec.Version,
	}, nil
}

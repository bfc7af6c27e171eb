package model

import "time"

type Game struct {
	ID         string `gorm:"primaryKey"`
	UserID     string `gorm:"index:idx_games_user_id"`
	Name       string
	ScenarioID string
	CreatedAt  time.Time
	LastSaved  time.Time
	IsAutosave bool
	CheatsUsed []byte `gorm:"type:jsonb"`
	GameState  []byte `gorm:"type:jsonb"`
	Version    int64
}

func (Game) TableName() string {
	return "games"
}

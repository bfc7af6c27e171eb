package mongorepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"stratforge/internal/app/ports"
	"stratforge/internal/domain/strategy"
)

const defaultGameCollectionName = "games"

// gameDoc stores the state column as canonical JSON bytes so the mongo
// and postgres adapters share one wire shape and one decode gate.
type gameDoc struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"user_id"`
	Name       string    `bson:"name"`
	ScenarioID string    `bson:"scenario_id"`
	CreatedAt  time.Time `bson:"created_at"`
	LastSaved  time.Time `bson:"last_saved"`
	IsAutosave bool      `bson:"is_autosave"`
	CheatsUsed []string  `bson:"cheats_used"`
	GameState  []byte    `bson:"game_state"`
	Version    int64     `bson:"version"`
}

type GameRepo struct {
	coll *mongo.Collection
}

func NewGameRepo(db *mongo.Database) *GameRepo {
	if db == nil {
		return &GameRepo{}
	}
	return &GameRepo{coll: db.Collection(defaultGameCollectionName)}
}

func (r *GameRepo) GetByID(ctx context.Context, gameID string) (strategy.GameRecord, error) {
	return r.findOne(ctx, bson.M{"_id": gameID})
}

func (r *GameRepo) GetByName(ctx context.Context, userID, name string) (strategy.GameRecord, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "name": name})
}

func (r *GameRepo) findOne(ctx context.Context, filter bson.M) (strategy.GameRecord, error) {
	if r == nil || r.coll == nil {
		return strategy.GameRecord{}, errors.New("mongodb game collection is nil")
	}
	var doc gameDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return strategy.GameRecord{}, ports.ErrNotFound
	}
	if err != nil {
		return strategy.GameRecord{}, err
	}
	return docToRecord(doc)
}

func (r *GameRepo) ListByUserID(ctx context.Context, userID string) ([]strategy.GameRecord, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb game collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	var docs []gameDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]strategy.GameRecord, 0, len(docs))
	for _, doc := range docs {
		rec, err := docToRecord(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *GameRepo) Create(ctx context.Context, rec strategy.GameRecord) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb game collection is nil")
	}
	doc, err := recordToDoc(rec)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r *GameRepo) SaveWithVersion(ctx context.Context, rec strategy.GameRecord, expectedVersion int64) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb game collection is nil")
	}
	doc, err := recordToDoc(rec)
	if err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID, "version": expectedVersion}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r *GameRepo) Delete(ctx context.Context, gameID string) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb game collection is nil")
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": gameID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func docToRecord(doc gameDoc) (strategy.GameRecord, error) {
	state, err := strategy.DecodeState(doc.GameState)
	if err != nil {
		return strategy.GameRecord{}, err
	}
	cheats := doc.CheatsUsed
	if cheats == nil {
		cheats = []string{}
	}
	return strategy.GameRecord{
		ID:         doc.ID,
		UserID:     doc.UserID,
		Name:       doc.Name,
		ScenarioID: doc.ScenarioID,
		CreatedAt:  doc.CreatedAt,
		LastSaved:  doc.LastSaved,
		IsAutosave: doc.IsAutosave,
		CheatsUsed: cheats,
		State:      state,
		Version:    doc.Version,
	}, nil
}

func recordToDoc(rec strategy.GameRecord) (gameDoc, error) {
	state, err := json.Marshal(rec.State)
	if err != nil {
		return gameDoc{}, fmt.Errorf("encode game_state: %w", err)
	}
	cheats := rec.CheatsUsed
	if cheats == nil {
		cheats = []string{}
	}
	return gameDoc{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Name:       rec.Name,
		ScenarioID: rec.ScenarioID,
		CreatedAt:  rec.CreatedAt,
		LastSaved:  rec.LastSaved,
		IsAutosave: rec.IsAutosave,
		CheatsUsed: cheats,
		GameState:  state,
		Version:    rec.Version,
	}, nil
}

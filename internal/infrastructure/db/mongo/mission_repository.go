package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

const collectionMissions = "missions"

type MissionRepository struct {
	col *mongo.Collection
}

func NewMissionRepository(db *mongo.Database) *MissionRepository {
	return &MissionRepository{col: db.Collection(collectionMissions)}
}

var _ ports.MissionRepository = (*MissionRepository)(nil)

func missionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: 1}}},
	}
}

// Create inserts a new mission document. A duplicate id after a retried
// insert is only a conflict when the stored mission differs from m.
func (r *MissionRepository) Create(ctx context.Context, m *domain.Mission) error {
	attempts := 0
	err := withRetry(ctx, "insert mission", func(ctx context.Context) error {
		attempts++
		_, err := r.col.InsertOne(ctx, m)
		return err
	})
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert mission: %w", err)
	}
	if retriedDuplicate(attempts, err) {
		stored, ferr := r.FindByID(ctx, m.ID)
		if ferr == nil && sameMission(stored, m) {
			return nil
		}
	}
	return domain.ErrMissionExists
}

// sameMission compares the immutable body of two missions. Mongo stores
// times at millisecond precision.
func sameMission(a, b *domain.Mission) bool {
	return a.ID == b.ID &&
		a.Title == b.Title &&
		a.Type == b.Type &&
		a.Description == b.Description &&
		a.Points == b.Points &&
		a.HealthBonus == b.HealthBonus &&
		a.CO2Saved == b.CO2Saved &&
		a.WaterSaved == b.WaterSaved &&
		a.EnergySaved == b.EnergySaved &&
		a.Difficulty == b.Difficulty &&
		a.Category == b.Category &&
		a.CreatedAt.Truncate(time.Millisecond).Equal(b.CreatedAt.Truncate(time.Millisecond))
}

// InsertMissing inserts m unless a mission with its id already exists.
func (r *MissionRepository) InsertMissing(ctx context.Context, m *domain.Mission) (bool, error) {
	err := r.Create(ctx, m)
	if errors.Is(err, domain.ErrMissionExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindByID returns a mission whether or not it is active.
func (r *MissionRepository) FindByID(ctx context.Context, id string) (*domain.Mission, error) {
	var m domain.Mission
	err := withRetry(ctx, "find mission", func(ctx context.Context) error {
		return r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMissionNotFound
		}
		return nil, fmt.Errorf("find mission: %w", err)
	}
	return &m, nil
}

// ListActive returns active missions in publication order.
func (r *MissionRepository) ListActive(ctx context.Context) ([]*domain.Mission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	var missions []*domain.Mission
	err := withRetry(ctx, "list missions", func(ctx context.Context) error {
		cur, err := r.col.Find(ctx, bson.M{"is_active": true}, opts)
		if err != nil {
			return err
		}
		return cur.All(ctx, &missions)
	})
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	return missions, nil
}

// Deactivate hides a mission from the catalog. Deactivating twice is a no-op.
func (r *MissionRepository) Deactivate(ctx context.Context, id string) error {
	var res *mongo.UpdateResult
	err := withRetry(ctx, "deactivate mission", func(ctx context.Context) error {
		var err error
		res, err = r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": false}})
		return err
	})
	if err != nil {
		return fmt.Errorf("deactivate mission: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMissionNotFound
	}
	return nil
}

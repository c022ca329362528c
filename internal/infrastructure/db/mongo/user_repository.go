package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

const collectionUsers = "users"

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(collectionUsers)}
}

var _ ports.UserRepository = (*UserRepository)(nil)

type mongoUser struct {
	ID                primitive.ObjectID      `bson:"_id,omitempty"`
	Name              string                  `bson:"name"`
	Email             string                  `bson:"email"`
	PasswordHash      string                  `bson:"password_hash"`
	Role              string                  `bson:"role"`
	Points            int64                   `bson:"points"`
	PlanetHealth      float64                 `bson:"planet_health"`
	CompletedMissions []string                `bson:"completed_missions"`
	JoinedAt          time.Time               `bson:"joined_at"`
	Revision          int64                   `bson:"revision"`
	PendingEvents     []domain.AnalyticsEvent `bson:"pending_events"`
}

func (mu *mongoUser) toDomain() *domain.User {
	completed := mu.CompletedMissions
	if completed == nil {
		completed = []string{}
	}
	return &domain.User{
		ID:                mu.ID.Hex(),
		Name:              mu.Name,
		Email:             mu.Email,
		PasswordHash:      mu.PasswordHash,
		Role:              mu.Role,
		Points:            mu.Points,
		PlanetHealth:      mu.PlanetHealth,
		CompletedMissions: completed,
		JoinedAt:          mu.JoinedAt.UTC(),
		Revision:          mu.Revision,
		PendingEvents:     mu.PendingEvents,
	}
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: rankOrder},
		{Keys: bson.D{{Key: "planet_health", Value: 1}}},
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		ID:                primitive.NewObjectID(),
		Name:              user.Name,
		Email:             user.Email,
		PasswordHash:      user.PasswordHash,
		Role:              user.Role,
		Points:            user.Points,
		PlanetHealth:      user.PlanetHealth,
		CompletedMissions: []string{},
		JoinedAt:          user.JoinedAt.UTC(),
		PendingEvents:     []domain.AnalyticsEvent{},
	}

	attempts := 0
	err := withRetry(ctx, "insert user", func(ctx context.Context) error {
		attempts++
		_, err := r.coll.InsertOne(ctx, doc)
		return err
	})
	if err == nil {
		return doc.toDomain(), nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	// The id is minted here, so finding it means an earlier attempt landed.
	if retriedDuplicate(attempts, err) {
		if _, ferr := r.FindByID(ctx, doc.ID.Hex()); ferr == nil {
			return doc.toDomain(), nil
		}
	}
	return nil, domain.ErrUserExists
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	err := withRetry(ctx, "find user", func(ctx context.Context) error {
		return r.coll.FindOne(ctx, filter).Decode(&mu)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// ApplyLedgerChange commits change in a single findOneAndUpdate guarded by the
// revision and, for rewards, by the mission not yet being in the completed set.
func (r *UserRepository) ApplyLedgerChange(ctx context.Context, userID string, expectedRevision int64, change domain.LedgerChange) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	filter, update := ledgerUpdate(oid, expectedRevision, change)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mu mongoUser
	err = withRetry(ctx, "apply ledger change", func(ctx context.Context) error {
		return r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mu)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRevisionConflict
		}
		return nil, fmt.Errorf("apply ledger change: %w", err)
	}
	return mu.toDomain(), nil
}

// ledgerUpdate builds the guarded filter and update document for a ledger change.
func ledgerUpdate(oid primitive.ObjectID, expectedRevision int64, change domain.LedgerChange) (filter, update bson.M) {
	filter = bson.M{"_id": oid, "revision": expectedRevision}
	update = bson.M{
		"$inc": bson.M{"points": change.PointsDelta, "revision": 1},
		"$set": bson.M{"planet_health": change.NewHealth},
	}

	push := bson.M{}
	if change.AddMission != "" {
		filter["completed_missions"] = bson.M{"$ne": change.AddMission}
		push["completed_missions"] = change.AddMission
	}
	if change.Pending != nil {
		push["pending_events"] = change.Pending
	}
	if len(push) > 0 {
		update["$push"] = push
	}
	return filter, update
}

func (r *UserRepository) ClearPendingEvent(ctx context.Context, userID, eventID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	update := bson.M{"$pull": bson.M{"pending_events": bson.M{"_id": eventID}}}

	return withRetry(ctx, "clear pending event", func(ctx context.Context) error {
		_, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
		return err
	})
}

// rankOrder is the leaderboard order: points desc, then earliest joiner,
// then id. The ranking index is built on the same keys.
var rankOrder = bson.D{{Key: "points", Value: -1}, {Key: "joined_at", Value: 1}, {Key: "_id", Value: 1}}

func topUsersOptions(n int) *options.FindOptions {
	return options.Find().
		SetSort(rankOrder).
		SetLimit(int64(n)).
		SetProjection(bson.M{"password_hash": 0, "pending_events": 0})
}

func (r *UserRepository) ListTop(ctx context.Context, n int) ([]*domain.User, error) {
	opts := topUsersOptions(n)

	var docs []mongoUser
	err := withRetry(ctx, "list top users", func(ctx context.Context) error {
		cur, err := r.coll.Find(ctx, bson.M{}, opts)
		if err != nil {
			return err
		}
		return cur.All(ctx, &docs)
	})
	if err != nil {
		return nil, fmt.Errorf("list top users: %w", err)
	}

	users := make([]*domain.User, len(docs))
	for i := range docs {
		users[i] = docs[i].toDomain()
	}
	return users, nil
}

func (r *UserRepository) ListIDsAboveHealth(ctx context.Context, floor float64) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err := withRetry(ctx, "list users above health", func(ctx context.Context) error {
		cur, err := r.coll.Find(ctx, bson.M{"planet_health": bson.M{"$gt": floor}}, opts)
		if err != nil {
			return err
		}
		return cur.All(ctx, &docs)
	})
	if err != nil {
		return nil, fmt.Errorf("list users above health: %w", err)
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID.Hex()
	}
	return ids, nil
}

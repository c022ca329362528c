package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

const collectionAnalytics = "analytics_events"

// AnalyticsRepository implements ports.AnalyticsRepository using MongoDB.
type AnalyticsRepository struct {
	col *mongo.Collection
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(db *mongo.Database) ports.AnalyticsRepository {
	return &AnalyticsRepository{col: db.Collection(collectionAnalytics)}
}

func analyticsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	}
}

// Insert appends the event. The id is deterministic, so a replayed outbox
// entry hits the _id index and is dropped.
func (r *AnalyticsRepository) Insert(ctx context.Context, e *domain.AnalyticsEvent) error {
	err := withRetry(ctx, "insert analytics event", func(ctx context.Context) error {
		_, err := r.col.InsertOne(ctx, e)
		return err
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert analytics event: %w", err)
	}
	return nil
}

func (r *AnalyticsRepository) Recent(ctx context.Context, userID string, limit int) ([]domain.AnalyticsEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	var events []domain.AnalyticsEvent
	err := withRetry(ctx, "recent analytics", func(ctx context.Context) error {
		cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
		if err != nil {
			return err
		}
		return cur.All(ctx, &events)
	})
	if err != nil {
		return nil, fmt.Errorf("recent analytics: %w", err)
	}
	if events == nil {
		events = []domain.AnalyticsEvent{}
	}
	return events, nil
}

type totalsRow struct {
	Points int64   `bson:"points"`
	CO2    float64 `bson:"co2"`
	Water  float64 `bson:"water"`
	Energy float64 `bson:"energy"`
	Events int64   `bson:"events"`
}

func (r *AnalyticsRepository) Totals(ctx context.Context, userID string, since time.Time) (domain.AnalyticsTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: matchUser(userID, since)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "points", Value: bson.M{"$sum": "$points_earned"}},
			{Key: "co2", Value: bson.M{"$sum": "$impact.co2"}},
			{Key: "water", Value: bson.M{"$sum": "$impact.water"}},
			{Key: "energy", Value: bson.M{"$sum": "$impact.energy"}},
			{Key: "events", Value: bson.M{"$sum": 1}},
		}}},
	}

	var rows []totalsRow
	err := withRetry(ctx, "analytics totals", func(ctx context.Context) error {
		cur, err := r.col.Aggregate(ctx, pipeline)
		if err != nil {
			return err
		}
		return cur.All(ctx, &rows)
	})
	if err != nil {
		return domain.AnalyticsTotals{}, fmt.Errorf("analytics totals: %w", err)
	}
	if len(rows) == 0 {
		return domain.AnalyticsTotals{}, nil
	}

	row := rows[0]
	return domain.AnalyticsTotals{
		PointsEarned: row.Points,
		CO2Saved:     row.CO2,
		WaterSaved:   row.Water,
		EnergySaved:  row.Energy,
		Events:       row.Events,
	}, nil
}

func (r *AnalyticsRepository) Daily(ctx context.Context, userID string, since time.Time) ([]domain.DailyImpact, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: matchUser(userID, since)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$timestamp"}}},
			{Key: "points", Value: bson.M{"$sum": "$points_earned"}},
			{Key: "co2", Value: bson.M{"$sum": "$impact.co2"}},
			{Key: "events", Value: bson.M{"$sum": 1}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	var rows []struct {
		Date   string  `bson:"_id"`
		Points int64   `bson:"points"`
		CO2    float64 `bson:"co2"`
		Events int64   `bson:"events"`
	}
	err := withRetry(ctx, "analytics daily", func(ctx context.Context) error {
		cur, err := r.col.Aggregate(ctx, pipeline)
		if err != nil {
			return err
		}
		return cur.All(ctx, &rows)
	})
	if err != nil {
		return nil, fmt.Errorf("analytics daily: %w", err)
	}

	days := make([]domain.DailyImpact, len(rows))
	for i, row := range rows {
		days[i] = domain.DailyImpact{
			Date:         row.Date,
			PointsEarned: row.Points,
			CO2Saved:     row.CO2,
			Events:       row.Events,
		}
	}
	return days, nil
}

func matchUser(userID string, since time.Time) bson.M {
	match := bson.M{"user_id": userID}
	if !since.IsZero() {
		match["timestamp"] = bson.M{"$gte": since.UTC()}
	}
	return match
}

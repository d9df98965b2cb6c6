package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

const collectionActivity = "activity_log"

// ActivityRepository persists the append-only audit trail. There are no
// update or delete operations on this collection by design.
type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

type activityDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Action    string    `bson:"action"`
	Details   string    `bson:"details,omitempty"`
	ClientIP  string    `bson:"client_ip,omitempty"`
	UserAgent string    `bson:"user_agent,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *ActivityRepository) Append(ctx context.Context, entry *domain.ActivityLogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	doc := activityDoc{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Action:    entry.Action,
		Details:   entry.Details,
		ClientIP:  entry.ClientIP,
		UserAgent: entry.UserAgent,
		CreatedAt: entry.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActivityLogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer cur.Close(ctx)

	var docs []activityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}

	out := make([]domain.ActivityLogEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.ActivityLogEntry{
			ID:        d.ID,
			UserID:    d.UserID,
			Action:    d.Action,
			Details:   d.Details,
			ClientIP:  d.ClientIP,
			UserAgent: d.UserAgent,
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return out, nil
}

// EnsureIndexes creates the per-user newest-first index.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

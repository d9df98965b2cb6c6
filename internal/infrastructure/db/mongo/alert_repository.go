package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

const collectionAlerts = "security_alerts"

type AlertRepository struct {
	col *mongo.Collection
}

func NewAlertRepository(db *mongo.Database) *AlertRepository {
	return &AlertRepository{col: db.Collection(collectionAlerts)}
}

type alertDoc struct {
	ID           string            `bson:"_id"`
	UserID       string            `bson:"user_id"`
	Kind         string            `bson:"kind"`
	Description  string            `bson:"description"`
	Metadata     map[string]string `bson:"metadata,omitempty"`
	CredentialID string            `bson:"credential_id,omitempty"`
	Resolved     bool              `bson:"resolved"`
	CreatedAt    time.Time         `bson:"created_at"`
}

func (d alertDoc) toDomain() domain.SecurityAlert {
	return domain.SecurityAlert{
		ID:           d.ID,
		UserID:       d.UserID,
		Kind:         domain.AlertKind(d.Kind),
		Description:  d.Description,
		Metadata:     d.Metadata,
		CredentialID: d.CredentialID,
		Resolved:     d.Resolved,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

func (r *AlertRepository) Create(ctx context.Context, alert *domain.SecurityAlert) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := alertDoc{
		ID:           alert.ID,
		UserID:       alert.UserID,
		Kind:         string(alert.Kind),
		Description:  alert.Description,
		Metadata:     alert.Metadata,
		CredentialID: alert.CredentialID,
		Resolved:     alert.Resolved,
		CreatedAt:    alert.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (r *AlertRepository) ListByUser(ctx context.Context, userID string) ([]domain.SecurityAlert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []alertDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}

	out := make([]domain.SecurityAlert, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AlertRepository) FindOpen(ctx context.Context, userID string, kind domain.AlertKind, credentialID string) (*domain.SecurityAlert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"user_id":       userID,
		"kind":          string(kind),
		"credential_id": credentialID,
		"resolved":      false,
	}

	var doc alertDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find open alert: %w", err)
	}
	alert := doc.toDomain()
	return &alert, nil
}

// Resolve flips the resolved flag. The update matches on user_id as well, so
// foreign alerts behave exactly like absent ones.
func (r *AlertRepository) Resolve(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"resolved": true}},
	)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the per-user listing and dedupe-lookup indexes.
func (r *AlertRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "kind", Value: 1}, {Key: "credential_id", Value: 1}, {Key: "resolved", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

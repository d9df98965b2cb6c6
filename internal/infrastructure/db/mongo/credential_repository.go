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

const collectionCredentials = "credentials"

type CredentialRepository struct {
	col *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{col: db.Collection(collectionCredentials)}
}

type credentialDoc struct {
	ID             string    `bson:"_id"`
	OwnerID        string    `bson:"owner_id"`
	Title          string    `bson:"title"`
	SiteUsername   string    `bson:"site_username,omitempty"`
	SecretEnvelope string    `bson:"secret_envelope"`
	URL            string    `bson:"url,omitempty"`
	Notes          string    `bson:"notes,omitempty"`
	Category       string    `bson:"category,omitempty"`
	Favorite       bool      `bson:"favorite"`
	Strength       int       `bson:"strength"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toCredentialDoc(rec *domain.CredentialRecord) credentialDoc {
	return credentialDoc{
		ID:             rec.ID,
		OwnerID:        rec.OwnerID,
		Title:          rec.Title,
		SiteUsername:   rec.SiteUsername,
		SecretEnvelope: rec.SecretEnvelope,
		URL:            rec.URL,
		Notes:          rec.Notes,
		Category:       rec.Category,
		Favorite:       rec.Favorite,
		Strength:       rec.Strength,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func (d credentialDoc) toDomain() domain.CredentialRecord {
	return domain.CredentialRecord{
		ID:             d.ID,
		OwnerID:        d.OwnerID,
		Title:          d.Title,
		SiteUsername:   d.SiteUsername,
		SecretEnvelope: d.SecretEnvelope,
		URL:            d.URL,
		Notes:          d.Notes,
		Category:       d.Category,
		Favorite:       d.Favorite,
		Strength:       d.Strength,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

func (r *CredentialRepository) Create(ctx context.Context, rec *domain.CredentialRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toCredentialDoc(rec)); err != nil {
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

// FindByID retrieves a record scoped by owner. Foreign and absent records
// are both domain.ErrNotFound.
func (r *CredentialRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.CredentialRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc credentialDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	rec := doc.toDomain()
	return &rec, nil
}

func (r *CredentialRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.CredentialRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer cur.Close(ctx)

	var docs []credentialDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}

	out := make([]domain.CredentialRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update replaces the whole document, scoped by owner. Each record update is
// one atomic persistence call, so concurrent edits resolve last-write-wins.
func (r *CredentialRepository) Update(ctx context.Context, rec *domain.CredentialRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": rec.ID, "owner_id": rec.OwnerID}, toCredentialDoc(rec))
	if err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CredentialRepository) Delete(ctx context.Context, id, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the owner-scoped listing index.
func (r *CredentialRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

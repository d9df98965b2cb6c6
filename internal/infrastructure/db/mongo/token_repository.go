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

const collectionResetTokens = "reset_tokens"

type ResetTokenRepository struct {
	col *mongo.Collection
}

func NewResetTokenRepository(db *mongo.Database) *ResetTokenRepository {
	return &ResetTokenRepository{col: db.Collection(collectionResetTokens)}
}

type resetTokenDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Token     string    `bson:"token"`
	ExpiresAt time.Time `bson:"expires_at"`
	Used      bool      `bson:"used"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *ResetTokenRepository) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := resetTokenDoc{
		ID:        token.ID,
		UserID:    token.UserID,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		Used:      token.Used,
		CreatedAt: token.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) FindByToken(ctx context.Context, raw string) (*domain.PasswordResetToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc resetTokenDoc
	if err := r.col.FindOne(ctx, bson.M{"token": raw}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find reset token: %w", err)
	}
	return &domain.PasswordResetToken{
		ID:        doc.ID,
		UserID:    doc.UserID,
		Token:     doc.Token,
		ExpiresAt: doc.ExpiresAt.UTC(),
		Used:      doc.Used,
		CreatedAt: doc.CreatedAt.UTC(),
	}, nil
}

// Consume flips the token to used with a single conditional update. The
// filter matches only while used is still false, so of any number of
// concurrent callers exactly one sees a match; the rest get ErrNotFound.
func (r *ResetTokenRepository) Consume(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "used": false},
		bson.M{"$set": bson.M{"used": true}},
	)
	if err != nil {
		return fmt.Errorf("consume token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InvalidateForUser burns every active token of the user except exceptID in
// one atomic UpdateMany, keeping the at-most-one-active-token invariant
// race-free.
func (r *ResetTokenRepository) InvalidateForUser(ctx context.Context, userID, exceptID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateMany(ctx,
		bson.M{"user_id": userID, "used": false, "_id": bson.M{"$ne": exceptID}},
		bson.M{"$set": bson.M{"used": true}},
	)
	if err != nil {
		return fmt.Errorf("invalidate tokens: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the token lookup and per-user invalidation indexes.
func (r *ResetTokenRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "used", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

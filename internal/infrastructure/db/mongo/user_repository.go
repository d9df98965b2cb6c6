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

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	Email     string    `bson:"email"`
	Name      string    `bson:"name,omitempty"`
	Verifier  []byte    `bson:"verifier"`
	Salt      []byte    `bson:"salt"`
	Premium   bool      `bson:"premium"`
	CreatedAt time.Time `bson:"created_at"`
	LastLogin time.Time `bson:"last_login"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Verifier:  u.Verifier,
		Salt:      u.Salt,
		Premium:   u.Premium,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:        d.ID,
		Username:  d.Username,
		Email:     d.Email,
		Name:      d.Name,
		Verifier:  d.Verifier,
		Salt:      d.Salt,
		Premium:   d.Premium,
		CreatedAt: d.CreatedAt.UTC(),
		LastLogin: d.LastLogin.UTC(),
	}
}

// Create inserts a new user. The unique indexes on username and email make
// this an atomic insert-if-absent; duplicates surface as domain.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toUserDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_login": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCredentials replaces verifier and salt in a single atomic update.
func (r *UserRepository) UpdateCredentials(ctx context.Context, id string, verifier, salt []byte) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"verifier": verifier, "salt": salt}})
	if err != nil {
		return fmt.Errorf("update credentials: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the unique indexes backing insert-if-absent.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

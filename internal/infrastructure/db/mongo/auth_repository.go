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

	"github.com/canvord/blog-api/internal/core/domain"
	"github.com/canvord/blog-api/internal/core/ports"
)

const adminCollection = "admins"

type MongoAuthRepository struct {
	coll *mongo.Collection
}

func NewAuthRepository(db *mongo.Database) *MongoAuthRepository {
	return &MongoAuthRepository{coll: db.Collection(adminCollection)}
}

var _ ports.AuthRepository = (*MongoAuthRepository)(nil)

type mongoAdmin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

// Upsert inserts the admin or, when the username exists, replaces its hash
// and role. created_at is only written on insert.
func (r *MongoAuthRepository) Upsert(ctx context.Context, admin *domain.Admin) (*domain.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"password_hash": admin.PasswordHash,
			"role":          admin.Role,
			"updated_at":    admin.UpdatedAt.Unix(),
		},
		"$setOnInsert": bson.M{
			"username":   admin.Username,
			"created_at": admin.CreatedAt.Unix(),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var ma mongoAdmin
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"username": admin.Username}, update, opts).Decode(&ma); err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *MongoAuthRepository) FindByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAdmin
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return ma.toDomain(), nil
}

// EnsureIndexes makes usernames unique.
func (r *MongoAuthRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (ma *mongoAdmin) toDomain() *domain.Admin {
	return &domain.Admin{
		ID:           ma.ID.Hex(),
		Username:     ma.Username,
		PasswordHash: ma.PasswordHash,
		Role:         ma.Role,
		CreatedAt:    unixToTime(ma.CreatedAt),
		UpdatedAt:    unixToTime(ma.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

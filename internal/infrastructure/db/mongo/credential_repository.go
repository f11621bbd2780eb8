package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kvision/portal-api/internal/core/domain"
)

const credentialCollection = "credentials"

type MongoCredentialRepository struct {
	coll *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *MongoCredentialRepository {
	return &MongoCredentialRepository{coll: db.Collection(credentialCollection)}
}

type mongoCredential struct {
	UserID       string `bson:"_id"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    int64  `bson:"created_at"`
}

// FindByEmail returns domain.ErrInvalidCredentials for unknown emails, so
// login failures do not reveal whether an account exists.
func (r *MongoCredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	var mc mongoCredential
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return &domain.Credential{
		UserID:       mc.UserID,
		Email:        mc.Email,
		PasswordHash: mc.PasswordHash,
		CreatedAt:    unixToTime(mc.CreatedAt),
	}, nil
}

func (r *MongoCredentialRepository) Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	doc := mongoCredential{
		UserID:       cred.UserID,
		Email:        cred.Email,
		PasswordHash: cred.PasswordHash,
		CreatedAt:    cred.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert credential: %w", err)
	}
	return cred, nil
}

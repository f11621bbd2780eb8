package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
)

const profileCollection = "profiles"

type MongoProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{coll: db.Collection(profileCollection)}
}

// mongoProfile uses the application-assigned identity ID as _id.
type mongoProfile struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name,omitempty"`
	Email     string `bson:"email"`
	Role      string `bson:"role"`
	Avatar    string `bson:"avatar,omitempty"`
	Phone     string `bson:"phone,omitempty"`
	Bio       string `bson:"bio,omitempty"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (r *MongoProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *MongoProfileRepository) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	doc := mongoProfile{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      string(p.Role),
		Avatar:    p.Avatar,
		Phone:     p.Phone,
		Bio:       p.Bio,
		CreatedAt: p.CreatedAt.Unix(),
		UpdatedAt: p.UpdatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return p, nil
}

func (r *MongoProfileRepository) Update(ctx context.Context, id string, patch ports.ProfilePatch) (*domain.Profile, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.Avatar != nil {
		set["avatar"] = *patch.Avatar
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mp mongoProfile
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&mp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *MongoProfileRepository) ListExcept(ctx context.Context, excludeID string) ([]*domain.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$ne": excludeID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []*domain.Profile
	for cursor.Next(ctx) {
		var mp mongoProfile
		if err := cursor.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		profiles = append(profiles, mp.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

func (mp *mongoProfile) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:        mp.ID,
		Name:      mp.Name,
		Email:     mp.Email,
		Role:      domain.Role(mp.Role),
		Avatar:    mp.Avatar,
		Phone:     mp.Phone,
		Bio:       mp.Bio,
		CreatedAt: unixToTime(mp.CreatedAt),
		UpdatedAt: unixToTime(mp.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

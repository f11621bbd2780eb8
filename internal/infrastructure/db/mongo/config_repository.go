package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kvision/portal-api/internal/core/domain"
)

const (
	configCollection = "site_config"
	contentKey       = "cms_content"
)

// MongoConfigRepository stores the editable site content as one opaque JSON
// blob under the cms_content key.
type MongoConfigRepository struct {
	coll *mongo.Collection
}

func NewConfigRepository(db *mongo.Database) *MongoConfigRepository {
	return &MongoConfigRepository{coll: db.Collection(configCollection)}
}

type mongoConfig struct {
	Key       string `bson:"key"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (r *MongoConfigRepository) Fetch(ctx context.Context) (*domain.SiteContent, error) {
	var mc mongoConfig
	if err := r.coll.FindOne(ctx, bson.M{"key": contentKey}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrContentNotFound
		}
		return nil, fmt.Errorf("fetch site config: %w", err)
	}

	var content domain.SiteContent
	if err := json.Unmarshal([]byte(mc.Value), &content); err != nil {
		return nil, fmt.Errorf("decode site config: %w", err)
	}
	return &content, nil
}

// Save upserts the whole blob. Announcements are stripped before
// serialization: they live in their own collection and must never be
// embedded in the persisted configuration.
func (r *MongoConfigRepository) Save(ctx context.Context, content *domain.SiteContent) error {
	blob := *content
	blob.Announcements = nil

	raw, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode site config: %w", err)
	}

	update := bson.M{"$set": bson.M{
		"value":      string(raw),
		"updated_at": time.Now().UTC().Unix(),
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"key": contentKey}, update, opts); err != nil {
		return fmt.Errorf("save site config: %w", err)
	}
	return nil
}

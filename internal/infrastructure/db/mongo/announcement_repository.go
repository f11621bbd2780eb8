package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kvision/portal-api/internal/core/domain"
)

const announcementCollection = "announcements"

type MongoAnnouncementRepository struct {
	coll *mongo.Collection
}

func NewAnnouncementRepository(db *mongo.Database) *MongoAnnouncementRepository {
	return &MongoAnnouncementRepository{coll: db.Collection(announcementCollection)}
}

type mongoAnnouncement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Date      string             `bson:"date"`
	Type      string             `bson:"type"`
	CreatedAt time.Time          `bson:"created_at"`
}

// List returns all announcements, newest first.
func (r *MongoAnnouncementRepository) List(ctx context.Context) ([]*domain.Announcement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer cursor.Close(ctx)

	var notices []*domain.Announcement
	for cursor.Next(ctx) {
		var ma mongoAnnouncement
		if err := cursor.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode announcement: %w", err)
		}
		notices = append(notices, ma.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return notices, nil
}

func (r *MongoAnnouncementRepository) Insert(ctx context.Context, a *domain.Announcement) (*domain.Announcement, error) {
	doc := mongoAnnouncement{
		Title:     a.Title,
		Content:   a.Content,
		Date:      a.Date,
		Type:      string(a.Type),
		CreatedAt: time.Now().UTC(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert announcement: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *MongoAnnouncementRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAnnouncementNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAnnouncementNotFound
	}
	return nil
}

func (ma *mongoAnnouncement) toDomain() *domain.Announcement {
	return &domain.Announcement{
		ID:        ma.ID.Hex(),
		Title:     ma.Title,
		Content:   ma.Content,
		Date:      ma.Date,
		Type:      domain.AnnouncementType(ma.Type),
		CreatedAt: ma.CreatedAt,
	}
}

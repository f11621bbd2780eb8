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

const messageCollection = "messages"

type MongoMessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{coll: db.Collection(messageCollection)}
}

type mongoMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	SenderID   string             `bson:"sender_id"`
	ReceiverID string             `bson:"receiver_id"`
	Content    string             `bson:"content"`
	CreatedAt  time.Time          `bson:"created_at"`
	Read       bool               `bson:"read"`
}

// Conversation returns all messages exchanged between the unordered pair
// (a, b), oldest first.
func (r *MongoMessageRepository) Conversation(ctx context.Context, a, b string) ([]*domain.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": a, "receiver_id": b},
		bson.M{"sender_id": b, "receiver_id": a},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*domain.Message
	for cursor.Next(ctx) {
		var mm mongoMessage
		if err := cursor.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		messages = append(messages, mm.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	return messages, nil
}

// Insert persists the message with a store-assigned ID and timestamp and
// returns the confirmed row.
func (r *MongoMessageRepository) Insert(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	doc := mongoMessage{
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		CreatedAt:  time.Now().UTC(),
		Read:       false,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (mm *mongoMessage) toDomain() *domain.Message {
	return &domain.Message{
		ID:         mm.ID.Hex(),
		SenderID:   mm.SenderID,
		ReceiverID: mm.ReceiverID,
		Content:    mm.Content,
		CreatedAt:  mm.CreatedAt,
		Read:       mm.Read,
	}
}

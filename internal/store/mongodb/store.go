package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mbodj/wacloud/pkg/webhook"
)

// Store defines the persistence interface for inbound traffic.
type Store interface {
	SaveMessage(ctx context.Context, msg webhook.Message) error
	SaveReceipt(ctx context.Context, receipt webhook.Status) error
}

// MongoStore implements Store on MongoDB.
type MongoStore struct {
	client *mongo.Client
	dbName string
}

const (
	messagesCollection = "inbound_messages"
	receiptsCollection = "delivery_receipts"
)

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoStore{client: client, dbName: dbName}, nil
}

// SaveMessage persists one flattened inbound message.
func (s *MongoStore) SaveMessage(ctx context.Context, msg webhook.Message) error {
	collection := s.client.Database(s.dbName).Collection(messagesCollection)
	if _, err := collection.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert inbound message: %w", err)
	}
	return nil
}

// SaveReceipt persists one delivery/read receipt.
func (s *MongoStore) SaveReceipt(ctx context.Context, receipt webhook.Status) error {
	collection := s.client.Database(s.dbName).Collection(receiptsCollection)
	if _, err := collection.InsertOne(ctx, receipt); err != nil {
		return fmt.Errorf("failed to insert delivery receipt: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func initCollections(ctx context.Context, database *mongo.Database) *mongo.Collection {
	coll := database.Collection(tbSessions)
	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "timestamp", Value: 1}}})
	return coll
}

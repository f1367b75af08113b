package catalog

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoLimit caps a catalog query, as the upstream product fetch did.
const DefaultMongoLimit = 20

// Mongo is a Provider backed by a MongoDB products collection.
type Mongo struct {
	coll  *mongo.Collection
	limit int64
}

// NewMongo returns a provider reading from coll. A non-positive limit uses
// DefaultMongoLimit.
func NewMongo(coll *mongo.Collection, limit int64) *Mongo {
	if limit <= 0 {
		limit = DefaultMongoLimit
	}
	return &Mongo{coll: coll, limit: limit}
}

// ConnectMongo dials uri and returns a provider for database.collection
// together with a function that disconnects the client.
func ConnectMongo(ctx context.Context, uri, database, collection string, limit int64) (*Mongo, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return NewMongo(client.Database(database).Collection(collection), limit), client.Disconnect, nil
}

// MongoFilter translates criteria into a query document.
func MongoFilter(criteria Criteria) bson.M {
	filter := bson.M{}
	if criteria.PriceRange != nil {
		filter["price"] = bson.M{"$lte": *criteria.PriceRange}
	}
	if len(criteria.Retailers) > 0 {
		filter["retailerId"] = bson.M{"$in": criteria.Retailers}
	}
	if len(criteria.Styles) > 0 {
		styles := make(bson.A, len(criteria.Styles))
		for i, s := range criteria.Styles {
			styles[i] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
		}
		filter["attributes.style"] = bson.M{"$in": styles}
	}
	return filter
}

// Products implements Provider.
func (m *Mongo) Products(ctx context.Context, criteria Criteria) ([]Product, error) {
	cursor, err := m.coll.Find(ctx, MongoFilter(criteria), options.Find().SetLimit(m.limit))
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var products []Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog products: %w", err)
	}
	return products, nil
}

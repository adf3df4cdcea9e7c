package server

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"claimwire/internal/domain"
)

// MongoDirectory persists registered identities in a Mongo collection,
// one document per address.
type MongoDirectory struct {
	collection *mongo.Collection
}

// NewMongoDirectory returns a directory backed by db's "directory"
// collection.
func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{collection: db.Collection("directory")}
}

type directoryDoc struct {
	Address      string `bson:"address"`
	BoxPublicKey string `bson:"boxPublicKey"`
}

func (d *MongoDirectory) Put(ctx context.Context, pub domain.PublicIdentity) error {
	filter := bson.M{"address": pub.Address.String()}
	update := bson.M{"$set": directoryDoc{
		Address:      pub.Address.String(),
		BoxPublicKey: pub.BoxPublicKey.Hex(),
	}}
	_, err := d.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (d *MongoDirectory) Get(ctx context.Context, address domain.Address) (domain.PublicIdentity, bool, error) {
	var doc directoryDoc
	err := d.collection.FindOne(ctx, bson.M{"address": address.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.PublicIdentity{}, false, nil
	}
	if err != nil {
		return domain.PublicIdentity{}, false, err
	}
	key, err := domain.ParseBoxPublicKey(doc.BoxPublicKey)
	if err != nil {
		return domain.PublicIdentity{}, false, err
	}
	return domain.PublicIdentity{
		Address:      domain.Address(doc.Address),
		BoxPublicKey: key,
	}, true, nil
}

// Compile-time assertion that MongoDirectory implements DirectoryStore.
var _ DirectoryStore = (*MongoDirectory)(nil)

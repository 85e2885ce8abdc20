// Package mongo implements the phonebook store on a MongoDB collection. Ids are the native
// ObjectIDs of the documents, written as 24 hex characters. Names are not required to be unique.
package mongo

import (
	"context"
	"errors"

	"gitlab.com/dirk.krummacker/phonebook-service/internal/model"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection is the name of the collection holding one document per person.
const Collection = "people"

// person is the document layout of an entry.
type person struct {
	Id     bson.ObjectID `bson:"_id,omitempty"`
	Name   string        `bson:"name"`
	Number string        `bson:"number"`
}

func (p person) entry() model.Entry {
	return model.Entry{Id: p.Id.Hex(), Name: p.Name, Number: p.Number}
}

// Store reads and writes the people collection.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Connect creates a client for the given connection string. The driver connects lazily, so an
// unreachable server is only noticed by Ping or by the first operation.
func Connect(uri string, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return &Store{
		client:     client,
		collection: client.Database(database).Collection(Collection),
	}, nil
}

// Ping verifies that the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) List(ctx context.Context) ([]model.Entry, error) {
	cursor, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, store.BackendError("find persons", err)
	}
	var people []person
	if err := cursor.All(ctx, &people); err != nil {
		return nil, store.BackendError("decode persons", err)
	}
	entries := make([]model.Entry, 0, len(people))
	for _, p := range people {
		entries = append(entries, p.entry())
	}
	return entries, nil
}

func (s *Store) Get(ctx context.Context, id string) (model.Entry, error) {
	oid, err := ParseID(id)
	if err != nil {
		return model.Entry{}, err
	}
	var p person
	err = s.collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Entry{}, store.ErrNotFound
	}
	if err != nil {
		return model.Entry{}, store.BackendError("find person", err)
	}
	return p.entry(), nil
}

func (s *Store) Create(ctx context.Context, name string, number string) (model.Entry, error) {
	if err := store.ValidateCreate(name, number); err != nil {
		return model.Entry{}, err
	}
	p := person{Id: bson.NewObjectID(), Name: name, Number: number}
	if _, err := s.collection.InsertOne(ctx, p); err != nil {
		return model.Entry{}, store.BackendError("insert person", err)
	}
	return p.entry(), nil
}

func (s *Store) Replace(ctx context.Context, id string, name string, number string) (model.Entry, error) {
	if err := store.ValidateReplace(name, number); err != nil {
		return model.Entry{}, err
	}
	oid, err := ParseID(id)
	if err != nil {
		return model.Entry{}, err
	}
	var p person
	err = s.collection.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "name", Value: name}, {Key: "number", Value: number}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Entry{}, store.NotFoundError("person not found")
	}
	if err != nil {
		return model.Entry{}, store.BackendError("update person", err)
	}
	return p.entry(), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	if _, err := s.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}}); err != nil {
		return store.BackendError("delete person", err)
	}
	return nil
}

// ParseID converts the id of the request URL into an ObjectID.
func ParseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, store.MalformedIDError(err)
	}
	return oid, nil
}

package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/model"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/store"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestParseID(t *testing.T) {
	oid := bson.NewObjectID()

	parsed, err := ParseID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, parsed)
}

func TestParseIDMalformed(t *testing.T) {
	for _, id := range []string{"", "1", "INVALID", "5c41035728a9691c8d4c2b2", "zc41035728a9691c8d4c2b2e"} {
		_, err := ParseID(id)
		assert.ErrorIs(t, err, store.ErrMalformedID, id)
		assert.Equal(t, "malformatted id", store.MessageOf(err), id)
	}
}

// TestPersonEntry verifies that the ObjectID is exposed as hex and that the document fields map
// onto the entry.
func TestPersonEntry(t *testing.T) {
	oid, _ := bson.ObjectIDFromHex("5c41035728a9691c8d4c2b2e")
	p := person{Id: oid, Name: "Mary Jane", Number: "111-2222"}

	assert.Equal(t, model.Entry{Id: "5c41035728a9691c8d4c2b2e", Name: "Mary Jane", Number: "111-2222"}, p.entry())
}

// TestPersonDocumentLayout verifies the field names written to the collection.
func TestPersonDocumentLayout(t *testing.T) {
	oid := bson.NewObjectID()
	raw, err := bson.Marshal(person{Id: oid, Name: "Mary Jane", Number: "111-2222"})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, oid, doc["_id"])
	assert.Equal(t, "Mary Jane", doc["name"])
	assert.Equal(t, "111-2222", doc["number"])
}

// The following tests use a store without a collection: they must fail before any database
// access.

func TestCreateValidatesBeforeInsert(t *testing.T) {
	s := &Store{}

	_, err := s.Create(context.Background(), "", "111-2222")
	assert.Equal(t, "name is missing", store.MessageOf(err))
	_, err = s.Create(context.Background(), "Mary Jane", "")
	assert.Equal(t, "number is missing", store.MessageOf(err))
}

func TestReplaceValidatesBeforeUpdate(t *testing.T) {
	s := &Store{}

	_, err := s.Replace(context.Background(), bson.NewObjectID().Hex(), "Mary Jane", "")
	assert.Equal(t, store.KindValidation, store.KindOf(err))
	assert.Equal(t, "name or number is missing", store.MessageOf(err))
}

func TestMalformedIDNeverReachesDatabase(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, err := s.Get(ctx, "INVALID")
	assert.ErrorIs(t, err, store.ErrMalformedID)
	_, err = s.Replace(ctx, "INVALID", "Mary Jane", "111-2222")
	assert.ErrorIs(t, err, store.ErrMalformedID)
	err = s.Delete(ctx, "INVALID")
	assert.ErrorIs(t, err, store.ErrMalformedID)
}

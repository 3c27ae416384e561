package mongostore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/store"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(mongo.ErrNoDocuments), store.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
	assert.ErrorIs(t, translate(dup), store.ErrDuplicate)

	other := errors.New("server selection timeout")
	assert.Equal(t, other, translate(other))
}

func TestPrepareStampsOnce(t *testing.T) {
	var (
		id               string
		created, updated time.Time
	)
	prepare(&id, &created, &updated)
	assert.True(t, models.IsValidID(id))
	assert.False(t, created.IsZero())
	assert.Equal(t, created, updated)
	assert.Equal(t, created, created.Truncate(time.Millisecond))

	firstID, firstCreated := id, created
	time.Sleep(2 * time.Millisecond)
	prepare(&id, &created, &updated)
	assert.Equal(t, firstID, id)
	assert.Equal(t, firstCreated, created)
	assert.True(t, updated.After(created))
}

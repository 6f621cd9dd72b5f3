package dummy

import (
	"errors"
	"testing"

	"github.com/barnybug/announcer/pubsub"
	"github.com/stretchr/testify/assert"
)

func TestPublisher(t *testing.T) {
	var _ pubsub.Publisher = (*Publisher)(nil)

	pub := &Publisher{}
	assert.NoError(t, pub.Emit(pubsub.NewEvent("alert", nil)))
	assert.Len(t, pub.Events, 1)

	pub.Err = errors.New("down")
	assert.Error(t, pub.Emit(pubsub.NewEvent("alert", nil)))
	assert.Len(t, pub.Events, 1)
}

package mqtt

import (
	"fmt"
	"net"
	"testing"

	"github.com/barnybug/announcer/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleTopic() {
	fmt.Println(Topic(pubsub.NewEvent("alert", nil)))
	// Output: gohome/alert
}

func TestClientID(t *testing.T) {
	assert.Contains(t, clientID(), "announcer/")
	assert.NotEqual(t, clientID(), clientID())
}

func TestConnectRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = NewPublisher("tcp://" + addr)
	assert.Error(t, err)
}

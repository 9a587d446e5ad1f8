package message_test

import (
	"encoding/json"
	"testing"

	"github.com/germanamz/steerlab/pkg/chats/message"
	"github.com/germanamz/steerlab/pkg/chats/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Constructors(t *testing.T) {
	assert.Equal(t, role.User, message.User("hi").Role)
	assert.Equal(t, role.Assistant, message.Assistant("hello").Role)
	assert.Equal(t, role.System, message.System("rules").Role)
	assert.Equal(t, "hi", message.User("hi").Content)
}

func TestMessage_MarshalsToWireShape(t *testing.T) {
	data, err := json.Marshal(message.User("Tell me about pirates"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"role":"user","content":"Tell me about pirates"}`, string(data))
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, role.User.Valid())
	assert.True(t, role.Assistant.Valid())
	assert.True(t, role.System.Valid())
	assert.False(t, role.Role("tool").Valid())
}

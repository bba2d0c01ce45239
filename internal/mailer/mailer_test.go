package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContactMessage(t *testing.T) {
	mm, err := BuildContactMessage("site@example.dev", "owner@example.dev", ContactMessage{
		Name:    "Visitor",
		Email:   "visitor@example.dev",
		Message: "Hi there",
	})
	require.NoError(t, err)

	subjects := mm.GetGenHeader("Subject")
	require.NotEmpty(t, subjects)
	assert.Contains(t, subjects[0], "Visitor")

	replyTo := mm.GetGenHeader("Reply-To")
	require.NotEmpty(t, replyTo)
	assert.Contains(t, replyTo[0], "visitor@example.dev")
}

func TestBuildContactMessageInvalidAddresses(t *testing.T) {
	_, err := BuildContactMessage("not-an-address", "owner@example.dev", ContactMessage{
		Email: "visitor@example.dev",
	})
	assert.Error(t, err)

	_, err = BuildContactMessage("site@example.dev", "owner@example.dev", ContactMessage{
		Email: "not an address",
	})
	assert.Error(t, err)
}

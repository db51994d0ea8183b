package token

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWT_IssueAndParse(t *testing.T) {
	j := New("test-secret", time.Minute)
	clientID := uuid.New()
	ctx := context.Background()

	tok, err := j.Issue(ctx, clientID)
	assert.NoError(t, err)
	assert.NotEmpty(t, tok)

	parsed, err := j.ParseClientID(ctx, tok)
	assert.NoError(t, err)
	assert.Equal(t, clientID, parsed)
}

func TestJWT_ExpiredToken(t *testing.T) {
	j := New("test-secret", -time.Minute) // already expired
	ctx := context.Background()

	tok, err := j.Issue(ctx, uuid.New())
	assert.NoError(t, err)

	parsed, err := j.ParseClientID(ctx, tok)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, parsed)
}

func TestJWT_WrongSecret(t *testing.T) {
	ctx := context.Background()

	tok, err := New("secret-a", time.Minute).Issue(ctx, uuid.New())
	assert.NoError(t, err)

	_, err = New("secret-b", time.Minute).ParseClientID(ctx, tok)
	assert.Error(t, err)
}

func TestJWT_InvalidToken(t *testing.T) {
	j := New("test-secret", time.Minute)
	ctx := context.Background()

	_, err := j.ParseClientID(ctx, "invalid.token.string")
	assert.Error(t, err)
}

package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := New()

	digest, err := h.Hash("secretpw123")
	assert.NoError(t, err)
	assert.NotEmpty(t, digest)

	assert.True(t, h.Verify("secretpw123", digest))
	assert.False(t, h.Verify("wrong-password", digest))
}

func TestHasher_Salted(t *testing.T) {
	h := New()

	first, err := h.Hash("secretpw123")
	assert.NoError(t, err)
	second, err := h.Hash("secretpw123")
	assert.NoError(t, err)

	// Each digest carries its own salt
	assert.NotEqual(t, first, second)
}

func TestHasher_MalformedDigest(t *testing.T) {
	h := New()

	assert.NotPanics(t, func() {
		assert.False(t, h.Verify("secretpw123", []byte("not-a-bcrypt-digest")))
		assert.False(t, h.Verify("secretpw123", nil))
		assert.False(t, h.Verify("secretpw123", []byte{0x00, 0xff, 0x10}))
	})
}

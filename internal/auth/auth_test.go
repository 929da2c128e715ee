package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheapParams keep hashing fast in tests.
var cheapParams = Params{Memory: 1024, Time: 1, Threads: 1, KeyLen: 16, SaltLen: 8}

func TestHashKey_Format(t *testing.T) {
	t.Parallel()

	hash, err := HashKey("udk_example")
	require.NoError(t, err)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
	assert.Equal(t, "argon2id", parts[1])
	assert.Equal(t, "v=19", parts[2])
	assert.Equal(t, "m=65536,t=3,p=4", parts[3])
}

func TestVerifyKey(t *testing.T) {
	t.Parallel()

	hash, err := HashKeyWithParams("udk_right", cheapParams)
	require.NoError(t, err)

	ok, err := VerifyKey("udk_right", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyKey("udk_wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashKey_SaltMakesHashesUnique(t *testing.T) {
	t.Parallel()

	a, err := HashKeyWithParams("same", cheapParams)
	require.NoError(t, err)
	b, err := HashKeyWithParams("same", cheapParams)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyKey_InvalidHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash string
		want error
	}{
		{"empty", "", ErrInvalidHash},
		{"wrong algorithm", "$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA", ErrInvalidHash},
		{"wrong version", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$aGFzaA", ErrIncompatibleVersion},
		{"bad params", "$argon2id$v=19$m=x$c2FsdA$aGFzaA", ErrInvalidHash},
		{"bad salt", "$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA", ErrInvalidHash},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := VerifyKey("key", tt.hash)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, ValidateHash(tt.hash), tt.want)
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Fingerprint("abc"), Fingerprint("abc"))
	assert.NotEqual(t, Fingerprint("abc"), Fingerprint("abd"))
	assert.Len(t, Fingerprint("abc"), 16)
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	k, err := GenerateKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(k.Plaintext, KeyPrefix))
	assert.Len(t, k.Plaintext, len(KeyPrefix)+48)
	require.NoError(t, ValidateHash(k.Hash))

	ok, err := VerifyKey(k.Plaintext, k.Hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPrincipalContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Nil(t, PrincipalFromContext(ctx))

	p := &Principal{Fingerprint: "abc", Verified: true}
	assert.Same(t, p, PrincipalFromContext(ContextWithPrincipal(ctx, p)))
}

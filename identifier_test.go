package goSession

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleID(t *testing.T) {
	id := SimpleID("tok")

	assert.Equal(t, "tok", id.PublicID())
	assert.Equal(t, "tok", id.StorageKey())
	assert.Equal(t, []string{"tok"}, id.LookupKeys())
	assert.Equal(t, []string{"tok"}, id.DeleteKeys())
	assert.Equal(t, "tok", id.String())
}

func TestSecureIDKeepsPrivateKeyAwayFromClients(t *testing.T) {
	id := NewSecureID("public-token")

	require.NotEqual(t, id.Public, id.Private)
	assert.True(t, strings.HasPrefix(id.Private, "2::"))
	assert.NotContains(t, id.Private, id.Public)
	assert.Equal(t, "public-token", id.PublicID())
	assert.Equal(t, id.Private, id.StorageKey())
	assert.Equal(t, "public-token", id.String())
}

func TestSecureIDKeyOrder(t *testing.T) {
	id := NewSecureID("p")

	assert.Equal(t, []string{id.Private, "p"}, id.LookupKeys())
	assert.ElementsMatch(t, []string{id.Private, "p"}, id.DeleteKeys())
}

func TestSecureIDIsDeterministic(t *testing.T) {
	assert.Equal(t, NewSecureID("same"), NewSecureID("same"))
	assert.NotEqual(t, NewSecureID("one").Private, NewSecureID("two").Private)
}

func TestDefaultGeneratorsProduceDistinctIDs(t *testing.T) {
	for _, f := range []IDFormat{FormatHex, FormatUUID} {
		gen := f.generator()
		a, err := gen()
		require.NoError(t, err)
		b, err := gen()
		require.NoError(t, err)
		assert.NotEqual(t, a, b, string(f))
	}
}

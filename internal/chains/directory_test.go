package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownChain(t *testing.T) {
	meta, ok := Lookup(8453)
	require.True(t, ok)
	assert.Equal(t, "Base", meta.Name)
	assert.Equal(t, uint64(41_663_783), meta.DeployBlock)
}

func TestLookupUnknownChain(t *testing.T) {
	_, ok := Lookup(999_999)
	assert.False(t, ok)
}

func TestIDsAscending(t *testing.T) {
	ids := IDs()
	require.NotEmpty(t, ids)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
	assert.Equal(t, uint64(1), ids[0])
}

func TestEveryEntryHasNameAndDeployBlock(t *testing.T) {
	for _, id := range IDs() {
		meta, ok := Lookup(id)
		require.True(t, ok)
		assert.NotEmpty(t, meta.Name, "chain %d", id)
		assert.NotZero(t, meta.DeployBlock, "chain %d", id)
	}
}

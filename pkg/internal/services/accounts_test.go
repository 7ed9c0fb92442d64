package services

import (
	"testing"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAccount(t *testing.T) {
	testutils.CreateTempDB(t)

	_, err := EnsureAccount(3, " ", "Nobody")
	assert.Error(t, err)

	first, err := EnsureAccount(3, "mia", "Mia")
	require.NoError(t, err)
	assert.EqualValues(t, 3, first.ID)

	// Another id claims the name, the old mirror gives it up
	second, err := EnsureAccount(4, "mia", "Mia Again")
	require.NoError(t, err)
	assert.EqualValues(t, 4, second.ID)

	found, err := GetAccountByName("mia")
	require.NoError(t, err)
	assert.EqualValues(t, 4, found.ID)
	assert.Equal(t, "Mia Again", found.Nick)

	_, err = GetAccountByName(GetStaleAccountName(3))
	assert.NoError(t, err)
}

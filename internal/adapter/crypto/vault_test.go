package crypto_test

import (
	"strings"
	"testing"

	"github.com/grupo7/ecommerce-api/internal/adapter/config"
	"github.com/grupo7/ecommerce-api/internal/adapter/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestCardVault_RoundTrip(t *testing.T) {
	vault, err := crypto.New(&config.Vault{CardKey: testKey})
	require.NoError(t, err)

	sealed, err := vault.Seal("4111111111111111")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "4111111111111111")

	opened, err := vault.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", opened)
}

func TestCardVault_SealIsNonDeterministic(t *testing.T) {
	vault, err := crypto.New(&config.Vault{CardKey: testKey})
	require.NoError(t, err)

	a, err := vault.Seal("123")
	require.NoError(t, err)
	b, err := vault.Seal("123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCardVault_BadKey(t *testing.T) {
	_, err := crypto.New(&config.Vault{CardKey: "nothex"})
	assert.Error(t, err)

	_, err = crypto.New(&config.Vault{CardKey: strings.Repeat("ab", 16)})
	assert.Error(t, err)
}

func TestCardVault_OpenGarbage(t *testing.T) {
	vault, err := crypto.New(&config.Vault{CardKey: testKey})
	require.NoError(t, err)

	_, err = vault.Open("not base64 at all!!!")
	assert.Error(t, err)

	_, err = vault.Open("YWJj")
	assert.Error(t, err)
}

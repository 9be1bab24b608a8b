package cmd

import (
	"bytes"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeypair(t *testing.T) {
	dir := t.TempDir()

	cmd := NewGenerateKeypairCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--path", dir})
	require.NoError(t, cmd.Execute())

	privateKey, err := os.ReadFile(path.Join(dir, "priv.key"))
	require.NoError(t, err)
	address, err := os.ReadFile(path.Join(dir, "address"))
	require.NoError(t, err)

	key, err := crypto.HexToECDSA(strings.TrimPrefix(string(privateKey), "0x"))
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(string(address)), crypto.PubkeyToAddress(key.PublicKey))
	assert.Contains(t, out.String(), "Address: "+string(address))

	t.Run("existing_key_kept_without_confirmation", func(t *testing.T) {
		cmd := NewGenerateKeypairCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetIn(strings.NewReader("no\n"))
		cmd.SetArgs([]string{"--path", dir})
		require.NoError(t, cmd.Execute())

		again, err := os.ReadFile(path.Join(dir, "priv.key"))
		require.NoError(t, err)
		assert.Equal(t, privateKey, again)
	})
}

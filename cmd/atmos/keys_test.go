// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"path/filepath"
	"testing"

	"github.com/pborman/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/atmos/builtin/staker"
	"github.com/vechain/atmos/cry"
)

func TestKeyFile(t *testing.T) {
	priv, err := cry.GenerateKey()
	require.NoError(t, err)

	k := newKeyFile(priv)
	assert.NotNil(t, uuid.Parse(k.ID))

	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, saveKeyFile(path, k))

	loaded, err := loadKeyFile(path)
	require.NoError(t, err)
	assert.Equal(t, k, loaded)

	got, err := loadSigningKey(path)
	require.NoError(t, err)
	assert.Equal(t, cry.PublicKeyOf(priv), cry.PublicKeyOf(got))

	other, err := cry.GenerateKey()
	require.NoError(t, err)
	loaded.PublicKey = cry.PublicKeyOf(other)
	_, err = loaded.privateKey()
	assert.Error(t, err)

	_, err = loadKeyFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSignWithdraw(t *testing.T) {
	priv, err := cry.GenerateKey()
	require.NoError(t, err)

	sig := signWithdraw(priv, "atmosstakev2", 7, "alice", "bye")
	pk, err := cry.RecoverPublicKey(staker.WithdrawHash("atmosstakev2", 7, "alice", "bye"), sig)
	require.NoError(t, err)
	assert.Equal(t, cry.PublicKeyOf(priv), pk)
}

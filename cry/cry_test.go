// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/atmos/atmos"
)

func TestSignRecover(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	pk := PublicKeyOf(priv)

	hash := atmos.Sha256([]byte("atmosstake unstake:1 bob memo"))
	sig := Sign(hash, priv)
	// compressed key flag
	assert.True(t, sig[0] >= 31 && sig[0] <= 34)

	recovered, err := RecoverPublicKey(hash, sig)
	require.NoError(t, err)
	assert.Equal(t, pk, recovered)

	other := atmos.Sha256([]byte("atmosstake unstake:2 bob memo"))
	recovered, err = RecoverPublicKey(other, sig)
	if err == nil {
		assert.NotEqual(t, pk, recovered)
	}

	_, err = RecoverPublicKey(hash, atmos.Signature{})
	assert.Error(t, err)
}

func TestParseKeys(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	pk := PublicKeyOf(priv)

	parsed, err := ParsePublicKey(pk.String())
	require.NoError(t, err)
	assert.Equal(t, pk, parsed)

	hexKey := atmos.BytesToBytes32(priv.Serialize()).String()
	priv2, err := ParsePrivateKey(hexKey)
	require.NoError(t, err)
	assert.Equal(t, pk, PublicKeyOf(priv2))

	_, err = ParsePrivateKey("0x1234")
	assert.Error(t, err)
	_, err = ParsePrivateKey("zz")
	assert.Error(t, err)

	// well formed text, but x is not on the curve
	var bad atmos.PublicKey
	bad[0] = 0x02
	for i := 1; i < len(bad); i++ {
		bad[i] = 0xff
	}
	_, err = ParsePublicKey(bad.String())
	assert.Error(t, err)
}

func TestSigning(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	pk := PublicKeyOf(priv)

	s := NewSigning()
	hash := atmos.Sha256([]byte("msg"))
	sig := Sign(hash, priv)

	assert.True(t, s.Verify(hash, sig, pk))
	assert.True(t, s.Verify(hash, sig, pk))
	_, hit, miss := s.CacheStats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	other, err := GenerateKey()
	require.NoError(t, err)
	assert.False(t, s.Verify(hash, sig, PublicKeyOf(other)))
	assert.False(t, s.Verify(hash, atmos.Signature{}, pk))
}

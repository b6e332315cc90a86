// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package atmos

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"atmosstake", true},
		{"relay.x", true},
		{"a", true},
		{"abcdefghijkl", true},
		{"abcdefghijklm", false},
		{"", false},
		{"relay.", false},
		{"Relay", false},
		{"relay6", false},
		{"re lay", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, Name(tt.name).IsValid())
			_, err := ParseName(tt.name)
			assert.Equal(t, tt.valid, err == nil)
		})
	}

	var n Name
	assert.NoError(t, json.Unmarshal([]byte(`"bob"`), &n))
	assert.Equal(t, Name("bob"), n)
	assert.Error(t, json.Unmarshal([]byte(`"BOB"`), &n))
	assert.Panics(t, func() { MustParseName("BOB") })
}

func TestSymbol(t *testing.T) {
	sym := MustNewSymbol("ATMOS", 4)
	assert.Equal(t, uint8(4), sym.Precision())
	assert.Equal(t, "ATMOS", sym.Code())
	assert.Equal(t, "4,ATMOS", sym.String())
	assert.True(t, sym.IsValid())

	parsed, err := ParseSymbol("4,ATMOS")
	require.NoError(t, err)
	assert.Equal(t, sym, parsed)
	assert.NotEqual(t, sym, MustNewSymbol("ATMOS", 3))

	for _, bad := range []string{"ATMOS", "4,atmos", "19,ATMOS", "4,", "4,TOOLONGX", "x,ATMOS"} {
		_, err := ParseSymbol(bad)
		assert.Error(t, err, bad)
	}
	assert.False(t, Symbol(0).IsValid())

	data, err := json.Marshal(sym)
	require.NoError(t, err)
	assert.Equal(t, `"4,ATMOS"`, string(data))
	var decoded Symbol
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sym, decoded)
}

func TestAsset(t *testing.T) {
	sym := MustNewSymbol("ATMOS", 4)

	a := MustParseAsset("1.0000 ATMOS")
	assert.Equal(t, NewAsset(10000, sym), a)
	assert.Equal(t, "1.0000 ATMOS", a.String())
	assert.Equal(t, "0.0001 ATMOS", NewAsset(1, sym).String())
	assert.Equal(t, "0.0000 ATMOS", NewAsset(0, sym).String())
	assert.Equal(t, "12 XYZ", NewAsset(12, MustNewSymbol("XYZ", 0)).String())

	sum, err := a.Add(NewAsset(5, sym))
	require.NoError(t, err)
	assert.Equal(t, uint64(10005), sum.Amount)

	_, err = a.Add(NewAsset(5, MustNewSymbol("ATMOS", 3)))
	assert.Equal(t, ErrSymbolMismatch, err)

	_, err = NewAsset(MaxAmount, sym).Add(NewAsset(1, sym))
	assert.Equal(t, ErrOverflow, err)

	_, err = NewAsset(1, sym).Sub(NewAsset(2, sym))
	assert.Equal(t, ErrUnderflow, err)

	assert.Equal(t, -1, NewAsset(1, sym).Cmp(a))
	assert.Equal(t, 0, a.Cmp(a))
	assert.Equal(t, 1, a.Cmp(NewAsset(1, sym)))

	for _, bad := range []string{"1.0000", "1.0000 atmos", "abc ATMOS", "1.0000  ATMOS", "9223372036854775807 ATMOS"} {
		_, err := ParseAsset(bad)
		assert.Error(t, err, bad)
	}

	data, err := json.Marshal(a)
	require.NoError(t, err)
	var decoded Asset
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, a, decoded)
}

func TestCheckedMath(t *testing.T) {
	v, err := AddUint64(1, 2)
	assert.Equal(t, []any{uint64(3), nil}, []any{v, err})

	_, err = AddUint64(^uint64(0), 1)
	assert.Equal(t, ErrOverflow, err)

	_, err = SubUint64(1, 2)
	assert.Equal(t, ErrUnderflow, err)
}

func TestPublicKey(t *testing.T) {
	const text = "EOS6MRyAjQq8ud7hVNYcfnVPJqcVpscN5So8BhtHuGYqET5GDW5CV"

	pk, err := ParsePublicKey(text)
	require.NoError(t, err)
	assert.Equal(t, text, pk.String())
	assert.Equal(t, Sha256(pk.Bytes()), pk.Fingerprint())
	assert.False(t, pk.IsZero())

	// typed form round trip
	k1 := K1KeyPrefix + encodeChecked(pk[:], []byte("K1"))
	parsed, err := ParsePublicKey(k1)
	require.NoError(t, err)
	assert.Equal(t, pk, parsed)

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"short", text[:52]},
		{"long", text + "1"},
		{"prefix", "XYZ" + text[3:]},
		{"checksum", text[:52] + "D"},
		{"alphabet", text[:52] + "0"},
		{"legacy checksum as k1", K1KeyPrefix + text[3:]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePublicKey(tt.text)
			assert.Error(t, err)
		})
	}

	var notCompressed PublicKey
	notCompressed[0] = 0x04
	_, err = ParsePublicKey(notCompressed.String())
	assert.Error(t, err)

	data, err := json.Marshal(pk)
	require.NoError(t, err)
	assert.Equal(t, `"`+text+`"`, string(data))
	var decoded PublicKey
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, pk, decoded)
}

func TestSignature(t *testing.T) {
	var sig Signature
	for i := range sig {
		sig[i] = byte(i)
	}
	sig[0] = 31

	parsed, err := ParseSignature(sig.String())
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)

	hexText := "0x1f"
	for i := 1; i < SignatureLength; i++ {
		hexText += string("0123456789abcdef"[i>>4]) + string("0123456789abcdef"[i&0xf])
	}
	parsed, err = ParseSignature(hexText)
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)

	_, err = ParseSignature("0x1f00")
	assert.Error(t, err)
	_, err = ParseSignature("SIG_K1_abc")
	assert.Error(t, err)
	_, err = ParseSignature(sig.String()[7:])
	assert.Error(t, err)

	data, err := json.Marshal(sig)
	require.NoError(t, err)
	var decoded Signature
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sig, decoded)
}

func TestHashes(t *testing.T) {
	assert.Equal(t,
		"0xe3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Sha256().String())
	assert.Equal(t, Sha256([]byte("ab")), Sha256([]byte("a"), []byte("b")))
	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
	assert.Len(t, Ripemd160([]byte("abc")), 20)
}

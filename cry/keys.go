// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"encoding/hex"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"

	"github.com/vechain/atmos/atmos"
)

// GenerateKey creates a new random private key.
func GenerateKey() (*secp256k1.PrivateKey, error) {
	return secp256k1.GeneratePrivateKey()
}

// ParsePrivateKey decodes a hex encoded 32-byte private key, with or without the 0x prefix.
func ParsePrivateKey(s string) (*secp256k1.PrivateKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid private key")
	}
	if len(b) != secp256k1.PrivKeyBytesLen {
		return nil, errors.Errorf("invalid private key: want %d bytes, got %d", secp256k1.PrivKeyBytesLen, len(b))
	}
	return secp256k1.PrivKeyFromBytes(b), nil
}

// PublicKeyOf returns the compressed public key of priv.
func PublicKeyOf(priv *secp256k1.PrivateKey) atmos.PublicKey {
	var pk atmos.PublicKey
	copy(pk[:], priv.PubKey().SerializeCompressed())
	return pk
}

// ParsePublicKey decodes the text form of a public key and verifies it is a point on the curve.
func ParsePublicKey(s string) (atmos.PublicKey, error) {
	pk, err := atmos.ParsePublicKey(s)
	if err != nil {
		return atmos.PublicKey{}, err
	}
	if _, err := secp256k1.ParsePubKey(pk[:]); err != nil {
		return atmos.PublicKey{}, errors.Wrap(err, "invalid public key")
	}
	return pk, nil
}

// Sign produces a compact [V|R|S] signature of hash for a compressed key.
func Sign(hash atmos.Bytes32, priv *secp256k1.PrivateKey) atmos.Signature {
	var sig atmos.Signature
	copy(sig[:], ecdsa.SignCompact(priv, hash[:], true))
	return sig
}

// RecoverPublicKey returns the compressed public key that produced sig over hash.
func RecoverPublicKey(hash atmos.Bytes32, sig atmos.Signature) (atmos.PublicKey, error) {
	pub, _, err := ecdsa.RecoverCompact(sig[:], hash[:])
	if err != nil {
		return atmos.PublicKey{}, errors.Wrap(err, "recover public key")
	}
	var pk atmos.PublicKey
	copy(pk[:], pub.SerializeCompressed())
	return pk, nil
}

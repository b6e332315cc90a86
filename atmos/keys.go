// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package atmos

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const (
	// PublicKeyLength is the length of a compressed secp256k1 public key.
	PublicKeyLength = 33
	// SignatureLength is the length of a compact [V|R|S] signature.
	SignatureLength = 65

	// LegacyKeyPrefix prefixes the legacy text form of a public key.
	LegacyKeyPrefix = "EOS"
	// LegacyKeyTextLength is the exact length of a legacy public key text.
	LegacyKeyTextLength = 53
	// K1KeyPrefix prefixes the typed text form of a public key.
	K1KeyPrefix = "PUB_K1_"
	// K1SignaturePrefix prefixes the text form of a signature.
	K1SignaturePrefix = "SIG_K1_"

	checksumLength = 4
)

// PublicKey is a compressed secp256k1 public key.
type PublicKey [PublicKeyLength]byte

// ParsePublicKey decodes the legacy "EOS..." or the "PUB_K1_..." text form.
// The length, prefix and checksum are verified before the key is accepted.
func ParsePublicKey(s string) (PublicKey, error) {
	var (
		encoded string
		suffix  []byte
	)
	switch {
	case strings.HasPrefix(s, K1KeyPrefix):
		encoded = s[len(K1KeyPrefix):]
		suffix = []byte("K1")
	case strings.HasPrefix(s, LegacyKeyPrefix):
		if len(s) != LegacyKeyTextLength {
			return PublicKey{}, errors.Errorf("public key must be %d characters", LegacyKeyTextLength)
		}
		encoded = s[len(LegacyKeyPrefix):]
	default:
		return PublicKey{}, errors.New("public key must start with " + LegacyKeyPrefix)
	}

	raw, err := decodeChecked(encoded, PublicKeyLength, suffix)
	if err != nil {
		return PublicKey{}, errors.WithMessage(err, "invalid public key")
	}
	if raw[0] != 0x02 && raw[0] != 0x03 {
		return PublicKey{}, errors.New("invalid public key: not a compressed point")
	}

	var pk PublicKey
	copy(pk[:], raw)
	return pk, nil
}

// MustParsePublicKey is like ParsePublicKey but panics on error.
func MustParsePublicKey(s string) PublicKey {
	pk, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// String returns the legacy text form.
func (pk PublicKey) String() string {
	return LegacyKeyPrefix + encodeChecked(pk[:], nil)
}

// Bytes returns the compressed key bytes.
func (pk PublicKey) Bytes() []byte {
	return pk[:]
}

// IsZero reports whether the key is unset.
func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}

// Fingerprint is the fixed-width digest used as secondary key of positions and accounts.
func (pk PublicKey) Fingerprint() Bytes32 {
	return Sha256(pk[:])
}

// MarshalJSON implements json.Marshaler.
func (pk PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(pk.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePublicKey(s)
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// Signature is a compact recoverable secp256k1 signature, [V|R|S].
type Signature [SignatureLength]byte

// ParseSignature decodes the "SIG_K1_..." text form or a 0x-prefixed hex string.
func ParseSignature(s string) (Signature, error) {
	var raw []byte
	switch {
	case strings.HasPrefix(s, K1SignaturePrefix):
		decoded, err := decodeChecked(s[len(K1SignaturePrefix):], SignatureLength, []byte("K1"))
		if err != nil {
			return Signature{}, errors.WithMessage(err, "invalid signature")
		}
		raw = decoded
	case strings.HasPrefix(s, "0x"):
		decoded, err := hex.DecodeString(s[2:])
		if err != nil {
			return Signature{}, errors.Wrap(err, "invalid signature")
		}
		if len(decoded) != SignatureLength {
			return Signature{}, errors.Errorf("invalid signature: want %d bytes, got %d", SignatureLength, len(decoded))
		}
		raw = decoded
	default:
		return Signature{}, errors.New("invalid signature: unknown format")
	}

	var sig Signature
	copy(sig[:], raw)
	return sig, nil
}

// String returns the "SIG_K1_..." text form.
func (sig Signature) String() string {
	return K1SignaturePrefix + encodeChecked(sig[:], []byte("K1"))
}

// Bytes returns the raw signature bytes.
func (sig Signature) Bytes() []byte {
	return sig[:]
}

// MarshalJSON implements json.Marshaler.
func (sig Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(sig.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (sig *Signature) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseSignature(s)
	if err != nil {
		return err
	}
	*sig = parsed
	return nil
}

// encodeChecked returns base58(payload || ripemd160(payload || suffix)[:4]).
func encodeChecked(payload, suffix []byte) string {
	sum := Ripemd160(payload, suffix)
	buf := make([]byte, 0, len(payload)+checksumLength)
	buf = append(buf, payload...)
	buf = append(buf, sum[:checksumLength]...)
	return base58.Encode(buf)
}

func decodeChecked(s string, payloadLen int, suffix []byte) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "base58")
	}
	if len(raw) != payloadLen+checksumLength {
		return nil, errors.Errorf("want %d bytes, got %d", payloadLen+checksumLength, len(raw))
	}
	payload, checksum := raw[:payloadLen], raw[payloadLen:]
	if !bytes.Equal(Ripemd160(payload, suffix)[:checksumLength], checksum) {
		return nil, errors.New("checksum mismatch")
	}
	return payload, nil
}

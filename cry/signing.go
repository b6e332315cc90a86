// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/cache"
)

const signerCacheSize = 1024

type signerKey struct {
	hash atmos.Bytes32
	sig  atmos.Signature
}

// Signing recovers signers of withdrawal messages, caching recent results.
type Signing struct {
	cache *cache.LRU
}

// NewSigning create a signing object.
func NewSigning() *Signing {
	c, _ := cache.NewLRU(signerCacheSize)
	return &Signing{c}
}

// Signer extracts the public key that signed hash.
func (s *Signing) Signer(hash atmos.Bytes32, sig atmos.Signature) (atmos.PublicKey, error) {
	v, err := s.cache.GetOrLoad(signerKey{hash, sig}, func(any) (any, error) {
		return RecoverPublicKey(hash, sig)
	})
	if err != nil {
		return atmos.PublicKey{}, err
	}
	return v.(atmos.PublicKey), nil
}

// Verify reports whether sig over hash was produced by the key pk.
func (s *Signing) Verify(hash atmos.Bytes32, sig atmos.Signature, pk atmos.PublicKey) bool {
	signer, err := s.Signer(hash, sig)
	return err == nil && signer == pk
}

// CacheStats returns the hit/miss counters of the signer cache.
func (s *Signing) CacheStats() (bool, int64, int64) {
	return s.cache.Stats()
}

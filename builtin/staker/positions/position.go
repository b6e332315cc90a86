// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package positions

import "github.com/vechain/atmos/atmos"

// Position is one deposit locked until Expires.
type Position struct {
	ID             uint64
	PublicKey      atmos.PublicKey
	Weight         atmos.Weight
	InitialBalance atmos.Asset
	Balance        atmos.Asset // grows with rewards
	Expires        uint64
}

// IsMatured reports whether the position can be withdrawn at now.
func (p *Position) IsMatured(now uint64) bool {
	return now >= p.Expires
}

func fingerprint(p *Position) atmos.Bytes32 {
	return p.PublicKey.Fingerprint()
}

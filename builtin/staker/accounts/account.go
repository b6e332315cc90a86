// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import "github.com/vechain/atmos/atmos"

// Account rolls up the open positions of one depositor key for one token.
type Account struct {
	ID           uint64
	PublicKey    atmos.PublicKey
	TotalBalance atmos.Asset
	TotalWeight  atmos.Weight
}

func fingerprint(a *Account) atmos.Bytes32 {
	return a.PublicKey.Fingerprint()
}

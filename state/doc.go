// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the staking ledger rows.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ batch ]
//	         |
//	   [ kv store ]
//
// Every action runs against the revertable state. Checkpoints are taken
// before an action and reverted on failure, so a half-applied action is
// never staged.
package state

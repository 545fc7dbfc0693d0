// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the storage of the builtin pools and tokens.
// It follows the flow as bellow:
//
//	           o
//	           |
//	  [ revertable state ]
//	           |
//	    [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv bulk ]
//	           |
//	     [ lru cache ]
//	           |
//	      [ kv store ]
//
// Every value is kept as rlp raw bytes under (address, slot).
package state

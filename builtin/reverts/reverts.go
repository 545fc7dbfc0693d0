// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Reason classifies a revert so callers can branch on it.
type Reason string

const (
	ZeroAmount          Reason = "zero-amount"
	NotFound            Reason = "not-found"
	TooSoon             Reason = "too-soon"
	EmptyPool           Reason = "empty-pool"
	NonTransferable     Reason = "non-transferable"
	InsufficientBalance Reason = "insufficient-balance"
	UnknownContract     Reason = "unknown-contract"
	InvalidAmount       Reason = "invalid-amount"
	// Overflow means a total would not fit 256 bits.
	Overflow Reason = "overflow"
)

// ErrRevert is a user visible failure of a builtin operation.
// Nothing of the reverted operation is applied.
type ErrRevert struct {
	reason  Reason
	message string
}

func New(reason Reason, message string) *ErrRevert {
	return &ErrRevert{
		reason:  reason,
		message: message,
	}
}

func Newf(reason Reason, format string, args ...any) *ErrRevert {
	return New(reason, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Reason() Reason {
	return e.reason
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// HasReason reports whether err is a revert with the given reason.
func HasReason(err error, reason Reason) bool {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.reason == reason
	}
	return false
}

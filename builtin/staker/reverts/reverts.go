// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind categorizes why an action was rejected.
type Kind uint8

const (
	// Malformed input: bad symbol, non-positive amount, unparsable memo, key or signature.
	Malformed Kind = iota + 1
	// Policy violation: amount or duration out of bounds, time gates, zero relay fee.
	Policy
	// Unauthorized: signature mismatch, admin-only call, immutable field change.
	Unauthorized
	// NotFound: referenced token or position does not exist.
	NotFound
	// Corruption: aggregates disagree with the rows they summarize.
	Corruption
)

func (k Kind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case Policy:
		return "policy"
	case Unauthorized:
		return "unauthorized"
	case NotFound:
		return "not found"
	case Corruption:
		return "corruption"
	}
	return "unknown"
}

type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func Malformedf(format string, args ...any) *ErrRevert {
	return Newf(Malformed, format, args...)
}

func Policyf(format string, args ...any) *ErrRevert {
	return Newf(Policy, format, args...)
}

func Unauthorizedf(format string, args ...any) *ErrRevert {
	return Newf(Unauthorized, format, args...)
}

func NotFoundf(format string, args ...any) *ErrRevert {
	return Newf(NotFound, format, args...)
}

func Corruptionf(format string, args ...any) *ErrRevert {
	return Newf(Corruption, format, args...)
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
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

// KindOf returns the kind of a revert error, and false for any other error.
func KindOf(err error) (Kind, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind, true
	}
	return 0, false
}

// IsCorruption reports whether err signals an aggregate inconsistency.
func IsCorruption(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == Corruption
}

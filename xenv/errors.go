// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import "errors"

type errMalformedArgs struct {
	cause error
}

func (e *errMalformedArgs) Error() string {
	return e.cause.Error()
}

func (e *errMalformedArgs) Unwrap() error {
	return e.cause
}

// IsMalformedArgs reports whether err comes from undecodable action arguments.
func IsMalformedArgs(err error) bool {
	var e *errMalformedArgs
	return errors.As(err, &e)
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(Policy, "test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)
	assert.Equal(t, Policy, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func Test_KindOf(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
		ok   bool
	}{
		{Malformedf("bad %s", "memo"), Malformed, true},
		{Policyf("too early"), Policy, true},
		{Unauthorizedf("no"), Unauthorized, true},
		{NotFoundf("token %d", 1), NotFound, true},
		{errors.WithMessage(Corruptionf("drift"), "claim"), Corruption, true},
		{errors.New("io"), 0, false},
	}
	for _, tt := range tests {
		kind, ok := KindOf(tt.err)
		assert.Equal(t, tt.kind, kind, tt.err.Error())
		assert.Equal(t, tt.ok, ok)
	}

	assert.Equal(t, "bad memo", Malformedf("bad %s", "memo").Error())
	assert.True(t, IsCorruption(errors.WithMessage(Corruptionf("drift"), "claim")))
	assert.False(t, IsCorruption(Policyf("x")))
	assert.Equal(t, "not found", NotFound.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

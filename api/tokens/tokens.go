// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/atmos/api/utils"
	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker"
	"github.com/vechain/atmos/builtin/staker/positions"
	"github.com/vechain/atmos/builtin/staker/tokens"
	"github.com/vechain/atmos/cry"
	"github.com/vechain/atmos/runtime"
)

type Tokens struct {
	rt    *runtime.Runtime
	limit uint64
}

func New(rt *runtime.Runtime, limit uint64) *Tokens {
	return &Tokens{
		rt,
		limit,
	}
}

// resolveToken accepts both "4,ATMOS" and the bare code "ATMOS".
func resolveToken(s *staker.Staker, text string) (*tokens.Token, error) {
	if strings.Contains(text, ",") {
		symbol, err := atmos.ParseSymbol(text)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "symbol"))
		}
		t, err := s.GetToken(symbol)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, utils.NotFound(fmt.Errorf("token %v not found", symbol))
		}
		return t, nil
	}
	all, err := s.Tokens()
	if err != nil {
		return nil, err
	}
	for _, t := range all {
		if t.Symbol.Code() == text {
			return t, nil
		}
	}
	return nil, utils.NotFound(fmt.Errorf("token %q not found", text))
}

func (t *Tokens) parsePage(req *http.Request) (offset, limit uint64, err error) {
	query := req.URL.Query()
	if offset, err = utils.ParseUint(query.Get("offset"), 0); err != nil {
		return 0, 0, utils.BadRequest(errors.WithMessage(err, "offset"))
	}
	if limit, err = utils.ParseUint(query.Get("limit"), t.limit); err != nil {
		return 0, 0, utils.BadRequest(errors.WithMessage(err, "limit"))
	}
	if limit > t.limit {
		return 0, 0, utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", t.limit))
	}
	return offset, limit, nil
}

func page[T any](items []T, offset, limit uint64) []T {
	if offset >= uint64(len(items)) {
		return []T{}
	}
	items = items[offset:]
	if limit < uint64(len(items)) {
		items = items[:limit]
	}
	return items
}

func (t *Tokens) handleGetTokens(w http.ResponseWriter, _ *http.Request) error {
	var result []*Token
	if err := t.rt.View(func(s *staker.Staker) error {
		all, err := s.Tokens()
		if err != nil {
			return err
		}
		result = make([]*Token, 0, len(all))
		for _, tok := range all {
			result = append(result, convertToken(tok))
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	var result *Token
	if err := t.rt.View(func(s *staker.Staker) error {
		tok, err := resolveToken(s, mux.Vars(req)["symbol"])
		if err != nil {
			return err
		}
		result = convertToken(tok)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (t *Tokens) handleGetPositions(w http.ResponseWriter, req *http.Request) error {
	offset, limit, err := t.parsePage(req)
	if err != nil {
		return err
	}
	var (
		pk    atmos.PublicKey
		byKey bool
	)
	if key := req.URL.Query().Get("key"); key != "" {
		if pk, err = cry.ParsePublicKey(key); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "key"))
		}
		byKey = true
	}

	now := t.rt.Clock().Now()
	var result []*Position
	if err := t.rt.View(func(s *staker.Staker) error {
		tok, err := resolveToken(s, mux.Vars(req)["symbol"])
		if err != nil {
			return err
		}
		var list []*positions.Position
		if byKey {
			list, err = s.PositionsOf(tok.Symbol, pk)
		} else {
			list, err = s.Positions(tok.Symbol)
		}
		if err != nil {
			return err
		}
		list = page(list, offset, limit)
		result = make([]*Position, 0, len(list))
		for _, p := range list {
			result = append(result, convertPosition(p, now))
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (t *Tokens) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	now := t.rt.Clock().Now()
	var result *Position
	if err := t.rt.View(func(s *staker.Staker) error {
		tok, err := resolveToken(s, mux.Vars(req)["symbol"])
		if err != nil {
			return err
		}
		p, err := s.GetPosition(tok.Symbol, id)
		if err != nil {
			return err
		}
		if p == nil {
			return utils.NotFound(fmt.Errorf("position %d not found", id))
		}
		result = convertPosition(p, now)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (t *Tokens) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	pk, err := cry.ParsePublicKey(mux.Vars(req)["pubkey"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "pubkey"))
	}
	var result *Account
	if err := t.rt.View(func(s *staker.Staker) error {
		tok, err := resolveToken(s, mux.Vars(req)["symbol"])
		if err != nil {
			return err
		}
		a, err := s.GetAccount(tok.Symbol, pk)
		if err != nil {
			return err
		}
		if a == nil {
			return utils.NotFound(errors.New("account not found"))
		}
		result = convertAccount(a)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /tokens").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTokens))
	sub.Path("/{symbol}").
		Methods(http.MethodGet).
		Name("GET /tokens/{symbol}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{symbol}/positions").
		Methods(http.MethodGet).
		Name("GET /tokens/{symbol}/positions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetPositions))
	sub.Path("/{symbol}/positions/{id}").
		Methods(http.MethodGet).
		Name("GET /tokens/{symbol}/positions/{id}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetPosition))
	sub.Path("/{symbol}/accounts/{pubkey}").
		Methods(http.MethodGet).
		Name("GET /tokens/{symbol}/accounts/{pubkey}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAccount))
}

// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/atmos/api/utils"
	"github.com/vechain/atmos/builtin"
	"github.com/vechain/atmos/runtime"
)

// Actions submits actions to the runtime. The actor of a submitted action is
// trusted as given, so the endpoint must only be reachable by the host.
type Actions struct {
	rt       *runtime.Runtime
	submitOn bool
}

func New(rt *runtime.Runtime, submitOn bool) *Actions {
	return &Actions{
		rt,
		submitOn,
	}
}

func (a *Actions) handleGetActions(w http.ResponseWriter, _ *http.Request) error {
	type action struct {
		Name     string `json:"name"`
		ReadOnly bool   `json:"readOnly"`
	}
	names := builtin.Actions()
	list := make([]*action, 0, len(names))
	for _, name := range names {
		list = append(list, &action{name, builtin.IsReadOnly(name)})
	}
	return utils.WriteJSON(w, list)
}

func (a *Actions) handleSubmitAction(w http.ResponseWriter, req *http.Request) error {
	if !a.submitOn {
		return utils.Forbidden(errors.New("action submission disabled"))
	}
	var action runtime.Action
	if err := utils.ParseJSON(req.Body, &action); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	out, err := a.rt.Execute(req.Context(), &action)
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, NewResult(out))
}

func (a *Actions) handleSanity(w http.ResponseWriter, req *http.Request) error {
	out, err := a.rt.Execute(req.Context(), &runtime.Action{
		Name:  builtin.ActionSanity,
		Actor: a.rt.Self(),
	})
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, out.Value)
}

func (a *Actions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/actions").
		Methods(http.MethodGet).
		Name("GET /actions").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetActions))
	sub.Path("/actions").
		Methods(http.MethodPost).
		Name("POST /actions").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSubmitAction))
	sub.Path("/sanity").
		Methods(http.MethodGet).
		Name("GET /sanity").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSanity))
}

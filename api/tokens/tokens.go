// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/builtin/lockpool"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/node"
	"github.com/vechain/stakepool/types"
)

type Token struct {
	Name        string                `json:"name"`
	Address     types.Address         `json:"address"`
	Symbol      string                `json:"symbol"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

type Balance struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type TransferRequest struct {
	Caller types.Address         `json:"caller"`
	To     types.Address         `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type MintRequest struct {
	To     types.Address         `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Tokens struct {
	node    *node.Node
	entries []genesis.Entry
	dev     bool
}

// New creates the token handlers. Minting is served in dev mode only.
func New(n *node.Node, entries []genesis.Entry, dev bool) *Tokens {
	return &Tokens{
		n,
		entries,
		dev,
	}
}

func (t *Tokens) resolve(req *http.Request) (genesis.Entry, error) {
	key := mux.Vars(req)["token"]
	for _, e := range t.entries {
		if e.Name == key {
			return e, nil
		}
	}
	if addr, err := types.ParseAddress(key); err == nil {
		for _, e := range t.entries {
			if e.Address == *addr {
				return e, nil
			}
		}
	}
	return genesis.Entry{}, utils.NotFound(errors.Errorf("token %q not found", key))
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	entry, err := t.resolve(req)
	if err != nil {
		return err
	}
	out := &Token{Name: entry.Name, Address: entry.Address}
	if err := t.node.View(func(env *lockpool.Env) error {
		tok := token.New(entry.Address, env.State, env.Emitter)
		meta, err := tok.Meta()
		if err != nil {
			return utils.OperationError(err)
		}
		supply, err := tok.TotalSupply()
		if err != nil {
			return err
		}
		out.Symbol = meta.Symbol
		out.TotalSupply = utils.Amount(supply)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	entry, err := t.resolve(req)
	if err != nil {
		return err
	}
	addr, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var bal *big.Int
	if err := t.node.View(func(env *lockpool.Env) (err error) {
		bal, err = token.New(entry.Address, env.State, env.Emitter).BalanceOf(addr)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{utils.Amount(bal)})
}

func (t *Tokens) execute(w http.ResponseWriter, req *http.Request, name string, fn func(tok *token.Token) error) error {
	entry, err := t.resolve(req)
	if err != nil {
		return err
	}
	receipt, err := t.node.Execute(name, func(env *lockpool.Env) error {
		return fn(token.New(entry.Address, env.State, env.Emitter))
	})
	if err != nil {
		return utils.OperationError(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (t *Tokens) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: missing"))
	}
	return t.execute(w, req, "transfer", func(tok *token.Token) error {
		return tok.Transfer(body.Caller, body.To, utils.BigOf(body.Amount))
	})
}

func (t *Tokens) handleMint(w http.ResponseWriter, req *http.Request) error {
	if !t.dev {
		return utils.Forbidden(errors.New("mint is available in dev mode only"))
	}
	var body MintRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: missing"))
	}
	return t.execute(w, req, "mint", func(tok *token.Token) error {
		return tok.Mint(body.To, utils.BigOf(body.Amount))
	})
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{token}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{token}/balances/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/{token}/transfer").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(t.handleTransfer))
	sub.Path("/{token}/mint").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(t.handleMint))
}

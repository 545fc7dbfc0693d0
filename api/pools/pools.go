// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/builtin/lockpool"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/node"
	"github.com/vechain/stakepool/types"
)

type Pools struct {
	node    *node.Node
	entries []genesis.Entry
}

func New(n *node.Node, entries []genesis.Entry) *Pools {
	return &Pools{
		n,
		entries,
	}
}

// resolve accepts a pool name or address.
func (p *Pools) resolve(req *http.Request) (genesis.Entry, error) {
	key := mux.Vars(req)["pool"]
	for _, e := range p.entries {
		if e.Name == key {
			return e, nil
		}
	}
	if addr, err := types.ParseAddress(key); err == nil {
		for _, e := range p.entries {
			if e.Address == *addr {
				return e, nil
			}
		}
	}
	return genesis.Entry{}, utils.NotFound(errors.Errorf("pool %q not found", key))
}

// view runs fn over the pool addressed by the request.
func (p *Pools) view(req *http.Request, fn func(entry genesis.Entry, pool *lockpool.Pool, now uint64) error) error {
	entry, err := p.resolve(req)
	if err != nil {
		return err
	}
	return p.node.View(func(env *lockpool.Env) error {
		pool, err := lockpool.Load(entry.Address, env)
		if err != nil {
			return utils.OperationError(err)
		}
		return fn(entry, pool, env.Now)
	})
}

// execute runs fn as an operation over the pool addressed by the request.
func (p *Pools) execute(req *http.Request, name string, fn func(pool *lockpool.Pool) error) (*utils.Receipt, error) {
	entry, err := p.resolve(req)
	if err != nil {
		return nil, err
	}
	receipt, err := p.node.Execute(name, func(env *lockpool.Env) error {
		pool, err := lockpool.Load(entry.Address, env)
		if err != nil {
			return err
		}
		return fn(pool)
	})
	if err != nil {
		return nil, utils.OperationError(err)
	}
	return utils.ConvertReceipt(receipt), nil
}

func (p *Pools) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	list := make([]*Pool, 0, len(p.entries))
	err := p.node.View(func(env *lockpool.Env) error {
		for _, e := range p.entries {
			pool, err := lockpool.Load(e.Address, env)
			if err != nil {
				return err
			}
			converted, err := convertPool(e.Name, pool)
			if err != nil {
				return err
			}
			list = append(list, converted)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, list)
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	var out *Pool
	if err := p.view(req, func(entry genesis.Entry, pool *lockpool.Pool, _ uint64) (err error) {
		out, err = convertPool(entry.Name, pool)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var acc Account
	if err := p.view(req, func(_ genesis.Entry, pool *lockpool.Pool, _ uint64) error {
		shares, err := pool.SharesOf(addr)
		if err != nil {
			return err
		}
		total, err := pool.GetTotalDeposit(addr)
		if err != nil {
			return err
		}
		n, err := pool.GetDepositsLength(addr)
		if err != nil {
			return err
		}
		withdrawable, err := pool.WithdrawableRewardsOf(addr)
		if err != nil {
			return err
		}
		cumulative, err := pool.CumulativeRewardsOf(addr)
		if err != nil {
			return err
		}
		withdrawn, err := pool.WithdrawnRewardsOf(addr)
		if err != nil {
			return err
		}
		acc = Account{
			Shares:              utils.Amount(shares),
			TotalDeposit:        utils.Amount(total),
			Deposits:            n,
			WithdrawableRewards: utils.Amount(withdrawable),
			CumulativeRewards:   utils.Amount(cumulative),
			WithdrawnRewards:    utils.Amount(withdrawn),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &acc)
}

func (p *Pools) handleGetDeposits(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var out []*Deposit
	if err := p.view(req, func(_ genesis.Entry, pool *lockpool.Pool, now uint64) error {
		deposits, err := pool.GetDeposits(addr)
		if err != nil {
			return err
		}
		out = make([]*Deposit, 0, len(deposits))
		for i, d := range deposits {
			mult := pool.GetMultiplier(d.Duration())
			shares := new(big.Int).Mul(d.Amount, mult)
			out = append(out, &Deposit{
				ID:         uint64(i),
				Amount:     utils.Amount(d.Amount),
				Start:      d.Start,
				End:        d.End,
				Shares:     utils.Amount(shares.Div(shares, types.Precision)),
				Multiplier: utils.Amount(mult),
				Status:     d.Status(now).String(),
			})
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleGetMultiplier(w http.ResponseWriter, req *http.Request) error {
	duration, err := utils.ParseUint("duration", req.URL.Query().Get("duration"), 0)
	if err != nil {
		return err
	}
	var out Multiplier
	if err := p.view(req, func(_ genesis.Entry, pool *lockpool.Pool, _ uint64) error {
		out = Multiplier{
			Duration:        duration,
			ClampedDuration: pool.ClampDuration(duration),
			Multiplier:      utils.Amount(pool.GetMultiplier(duration)),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &out)
}

func requireAmount(amount *big.Int) error {
	if amount == nil {
		return utils.BadRequest(errors.New("amount: missing"))
	}
	return nil
}

func (p *Pools) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	var body DepositRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount := utils.BigOf(body.Amount)
	if err := requireAmount(amount); err != nil {
		return err
	}
	var id uint64
	receipt, err := p.execute(req, "deposit", func(pool *lockpool.Pool) (err error) {
		id, err = pool.Deposit(body.Caller, amount, body.Duration, receiverOf(body.Caller, body.Receiver))
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &DepositResult{DepositID: id, Receipt: receipt})
}

func (p *Pools) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body WithdrawRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := p.execute(req, "withdraw", func(pool *lockpool.Pool) error {
		return pool.Withdraw(body.Caller, body.DepositID, receiverOf(body.Caller, body.Receiver))
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (p *Pools) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body ClaimRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var escrowed, direct *big.Int
	receipt, err := p.execute(req, "claim", func(pool *lockpool.Pool) (err error) {
		escrowed, direct, err = pool.Claim(body.Caller, receiverOf(body.Caller, body.Receiver))
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &ClaimResult{
		Escrowed: utils.Amount(escrowed),
		Direct:   utils.Amount(direct),
		Receipt:  receipt,
	})
}

func (p *Pools) handleDistribute(w http.ResponseWriter, req *http.Request) error {
	var body DistributeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount := utils.BigOf(body.Amount)
	if err := requireAmount(amount); err != nil {
		return err
	}
	receipt, err := p.execute(req, "distribute", func(pool *lockpool.Pool) error {
		return pool.Distribute(body.Caller, amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (p *Pools) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount := utils.BigOf(body.Amount)
	if err := requireAmount(amount); err != nil {
		return err
	}
	receipt, err := p.execute(req, "transfer-shares", func(pool *lockpool.Pool) error {
		return pool.TransferShares(body.Caller, body.To, amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetPools))
	sub.Path("/{pool}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{pool}/multiplier").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetMultiplier))
	sub.Path("/{pool}/accounts/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetAccount))
	sub.Path("/{pool}/accounts/{address}/deposits").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetDeposits))
	sub.Path("/{pool}/deposit").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(p.handleDeposit))
	sub.Path("/{pool}/withdraw").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(p.handleWithdraw))
	sub.Path("/{pool}/claim").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(p.handleClaim))
	sub.Path("/{pool}/distribute").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(p.handleDistribute))
	sub.Path("/{pool}/transfer").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(p.handleTransfer))
}

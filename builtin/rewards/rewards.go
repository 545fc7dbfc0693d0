// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards implements the pull based dividend accounting of a pool.
//
// Distributions only bump a points-per-share accumulator, scaled by types.PointsMultiplier.
// Each account keeps a signed correction so that
//
//	cumulative(a) = (pointsPerShare * shares(a) + correction(a)) / M
//
// stays exact across mint, burn and transfer of shares. Every balance change of
// the share source must be followed by the matching Correct* call in the same operation.
package rewards

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/events"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/types"
)

var (
	// ErrNegativeRewards signals a broken correction, it never happens with consistent bookkeeping.
	ErrNegativeRewards = errors.New("rewards: negative cumulative rewards")
	// ErrOverflow signals a value beyond 256 bits.
	ErrOverflow = errors.New("rewards: arithmetic overflow")
)

var (
	slotPointsPerShare = nameToSlot("points-per-share")
	slotRecords        = nameToSlot("reward-records")
)

func nameToSlot(name string) types.Bytes32 {
	return types.BytesToBytes32([]byte(name))
}

// ShareSource provides the share balances rewards are weighted by.
type ShareSource interface {
	ShareBalanceOf(addr types.Address) (*big.Int, error)
	TotalShares() (*big.Int, error)
}

// record is the per account bookkeeping.
type record struct {
	Correction types.Bytes32 // int256, two's complement
	Withdrawn  *big.Int
}

// Accountant tracks the rewards of one pool.
type Accountant struct {
	addr           types.Address
	source         ShareSource
	pointsPerShare *solidity.Uint256
	records        *solidity.Mapping[types.Address, *record]
	emitter        events.Emitter
}

// New creates an accountant in the storage of the pool.
func New(sctx *solidity.Context, source ShareSource, emitter events.Emitter) *Accountant {
	if emitter == nil {
		emitter = events.Discard
	}
	return &Accountant{
		addr:           sctx.Address(),
		source:         source,
		pointsPerShare: solidity.NewUint256(sctx, slotPointsPerShare),
		records:        solidity.NewMapping[types.Address, *record](sctx, slotRecords),
		emitter:        emitter,
	}
}

func (a *Accountant) getRecord(addr types.Address) (*record, error) {
	rec, err := a.records.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward record")
	}
	if rec.Withdrawn == nil {
		rec.Withdrawn = new(big.Int)
	}
	return rec, nil
}

func (a *Accountant) setRecord(addr types.Address, rec *record) error {
	if rec.Correction.IsZero() && rec.Withdrawn.Sign() == 0 {
		a.records.Delete(addr)
		return nil
	}
	if err := a.records.Set(addr, rec); err != nil {
		return errors.Wrap(err, "failed to set reward record")
	}
	return nil
}

// PointsPerShare returns the accumulator.
func (a *Accountant) PointsPerShare() (*big.Int, error) {
	return a.pointsPerShare.Get()
}

// PointsCorrection returns the signed correction of addr.
func (a *Accountant) PointsCorrection(addr types.Address) (*big.Int, error) {
	rec, err := a.getRecord(addr)
	if err != nil {
		return nil, err
	}
	return fromWord(rec.Correction), nil
}

// WithdrawnRewardsOf returns the rewards already paid out to addr.
func (a *Accountant) WithdrawnRewardsOf(addr types.Address) (*big.Int, error) {
	rec, err := a.getRecord(addr)
	if err != nil {
		return nil, err
	}
	return rec.Withdrawn, nil
}

// CumulativeRewardsOf returns everything addr has ever earned.
func (a *Accountant) CumulativeRewardsOf(addr types.Address) (*big.Int, error) {
	pps, err := a.pointsPerShare.Get()
	if err != nil {
		return nil, err
	}
	shares, err := a.source.ShareBalanceOf(addr)
	if err != nil {
		return nil, err
	}
	rec, err := a.getRecord(addr)
	if err != nil {
		return nil, err
	}
	points, err := mul256(pps, shares)
	if err != nil {
		return nil, err
	}
	// the product is used as int256
	if points.BitLen() > 255 {
		return nil, ErrOverflow
	}
	points.Add(points, fromWord(rec.Correction))
	if points.Sign() < 0 {
		return nil, errors.WithMessagef(ErrNegativeRewards, "account %v", addr)
	}
	return points.Div(points, types.PointsMultiplier), nil
}

// WithdrawableRewardsOf returns the rewards addr can collect now.
func (a *Accountant) WithdrawableRewardsOf(addr types.Address) (*big.Int, error) {
	cumulative, err := a.CumulativeRewardsOf(addr)
	if err != nil {
		return nil, err
	}
	withdrawn, err := a.WithdrawnRewardsOf(addr)
	if err != nil {
		return nil, err
	}
	if cumulative.Cmp(withdrawn) < 0 {
		return nil, errors.WithMessagef(ErrNegativeRewards, "account %v withdrew more than earned", addr)
	}
	return cumulative.Sub(cumulative, withdrawn), nil
}

// Distribute spreads amount over the current shares.
// The remainder of the floor division is not carried over.
func (a *Accountant) Distribute(by types.Address, amount *big.Int) error {
	total, err := a.source.TotalShares()
	if err != nil {
		return err
	}
	if total.Sign() == 0 {
		return reverts.New(reverts.EmptyPool, "empty pool")
	}
	if amount.Sign() <= 0 {
		return nil
	}
	points, err := mul256(amount, types.PointsMultiplier)
	if err != nil {
		return err
	}
	pps, err := a.pointsPerShare.Get()
	if err != nil {
		return err
	}
	pps, err = add256(pps, points.Div(points, total))
	if err != nil {
		return err
	}
	if err := a.pointsPerShare.Set(pps); err != nil {
		return err
	}
	a.emitter.Emit(events.RewardsDistributed(a.addr, by, amount))
	return nil
}

// Collect marks the withdrawable rewards of addr as withdrawn and returns the amount.
// The caller is responsible for paying it out.
func (a *Accountant) Collect(addr types.Address) (*big.Int, error) {
	amount, err := a.WithdrawableRewardsOf(addr)
	if err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		return amount, nil
	}
	rec, err := a.getRecord(addr)
	if err != nil {
		return nil, err
	}
	rec.Withdrawn = new(big.Int).Add(rec.Withdrawn, amount)
	if err := a.setRecord(addr, rec); err != nil {
		return nil, err
	}
	a.emitter.Emit(events.RewardsWithdrawn(a.addr, addr, amount))
	return amount, nil
}

// CorrectOnMint keeps newly minted shares from claiming past distributions.
func (a *Accountant) CorrectOnMint(addr types.Address, shares *big.Int) error {
	return a.correct(addr, shares, false)
}

// CorrectOnBurn keeps the rewards accrued by burnt shares with addr.
func (a *Accountant) CorrectOnBurn(addr types.Address, shares *big.Int) error {
	return a.correct(addr, shares, true)
}

// CorrectOnTransfer moves the accrued rewards of transferred shares along with the sender.
func (a *Accountant) CorrectOnTransfer(from, to types.Address, shares *big.Int) error {
	if err := a.correct(from, shares, true); err != nil {
		return err
	}
	return a.correct(to, shares, false)
}

// correct adds (increase) or subtracts pointsPerShare * shares to the correction of addr.
func (a *Accountant) correct(addr types.Address, shares *big.Int, increase bool) error {
	if shares.Sign() == 0 {
		return nil
	}
	pps, err := a.pointsPerShare.Get()
	if err != nil {
		return err
	}
	delta, err := mul256(pps, shares)
	if err != nil {
		return err
	}
	if delta.BitLen() > 255 {
		return ErrOverflow
	}
	rec, err := a.getRecord(addr)
	if err != nil {
		return err
	}
	corr := fromWord(rec.Correction)
	if increase {
		corr.Add(corr, delta)
	} else {
		corr.Sub(corr, delta)
	}
	if rec.Correction, err = toWord(corr); err != nil {
		return err
	}
	return a.setRecord(addr, rec)
}

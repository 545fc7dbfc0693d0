// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/api/events"
	"github.com/vechain/stakepool/api/pools"
	"github.com/vechain/stakepool/api/tokens"
	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/config"
	"github.com/vechain/stakepool/eventdb"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/node"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/types"
)

const year = 31536000

var (
	alice = config.DevAccounts[0]
	bob   = config.DevAccounts[1]
	carol = config.DevAccounts[2]
)

type testServer struct {
	*httptest.Server
	clock  *node.ManualClock
	gene   *genesis.Genesis
	events *eventdb.EventDB
}

func newTestServer(t *testing.T, dev bool) *testServer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	edb, err := eventdb.NewMem()
	require.NoError(t, err)

	clock := node.NewManualClock(1_000_000)
	n, err := node.New(state.NewStater(db, 128), edb, clock)
	require.NoError(t, err)
	gene, err := genesis.New(config.Default())
	require.NoError(t, err)
	require.NoError(t, gene.Setup(n))

	ts := httptest.NewServer(api.New(n, gene, api.Options{
		AllowedOrigins:  []string{"*"},
		EnableReqLogger: true,
		EnableMetrics:   true,
		EventsLimit:     50,
		Dev:             dev,
	}))
	t.Cleanup(func() {
		ts.Close()
		edb.Close()
		db.Close()
	})
	return &testServer{ts, clock, gene, edb}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (int, http.Header, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, res.Header, data
}

// ok performs the request, expects 200 and decodes the response into out.
func (ts *testServer) ok(t *testing.T, method, path string, body, out any) {
	status, _, data := ts.do(t, method, path, body)
	require.Equal(t, http.StatusOK, status, string(data))
	if out != nil {
		require.NoError(t, json.Unmarshal(data, out))
	}
}

// fails performs the request and expects the status and revert reason.
func (ts *testServer) fails(t *testing.T, method, path string, body any, status int, reason string) {
	got, header, data := ts.do(t, method, path, body)
	assert.Equal(t, status, got, string(data))
	assert.Equal(t, reason, header.Get(utils.RevertReasonHeader))
}

func amount(v *big.Int) *math.HexOrDecimal256 { return (*math.HexOrDecimal256)(v) }

func str(a *math.HexOrDecimal256) string { return (*big.Int)(a).String() }

func ether(n int64) *math.HexOrDecimal256 { return amount(types.Ether(n)) }

func TestStatus(t *testing.T) {
	ts := newTestServer(t, false)

	var status api.Status
	status0, header, data := ts.do(t, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, status0)
	require.NoError(t, json.Unmarshal(data, &status))
	assert.Equal(t, ts.gene.ID(), status.GenesisID)
	assert.Equal(t, uint64(1), status.Seq)
	assert.Equal(t, uint64(1_000_000), status.Time)
	assert.Equal(t, ts.gene.ID().String(), header.Get("x-genesis-id"))
}

func TestPoolQueries(t *testing.T) {
	ts := newTestServer(t, false)

	var list []*pools.Pool
	ts.ok(t, http.MethodGet, "/pools", nil, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "escrow", list[0].Name)
	assert.Nil(t, list[0].EscrowPool)
	assert.False(t, list[0].Transferable)

	var main pools.Pool
	ts.ok(t, http.MethodGet, "/pools/main", nil, &main)
	assert.Equal(t, genesis.PoolAddress("main"), main.Address)
	assert.Equal(t, "SMC", main.ShareSymbol)
	require.NotNil(t, main.EscrowPool)
	assert.Equal(t, genesis.PoolAddress("escrow"), *main.EscrowPool)
	assert.Equal(t, "300000000000000000", str(main.EscrowPortion))
	assert.Equal(t, "0", str(main.TotalShares))

	var byAddr pools.Pool
	ts.ok(t, http.MethodGet, "/pools/"+main.Address.String(), nil, &byAddr)
	assert.Equal(t, "main", byAddr.Name)

	var mult pools.Multiplier
	ts.ok(t, http.MethodGet, "/pools/main/multiplier?duration=31536000", nil, &mult)
	assert.Equal(t, types.Ether(2).String(), str(mult.Multiplier))
	ts.ok(t, http.MethodGet, "/pools/main/multiplier?duration=10", nil, &mult)
	assert.Equal(t, uint64(600), mult.ClampedDuration)

	ts.fails(t, http.MethodGet, "/pools/nope", nil, http.StatusNotFound, "")
	ts.fails(t, http.MethodGet, "/pools/main/multiplier?duration=x", nil, http.StatusBadRequest, "")
	ts.fails(t, http.MethodGet, "/pools/main/accounts/zz", nil, http.StatusBadRequest, "")
}

func TestPoolLifecycle(t *testing.T) {
	ts := newTestServer(t, false)

	// alice locks 100 for a year: 200 shares
	var dep pools.DepositResult
	ts.ok(t, http.MethodPost, "/pools/main/deposit", &pools.DepositRequest{
		Caller:   alice,
		Amount:   ether(100),
		Duration: year,
	}, &dep)
	assert.Equal(t, uint64(0), dep.DepositID)
	assert.Equal(t, uint64(2), dep.Receipt.Seq)
	assert.Equal(t, "deposit", dep.Receipt.Op)
	require.Len(t, dep.Receipt.Events, 3)
	assert.Equal(t, "Deposited", dep.Receipt.Events[2].Name)

	var acc pools.Account
	ts.ok(t, http.MethodGet, "/pools/main/accounts/"+alice.String(), nil, &acc)
	assert.Equal(t, types.Ether(200).String(), str(acc.Shares))
	assert.Equal(t, types.Ether(100).String(), str(acc.TotalDeposit))
	assert.Equal(t, uint64(1), acc.Deposits)

	var deposits []*pools.Deposit
	ts.ok(t, http.MethodGet, "/pools/main/accounts/"+alice.String()+"/deposits", nil, &deposits)
	require.Len(t, deposits, 1)
	assert.Equal(t, "created", deposits[0].Status)
	assert.Equal(t, uint64(1_000_000+year), deposits[0].End)
	assert.Equal(t, types.Ether(200).String(), str(deposits[0].Shares))

	// bob distributes 50, alice gets all of it but the rounding dust
	ts.ok(t, http.MethodPost, "/pools/main/distribute", &pools.DistributeRequest{Caller: bob, Amount: ether(50)}, nil)
	ts.ok(t, http.MethodGet, "/pools/main/accounts/"+alice.String(), nil, &acc)
	withdrawable := (*big.Int)(acc.WithdrawableRewards)
	assert.Equal(t, new(big.Int).Sub(types.Ether(50), big.NewInt(1)).String(), withdrawable.String())

	// claim: 30% escrowed for a year, the rest paid to alice
	var claim pools.ClaimResult
	ts.ok(t, http.MethodPost, "/pools/main/claim", &pools.ClaimRequest{Caller: alice}, &claim)
	escrowed := new(big.Int).Div(new(big.Int).Mul(withdrawable, big.NewInt(3)), big.NewInt(10))
	assert.Equal(t, escrowed.String(), str(claim.Escrowed))
	assert.Equal(t, new(big.Int).Sub(withdrawable, escrowed).String(), str(claim.Direct))

	var escrowAcc pools.Account
	ts.ok(t, http.MethodGet, "/pools/escrow/accounts/"+alice.String(), nil, &escrowAcc)
	assert.Equal(t, escrowed.String(), str(escrowAcc.TotalDeposit))
	assert.Equal(t, new(big.Int).Mul(escrowed, big.NewInt(2)).String(), str(escrowAcc.Shares))

	// locked until the end
	ts.fails(t, http.MethodPost, "/pools/main/withdraw", &pools.WithdrawRequest{Caller: alice}, http.StatusConflict, "too-soon")
	ts.fails(t, http.MethodPost, "/pools/main/withdraw", &pools.WithdrawRequest{Caller: alice, DepositID: 3}, http.StatusNotFound, "not-found")

	ts.clock.Advance(year)
	ts.ok(t, http.MethodGet, "/pools/main/accounts/"+alice.String()+"/deposits", nil, &deposits)
	assert.Equal(t, "mature", deposits[0].Status)

	var before, after tokens.Balance
	ts.ok(t, http.MethodGet, "/tokens/MC/balances/"+carol.String(), nil, &before)
	ts.ok(t, http.MethodPost, "/pools/main/withdraw", &pools.WithdrawRequest{Caller: alice, Receiver: &carol}, nil)
	ts.ok(t, http.MethodGet, "/tokens/MC/balances/"+carol.String(), nil, &after)
	assert.Equal(t, types.Ether(100).String(), new(big.Int).Sub((*big.Int)(after.Balance), (*big.Int)(before.Balance)).String())

	ts.ok(t, http.MethodGet, "/pools/main/accounts/"+alice.String(), nil, &acc)
	assert.Equal(t, "0", str(acc.Shares))
	assert.Equal(t, uint64(0), acc.Deposits)
}

func TestCommittedWithoutEventIndex(t *testing.T) {
	ts := newTestServer(t, false)
	require.NoError(t, ts.events.Close())

	var dep pools.DepositResult
	ts.ok(t, http.MethodPost, "/pools/main/deposit", &pools.DepositRequest{
		Caller:   alice,
		Amount:   ether(100),
		Duration: year,
	}, &dep)
	assert.Equal(t, uint64(2), dep.Receipt.Seq)
	assert.Equal(t, "Deposited", dep.Receipt.Events[len(dep.Receipt.Events)-1].Name)

	// the deposit stands once
	var acc pools.Account
	ts.ok(t, http.MethodGet, "/pools/main/accounts/"+alice.String(), nil, &acc)
	assert.Equal(t, types.Ether(200).String(), str(acc.Shares))
	assert.Equal(t, uint64(1), acc.Deposits)

	var status api.Status
	ts.ok(t, http.MethodGet, "/status", nil, &status)
	assert.Equal(t, uint64(2), status.Seq)
}

func TestPoolReverts(t *testing.T) {
	ts := newTestServer(t, false)

	ts.fails(t, http.MethodPost, "/pools/main/distribute", &pools.DistributeRequest{Caller: bob, Amount: ether(1)}, http.StatusConflict, "empty-pool")
	ts.fails(t, http.MethodPost, "/pools/main/deposit", &pools.DepositRequest{Caller: alice, Amount: ether(0), Duration: year}, http.StatusBadRequest, "zero-amount")
	ts.fails(t, http.MethodPost, "/pools/main/deposit", &pools.DepositRequest{Caller: alice, Amount: ether(2_000_000)}, http.StatusUnprocessableEntity, "insufficient-balance")
	ts.fails(t, http.MethodPost, "/pools/main/deposit", &pools.DepositRequest{Caller: alice}, http.StatusBadRequest, "")
	ts.fails(t, http.MethodPost, "/pools/main/deposit", map[string]any{"caller": alice, "unknown": 1}, http.StatusBadRequest, "")

	ts.ok(t, http.MethodPost, "/pools/escrow/deposit", &pools.DepositRequest{Caller: alice, Amount: ether(10)}, nil)
	ts.fails(t, http.MethodPost, "/pools/escrow/transfer", &pools.TransferRequest{Caller: alice, To: bob, Amount: ether(1)}, http.StatusForbidden, "non-transferable")

	ts.ok(t, http.MethodPost, "/pools/main/deposit", &pools.DepositRequest{Caller: alice, Amount: ether(10)}, nil)
	ts.ok(t, http.MethodPost, "/pools/main/transfer", &pools.TransferRequest{Caller: alice, To: bob, Amount: ether(1)}, nil)
	var acc pools.Account
	ts.ok(t, http.MethodGet, "/pools/main/accounts/"+bob.String(), nil, &acc)
	assert.Equal(t, types.Ether(1).String(), str(acc.Shares))

	// nothing of a reverted op is applied
	var status api.Status
	ts.ok(t, http.MethodGet, "/status", nil, &status)
	assert.Equal(t, uint64(4), status.Seq)
}

func TestTokens(t *testing.T) {
	ts := newTestServer(t, false)

	var tok tokens.Token
	ts.ok(t, http.MethodGet, "/tokens/MC", nil, &tok)
	assert.Equal(t, "MC", tok.Symbol)
	assert.Equal(t, types.Ether(3_000_000).String(), str(tok.TotalSupply))
	ts.fails(t, http.MethodGet, "/tokens/NOPE", nil, http.StatusNotFound, "")

	ts.ok(t, http.MethodPost, "/tokens/MC/transfer", &tokens.TransferRequest{Caller: alice, To: bob, Amount: ether(5)}, nil)
	var bal tokens.Balance
	ts.ok(t, http.MethodGet, "/tokens/MC/balances/"+bob.String(), nil, &bal)
	assert.Equal(t, types.Ether(1_000_005).String(), str(bal.Balance))

	ts.fails(t, http.MethodPost, "/tokens/MC/transfer", &tokens.TransferRequest{Caller: alice, To: bob, Amount: ether(1_000_000)}, http.StatusUnprocessableEntity, "insufficient-balance")
	ts.fails(t, http.MethodPost, "/tokens/MC/mint", &tokens.MintRequest{To: bob, Amount: ether(1)}, http.StatusForbidden, "")
}

func TestDevMint(t *testing.T) {
	ts := newTestServer(t, true)
	stranger := types.BytesToAddress([]byte("stranger"))

	ts.ok(t, http.MethodPost, "/tokens/MC/mint", &tokens.MintRequest{To: stranger, Amount: ether(7)}, nil)
	var bal tokens.Balance
	ts.ok(t, http.MethodGet, "/tokens/MC/balances/"+stranger.String(), nil, &bal)
	assert.Equal(t, types.Ether(7).String(), str(bal.Balance))
	ts.fails(t, http.MethodPost, "/tokens/MC/mint", &tokens.MintRequest{To: stranger, Amount: ether(0)}, http.StatusBadRequest, "zero-amount")
	ts.fails(t, http.MethodPost, "/tokens/MC/mint", map[string]any{"to": stranger, "amount": "-1"}, http.StatusBadRequest, "invalid-amount")

	// supply is bounded to 256 bits
	half := amount(new(big.Int).Lsh(big.NewInt(1), 255))
	ts.ok(t, http.MethodPost, "/tokens/MC/mint", &tokens.MintRequest{To: stranger, Amount: half}, nil)
	ts.fails(t, http.MethodPost, "/tokens/MC/mint", &tokens.MintRequest{To: stranger, Amount: half}, http.StatusUnprocessableEntity, "overflow")
	var tok tokens.Token
	ts.ok(t, http.MethodGet, "/tokens/MC", nil, &tok)
	assert.Equal(t, new(big.Int).Add(types.Ether(3_000_007), (*big.Int)(half)).String(), str(tok.TotalSupply))
}

func TestEvents(t *testing.T) {
	ts := newTestServer(t, false)
	ts.ok(t, http.MethodPost, "/pools/main/deposit", &pools.DepositRequest{Caller: alice, Amount: ether(1)}, nil)
	ts.ok(t, http.MethodPost, "/pools/main/deposit", &pools.DepositRequest{Caller: bob, Amount: ether(2)}, nil)

	var evs []*events.Event
	ts.ok(t, http.MethodGet, "/events?name=Deposited", nil, &evs)
	require.Len(t, evs, 2)
	assert.Equal(t, alice, evs[0].Subjects[0])
	assert.Equal(t, uint64(2), evs[0].OpSeq)

	ts.ok(t, http.MethodGet, "/events?name=Deposited&order=desc&limit=1", nil, &evs)
	require.Len(t, evs, 1)
	assert.Equal(t, bob, evs[0].Subjects[0])

	ts.ok(t, http.MethodGet, "/events?subject="+bob.String()+"&contract="+genesis.PoolAddress("main").String(), nil, &evs)
	require.Len(t, evs, 2)
	assert.Equal(t, "SharesTransferred", evs[0].Name)

	// genesis allocations
	ts.ok(t, http.MethodGet, "/events?contract="+genesis.TokenAddress("MC").String()+"&offset=0&limit=3", nil, &evs)
	assert.Len(t, evs, 3)

	ts.fails(t, http.MethodGet, "/events?order=sideways", nil, http.StatusBadRequest, "")
	ts.fails(t, http.MethodGet, "/events?limit=51", nil, http.StatusForbidden, "")
	ts.fails(t, http.MethodGet, "/events?subject=0x12", nil, http.StatusBadRequest, "")
}

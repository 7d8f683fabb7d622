package market

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/wattswap/wattswap-contract/contracts/market/marketconst"
)

type testAct struct {
	err    error
	res    *result.Invoke
	script []byte
	txh    util.Uint256
	vub    uint32

	pages      [][]stackitem.Item
	terminated bool
}

func (t *testAct) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testAct) CallAndExpandIterator(contract util.Uint160, operation string, i int, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testAct) TraverseIterator(uuid.UUID, *result.Iterator, int) ([]stackitem.Item, error) {
	if len(t.pages) == 0 {
		return nil, t.err
	}
	p := t.pages[0]
	t.pages = t.pages[1:]
	return p, nil
}

func (t *testAct) TerminateSession(uuid.UUID) error {
	t.terminated = true
	return nil
}

func (t *testAct) MakeRun(script []byte) (*transaction.Transaction, error) {
	t.script = script
	return transaction.New(script, 1), t.err
}

func (t *testAct) MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error) {
	t.script = script
	return transaction.New(script, 1), t.err
}

func (t *testAct) SendRun(script []byte) (util.Uint256, uint32, error) {
	t.script = script
	return t.txh, t.vub, t.err
}

func listingStackItem(id int64, seller util.Uint160, energy, price int64, active bool) stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(id),
		stackitem.Make(seller.BytesBE()),
		stackitem.Make(energy),
		stackitem.Make(price),
		stackitem.Make(active),
	})
}

func TestReader_GetListing(t *testing.T) {
	ta := new(testAct)
	r := NewReader(ta, util.Uint160{1, 2, 3})

	ta.err = errors.New("bad")
	_, err := r.GetListing(big.NewInt(1))
	require.Error(t, err)

	ta.err = nil
	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{
			stackitem.Make([]stackitem.Item{stackitem.Make(1)}),
		},
	}
	_, err = r.GetListing(big.NewInt(1))
	require.Error(t, err)

	ta.res = &result.Invoke{
		State:          "FAULT",
		FaultException: "listing not found",
	}
	_, err = r.GetListing(big.NewInt(1))
	require.ErrorContains(t, err, "listing not found")

	seller := util.Uint160{4, 5, 6}
	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{listingStackItem(1, seller, 1000, 1_000_000, true)},
	}
	l, err := r.GetListing(big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, &MarketListing{
		ID:           big.NewInt(1),
		Seller:       seller,
		EnergyAmount: big.NewInt(1000),
		PricePerUnit: big.NewInt(1_000_000),
		IsActive:     true,
	}, l)
	require.Equal(t, big.NewInt(1_000_000_000), l.TotalPrice())
}

func TestReader_GetBid(t *testing.T) {
	ta := new(testAct)
	r := NewReader(ta, util.Uint160{1, 2, 3})

	buyer := util.Uint160{7, 8, 9}
	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.NewStruct([]stackitem.Item{
			stackitem.Make(3),
			stackitem.Make(buyer.BytesBE()),
			stackitem.Make(500),
		})},
	}
	b, err := r.GetBid(big.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, &MarketBid{
		ListingID: big.NewInt(3),
		Buyer:     buyer,
		Amount:    big.NewInt(500),
	}, b)

	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.NewStruct([]stackitem.Item{
			stackitem.Make(3),
			stackitem.Make([]byte{1, 2}),
			stackitem.Make(500),
		})},
	}
	_, err = r.GetBid(big.NewInt(3))
	require.ErrorContains(t, err, "field Buyer")
}

func TestListingsFromItems(t *testing.T) {
	seller := util.Uint160{4, 5, 6}
	ls, err := ListingsFromItems([]stackitem.Item{
		listingStackItem(1, seller, 10, 2, false),
		listingStackItem(2, seller, 5, 3, true),
	})
	require.NoError(t, err)
	require.Len(t, ls, 2)
	require.False(t, ls[0].IsActive)
	require.True(t, ls[1].IsActive)
	require.Equal(t, big.NewInt(15), ls[1].TotalPrice())

	_, err = ListingsFromItems([]stackitem.Item{stackitem.Make(1)})
	require.ErrorContains(t, err, "listing #0")
}

func TestPayer(t *testing.T) {
	ta := &testAct{
		txh: util.Uint256{1, 2, 3},
		vub: 42,
	}
	market := util.Uint160{9, 9, 9}
	from := util.Uint160{1, 1, 1}
	p := NewPayer(ta, market)

	h, vub, err := p.PlaceBid(from, big.NewInt(7), big.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, ta.txh, h)
	require.EqualValues(t, 42, vub)
	require.True(t, bytes.Contains(ta.script, []byte("transfer")))
	require.True(t, bytes.Contains(ta.script, market.BytesBE()))
	require.True(t, bytes.Contains(ta.script, []byte(marketconst.OpBid)))

	_, err = p.PurchaseTransaction(from, big.NewInt(7), big.NewInt(100))
	require.NoError(t, err)
	require.True(t, bytes.Contains(ta.script, []byte(marketconst.OpBuy)))

	ta.err = errors.New("bad")
	_, _, err = p.Purchase(from, big.NewInt(7), big.NewInt(100))
	require.Error(t, err)
}

func TestTradeSettledEventsFromApplicationLog(t *testing.T) {
	_, err := TradeSettledEventsFromApplicationLog(nil)
	require.Error(t, err)

	seller, buyer := util.Uint160{1}, util.Uint160{2}
	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				{
					Name: "Transfer",
					Item: stackitem.NewArray([]stackitem.Item{stackitem.Make(1)}),
				},
				{
					Name: "TradeSettled",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.Make(1),
						stackitem.Make(seller.BytesBE()),
						stackitem.Make(buyer.BytesBE()),
						stackitem.Make(1000),
						stackitem.Make(10),
					}),
				},
			},
		}},
	}

	evs, err := TradeSettledEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*TradeSettledEvent{{
		ListingID:    big.NewInt(1),
		Seller:       seller,
		Buyer:        buyer,
		EnergyAmount: big.NewInt(1000),
		Payment:      big.NewInt(10),
	}}, evs)

	log.Executions[0].Events[1].Item = stackitem.NewArray([]stackitem.Item{stackitem.Make(1)})
	_, err = TradeSettledEventsFromApplicationLog(log)
	require.Error(t, err)
}

func TestReader_AllListings(t *testing.T) {
	ta := new(testAct)
	r := NewReader(ta, util.Uint160{1, 2, 3})

	ta.err = errors.New("sessions disabled")
	_, err := r.AllListings(2)
	require.Error(t, err)
	require.False(t, ta.terminated)

	iterID := uuid.New()
	ta.err = nil
	ta.res = &result.Invoke{
		State:   "HALT",
		Session: uuid.New(),
		Stack: []stackitem.Item{
			stackitem.NewInterop(result.Iterator{ID: &iterID}),
		},
	}

	seller := util.Uint160{7}
	ta.pages = [][]stackitem.Item{
		{listingStackItem(1, seller, 10, 2, true), listingStackItem(2, seller, 20, 3, false)},
		{listingStackItem(3, seller, 30, 4, true), listingStackItem(4, seller, 40, 5, true)},
		{listingStackItem(5, seller, 50, 6, true)},
	}

	ls, err := r.AllListings(2)
	require.NoError(t, err)
	require.Len(t, ls, 5)
	for i := range ls {
		require.EqualValues(t, i+1, ls[i].ID.Int64())
		require.Equal(t, seller, ls[i].Seller)
	}
	require.False(t, ls[1].IsActive)
	require.True(t, ta.terminated)

	t.Run("undecodable listing", func(t *testing.T) {
		ta.terminated = false
		ta.pages = [][]stackitem.Item{{listingStackItem(1, seller, 10, 2, true), stackitem.Make(1)}}

		_, err := r.AllListings(2)
		require.Error(t, err)
		require.True(t, ta.terminated)
	})
}

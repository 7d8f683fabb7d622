package market

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/wattswap/wattswap-contract/contracts/market/marketconst"
)

// Payer sends GAS payments to Market contract. Bids and purchases are not
// contract methods: they are GAS transfers to the contract carrying the
// operation and listing ID as transfer data.
type Payer struct {
	gas    *nep17.Token
	market util.Uint160
}

// NewPayer creates an instance of Payer for Market contract with the given
// hash.
func NewPayer(actor nep17.Actor, market util.Uint160) *Payer {
	return &Payer{gas: gas.New(actor), market: market}
}

// PaymentData returns transfer data for the given operation on the listing.
func PaymentData(op string, listingID *big.Int) []any {
	return []any{op, listingID}
}

// PlaceBid escrows amount of GAS from sender as a bid on the listing. The
// transaction is signed and immediately sent to the network.
func (p *Payer) PlaceBid(from util.Uint160, listingID, amount *big.Int) (util.Uint256, uint32, error) {
	return p.gas.Transfer(from, p.market, amount, PaymentData(marketconst.OpBid, listingID))
}

// PlaceBidTransaction is similar to PlaceBid, but returns signed transaction
// instead of sending it.
func (p *Payer) PlaceBidTransaction(from util.Uint160, listingID, amount *big.Int) (*transaction.Transaction, error) {
	return p.gas.TransferTransaction(from, p.market, amount, PaymentData(marketconst.OpBid, listingID))
}

// Purchase pays amount of GAS from sender for the listing settling it
// immediately. Amount must equal listing total price. The transaction is
// signed and immediately sent to the network.
func (p *Payer) Purchase(from util.Uint160, listingID, amount *big.Int) (util.Uint256, uint32, error) {
	return p.gas.Transfer(from, p.market, amount, PaymentData(marketconst.OpBuy, listingID))
}

// PurchaseTransaction is similar to Purchase, but returns signed transaction
// instead of sending it.
func (p *Payer) PurchaseTransaction(from util.Uint160, listingID, amount *big.Int) (*transaction.Transaction, error) {
	return p.gas.TransferTransaction(from, p.market, amount, PaymentData(marketconst.OpBuy, listingID))
}

// TotalPrice returns the amount of GAS fractions required to buy the listing.
func (l *MarketListing) TotalPrice() *big.Int {
	return new(big.Int).Mul(l.EnergyAmount, l.PricePerUnit)
}

// ListingsFromItems decodes items returned by ListListingsExpanded or by
// iterator traversal.
func ListingsFromItems(items []stackitem.Item) ([]*MarketListing, error) {
	res := make([]*MarketListing, 0, len(items))
	for i := range items {
		l, err := itemToMarketListing(items[i], nil)
		if err != nil {
			return nil, fmt.Errorf("listing #%d: %w", i, err)
		}
		res = append(res, l)
	}
	return res, nil
}

package marketconst

// Operations carried in the data argument of a GAS transfer to Market
// contract: [operation, listingID].
const (
	// OpBid escrows the attached GAS as a bid on the listing.
	OpBid = "bid"
	// OpBuy settles the listing immediately with the attached GAS.
	OpBuy = "buy"
)

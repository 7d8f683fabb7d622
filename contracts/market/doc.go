/*
Package market implements the Market contract of the WattSwap marketplace.

Producers registered in Registry contract list ENRG tokens for sale at a fixed
price per unit. Consumers pay for listings in GAS by transferring it to Market
contract with [operation, listingID] data:

  - "bid" escrows the attached GAS as the single pending bid of the listing.
    The bid must cover EnergyAmount*PricePerUnit. The seller settles it with
    AcceptBid; either party may cancel it with CancelBid to refund the bidder.
  - "buy" settles the listing immediately. The attached GAS must be exactly
    EnergyAmount*PricePerUnit.

On settlement the listing becomes inactive for good, ENRG moves from the
seller to the buyer through the allowance the seller gave to Market contract,
and escrowed GAS is released to the seller. The whole settlement happens in a
single transaction: if any transfer fails, nothing changes.

# Contract notifications

ListingCreated notification. Produced when a producer lists energy.

	ListingCreated:
	  - name: id
	    type: Integer
	  - name: seller
	    type: Hash160
	  - name: energyAmount
	    type: Integer
	  - name: pricePerUnit
	    type: Integer

BidPlaced notification. Produced when GAS is escrowed against a listing.

	BidPlaced:
	  - name: listingID
	    type: Integer
	  - name: buyer
	    type: Hash160
	  - name: amount
	    type: Integer

BidCancelled notification. Produced when escrowed GAS is refunded.

	BidCancelled:
	  - name: listingID
	    type: Integer
	  - name: buyer
	    type: Hash160
	  - name: amount
	    type: Integer

TradeSettled notification. Produced when a listing is sold.

	TradeSettled:
	  - name: listingID
	    type: Integer
	  - name: seller
	    type: Hash160
	  - name: buyer
	    type: Hash160
	  - name: energyAmount
	    type: Integer
	  - name: payment
	    type: Integer
*/
package market

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   market admin
 - 't' -> interop.Hash160
   Token contract script hash
 - 'r' -> interop.Hash160
   Registry contract script hash
 - 'c' -> int
   ID of the latest listing
 - 'l' + <listing ID> -> std.Serialize(Listing)
   all listings, settled included
 - 'b' + <listing ID> -> std.Serialize(Bid)
   pending bids, at most one per listing
*/

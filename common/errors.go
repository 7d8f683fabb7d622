package common

// Exception messages thrown by the contracts. Clients match them as
// substrings of the fault exception, so every message is unique and stable.
const (
	// ErrAlreadyRegistered is thrown when an identity registers twice.
	ErrAlreadyRegistered = "user already registered"
	// ErrUnauthorized is thrown when a role, ownership or admin check fails.
	ErrUnauthorized = "unauthorized"
	// ErrInvalidAmount is thrown on non-positive or malformed numeric input.
	ErrInvalidAmount = "invalid amount"
	// ErrInvalidAddress is thrown when a Hash160 argument has wrong length.
	ErrInvalidAddress = "invalid address"
	// ErrUserNotFound is thrown for unknown registry accounts.
	ErrUserNotFound = "user not found"
	// ErrListingNotFound is thrown for unknown listing IDs.
	ErrListingNotFound = "listing not found"
	// ErrListingInactive is thrown when a bid or purchase targets a settled listing.
	ErrListingInactive = "listing inactive"
	// ErrAlreadySettled is thrown when a settled listing is accepted again.
	ErrAlreadySettled = "listing already settled"
	// ErrNoPendingBid is thrown when there is no bid to accept or cancel.
	ErrNoPendingBid = "no pending bid"
	// ErrBidPending is thrown when a listing already holds an escrowed bid.
	ErrBidPending = "bid already pending"
	// ErrInsufficientBalance is thrown when an account holds less than requested.
	ErrInsufficientBalance = "insufficient balance"
	// ErrInsufficientAllowance is thrown when a spender exceeds its allowance.
	ErrInsufficientAllowance = "insufficient allowance"
	// ErrInsufficientBidAmount is thrown when the attached GAS is below the listing total.
	ErrInsufficientBidAmount = "insufficient bid amount"
	// ErrInvalidPayment is thrown for payments with unexpected token or data.
	ErrInvalidPayment = "invalid payment"
	// ErrRefundFailed is thrown when escrowed GAS cannot be returned to the bidder.
	ErrRefundFailed = "refund failed"
	// ErrEnergyTransferFailed is thrown when Token contract rejects settlement transfer.
	ErrEnergyTransferFailed = "energy transfer failed"
	// ErrPaymentReleaseFailed is thrown when escrowed GAS cannot be paid to the seller.
	ErrPaymentReleaseFailed = "payment release failed"
)

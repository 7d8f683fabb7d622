package market

import (
	"fmt"
)

// AllListings reads every listing through the iterator session, at most
// batch listings per request. The session is terminated on return. It
// requires server-side sessions, see ListListingsExpanded otherwise.
func (c *ContractReader) AllListings(batch int) ([]*MarketListing, error) {
	sess, iter, err := c.ListListings()
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.invoker.TerminateSession(sess) }()

	var res []*MarketListing
	for {
		items, err := c.invoker.TraverseIterator(sess, &iter, batch)
		if err != nil {
			return nil, fmt.Errorf("traverse listings: %w", err)
		}

		ls, err := ListingsFromItems(items)
		if err != nil {
			return nil, err
		}
		res = append(res, ls...)

		if len(items) < batch {
			return res, nil
		}
	}
}

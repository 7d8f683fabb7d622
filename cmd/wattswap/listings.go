package main

import (
	"errors"
	"fmt"
	"math/big"
	"text/tabwriter"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/spf13/cobra"
	"github.com/wattswap/wattswap-contract/rpc/market"
	"go.uber.org/zap"
)

const (
	// listingsBatch is a number of listings fetched per iterator session request.
	listingsBatch = 100
	// maxListingsExpanded is a number of listings fetched by a single
	// iterator-expanding call when the node has sessions disabled.
	maxListingsExpanded = 1000
)

func init() {
	rootCmd.AddCommand(listingsCmd)
	rootCmd.AddCommand(listingCmd)
	listingCmd.AddCommand(listingCreateCmd)
	listingCmd.AddCommand(listingShowCmd)
	listingCmd.AddCommand(listingBidCmd)
	listingCmd.AddCommand(listingBuyCmd)
	listingCmd.AddCommand(listingAcceptCmd)
	listingCmd.AddCommand(listingCancelBidCmd)

	listingsCmd.Flags().Bool("active", false, "Show only active listings")

	listingCreateCmd.Flags().String("energy", "", "Amount of energy in ENRG base units")
	listingCreateCmd.Flags().String("price", "", "Price per energy unit in GAS base units")
	_ = listingCreateCmd.MarkFlagRequired("energy")
	_ = listingCreateCmd.MarkFlagRequired("price")

	listingBidCmd.Flags().String("amount", "", "Bid in GAS, listing total by default")
}

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "List energy listings",
	Args:  cobra.NoArgs,
	RunE:  runListings,
}

func runListings(cmd *cobra.Command, _ []string) error {
	activeOnly, _ := cmd.Flags().GetBool("active")

	return withBlockchain(cmd, func(b *remoteBlockchain) error {
		ls, err := b.allListings()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSELLER\tENERGY\tPRICE\tTOTAL GAS\tACTIVE")
		for _, l := range ls {
			if activeOnly && !l.IsActive {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n", l.ID, address.Uint160ToString(l.Seller),
				l.EnergyAmount, l.PricePerUnit, fixedn.ToString(l.TotalPrice(), 8), l.IsActive)
		}
		return w.Flush()
	})
}

var listingCmd = &cobra.Command{
	Use:   "listing",
	Short: "Trade on a single energy listing",
}

var listingCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Offer ENRG of the configured account for sale",
	Args:  cobra.NoArgs,
	RunE:  runListingCreate,
}

func runListingCreate(cmd *cobra.Command, _ []string) error {
	energy, err := bigIntFlag(cmd, "energy")
	if err != nil {
		return err
	}
	price, err := bigIntFlag(cmd, "price")
	if err != nil {
		return err
	}

	return withBlockchain(cmd, func(b *remoteBlockchain) error {
		m, err := b.market()
		if err != nil {
			return err
		}

		aer, err := b.await(m.CreateListing(b.sender(), energy, price))
		if err != nil {
			return fmt.Errorf("create listing: %w", err)
		}

		evs, err := market.ListingCreatedEventsFromApplicationLog(applicationLog(aer))
		if err != nil || len(evs) == 0 {
			return errors.New("listing created, but no ListingCreated event found")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "listing %s created\n", evs[0].ID)
		return nil
	})
}

var listingShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show listing and its pending bid",
	Args:  cobra.ExactArgs(1),
	RunE:  runListingShow,
}

func runListingShow(cmd *cobra.Command, args []string) error {
	id, err := parseListingID(args[0])
	if err != nil {
		return err
	}

	return withBlockchain(cmd, func(b *remoteBlockchain) error {
		m, err := b.market()
		if err != nil {
			return err
		}

		l, err := m.GetListing(id)
		if err != nil {
			return fmt.Errorf("get listing: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "id:       %s\nseller:   %s\nenergy:   %s\nprice:    %s\ntotal:    %s GAS\nactive:   %t\n",
			l.ID, address.Uint160ToString(l.Seller), l.EnergyAmount, l.PricePerUnit,
			fixedn.ToString(l.TotalPrice(), 8), l.IsActive)

		pending, err := m.HasPendingBid(id)
		if err != nil {
			return fmt.Errorf("check pending bid: %w", err)
		}
		if !pending {
			return nil
		}

		bid, err := m.GetBid(id)
		if err != nil {
			return fmt.Errorf("get bid: %w", err)
		}

		fmt.Fprintf(out, "bidder:   %s\nbid:      %s GAS\n",
			address.Uint160ToString(bid.Buyer), fixedn.ToString(bid.Amount, 8))
		return nil
	})
}

var listingBidCmd = &cobra.Command{
	Use:   "bid ID",
	Short: "Escrow GAS as a bid on the listing",
	Args:  cobra.ExactArgs(1),
	RunE:  runListingBid,
}

func runListingBid(cmd *cobra.Command, args []string) error {
	id, err := parseListingID(args[0])
	if err != nil {
		return err
	}
	amountStr, _ := cmd.Flags().GetString("amount")

	return withBlockchain(cmd, func(b *remoteBlockchain) error {
		var amount *big.Int
		if amountStr != "" {
			amount, err = fixedn.FromString(amountStr, 8)
			if err != nil {
				return fmt.Errorf("parse bid amount: %w", err)
			}
		} else {
			l, err := b.listing(id)
			if err != nil {
				return err
			}
			amount = l.TotalPrice()
		}

		p, err := b.payer()
		if err != nil {
			return err
		}

		if _, err = b.await(p.PlaceBid(b.sender(), id, amount)); err != nil {
			return fmt.Errorf("place bid: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "bid of %s GAS placed on listing %s\n", fixedn.ToString(amount, 8), id)
		return nil
	})
}

var listingBuyCmd = &cobra.Command{
	Use:   "buy ID",
	Short: "Buy the listing paying its total price in GAS",
	Args:  cobra.ExactArgs(1),
	RunE:  runListingBuy,
}

func runListingBuy(cmd *cobra.Command, args []string) error {
	id, err := parseListingID(args[0])
	if err != nil {
		return err
	}

	return withBlockchain(cmd, func(b *remoteBlockchain) error {
		l, err := b.listing(id)
		if err != nil {
			return err
		}
		if !l.IsActive {
			return fmt.Errorf("listing %s is not active", id)
		}

		p, err := b.payer()
		if err != nil {
			return err
		}

		total := l.TotalPrice()
		aer, err := b.await(p.Purchase(b.sender(), id, total))
		if err != nil {
			return fmt.Errorf("purchase: %w", err)
		}

		printTrade(cmd, aer)
		return nil
	})
}

var listingAcceptCmd = &cobra.Command{
	Use:   "accept ID",
	Short: "Accept pending bid on the listing of the configured account",
	Args:  cobra.ExactArgs(1),
	RunE:  runListingAccept,
}

func runListingAccept(cmd *cobra.Command, args []string) error {
	id, err := parseListingID(args[0])
	if err != nil {
		return err
	}

	return withBlockchain(cmd, func(b *remoteBlockchain) error {
		m, err := b.market()
		if err != nil {
			return err
		}

		aer, err := b.await(m.AcceptBid(b.sender(), id))
		if err != nil {
			return fmt.Errorf("accept bid: %w", err)
		}

		printTrade(cmd, aer)
		return nil
	})
}

var listingCancelBidCmd = &cobra.Command{
	Use:   "cancel-bid ID",
	Short: "Cancel pending bid on the listing and refund the bidder",
	Args:  cobra.ExactArgs(1),
	RunE:  runListingCancelBid,
}

func runListingCancelBid(cmd *cobra.Command, args []string) error {
	id, err := parseListingID(args[0])
	if err != nil {
		return err
	}

	return withBlockchain(cmd, func(b *remoteBlockchain) error {
		m, err := b.market()
		if err != nil {
			return err
		}

		if _, err = b.await(m.CancelBid(b.sender(), id)); err != nil {
			return fmt.Errorf("cancel bid: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "bid on listing %s cancelled\n", id)
		return nil
	})
}

// allListings reads listings through the iterator session and falls back to
// in-VM iterator expansion if the node does not support sessions.
func (x *remoteBlockchain) allListings() ([]*market.MarketListing, error) {
	m, err := x.market()
	if err != nil {
		return nil, err
	}

	ls, err := m.AllListings(listingsBatch)
	if err == nil {
		return ls, nil
	}

	x.log.Debug("iterator session failed, expanding listings in VM", zap.Error(err))

	items, err := m.ListListingsExpanded(maxListingsExpanded)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	if len(items) == maxListingsExpanded {
		x.log.Warn("listings are truncated, enable RPC sessions on the node to read all of them",
			zap.Int("shown", len(items)))
	}

	return market.ListingsFromItems(items)
}

func (x *remoteBlockchain) listing(id *big.Int) (*market.MarketListing, error) {
	m, err := x.market()
	if err != nil {
		return nil, err
	}

	l, err := m.GetListing(id)
	if err != nil {
		return nil, fmt.Errorf("get listing %s: %w", id, err)
	}
	return l, nil
}

func printTrade(cmd *cobra.Command, aer *state.AppExecResult) {
	evs, err := market.TradeSettledEventsFromApplicationLog(applicationLog(aer))
	if err != nil || len(evs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "trade settled")
		return
	}

	ev := evs[0]
	fmt.Fprintf(cmd.OutOrStdout(), "listing %s settled: %s ENRG units from %s to %s for %s GAS\n",
		ev.ListingID, ev.EnergyAmount, address.Uint160ToString(ev.Seller),
		address.Uint160ToString(ev.Buyer), fixedn.ToString(ev.Payment, 8))
}

// applicationLog wraps execution result of the single transaction.
func applicationLog(aer *state.AppExecResult) *result.ApplicationLog {
	return &result.ApplicationLog{
		Container:     aer.Container,
		IsTransaction: true,
		Executions:    []state.Execution{aer.Execution},
	}
}

func parseListingID(s string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(s, 10)
	if !ok || id.Sign() <= 0 {
		return nil, fmt.Errorf("invalid listing ID %q", s)
	}
	return id, nil
}

func bigIntFlag(cmd *cobra.Command, name string) (*big.Int, error) {
	s, _ := cmd.Flags().GetString(name)

	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() <= 0 {
		return nil, fmt.Errorf("invalid --%s value %q", name, s)
	}
	return v, nil
}

// Package metrics exposes Prometheus metrics of the marketplace activity
// collected from Market contract notifications.
package metrics

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wattswap/wattswap-contract/rpc/market"
)

const namespace = "wattswap"

// ErrUnknownEvent is returned by Market.Handle for notifications Market
// contract does not declare.
var ErrUnknownEvent = errors.New("unknown market event")

// Market tracks listings, bids and settled trades.
type Market struct {
	reg *prometheus.Registry

	// listing IDs with bids seen since start
	pending map[string]struct{}

	listings      prometheus.Counter
	bids          prometheus.Counter
	cancelledBids prometheus.Counter
	trades        prometheus.Counter
	energyTraded  prometheus.Counter
	gasVolume     prometheus.Counter
	pendingBids   prometheus.Gauge
	lastListingID prometheus.Gauge
}

// NewMarket creates Market metrics registered in their own registry.
func NewMarket() *Market {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Market{
		reg:     reg,
		pending: make(map[string]struct{}),
		listings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_created_total",
			Help:      "Number of created energy listings.",
		}),
		bids: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_placed_total",
			Help:      "Number of placed bids.",
		}),
		cancelledBids: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_cancelled_total",
			Help:      "Number of cancelled bids.",
		}),
		trades: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_settled_total",
			Help:      "Number of settled trades.",
		}),
		energyTraded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "energy_traded_total",
			Help:      "Amount of traded ENRG in base units.",
		}),
		gasVolume: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gas_volume_total",
			Help:      "Amount of GAS paid to sellers in base units.",
		}),
		pendingBids: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_bids",
			Help:      "Number of pending bids placed since start.",
		}),
		lastListingID: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_listing_id",
			Help:      "ID of the latest created listing.",
		}),
	}
}

// Handler returns HTTP handler serving collected metrics.
func (m *Market) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Handle accounts Market contract notification. Handle is not safe for
// concurrent use.
func (m *Market) Handle(ev *state.ContainedNotificationEvent) error {
	switch ev.Name {
	case "ListingCreated":
		var e market.ListingCreatedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return fmt.Errorf("decode %s: %w", ev.Name, err)
		}
		m.listings.Inc()
		m.lastListingID.Set(toFloat(e.ID))
	case "BidPlaced":
		var e market.BidPlacedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return fmt.Errorf("decode %s: %w", ev.Name, err)
		}
		m.bids.Inc()
		m.pending[e.ListingID.String()] = struct{}{}
	case "BidCancelled":
		var e market.BidCancelledEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return fmt.Errorf("decode %s: %w", ev.Name, err)
		}
		m.cancelledBids.Inc()
		delete(m.pending, e.ListingID.String())
	case "TradeSettled":
		var e market.TradeSettledEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return fmt.Errorf("decode %s: %w", ev.Name, err)
		}
		m.trades.Inc()
		m.energyTraded.Add(toFloat(e.EnergyAmount))
		m.gasVolume.Add(toFloat(e.Payment))
		delete(m.pending, e.ListingID.String())
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Name)
	}

	m.pendingBids.Set(float64(len(m.pending)))

	return nil
}

func toFloat(v *big.Int) float64 {
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}

// Package bondingcurve prices token trades on an exponential bonding curve.
//
// price(p) = initialPrice * e^(k*p), where p = circulating / total supply.
// Trades are priced by left-point integration over a fixed number of equal slices.
package bondingcurve

import (
	"errors"
	"math"
)

const (
	// DefaultK is the default curve steepness.
	DefaultK = 4.0

	// DefaultSlices is the number of integration slices per trade.
	DefaultSlices = 100
)

var (
	// ErrInvalidSupply is returned when total supply is not positive.
	ErrInvalidSupply = errors.New("total supply must be positive")

	// ErrInvalidInvestment is returned when initial investment is not positive.
	ErrInvalidInvestment = errors.New("initial investment must be positive")

	// ErrTargetUnreachable is returned when buying the entire supply costs less than the target.
	ErrTargetUnreachable = errors.New("target cost exceeds cost of entire supply")
)

// Curve holds the immutable parameters of one token's bonding curve.
type Curve struct {
	InitialInvestment float64
	TotalSupply       float64
	K                 float64
	Slices            int
}

// New creates a Curve. Non-positive slices fall back to DefaultSlices.
func New(initialInvestment, totalSupply, k float64, slices int) (Curve, error) {
	if totalSupply <= 0 {
		return Curve{}, ErrInvalidSupply
	}
	if initialInvestment <= 0 {
		return Curve{}, ErrInvalidInvestment
	}
	if slices <= 0 {
		slices = DefaultSlices
	}
	return Curve{
		InitialInvestment: initialInvestment,
		TotalSupply:       totalSupply,
		K:                 k,
		Slices:            slices,
	}, nil
}

// InitialPrice returns initialInvestment / totalSupply.
func (c Curve) InitialPrice() float64 {
	return c.InitialInvestment / c.TotalSupply
}

// PriceAtProgress returns the price at progress p, clamped to [0,1].
func (c Curve) PriceAtProgress(p float64) float64 {
	return PriceAtProgress(c.InitialPrice(), c.K, p)
}

// PriceAtSupply returns the price when supply tokens circulate.
func (c Curve) PriceAtSupply(supply float64) float64 {
	return c.PriceAtProgress(supply / c.TotalSupply)
}

// PriceAtProgress returns initialPrice * e^(k*p) with p clamped to [0,1].
func PriceAtProgress(initialPrice, k, p float64) float64 {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return initialPrice * math.Exp(k*p)
}

// Trade is the priced result of a buy or sell.
type Trade struct {
	Amount       float64 // tokens moved (sells are clamped to circulating supply)
	Total        float64 // cost of a buy, proceeds of a sell
	AveragePrice float64 // Total / Amount, or the old price for an empty trade
	OldPrice     float64
	NewPrice     float64
	OldSupply    float64
	NewSupply    float64
	NewProgress  float64
	NewMarketCap float64
}

// Buy prices buying amount tokens with circulating tokens already issued.
// Callers reject buys exceeding the remaining supply before calling.
func (c Curve) Buy(circulating, amount float64) Trade {
	if amount <= 0 {
		return c.emptyTrade(circulating)
	}
	total := c.integrate(circulating, amount)
	return c.result(circulating, circulating+amount, amount, total)
}

// Sell prices selling amount tokens back to the curve.
// The amount is clamped to circulating so supply never drops below zero.
// Each slice is priced at the supply level it leaves behind, which makes an
// immediate round trip return exactly what the buy cost and never more.
func (c Curve) Sell(circulating, amount float64) Trade {
	if amount > circulating {
		amount = circulating
	}
	if amount <= 0 {
		return c.emptyTrade(circulating)
	}
	lower := circulating - amount
	total := c.integrate(lower, amount)
	return c.result(circulating, lower, amount, total)
}

// integrate sums left-point prices over [lower, lower+amount] in c.Slices equal slices.
func (c Curve) integrate(lower, amount float64) float64 {
	slices := c.Slices
	if slices <= 0 {
		slices = DefaultSlices
	}
	step := amount / float64(slices)
	var total float64
	for i := 0; i < slices; i++ {
		supply := lower + float64(i)*step
		total += c.PriceAtSupply(supply) * step
	}
	return total
}

func (c Curve) result(oldSupply, newSupply, amount, total float64) Trade {
	newPrice := c.PriceAtSupply(newSupply)
	progress := newSupply / c.TotalSupply
	if progress > 1 {
		progress = 1
	}
	if progress < 0 {
		progress = 0
	}
	return Trade{
		Amount:       amount,
		Total:        total,
		AveragePrice: total / amount,
		OldPrice:     c.PriceAtSupply(oldSupply),
		NewPrice:     newPrice,
		OldSupply:    oldSupply,
		NewSupply:    newSupply,
		NewProgress:  progress,
		NewMarketCap: newPrice * newSupply,
	}
}

func (c Curve) emptyTrade(circulating float64) Trade {
	price := c.PriceAtSupply(circulating)
	return Trade{
		AveragePrice: price,
		OldPrice:     price,
		NewPrice:     price,
		OldSupply:    circulating,
		NewSupply:    circulating,
		NewProgress:  circulating / c.TotalSupply,
		NewMarketCap: price * circulating,
	}
}

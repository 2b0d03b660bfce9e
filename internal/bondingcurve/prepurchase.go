package bondingcurve

// MinimumPrePurchase returns the smallest whole token count in [1, totalSupply]
// whose buy cost from zero circulating supply is >= targetCost.
func MinimumPrePurchase(targetCost, initialPrice, totalSupply, k float64) (int64, error) {
	if totalSupply < 1 {
		return 0, ErrInvalidSupply
	}
	c, err := New(initialPrice*totalSupply, totalSupply, k, DefaultSlices)
	if err != nil {
		return 0, err
	}

	lo, hi := int64(1), int64(totalSupply)
	if c.Buy(0, float64(hi)).Total < targetCost {
		return 0, ErrTargetUnreachable
	}

	// cost is monotonic in amount, so the predicate cost >= target flips exactly once
	for lo < hi {
		mid := lo + (hi-lo)/2
		if c.Buy(0, float64(mid)).Total >= targetCost {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, nil
}

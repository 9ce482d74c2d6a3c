package showroom3d

import "math"

// ResolvePrice prices one option against the current selections.
//
// The base price is the matrix diagonal rules[v][v], defaulting to 0
// when no rule exists. Then every group is walked in canonical order
// (chapters first, groups within a chapter in order) and whenever the
// group's selected value keys an override in rules[v], that override
// replaces the running price. Walking in canonical order means the
// override belonging to the latest selected dependency wins,
// independent of map iteration order.
func (c *Config) ResolvePrice(optionValue string, sel *Selections) float64 {
	rules := c.PricingRules[optionValue]
	price := rules[optionValue] // zero value when absent, never an error
	for _, ch := range c.Chapters {
		for _, g := range ch.Groups {
			chosen := sel.Get(g.ID)
			if chosen == "" {
				continue
			}
			if override, ok := rules[chosen]; ok {
				price = override
			}
		}
	}
	return price
}

// GroupBaseline is the cheapest resolved price among the group's
// current options; the UI renders each option's delta against it.
// An unknown or empty group baselines at 0.
func (c *Config) GroupBaseline(groupID string, sel *Selections) float64 {
	g := c.Group(groupID)
	if g == nil || len(g.Options) == 0 {
		return 0
	}
	min := math.Inf(1)
	for _, o := range g.Options {
		if p := c.ResolvePrice(o.Value, sel); p < min {
			min = p
		}
	}
	return min
}

// PriceDelta is the "+N" figure shown next to an option: its resolved
// price minus the group baseline. The cheapest option in a group
// deltas at 0 ("Included").
func (c *Config) PriceDelta(groupID, optionValue string, sel *Selections) float64 {
	return c.ResolvePrice(optionValue, sel) - c.GroupBaseline(groupID, sel)
}

// TotalPrice sums the resolved price of every group's selected option.
func (c *Config) TotalPrice(sel *Selections) float64 {
	total := 0.0
	for _, ch := range c.Chapters {
		for _, g := range ch.Groups {
			chosen := sel.Get(g.ID)
			if chosen == "" {
				continue
			}
			total += c.ResolvePrice(chosen, sel)
		}
	}
	return total
}

package analysis

import (
	"cmp"
	"math"
	"slices"

	roaring "github.com/RoaringBitmap/roaring/roaring64"

	"github.com/salesinsight/salesinsight/internal/sales"
)

// PeriodSales is revenue for one (year, month).
type PeriodSales struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

// SeasonalityResult holds monthly revenue in chronological order.
type SeasonalityResult struct {
	Months []PeriodSales `json:"months"`
}

// Ranked returns the months sorted by revenue descending.
func (r SeasonalityResult) Ranked() []PeriodSales {
	out := slices.Clone(r.Months)
	slices.SortStableFunc(out, func(a, b PeriodSales) int {
		return cmp.Compare(b.Revenue, a.Revenue)
	})
	return out
}

// Seasonality sums revenue of details joined to orders per (year, month).
func Seasonality(ds *sales.Dataset) SeasonalityResult {
	groups := make(map[sales.YearMonth]float64)
	for i := range ds.Details {
		d := &ds.Details[i]
		o, ok := ds.OrderByID(d.OrderID)
		if !ok {
			continue
		}
		groups[sales.YearMonthOf(o.Date)] += d.TotalSale
	}
	var res SeasonalityResult
	for _, ym := range sortedMonths(groups) {
		res.Months = append(res.Months, PeriodSales{Year: ym.Year, Month: int(ym.Month), Revenue: groups[ym]})
	}
	return res
}

func sortedMonths[V any](m map[sales.YearMonth]V) []sales.YearMonth {
	out := make([]sales.YearMonth, 0, len(m))
	for ym := range m {
		out = append(out, ym)
	}
	slices.SortFunc(out, compareMonths)
	return out
}

// MonthlyMetrics are the per-month figures of the temporal analysis, rounded to 2 places.
type MonthlyMetrics struct {
	Month     sales.YearMonth `json:"month"`
	Revenue   float64         `json:"revenue"`
	MeanSale  float64         `json:"mean_sale"`
	Orders    int             `json:"orders"`
	Customers int             `json:"customers"`
}

// Growth is the month-over-month revenue change in percent.
// The first month has no predecessor and carries NaN.
type Growth struct {
	Month   sales.YearMonth `json:"month"`
	Percent float64         `json:"percent"`
}

// TemporalPatternsResult holds chronological monthly metrics and a
// month by category revenue matrix with zero fill.
type TemporalPatternsResult struct {
	Months     []MonthlyMetrics `json:"months"`
	Categories []string         `json:"categories"`
	Matrix     [][]float64      `json:"matrix"`
}

// TopMonths returns the n months with the highest revenue.
func (r TemporalPatternsResult) TopMonths(n int) []MonthlyMetrics {
	out := slices.Clone(r.Months)
	slices.SortStableFunc(out, func(a, b MonthlyMetrics) int {
		return cmp.Compare(b.Revenue, a.Revenue)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Growth returns the month-over-month revenue growth for every month.
func (r TemporalPatternsResult) Growth() []Growth {
	out := make([]Growth, len(r.Months))
	for i, m := range r.Months {
		out[i] = Growth{Month: m.Month, Percent: math.NaN()}
		if i > 0 {
			prev := r.Months[i-1].Revenue
			out[i].Percent = (m.Revenue - prev) / prev * 100
		}
	}
	return out
}

// RecentGrowth returns the growth of the last n months.
func (r TemporalPatternsResult) RecentGrowth(n int) []Growth {
	g := r.Growth()
	if len(g) > n {
		g = g[len(g)-n:]
	}
	return g
}

// TemporalPatterns aggregates details joined to orders, products and categories by month.
func TemporalPatterns(ds *sales.Dataset) TemporalPatternsResult {
	type acc struct {
		revenue   float64
		lines     int
		orders    *roaring.Bitmap
		customers *roaring.Bitmap
		category  map[string]float64
	}
	groups := make(map[sales.YearMonth]*acc)
	categories := make(map[string]struct{})

	for _, j := range ds.Join() {
		if j.Order == nil || j.Product == nil || j.Category == nil {
			continue
		}
		ym := sales.YearMonthOf(j.Order.Date)
		a, ok := groups[ym]
		if !ok {
			a = &acc{orders: roaring.New(), customers: roaring.New(), category: make(map[string]float64)}
			groups[ym] = a
		}
		a.revenue += j.Detail.TotalSale
		a.lines++
		a.orders.Add(uint64(j.Detail.OrderID))
		if seq, ok := ds.CustomerSeq(j.Order.CustomerID); ok {
			a.customers.Add(uint64(seq))
		}
		a.category[j.Category.Name] += j.Detail.TotalSale
		categories[j.Category.Name] = struct{}{}
	}

	res := TemporalPatternsResult{Categories: sortedKeys(categories)}
	for _, ym := range sortedMonths(groups) {
		a := groups[ym]
		res.Months = append(res.Months, MonthlyMetrics{
			Month:     ym,
			Revenue:   Round(a.revenue, 2),
			MeanSale:  Round(mean(a.revenue, a.lines), 2),
			Orders:    int(a.orders.GetCardinality()),
			Customers: int(a.customers.GetCardinality()),
		})
		row := make([]float64, len(res.Categories))
		for i, c := range res.Categories {
			row[i] = a.category[c]
		}
		res.Matrix = append(res.Matrix, row)
	}
	return res
}

// CategoryMonth is one category's figures for a calendar month, rounded to 2 places.
type CategoryMonth struct {
	Category     string  `json:"category"`
	Month        int     `json:"month"`
	Revenue      float64 `json:"revenue"`
	Quantity     int64   `json:"quantity"`
	MeanDiscount float64 `json:"mean_discount"`
}

// CategoryDiscount is a category's mean discount alongside its totals, rounded to 2 places.
type CategoryDiscount struct {
	Category     string  `json:"category"`
	MeanDiscount float64 `json:"mean_discount"`
	Revenue      float64 `json:"revenue"`
	Quantity     int64   `json:"quantity"`
}

// CategorySeasonalityResult holds every (category, month) cell, each
// category's best month and the discount impact per category.
type CategorySeasonalityResult struct {
	Months    []CategoryMonth    `json:"months"`
	Best      []CategoryMonth    `json:"best"`
	Discounts []CategoryDiscount `json:"discounts"`
}

// CategorySeasonality finds each category's strongest calendar month.
// Categories are reported in the order they first appear in the details.
func CategorySeasonality(ds *sales.Dataset) CategorySeasonalityResult {
	type acc struct {
		salesSum
		discount float64
		lines    int
	}
	type cell struct {
		category string
		month    int
	}
	cells := make(map[cell]*acc)
	perCategory := make(map[string]*acc)
	var seen []string

	for _, j := range ds.Join() {
		if j.Order == nil || j.Product == nil || j.Category == nil {
			continue
		}
		name := j.Category.Name
		k := cell{name, int(j.Order.Date.Month())}
		c, ok := cells[k]
		if !ok {
			c = &acc{}
			cells[k] = c
		}
		c.add(j.Detail)
		c.discount += j.Detail.Discount
		c.lines++

		p, ok := perCategory[name]
		if !ok {
			p = &acc{}
			perCategory[name] = p
			seen = append(seen, name)
		}
		p.add(j.Detail)
		p.discount += j.Detail.Discount
		p.lines++
	}

	keys := make([]cell, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b cell) int {
		if c := cmp.Compare(a.category, b.category); c != 0 {
			return c
		}
		return cmp.Compare(a.month, b.month)
	})

	var res CategorySeasonalityResult
	byCategory := make(map[string][]CategoryMonth)
	for _, k := range keys {
		c := cells[k]
		cm := CategoryMonth{
			Category:     k.category,
			Month:        k.month,
			Revenue:      Round(c.revenue, 2),
			Quantity:     c.quantity,
			MeanDiscount: Round(mean(c.discount, c.lines), 2),
		}
		res.Months = append(res.Months, cm)
		byCategory[k.category] = append(byCategory[k.category], cm)
	}

	for _, name := range seen {
		months := byCategory[name]
		if len(months) == 0 {
			continue
		}
		best := months[0]
		for _, m := range months[1:] {
			if m.Revenue > best.Revenue {
				best = m
			}
		}
		res.Best = append(res.Best, best)
	}

	for _, name := range sortedKeys(perCategory) {
		p := perCategory[name]
		res.Discounts = append(res.Discounts, CategoryDiscount{
			Category:     name,
			MeanDiscount: Round(mean(p.discount, p.lines), 2),
			Revenue:      Round(p.revenue, 2),
			Quantity:     p.quantity,
		})
	}
	byRevenue(res.Discounts,
		func(c CategoryDiscount) float64 { return c.Revenue },
		func(c CategoryDiscount) string { return c.Category })
	return res
}

// Package analysis computes the descriptive sales analyses over a sales.Dataset.
// Every function is pure: it reads the dataset and returns a result value.
package analysis

import (
	"cmp"
	"math"
	"slices"
	"time"

	roaring "github.com/RoaringBitmap/roaring/roaring64"

	"github.com/salesinsight/salesinsight/internal/sales"
)

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// mean returns sum/n, or NaN when n is zero.
func mean(sum float64, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// byRevenue orders descending by revenue, then ascending by key.
func byRevenue[T any](items []T, revenue func(T) float64, key func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		if c := cmp.Compare(revenue(b), revenue(a)); c != 0 {
			return c
		}
		return cmp.Compare(key(a), key(b))
	})
}

// sortedKeys returns the map keys in ascending order.
func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// NamedSales is revenue and quantity for one label.
type NamedSales struct {
	Name     string  `json:"name"`
	Revenue  float64 `json:"revenue"`
	Quantity int64   `json:"quantity"`
}

// DiscountSales is revenue and quantity for one discount value.
type DiscountSales struct {
	Discount float64 `json:"discount"`
	Revenue  float64 `json:"revenue"`
	Quantity int64   `json:"quantity"`
}

type salesSum struct {
	revenue  float64
	quantity int64
}

func (s *salesSum) add(d *sales.OrderDetail) {
	s.revenue += d.TotalSale
	s.quantity += d.Quantity
}

// discountBreakdown groups details by discount value, sorted by revenue descending.
func discountBreakdown(details []*sales.OrderDetail) []DiscountSales {
	groups := make(map[float64]*salesSum)
	for _, d := range details {
		s, ok := groups[d.Discount]
		if !ok {
			s = &salesSum{}
			groups[d.Discount] = s
		}
		s.add(d)
	}
	out := make([]DiscountSales, 0, len(groups))
	for _, k := range sortedKeys(groups) {
		out = append(out, DiscountSales{Discount: k, Revenue: groups[k].revenue, Quantity: groups[k].quantity})
	}
	slices.SortStableFunc(out, func(a, b DiscountSales) int {
		return cmp.Compare(b.Revenue, a.Revenue)
	})
	return out
}

func allDetails(ds *sales.Dataset) []*sales.OrderDetail {
	out := make([]*sales.OrderDetail, len(ds.Details))
	for i := range ds.Details {
		out[i] = &ds.Details[i]
	}
	return out
}

// customerStat is the per-customer order history.
type customerStat struct {
	ID     string
	Orders int
	Unique *roaring.Bitmap
	First  time.Time
	Last   time.Time
}

// customerStats groups orders by customer, sorted by customer id. Orders
// without a customer id belong to no customer.
func customerStats(ds *sales.Dataset) []*customerStat {
	ids := ds.CustomerIDs()
	stats := make([]*customerStat, len(ids))
	for i := range ds.Orders {
		o := &ds.Orders[i]
		seq, ok := ds.CustomerSeq(o.CustomerID)
		if !ok {
			continue
		}
		cs := stats[seq]
		if cs == nil {
			cs = &customerStat{ID: ids[seq], Unique: roaring.New(), First: o.Date, Last: o.Date}
			stats[seq] = cs
		}
		cs.Orders++
		cs.Unique.Add(uint64(o.ID))
		if o.Date.Before(cs.First) {
			cs.First = o.Date
		}
		if o.Date.After(cs.Last) {
			cs.Last = o.Date
		}
	}
	slices.SortFunc(stats, func(a, b *customerStat) int { return cmp.Compare(a.ID, b.ID) })
	return stats
}

// daysSinceLast returns each customer's days since their last order, measured
// against the latest order date in the dataset.
func daysSinceLast(ds *sales.Dataset, stats []*customerStat) map[string]int {
	latest := ds.MaxOrderDate()
	out := make(map[string]int, len(stats))
	for _, cs := range stats {
		out[cs.ID] = sales.DaysBetween(cs.Last, latest)
	}
	return out
}

// orderTotals sums total_sale per order id over every detail row.
func orderTotals(ds *sales.Dataset) map[int64]float64 {
	totals := make(map[int64]float64)
	for i := range ds.Details {
		d := &ds.Details[i]
		totals[d.OrderID] += d.TotalSale
	}
	return totals
}

package analysis

import (
	roaring "github.com/RoaringBitmap/roaring/roaring64"

	"github.com/salesinsight/salesinsight/internal/sales"
)

// CountrySales is revenue per ship country. Lines counts joined detail rows;
// Orders counts distinct orders.
type CountrySales struct {
	Country string  `json:"country"`
	Revenue float64 `json:"revenue"`
	Lines   int     `json:"lines"`
	Orders  int     `json:"orders"`
}

// GeographicResult is sorted by revenue descending.
type GeographicResult struct {
	Countries []CountrySales `json:"countries"`
}

// GeographicDistribution groups details joined to orders by ship country.
// Orders without a country are left out.
func GeographicDistribution(ds *sales.Dataset) GeographicResult {
	type acc struct {
		revenue float64
		lines   int
		orders  *roaring.Bitmap
	}
	groups := make(map[string]*acc)
	for i := range ds.Details {
		d := &ds.Details[i]
		o, ok := ds.OrderByID(d.OrderID)
		if !ok || o.ShipCountry == "" {
			continue
		}
		a, ok := groups[o.ShipCountry]
		if !ok {
			a = &acc{orders: roaring.New()}
			groups[o.ShipCountry] = a
		}
		a.revenue += d.TotalSale
		a.lines++
		a.orders.Add(uint64(d.OrderID))
	}

	var res GeographicResult
	for _, c := range sortedKeys(groups) {
		a := groups[c]
		res.Countries = append(res.Countries, CountrySales{Country: c, Revenue: a.revenue, Lines: a.lines, Orders: int(a.orders.GetCardinality())})
	}
	byRevenue(res.Countries,
		func(c CountrySales) float64 { return c.Revenue },
		func(c CountrySales) string { return c.Country })
	return res
}

package analysis

import (
	"cmp"
	"slices"

	"github.com/salesinsight/salesinsight/internal/sales"
)

// ProductPair counts orders in which two products were bought together.
// First always belongs to the product with the lower id.
type ProductPair struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Count  int    `json:"count"`
}

// CrossSellingResult holds discount impact over all details and the
// co-purchase pairs sorted by count descending, then by names.
type CrossSellingResult struct {
	Discounts []DiscountSales `json:"discounts"`
	Pairs     []ProductPair   `json:"pairs"`
}

// CrossSelling pairs every two lines of the same order whose product ids
// satisfy x < y and counts each pair of product names.
func CrossSelling(ds *sales.Dataset) CrossSellingResult {
	res := CrossSellingResult{Discounts: discountBreakdown(allDetails(ds))}

	byOrder := make(map[int64][]*sales.OrderDetail)
	var orders []int64
	for i := range ds.Details {
		d := &ds.Details[i]
		if _, ok := byOrder[d.OrderID]; !ok {
			orders = append(orders, d.OrderID)
		}
		byOrder[d.OrderID] = append(byOrder[d.OrderID], d)
	}

	type key struct{ first, second string }
	counts := make(map[key]int)
	for _, id := range orders {
		lines := byOrder[id]
		for _, x := range lines {
			px, ok := ds.ProductByID(x.ProductID)
			if !ok {
				continue
			}
			for _, y := range lines {
				if x.ProductID >= y.ProductID {
					continue
				}
				py, ok := ds.ProductByID(y.ProductID)
				if !ok {
					continue
				}
				counts[key{px.Name, py.Name}]++
			}
		}
	}

	res.Pairs = make([]ProductPair, 0, len(counts))
	for k, n := range counts {
		res.Pairs = append(res.Pairs, ProductPair{First: k.first, Second: k.second, Count: n})
	}
	slices.SortFunc(res.Pairs, func(a, b ProductPair) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(a.First, b.First); c != 0 {
			return c
		}
		return cmp.Compare(a.Second, b.Second)
	})
	return res
}

package analysis

import (
	"cmp"
	"slices"

	roaring "github.com/RoaringBitmap/roaring/roaring64"

	"github.com/salesinsight/salesinsight/internal/sales"
)

// ProductSales is the revenue of one product within its category.
type ProductSales struct {
	Category string  `json:"category"`
	Product  string  `json:"product"`
	Revenue  float64 `json:"revenue"`
	Quantity int64   `json:"quantity"`
}

// SalesPerformanceResult holds product and category revenue, both sorted
// by revenue descending.
type SalesPerformanceResult struct {
	Products   []ProductSales `json:"products"`
	Categories []NamedSales   `json:"categories"`
}

// SalesPerformance groups details joined to products and categories by
// (category, product), then rolls the products up per category.
func SalesPerformance(ds *sales.Dataset) SalesPerformanceResult {
	type key struct{ category, product string }
	groups := make(map[key]*salesSum)
	var order []key
	for _, j := range ds.Join() {
		if j.Product == nil || j.Category == nil {
			continue
		}
		k := key{j.Category.Name, j.Product.Name}
		s, ok := groups[k]
		if !ok {
			s = &salesSum{}
			groups[k] = s
			order = append(order, k)
		}
		s.add(j.Detail)
	}

	res := SalesPerformanceResult{Products: make([]ProductSales, 0, len(order))}
	for _, k := range order {
		res.Products = append(res.Products, ProductSales{
			Category: k.category, Product: k.product,
			Revenue: groups[k].revenue, Quantity: groups[k].quantity,
		})
	}
	byRevenue(res.Products,
		func(p ProductSales) float64 { return p.Revenue },
		func(p ProductSales) string { return p.Category + "\x00" + p.Product })

	cats := make(map[string]*NamedSales)
	for _, p := range res.Products {
		c, ok := cats[p.Category]
		if !ok {
			c = &NamedSales{Name: p.Category}
			cats[p.Category] = c
		}
		c.Revenue += p.Revenue
		c.Quantity += p.Quantity
	}
	for _, name := range sortedKeys(cats) {
		res.Categories = append(res.Categories, *cats[name])
	}
	byRevenue(res.Categories, namedRevenue, namedKey)
	return res
}

func namedRevenue(n NamedSales) float64 { return n.Revenue }
func namedKey(n NamedSales) string      { return n.Name }

// StatusSales is revenue and quantity for one discontinued flag value.
type StatusSales struct {
	Discontinued int     `json:"discontinued"`
	Revenue      float64 `json:"revenue"`
	Quantity     int64   `json:"quantity"`
}

// ProductStatusResult holds sales per discontinued flag, ascending by flag.
type ProductStatusResult struct {
	Statuses []StatusSales `json:"statuses"`
}

// Status returns the entry for a flag value, if any detail carried it.
func (r ProductStatusResult) Status(discontinued int) (StatusSales, bool) {
	for _, s := range r.Statuses {
		if s.Discontinued == discontinued {
			return s, true
		}
	}
	return StatusSales{}, false
}

// ProductStatus groups details joined to products by the discontinued flag.
func ProductStatus(ds *sales.Dataset) ProductStatusResult {
	groups := make(map[int]*salesSum)
	for i := range ds.Details {
		d := &ds.Details[i]
		p, ok := ds.ProductByID(d.ProductID)
		if !ok {
			continue
		}
		s, ok := groups[p.Discontinued]
		if !ok {
			s = &salesSum{}
			groups[p.Discontinued] = s
		}
		s.add(d)
	}
	var res ProductStatusResult
	for _, flag := range sortedKeys(groups) {
		res.Statuses = append(res.Statuses, StatusSales{Discontinued: flag, Revenue: groups[flag].revenue, Quantity: groups[flag].quantity})
	}
	return res
}

// StatusMetrics are the headline figures for one product status.
type StatusMetrics struct {
	Products int     `json:"products"`
	Revenue  float64 `json:"revenue"`
	MeanSale float64 `json:"mean_sale"`
	Quantity int64   `json:"quantity"`
}

// CategoryProducts is category revenue with its distinct product count.
type CategoryProducts struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Quantity int64   `json:"quantity"`
	Products int     `json:"products"`
}

// MonthOrders is revenue and distinct orders for one calendar month.
type MonthOrders struct {
	Month   sales.YearMonth `json:"month"`
	Revenue float64         `json:"revenue"`
	Orders  int             `json:"orders"`
}

// StatusBreakdown is the full analysis of one product status.
type StatusBreakdown struct {
	Status       int                `json:"status"`
	Label        string             `json:"label"`
	Metrics      StatusMetrics      `json:"metrics"`
	TopProducts  []NamedSales       `json:"top_products"`
	Categories   []CategoryProducts `json:"categories"`
	RecentMonths []MonthOrders      `json:"recent_months"`
	Discounts    []DiscountSales    `json:"discounts"`
}

// ActiveVsInactiveResult compares active (0) and discontinued (1) products.
type ActiveVsInactiveResult struct {
	Active   StatusBreakdown `json:"active"`
	Inactive StatusBreakdown `json:"inactive"`
}

const (
	topStatusProducts = 5
	recentMonths      = 5
)

// ActiveVsInactive splits details joined to products, categories and orders
// by discontinued flag and profiles each half.
func ActiveVsInactive(ds *sales.Dataset) ActiveVsInactiveResult {
	var rows [2][]sales.Joined
	for _, j := range ds.Join() {
		if j.Product == nil || j.Category == nil || j.Order == nil {
			continue
		}
		if s := j.Product.Discontinued; s == 0 || s == 1 {
			rows[s] = append(rows[s], j)
		}
	}
	return ActiveVsInactiveResult{
		Active:   statusBreakdown(0, "ATIVOS", rows[0]),
		Inactive: statusBreakdown(1, "INATIVOS", rows[1]),
	}
}

func statusBreakdown(status int, label string, rows []sales.Joined) StatusBreakdown {
	b := StatusBreakdown{Status: status, Label: label}

	products := roaring.New()
	details := make([]*sales.OrderDetail, len(rows))
	byProduct := make(map[string]*salesSum)
	type catAcc struct {
		salesSum
		products *roaring.Bitmap
	}
	byCategory := make(map[string]*catAcc)
	type monthAcc struct {
		revenue float64
		orders  *roaring.Bitmap
	}
	byMonth := make(map[sales.YearMonth]*monthAcc)

	for i, j := range rows {
		d := j.Detail
		details[i] = d
		products.Add(uint64(d.ProductID))
		b.Metrics.Revenue += d.TotalSale
		b.Metrics.Quantity += d.Quantity

		p, ok := byProduct[j.Product.Name]
		if !ok {
			p = &salesSum{}
			byProduct[j.Product.Name] = p
		}
		p.add(d)

		c, ok := byCategory[j.Category.Name]
		if !ok {
			c = &catAcc{products: roaring.New()}
			byCategory[j.Category.Name] = c
		}
		c.add(d)
		c.products.Add(uint64(d.ProductID))

		ym := sales.YearMonthOf(j.Order.Date)
		m, ok := byMonth[ym]
		if !ok {
			m = &monthAcc{orders: roaring.New()}
			byMonth[ym] = m
		}
		m.revenue += d.TotalSale
		m.orders.Add(uint64(d.OrderID))
	}
	b.Metrics.Products = int(products.GetCardinality())
	b.Metrics.MeanSale = mean(b.Metrics.Revenue, len(rows))

	for _, name := range sortedKeys(byProduct) {
		b.TopProducts = append(b.TopProducts, NamedSales{Name: name, Revenue: byProduct[name].revenue, Quantity: byProduct[name].quantity})
	}
	byRevenue(b.TopProducts, namedRevenue, namedKey)
	if len(b.TopProducts) > topStatusProducts {
		b.TopProducts = b.TopProducts[:topStatusProducts]
	}

	for _, name := range sortedKeys(byCategory) {
		c := byCategory[name]
		b.Categories = append(b.Categories, CategoryProducts{
			Category: name, Revenue: c.revenue, Quantity: c.quantity, Products: int(c.products.GetCardinality()),
		})
	}
	byRevenue(b.Categories,
		func(c CategoryProducts) float64 { return c.Revenue },
		func(c CategoryProducts) string { return c.Category })

	months := make([]sales.YearMonth, 0, len(byMonth))
	for ym := range byMonth {
		months = append(months, ym)
	}
	slices.SortFunc(months, compareMonths)
	if len(months) > recentMonths {
		months = months[len(months)-recentMonths:]
	}
	for _, ym := range months {
		b.RecentMonths = append(b.RecentMonths, MonthOrders{Month: ym, Revenue: byMonth[ym].revenue, Orders: int(byMonth[ym].orders.GetCardinality())})
	}

	b.Discounts = discountBreakdown(details)
	return b
}

func compareMonths(a, b sales.YearMonth) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	return cmp.Compare(a.Month, b.Month)
}

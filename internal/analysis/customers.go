package analysis

import (
	"cmp"
	"math"
	"slices"

	"github.com/salesinsight/salesinsight/internal/sales"
)

// SegmentCount is the number of customers in one frequency segment.
type SegmentCount struct {
	Label     string `json:"label"`
	Customers int    `json:"customers"`
}

// CustomerValue is a customer's total spend, rounded to 2 places.
type CustomerValue struct {
	CustomerID  string  `json:"customer_id"`
	CompanyName string  `json:"company_name"`
	Total       float64 `json:"total"`
}

// CustomerBehaviorResult profiles order frequency and spend.
type CustomerBehaviorResult struct {
	Customers  int             `json:"customers"`
	MeanOrders float64         `json:"mean_orders"`
	MaxOrders  int             `json:"max_orders"`
	Segments   []SegmentCount  `json:"segments"`
	TopSpend   []CustomerValue `json:"top_spend"`
}

// CustomerBehavior counts orders per customer and ranks customers by total spend.
// TopSpend holds every customer found in details joined to orders and customers.
func CustomerBehavior(ds *sales.Dataset) CustomerBehaviorResult {
	stats := customerStats(ds)
	res := CustomerBehaviorResult{Customers: len(stats), MeanOrders: math.NaN()}

	res.Segments = make([]SegmentCount, len(SegmentRanges))
	for i, r := range SegmentRanges {
		res.Segments[i].Label = r.Label
	}
	total := 0
	for _, cs := range stats {
		total += cs.Orders
		if cs.Orders > res.MaxOrders {
			res.MaxOrders = cs.Orders
		}
		if i := Classify(float64(cs.Orders), SegmentRanges); i >= 0 {
			res.Segments[i].Customers++
		}
	}
	if len(stats) > 0 {
		res.MeanOrders = Round(float64(total)/float64(len(stats)), 2)
	}

	spend := make(map[string]float64)
	for i := range ds.Details {
		d := &ds.Details[i]
		o, ok := ds.OrderByID(d.OrderID)
		if !ok {
			continue
		}
		if _, ok := ds.CustomerByID(o.CustomerID); !ok {
			continue
		}
		spend[o.CustomerID] += d.TotalSale
	}
	for _, id := range sortedKeys(spend) {
		c, _ := ds.CustomerByID(id)
		res.TopSpend = append(res.TopSpend, CustomerValue{CustomerID: id, CompanyName: c.CompanyName, Total: Round(spend[id], 2)})
	}
	byRevenue(res.TopSpend,
		func(c CustomerValue) float64 { return c.Total },
		func(c CustomerValue) string { return c.CustomerID })
	return res
}

// SegmentPattern summarises one frequency segment. Means are NaN for an empty segment.
type SegmentPattern struct {
	Label            string  `json:"label"`
	Customers        int     `json:"customers"`
	MeanOrders       float64 `json:"mean_orders"`
	MeanLifetimeDays float64 `json:"mean_lifetime_days"`
}

// CustomerPatternsResult holds segment patterns and the churned-customer summary.
type CustomerPatternsResult struct {
	Segments              []SegmentPattern `json:"segments"`
	WindowDays            int              `json:"window_days"`
	Churned               int              `json:"churned"`
	ChurnedMeanOrderValue float64          `json:"churned_mean_order_value"`
	ChurnedTotalValue     float64          `json:"churned_total_value"`
}

// CustomerPatterns segments customers by order count and values the orders of
// customers whose last order is more than windowDays before the latest order.
func CustomerPatterns(ds *sales.Dataset, windowDays int) CustomerPatternsResult {
	stats := customerStats(ds)
	res := CustomerPatternsResult{WindowDays: windowDays, ChurnedMeanOrderValue: math.NaN()}

	type segAcc struct {
		customers, orders, lifetime int
	}
	acc := make([]segAcc, len(SegmentRanges))
	for _, cs := range stats {
		i := Classify(float64(cs.Orders), SegmentRanges)
		if i < 0 {
			continue
		}
		acc[i].customers++
		acc[i].orders += cs.Orders
		acc[i].lifetime += sales.DaysBetween(cs.First, cs.Last)
	}
	for i, r := range SegmentRanges {
		res.Segments = append(res.Segments, SegmentPattern{
			Label:            r.Label,
			Customers:        acc[i].customers,
			MeanOrders:       mean(float64(acc[i].orders), acc[i].customers),
			MeanLifetimeDays: mean(float64(acc[i].lifetime), acc[i].customers),
		})
	}

	days := daysSinceLast(ds, stats)
	churned := make(map[string]bool)
	for id, n := range days {
		if n > windowDays {
			churned[id] = true
		}
	}
	res.Churned = len(churned)

	totals := orderTotals(ds)
	type valueAcc struct {
		sum float64
		n   int
	}
	values := make(map[string]*valueAcc)
	for i := range ds.Orders {
		o := &ds.Orders[i]
		if !churned[o.CustomerID] {
			continue
		}
		v, ok := totals[o.ID]
		if !ok {
			continue
		}
		a, ok := values[o.CustomerID]
		if !ok {
			a = &valueAcc{}
			values[o.CustomerID] = a
		}
		a.sum += v
		a.n++
	}
	var meanSum float64
	for _, id := range sortedKeys(values) {
		a := values[id]
		meanSum += a.sum / float64(a.n)
		res.ChurnedTotalValue += a.sum
	}
	res.ChurnedMeanOrderValue = mean(meanSum, len(values))
	return res
}

// RiskBucket summarises the customers in one churn-risk range.
type RiskBucket struct {
	Label          string  `json:"label"`
	Customers      int     `json:"customers"`
	Percent        float64 `json:"percent"`
	MeanOrders     float64 `json:"mean_orders"`
	MeanOrderValue float64 `json:"mean_order_value"`
	TotalValue     float64 `json:"total_value"`
}

// ChurnRiskResult lists every risk range by customer count descending, ties in
// range order. Unclassified counts customers whose last order is on the latest
// order date; they are part of TotalCustomers but of no bucket.
type ChurnRiskResult struct {
	Buckets        []RiskBucket `json:"buckets"`
	Unclassified   int          `json:"unclassified"`
	TotalCustomers int          `json:"total_customers"`
}

// ChurnRisk buckets customers by days since their last order.
func ChurnRisk(ds *sales.Dataset) ChurnRiskResult {
	stats := customerStats(ds)
	days := daysSinceLast(ds, stats)
	res := ChurnRiskResult{TotalCustomers: len(stats)}

	type lineAcc struct {
		sum float64
		n   int
	}
	lines := make(map[string]*lineAcc)
	for i := range ds.Details {
		d := &ds.Details[i]
		o, ok := ds.OrderByID(d.OrderID)
		if !ok {
			continue
		}
		a, ok := lines[o.CustomerID]
		if !ok {
			a = &lineAcc{}
			lines[o.CustomerID] = a
		}
		a.sum += d.TotalSale
		a.n++
	}

	type bucketAcc struct {
		customers, orders int
		valued            int
		meanSum, total    float64
	}
	acc := make([]bucketAcc, len(RiskRanges))
	for _, cs := range stats {
		i := Classify(float64(days[cs.ID]), RiskRanges)
		if i < 0 {
			res.Unclassified++
			continue
		}
		acc[i].customers++
		acc[i].orders += int(cs.Unique.GetCardinality())
		if l, ok := lines[cs.ID]; ok {
			acc[i].valued++
			acc[i].meanSum += l.sum / float64(l.n)
			acc[i].total += l.sum
		}
	}

	for i, r := range RiskRanges {
		a := acc[i]
		b := RiskBucket{
			Label:          r.Label,
			Customers:      a.customers,
			Percent:        math.NaN(),
			MeanOrders:     mean(float64(a.orders), a.customers),
			MeanOrderValue: mean(a.meanSum, a.valued),
			TotalValue:     a.total,
		}
		if res.TotalCustomers > 0 {
			b.Percent = float64(a.customers) / float64(res.TotalCustomers) * 100
		}
		res.Buckets = append(res.Buckets, b)
	}
	slices.SortStableFunc(res.Buckets, func(a, b RiskBucket) int {
		return cmp.Compare(b.Customers, a.Customers)
	})
	return res
}

// AverageOrderValue sums total_sale per order over all details and returns the
// mean order total, or NaN when there are no details.
func AverageOrderValue(ds *sales.Dataset) float64 {
	totals := orderTotals(ds)
	var sum float64
	for _, id := range sortedKeys(totals) {
		sum += totals[id]
	}
	return mean(sum, len(totals))
}

// ChurnRate returns the percentage of customers with orders whose last order is
// more than windowDays before the latest order date. It is NaN with no orders.
func ChurnRate(ds *sales.Dataset, windowDays int) float64 {
	stats := customerStats(ds)
	churned := 0
	for _, n := range daysSinceLast(ds, stats) {
		if n > windowDays {
			churned++
		}
	}
	return mean(float64(churned), len(stats)) * 100
}

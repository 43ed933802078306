// Package sales turns the loaded tables into typed, immutable sales records.
package sales

import (
	"fmt"
	"time"

	"github.com/salesinsight/salesinsight/internal/dataset"
)

// Order is one row of the orders table.
type Order struct {
	ID          int64
	CustomerID  string
	Date        time.Time
	ShipCountry string
}

// OrderDetail is one line item. TotalSale is derived once at build time.
type OrderDetail struct {
	OrderID   int64
	ProductID int64
	UnitPrice float64
	Quantity  int64
	Discount  float64
	TotalSale float64
}

// Product is one row of the products table. Discontinued is 0 or 1.
type Product struct {
	ID           int64
	Name         string
	CategoryID   int64
	Discontinued int
}

type Category struct {
	ID   int64
	Name string
}

type Customer struct {
	ID          string
	CompanyName string
}

// Dataset holds the typed sales tables. It is never modified after Build;
// callers that reorder rows copy the slices first.
type Dataset struct {
	Orders     []Order
	Details    []OrderDetail
	Products   []Product
	Categories []Category
	Customers  []Customer

	// DiscountOutOfRange counts details whose discount lies outside [0,1].
	// Such rows are kept and flow into every total unchanged.
	DiscountOutOfRange int

	orderByID    map[int64]int
	productByID  map[int64]int
	categoryByID map[int64]int
	customerByID map[string]int
	customerSeq  map[string]uint32
	seqCustomer  []string
	maxDate      time.Time
}

// TotalSale is the net value of a line item.
func TotalSale(unitPrice float64, quantity int64, discount float64) float64 {
	return unitPrice * float64(quantity) * (1 - discount)
}

// Build parses the five analysed tables into a Dataset.
func Build(tables map[string]*dataset.Table) (*Dataset, error) {
	ds := &Dataset{
		orderByID:    make(map[int64]int),
		productByID:  make(map[int64]int),
		categoryByID: make(map[int64]int),
		customerByID: make(map[string]int),
		customerSeq:  make(map[string]uint32),
	}

	steps := []struct {
		name string
		fn   func(*dataset.Table) error
	}{
		{"orders", ds.buildOrders},
		{"order_details", ds.buildDetails},
		{"products", ds.buildProducts},
		{"categories", ds.buildCategories},
		{"customers", ds.buildCustomers},
	}
	for _, s := range steps {
		t, ok := tables[s.name]
		if !ok {
			return nil, fmt.Errorf("table %s not loaded", s.name)
		}
		if err := s.fn(t); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func (ds *Dataset) buildOrders(t *dataset.Table) error {
	c, err := columns(t, "order_id", "customer_id", "order_date", "ship_country")
	if err != nil {
		return err
	}
	ds.Orders = make([]Order, 0, t.Len())
	for i := range t.Rows {
		r := &rowReader{t: t, row: i}
		o := Order{
			ID:          r.integer(c[0]),
			CustomerID:  r.text(c[1]),
			Date:        r.date(c[2]),
			ShipCountry: r.text(c[3]),
		}
		if r.err != nil {
			return r.err
		}
		if _, dup := ds.orderByID[o.ID]; !dup {
			ds.orderByID[o.ID] = len(ds.Orders)
		}
		if _, seen := ds.customerSeq[o.CustomerID]; !seen && o.CustomerID != "" {
			ds.customerSeq[o.CustomerID] = uint32(len(ds.seqCustomer))
			ds.seqCustomer = append(ds.seqCustomer, o.CustomerID)
		}
		if o.Date.After(ds.maxDate) {
			ds.maxDate = o.Date
		}
		ds.Orders = append(ds.Orders, o)
	}
	return nil
}

func (ds *Dataset) buildDetails(t *dataset.Table) error {
	c, err := columns(t, "order_id", "product_id", "unit_price", "quantity", "discount")
	if err != nil {
		return err
	}
	ds.Details = make([]OrderDetail, 0, t.Len())
	for i := range t.Rows {
		r := &rowReader{t: t, row: i}
		d := OrderDetail{
			OrderID:   r.integer(c[0]),
			ProductID: r.integer(c[1]),
			UnitPrice: r.number(c[2]),
			Quantity:  r.integer(c[3]),
			Discount:  r.number(c[4]),
		}
		if r.err != nil {
			return r.err
		}
		if d.Discount < 0 || d.Discount > 1 {
			ds.DiscountOutOfRange++
		}
		d.TotalSale = TotalSale(d.UnitPrice, d.Quantity, d.Discount)
		ds.Details = append(ds.Details, d)
	}
	return nil
}

func (ds *Dataset) buildProducts(t *dataset.Table) error {
	c, err := columns(t, "product_id", "product_name", "category_id", "discontinued")
	if err != nil {
		return err
	}
	ds.Products = make([]Product, 0, t.Len())
	for i := range t.Rows {
		r := &rowReader{t: t, row: i}
		p := Product{
			ID:           r.integer(c[0]),
			Name:         r.text(c[1]),
			CategoryID:   r.integer(c[2]),
			Discontinued: int(r.integer(c[3])),
		}
		if r.err != nil {
			return r.err
		}
		if _, dup := ds.productByID[p.ID]; !dup {
			ds.productByID[p.ID] = len(ds.Products)
		}
		ds.Products = append(ds.Products, p)
	}
	return nil
}

func (ds *Dataset) buildCategories(t *dataset.Table) error {
	c, err := columns(t, "category_id", "category_name")
	if err != nil {
		return err
	}
	ds.Categories = make([]Category, 0, t.Len())
	for i := range t.Rows {
		r := &rowReader{t: t, row: i}
		cat := Category{ID: r.integer(c[0]), Name: r.text(c[1])}
		if r.err != nil {
			return r.err
		}
		if _, dup := ds.categoryByID[cat.ID]; !dup {
			ds.categoryByID[cat.ID] = len(ds.Categories)
		}
		ds.Categories = append(ds.Categories, cat)
	}
	return nil
}

func (ds *Dataset) buildCustomers(t *dataset.Table) error {
	c, err := columns(t, "customer_id", "company_name")
	if err != nil {
		return err
	}
	ds.Customers = make([]Customer, 0, t.Len())
	for i := range t.Rows {
		r := &rowReader{t: t, row: i}
		cu := Customer{CompanyName: r.text(c[1])}
		cu.ID, _ = r.required(c[0])
		if r.err != nil {
			return r.err
		}
		if _, dup := ds.customerByID[cu.ID]; !dup {
			ds.customerByID[cu.ID] = len(ds.Customers)
		}
		ds.Customers = append(ds.Customers, cu)
	}
	return nil
}

// OrderByID returns the order with the given key.
func (ds *Dataset) OrderByID(id int64) (*Order, bool) {
	i, ok := ds.orderByID[id]
	if !ok {
		return nil, false
	}
	return &ds.Orders[i], true
}

// ProductByID returns the product with the given key.
func (ds *Dataset) ProductByID(id int64) (*Product, bool) {
	i, ok := ds.productByID[id]
	if !ok {
		return nil, false
	}
	return &ds.Products[i], true
}

// CategoryByID returns the category with the given key.
func (ds *Dataset) CategoryByID(id int64) (*Category, bool) {
	i, ok := ds.categoryByID[id]
	if !ok {
		return nil, false
	}
	return &ds.Categories[i], true
}

// CustomerByID returns the customer with the given key.
func (ds *Dataset) CustomerByID(id string) (*Customer, bool) {
	i, ok := ds.customerByID[id]
	if !ok {
		return nil, false
	}
	return &ds.Customers[i], true
}

// CustomerSeq returns a dense index for a customer that placed orders,
// suitable as a bitmap member. The empty id has no index.
func (ds *Dataset) CustomerSeq(id string) (uint32, bool) {
	s, ok := ds.customerSeq[id]
	return s, ok
}

// CustomerIDs returns the ids of customers with orders in first-order sequence.
func (ds *Dataset) CustomerIDs() []string {
	out := make([]string, len(ds.seqCustomer))
	copy(out, ds.seqCustomer)
	return out
}

// MaxOrderDate returns the latest order date, or the zero time when there are no orders.
func (ds *Dataset) MaxOrderDate() time.Time {
	return ds.maxDate
}

// Joined is a detail together with the rows it joins to. Nil fields mean the
// key had no match.
type Joined struct {
	Detail   *OrderDetail
	Order    *Order
	Product  *Product
	Category *Category
}

// Join resolves every detail's order, product and category.
func (ds *Dataset) Join() []Joined {
	out := make([]Joined, len(ds.Details))
	for i := range ds.Details {
		d := &ds.Details[i]
		j := Joined{Detail: d}
		j.Order, _ = ds.OrderByID(d.OrderID)
		if p, ok := ds.ProductByID(d.ProductID); ok {
			j.Product = p
			j.Category, _ = ds.CategoryByID(p.CategoryID)
		}
		out[i] = j
	}
	return out
}

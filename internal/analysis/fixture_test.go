package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salesinsight/salesinsight/internal/dataset"
	"github.com/salesinsight/salesinsight/internal/sales"
)

// fixture is a small dataset whose figures are easy to compute by hand.
//
//	order 1  ALPHA 1997-01-10 Brazil   Chai 20.00, Chang 10.00
//	order 2  ALPHA 1997-03-01 Brazil   Aniseed Syrup 30.00
//	order 3  BETA  1997-02-15 Germany  Chai 9.00, Aniseed Syrup 40.00
//	order 4  GAMMA 1997-03-31 (none)   Chang 50.00
func fixture(t *testing.T) *sales.Dataset {
	t.Helper()
	return build(t,
		[][]string{
			{"1", "ALPHA", "1997-01-10", "Brazil"},
			{"2", "ALPHA", "1997-03-01", "Brazil"},
			{"3", "BETA", "1997-02-15", "Germany"},
			{"4", "GAMMA", "1997-03-31", ""},
		},
		[][]string{
			{"1", "1", "10", "2", "0"},
			{"1", "2", "5", "4", "0.5"},
			{"2", "3", "30", "1", "0"},
			{"3", "1", "10", "1", "0.1"},
			{"3", "3", "20", "2", "0"},
			{"4", "2", "50", "1", "0"},
		})
}

func build(t *testing.T, orders, details [][]string) *sales.Dataset {
	t.Helper()
	ds, err := sales.Build(map[string]*dataset.Table{
		"orders": dataset.New("orders",
			[]string{"order_id", "customer_id", "order_date", "ship_country"}, orders),
		"order_details": dataset.New("order_details",
			[]string{"order_id", "product_id", "unit_price", "quantity", "discount"}, details),
		"products": dataset.New("products",
			[]string{"product_id", "product_name", "category_id", "discontinued"},
			[][]string{
				{"1", "Chai", "1", "0"},
				{"2", "Chang", "1", "1"},
				{"3", "Aniseed Syrup", "2", "0"},
			}),
		"categories": dataset.New("categories",
			[]string{"category_id", "category_name"},
			[][]string{{"1", "Beverages"}, {"2", "Condiments"}}),
		"customers": dataset.New("customers",
			[]string{"customer_id", "company_name"},
			[][]string{{"ALPHA", "Alpha Ltda"}, {"BETA", "Beta GmbH"}, {"GAMMA", "Gamma SA"}}),
	})
	require.NoError(t, err)
	return ds
}

func empty(t *testing.T) *sales.Dataset {
	t.Helper()
	return build(t, nil, nil)
}

// Package export writes analysis results to XLSX workbooks or JSON.
package export

import (
	"math"

	"github.com/salesinsight/salesinsight/internal/analysis"
	"github.com/salesinsight/salesinsight/internal/pipeline"
)

// Sheet is one tabular block of results. Missing numbers are nil.
type Sheet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
}

// num turns NaN and infinities into nil so both writers can store them.
func num(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// Sheets flattens every result into named tables in report order.
func Sheets(res *pipeline.Results) []Sheet {
	var out []Sheet
	add := func(s Sheet) { out = append(out, s) }

	add(Sheet{
		Name:    "Resumo",
		Headers: []string{"Métrica", "Valor"},
		Rows: [][]any{
			{"Execução", res.RunID},
			{"Gerado em", res.GeneratedAt.Format("2006-01-02 15:04:05")},
			{"Ticket Médio", num(res.AverageOrderValue)},
			{"Taxa de Churn (%)", num(res.ChurnRate)},
			{"Janela de churn (dias)", res.ChurnWindowDays},
			{"Descontos fora de [0,1]", res.DiscountOutOfRange},
		},
	})

	if res.Quality != nil {
		s := Sheet{Name: "Qualidade", Headers: []string{"Tabela", "Registros", "Coluna", "Ausentes", "Percentual"}}
		for _, t := range res.Quality.Tables {
			if len(t.Missing) == 0 {
				s.Rows = append(s.Rows, []any{t.Name, t.Rows, nil, 0, nil})
			}
			for _, m := range t.Missing {
				s.Rows = append(s.Rows, []any{t.Name, t.Rows, m.Column, m.Count, num(m.Percent)})
			}
		}
		add(s)
	}

	s := Sheet{Name: "Produtos", Headers: []string{"Categoria", "Produto", "Receita", "Quantidade"}}
	for _, p := range res.SalesPerformance.Products {
		s.Rows = append(s.Rows, []any{p.Category, p.Product, num(p.Revenue), p.Quantity})
	}
	add(s)
	add(namedSheet("Categorias", "Categoria", res.SalesPerformance.Categories))

	if res.ProductStatus != nil {
		s = Sheet{Name: "Status", Headers: []string{"Descontinuado", "Receita", "Quantidade"}}
		for _, st := range res.ProductStatus.Statuses {
			s.Rows = append(s.Rows, []any{st.Discontinued, num(st.Revenue), st.Quantity})
		}
		add(s)
	}

	a, i := res.ActiveVsInactive.Active.Metrics, res.ActiveVsInactive.Inactive.Metrics
	add(Sheet{
		Name:    "Ativos_Inativos",
		Headers: []string{"Métrica", "Ativos", "Inativos"},
		Rows: [][]any{
			{"Total Produtos", a.Products, i.Products},
			{"Total Vendas", num(a.Revenue), num(i.Revenue)},
			{"Ticket Médio", num(a.MeanSale), num(i.MeanSale)},
			{"Qtd Total", a.Quantity, i.Quantity},
		},
	})

	s = Sheet{Name: "Sazonalidade", Headers: []string{"Ano", "Mês", "Receita"}}
	for _, p := range res.Seasonality.Months {
		s.Rows = append(s.Rows, []any{p.Year, p.Month, num(p.Revenue)})
	}
	add(s)

	s = Sheet{Name: "Paises", Headers: []string{"País", "Receita", "Itens", "Pedidos"}}
	for _, c := range res.Geographic.Countries {
		s.Rows = append(s.Rows, []any{c.Country, num(c.Revenue), c.Lines, c.Orders})
	}
	add(s)

	s = Sheet{Name: "Descontos", Headers: []string{"Desconto", "Receita", "Quantidade"}}
	for _, d := range res.CrossSelling.Discounts {
		s.Rows = append(s.Rows, []any{num(d.Discount), num(d.Revenue), d.Quantity})
	}
	add(s)

	s = Sheet{Name: "Pares", Headers: []string{"Produto 1", "Produto 2", "Frequência"}}
	for _, p := range res.CrossSelling.Pairs {
		s.Rows = append(s.Rows, []any{p.First, p.Second, p.Count})
	}
	add(s)

	s = Sheet{Name: "Clientes", Headers: []string{"Cliente", "Empresa", "Total"}}
	for _, c := range res.CustomerBehavior.TopSpend {
		s.Rows = append(s.Rows, []any{c.CustomerID, c.CompanyName, num(c.Total)})
	}
	add(s)

	s = Sheet{Name: "Segmentos", Headers: []string{"Segmento", "Clientes", "Pedidos (média)", "Tempo de vida (dias)"}}
	for _, p := range res.CustomerPatterns.Segments {
		s.Rows = append(s.Rows, []any{p.Label, p.Customers, num(p.MeanOrders), num(p.MeanLifetimeDays)})
	}
	add(s)

	tp := res.TemporalPatterns
	growth := tp.Growth()
	s = Sheet{Name: "Mensal", Headers: []string{"Ano-Mês", "Receita", "Média", "Pedidos", "Clientes", "Crescimento (%)"}}
	for k, m := range tp.Months {
		s.Rows = append(s.Rows, []any{m.Month.String(), num(m.Revenue), num(m.MeanSale), m.Orders, m.Customers, num(growth[k].Percent)})
	}
	add(s)

	s = Sheet{Name: "Categoria_Mes", Headers: append([]string{"Ano-Mês"}, tp.Categories...)}
	for k, m := range tp.Months {
		row := []any{m.Month.String()}
		for _, v := range tp.Matrix[k] {
			row = append(row, num(v))
		}
		s.Rows = append(s.Rows, row)
	}
	add(s)

	s = Sheet{Name: "Melhor_Mes", Headers: []string{"Categoria", "Mês", "Receita", "Quantidade", "Desconto médio"}}
	for _, m := range res.CategorySeasonality.Best {
		s.Rows = append(s.Rows, []any{m.Category, m.Month, num(m.Revenue), m.Quantity, num(m.MeanDiscount)})
	}
	add(s)

	s = Sheet{Name: "Desconto_Categoria", Headers: []string{"Categoria", "Desconto médio", "Receita", "Quantidade"}}
	for _, d := range res.CategorySeasonality.Discounts {
		s.Rows = append(s.Rows, []any{d.Category, num(d.MeanDiscount), num(d.Revenue), d.Quantity})
	}
	add(s)

	s = Sheet{Name: "Risco_Churn", Headers: []string{"Risco", "Clientes", "Percentual", "Média de pedidos", "Valor médio por pedido", "Valor total"}}
	for _, b := range res.ChurnRisk.Buckets {
		s.Rows = append(s.Rows, []any{b.Label, b.Customers, num(b.Percent), num(b.MeanOrders), num(b.MeanOrderValue), num(b.TotalValue)})
	}
	if res.ChurnRisk.Unclassified > 0 {
		pct := float64(res.ChurnRisk.Unclassified) / float64(res.ChurnRisk.TotalCustomers) * 100
		s.Rows = append(s.Rows, []any{"Sem classificação", res.ChurnRisk.Unclassified, num(pct), nil, nil, nil})
	}
	add(s)

	return out
}

func namedSheet(name, label string, items []analysis.NamedSales) Sheet {
	s := Sheet{Name: name, Headers: []string{label, "Receita", "Quantidade"}}
	for _, n := range items {
		s.Rows = append(s.Rows, []any{n.Name, num(n.Revenue), n.Quantity})
	}
	return s
}

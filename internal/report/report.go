// Package report renders analysis results as the Portuguese console report.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/salesinsight/salesinsight/internal/analysis"
	"github.com/salesinsight/salesinsight/internal/quality"
)

// Section is one titled block of the rendered report.
type Section struct {
	Title string
	Body  string
}

// Write prints the section bodies in order.
func Write(w io.Writer, sections []Section) error {
	for _, s := range sections {
		if _, err := io.WriteString(w, s.Body); err != nil {
			return err
		}
	}
	return nil
}

// WriteQuality prints the data-quality report.
func WriteQuality(w io.Writer, r *quality.Report) error {
	_, err := io.WriteString(w, FormatQuality(r))
	return err
}

// FormatQuality renders row counts and missing values per table.
func FormatQuality(r *quality.Report) string {
	var b strings.Builder
	Banner(&b, "RELATÓRIO DE QUALIDADE", 15)
	b.WriteString("\n")

	for _, t := range r.Tables {
		b.WriteString(fmt.Sprintf(" %s \n", strings.ToUpper(t.Name)))
		b.WriteString(fmt.Sprintf("Total de registros: %s\n", Int(int64(t.Rows))))
		if len(t.Missing) > 0 {
			b.WriteString("\nValores ausentes:\n")
			for _, m := range t.Missing {
				b.WriteString(fmt.Sprintf("  • %-20s %5d (%6.1f%%)\n", m.Column, m.Count, m.Percent))
			}
		}
		b.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	}
	return b.String()
}

// FormatSalesPerformance renders the top products and revenue per category.
func FormatSalesPerformance(r analysis.SalesPerformanceResult, topN int) string {
	var b strings.Builder
	Banner(&b, "ANÁLISE DE VENDAS", 15)
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Top %d Produtos por Receita:\n", topN))
	var rows [][]string
	for _, p := range head(r.Products, topN) {
		rows = append(rows, []string{p.Category, p.Product, cell(p.Revenue, 2), Int(p.Quantity)})
	}
	b.WriteString(renderTable([]string{"Categoria", "Produto", "Receita", "Quantidade"}, rows, 2, 3))

	b.WriteString("\nVendas por Categoria:\n")
	b.WriteString(namedTable("Categoria", r.Categories))
	return b.String()
}

// FormatProductStatus renders revenue for active and discontinued products.
func FormatProductStatus(r analysis.ProductStatusResult) string {
	var b strings.Builder
	Banner(&b, "ANÁLISE POR STATUS DO PRODUTO", 15)
	b.WriteString("\n")

	b.WriteString("Vendas por Status do Produto:\n")
	for _, status := range []struct {
		flag  int
		title string
	}{{0, "Produtos Ativos (0):"}, {1, "Produtos Inativos (1):"}} {
		b.WriteString("\n" + status.title + "\n")
		if s, ok := r.Status(status.flag); ok {
			b.WriteString(fmt.Sprintf("Total vendas: %s\n", Money(s.Revenue)))
			b.WriteString(fmt.Sprintf("Quantidade vendida: %s\n", Int(s.Quantity)))
		}
	}
	return b.String()
}

// FormatActiveVsInactive renders both status breakdowns and the final comparison.
func FormatActiveVsInactive(r analysis.ActiveVsInactiveResult) string {
	var b strings.Builder
	for _, s := range []analysis.StatusBreakdown{r.Active, r.Inactive} {
		Banner(&b, "ANÁLISE DE PRODUTOS "+s.Label, 1)

		b.WriteString("\n1. Métricas Gerais:\n")
		b.WriteString(fmt.Sprintf("Total de produtos: %d\n", s.Metrics.Products))
		b.WriteString(fmt.Sprintf("Total de vendas: %s\n", Money(s.Metrics.Revenue)))
		b.WriteString(fmt.Sprintf("Ticket médio: %s\n", Money(s.Metrics.MeanSale)))
		b.WriteString(fmt.Sprintf("Quantidade total vendida: %s\n", Int(s.Metrics.Quantity)))

		b.WriteString("\n2. Top 5 Produtos por Receita:\n")
		b.WriteString(namedTable("Produto", s.TopProducts))

		b.WriteString("\n3. Vendas por Categoria:\n")
		var rows [][]string
		for _, c := range s.Categories {
			rows = append(rows, []string{c.Category, cell(analysis.Round(c.Revenue, 2), 2), Int(c.Quantity), strconv.Itoa(c.Products)})
		}
		b.WriteString(renderTable([]string{"Categoria", "Receita", "Quantidade", "Produtos"}, rows, 1, 2, 3))

		b.WriteString("\n4. Tendência de Vendas por Ano-Mês:\n")
		rows = nil
		for _, m := range s.RecentMonths {
			rows = append(rows, []string{m.Month.String(), cell(m.Revenue, 2), strconv.Itoa(m.Orders)})
		}
		b.WriteString(renderTable([]string{"Ano-Mês", "Receita", "Pedidos"}, rows, 1, 2))

		b.WriteString("\n5. Impacto dos Descontos:\n")
		b.WriteString(discountTable(s.Discounts))
	}

	Banner(&b, "COMPARATIVO FINAL ATIVOS VS INATIVOS", 1)
	b.WriteString("\nComparativo Final:\n")
	a, i := r.Active.Metrics, r.Inactive.Metrics
	rows := [][]string{
		{"Total Produtos", Grouped(float64(a.Products), 2), Grouped(float64(i.Products), 2)},
		{"Total Vendas", Grouped(a.Revenue, 2), Grouped(i.Revenue, 2)},
		{"Ticket Médio", Grouped(a.MeanSale, 2), Grouped(i.MeanSale, 2)},
		{"Qtd Total", Grouped(float64(a.Quantity), 2), Grouped(float64(i.Quantity), 2)},
	}
	b.WriteString(renderTable([]string{"Métrica", "Ativos", "Inativos"}, rows, 1, 2))
	return b.String()
}

// FormatSeasonality renders monthly revenue, highest first.
func FormatSeasonality(r analysis.SeasonalityResult) string {
	var b strings.Builder
	Banner(&b, "ANÁLISE DE SAZONALIDADE", 15)
	b.WriteString("\n")

	b.WriteString("Vendas por Mês:\n")
	var rows [][]string
	for _, p := range r.Ranked() {
		rows = append(rows, []string{strconv.Itoa(p.Year), strconv.Itoa(p.Month), cell(p.Revenue, 2)})
	}
	b.WriteString(renderTable([]string{"Ano", "Mês", "Receita"}, rows, 0, 1, 2))
	return b.String()
}

// FormatGeographic renders revenue per ship country.
func FormatGeographic(r analysis.GeographicResult) string {
	var b strings.Builder
	Banner(&b, "ANÁLISE DE DISTRIBUIÇÃO GEOGRÁFICA", 10)
	b.WriteString("\n")

	b.WriteString("Vendas por País:\n")
	var rows [][]string
	for _, c := range r.Countries {
		rows = append(rows, []string{c.Country, cell(c.Revenue, 2), Int(int64(c.Lines)), Int(int64(c.Orders))})
	}
	b.WriteString(renderTable([]string{"País", "Receita", "Itens", "Pedidos"}, rows, 1, 2, 3))
	return b.String()
}

// FormatCrossSelling renders discount impact and the most frequent product pairs.
func FormatCrossSelling(r analysis.CrossSellingResult, topN int) string {
	var b strings.Builder
	b.WriteString("\nImpacto dos Descontos:\n")
	b.WriteString(discountTable(r.Discounts))

	b.WriteString(fmt.Sprintf("\nTop %d Pares de Produtos:\n", topN))
	var rows [][]string
	for _, p := range head(r.Pairs, topN) {
		rows = append(rows, []string{p.First, p.Second, strconv.Itoa(p.Count)})
	}
	b.WriteString(renderTable([]string{"Produto 1", "Produto 2", "Frequência"}, rows, 2))
	return b.String()
}

var segmentLines = []string{
	"- Clientes de baixa frequência (1-4 pedidos): %d clientes\n",
	"- Clientes de média frequência (5-12 pedidos): %d clientes\n",
	"- Clientes de alta frequência (>12 pedidos): %d clientes\n",
}

// FormatCustomerBehavior renders purchase frequency and the top customers by spend.
func FormatCustomerBehavior(r analysis.CustomerBehaviorResult, topN int) string {
	var b strings.Builder
	Banner(&b, "ANÁLISE DE CLIENTES", 15)

	b.WriteString("\nPerfil de Compras dos Clientes:\n")
	b.WriteString(fmt.Sprintf("\nTotal de clientes ativos: %d\n", r.Customers))
	b.WriteString(fmt.Sprintf("Número médio de pedidos por cliente: %s\n", Fixed(r.MeanOrders, 1)))
	b.WriteString("\nSegmentação por frequência de compra:\n")
	for i, s := range r.Segments {
		if i < len(segmentLines) {
			b.WriteString(fmt.Sprintf(segmentLines[i], s.Customers))
		}
	}
	maxOrders := "nan"
	if r.Customers > 0 {
		maxOrders = strconv.Itoa(r.MaxOrders)
	}
	b.WriteString(fmt.Sprintf("\nCliente mais frequente: %s pedidos\n", maxOrders))

	b.WriteString(fmt.Sprintf("\nTop %d Clientes por Valor Total de Compras:\n", topN))
	var rows [][]string
	for _, c := range head(r.TopSpend, topN) {
		rows = append(rows, []string{c.CustomerID, c.CompanyName, Money(c.Total)})
	}
	b.WriteString(renderTable([]string{"Cliente", "Empresa", "Total"}, rows, 2))
	return b.String()
}

// FormatCustomerPatterns renders segment patterns and the churned-customer value.
func FormatCustomerPatterns(r analysis.CustomerPatternsResult) string {
	var b strings.Builder
	Banner(&b, "PADRÕES DE CLIENTES", 15)

	b.WriteString("\nPadrões por Segmento:\n")
	var rows [][]string
	for _, s := range r.Segments {
		rows = append(rows, []string{s.Label, strconv.Itoa(s.Customers), cell(s.MeanOrders, 1), cell(s.MeanLifetimeDays, 1)})
	}
	b.WriteString(renderTable([]string{"Segmento", "Clientes", "Pedidos (média)", "Tempo de vida (dias)"}, rows, 1, 2, 3))

	b.WriteString(fmt.Sprintf("\nAnálise de Clientes Inativos (>%d dias):\n", r.WindowDays))
	b.WriteString(fmt.Sprintf("Total de clientes inativos: %d\n", r.Churned))
	b.WriteString(fmt.Sprintf("Valor médio por pedido dos inativos: R$ %s\n", Fixed(r.ChurnedMeanOrderValue, 2)))
	b.WriteString(fmt.Sprintf("Valor total perdido: R$ %s\n", Fixed(r.ChurnedTotalValue, 2)))
	return b.String()
}

// FormatTemporalPatterns renders monthly metrics, the best months and recent growth.
func FormatTemporalPatterns(r analysis.TemporalPatternsResult) string {
	var b strings.Builder
	Banner(&b, "ANÁLISE TEMPORAL", 15)

	b.WriteString("\nMétricas Mensais:\n")
	b.WriteString(monthlyTable(r.Months))

	b.WriteString("\nTop 3 Meses por Receita:\n")
	b.WriteString(monthlyTable(r.TopMonths(3)))

	b.WriteString("\nCrescimento Mês a Mês (%):\n")
	var rows [][]string
	for _, g := range r.RecentGrowth(5) {
		rows = append(rows, []string{g.Month.String(), cell(analysis.Round(g.Percent, 2), 2)})
	}
	b.WriteString(renderTable([]string{"Ano-Mês", "Crescimento"}, rows, 1))
	return b.String()
}

// FormatCategorySeasonality renders each category's best month and discount impact.
func FormatCategorySeasonality(r analysis.CategorySeasonalityResult) string {
	var b strings.Builder
	Banner(&b, "ANÁLISE DE SAZONALIDADE E DESCONTOS", 10)

	b.WriteString("\nMeses Mais Fortes por Categoria:\n")
	for _, m := range r.Best {
		b.WriteString(fmt.Sprintf("\n%s:\n", m.Category))
		b.WriteString(fmt.Sprintf("Melhor mês: %d\n", m.Month))
		b.WriteString(fmt.Sprintf("Vendas: %s\n", Money(m.Revenue)))
		b.WriteString(fmt.Sprintf("Desconto médio: %s%%\n", Fixed(m.MeanDiscount*100, 1)))
	}

	b.WriteString("\nImpacto dos Descontos por Categoria:\n")
	var rows [][]string
	for _, d := range r.Discounts {
		rows = append(rows, []string{d.Category, cell(d.MeanDiscount, 2), cell(d.Revenue, 2), Int(d.Quantity)})
	}
	b.WriteString(renderTable([]string{"Categoria", "Desconto médio", "Receita", "Quantidade"}, rows, 1, 2, 3))
	return b.String()
}

// FormatChurnRisk renders the customers per risk bucket.
func FormatChurnRisk(r analysis.ChurnRiskResult) string {
	var b strings.Builder
	Banner(&b, "ANÁLISE DE RISCO DE CHURN", 15)

	b.WriteString("\nDistribuição de Risco:\n")
	for _, k := range r.Buckets {
		b.WriteString(fmt.Sprintf("%s: %d clientes (%s%%)\n", k.Label, k.Customers, Fixed(k.Percent, 1)))
		b.WriteString(fmt.Sprintf("- Média de pedidos: %s\n", Fixed(k.MeanOrders, 1)))
		b.WriteString(fmt.Sprintf("- Valor médio por pedido: R$%s\n", Fixed(k.MeanOrderValue, 2)))
		b.WriteString(fmt.Sprintf("- Valor total: R$%s\n\n", Fixed(k.TotalValue, 2)))
	}
	if r.Unclassified > 0 {
		pct := float64(r.Unclassified) / float64(r.TotalCustomers) * 100
		b.WriteString(fmt.Sprintf("Sem classificação: %d clientes (%s%%)\n", r.Unclassified, Fixed(pct, 1)))
	}
	return b.String()
}

// FormatSummary renders the closing average order value and churn rate lines.
func FormatSummary(averageOrderValue, churnRate float64) string {
	return fmt.Sprintf("Ticket Médio: R$%s\nTaxa de Churn: %s%%\n", Fixed(averageOrderValue, 2), Fixed(churnRate, 2))
}

func head[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func namedTable(label string, items []analysis.NamedSales) string {
	var rows [][]string
	for _, n := range items {
		rows = append(rows, []string{n.Name, cell(n.Revenue, 2), Int(n.Quantity)})
	}
	return renderTable([]string{label, "Receita", "Quantidade"}, rows, 1, 2)
}

func discountTable(items []analysis.DiscountSales) string {
	var rows [][]string
	for _, d := range items {
		rows = append(rows, []string{strconv.FormatFloat(d.Discount, 'f', -1, 64), cell(d.Revenue, 2), Int(d.Quantity)})
	}
	return renderTable([]string{"Desconto", "Receita", "Quantidade"}, rows, 0, 1, 2)
}

func monthlyTable(months []analysis.MonthlyMetrics) string {
	var rows [][]string
	for _, m := range months {
		rows = append(rows, []string{m.Month.String(), cell(m.Revenue, 2), cell(m.MeanSale, 2), strconv.Itoa(m.Orders), strconv.Itoa(m.Customers)})
	}
	return renderTable([]string{"Ano-Mês", "Receita", "Média", "Pedidos", "Clientes"}, rows, 1, 2, 3, 4)
}

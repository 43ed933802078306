// Package pipeline runs the full report: load, check, build, analyse, print.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/salesinsight/salesinsight/internal/analysis"
	"github.com/salesinsight/salesinsight/internal/config"
	"github.com/salesinsight/salesinsight/internal/dataset"
	"github.com/salesinsight/salesinsight/internal/quality"
	"github.com/salesinsight/salesinsight/internal/report"
	"github.com/salesinsight/salesinsight/internal/sales"
	"github.com/salesinsight/salesinsight/internal/schema"
	"github.com/salesinsight/salesinsight/internal/source"
)

// Options controls a pipeline run.
type Options struct {
	Config *config.Config
	// Reader overrides the reader built from Config.Source.
	Reader source.Reader
	// Out receives the printed report. Nil discards it.
	Out     io.Writer
	Quality bool
	// All also runs the product status analysis.
	All    bool
	Logger *slog.Logger
}

// Results holds every analysis result of one run.
type Results struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Quality             *quality.Report                    `json:"quality,omitempty"`
	SalesPerformance    analysis.SalesPerformanceResult    `json:"sales_performance"`
	ProductStatus       *analysis.ProductStatusResult      `json:"product_status,omitempty"`
	ActiveVsInactive    analysis.ActiveVsInactiveResult    `json:"active_vs_inactive"`
	Seasonality         analysis.SeasonalityResult         `json:"seasonality"`
	Geographic          analysis.GeographicResult          `json:"geographic"`
	CrossSelling        analysis.CrossSellingResult        `json:"cross_selling"`
	CustomerBehavior    analysis.CustomerBehaviorResult    `json:"customer_behavior"`
	CustomerPatterns    analysis.CustomerPatternsResult    `json:"customer_patterns"`
	TemporalPatterns    analysis.TemporalPatternsResult    `json:"temporal_patterns"`
	CategorySeasonality analysis.CategorySeasonalityResult `json:"category_seasonality"`
	ChurnRisk           analysis.ChurnRiskResult           `json:"churn_risk"`
	AverageOrderValue   float64                            `json:"average_order_value"`
	ChurnRate           float64                            `json:"churn_rate"`
	ChurnWindowDays     int                                `json:"churn_window_days"`
	DiscountOutOfRange  int                                `json:"discount_out_of_range"`

	// Sections is the rendered report in print order.
	Sections []report.Section `json:"-"`
}

// Run executes the pipeline and prints the report to opts.Out.
func Run(ctx context.Context, opts Options) (*Results, error) {
	opts = withDefaults(opts)
	runID := uuid.NewString()
	logger := opts.Logger.With("run_id", runID)
	start := time.Now()

	tables, catalog, err := load(ctx, opts, logger)
	if err != nil {
		return nil, err
	}

	res := &Results{RunID: runID, GeneratedAt: start, ChurnWindowDays: opts.Config.Analysis.ChurnWindowDays}
	if opts.Quality {
		res.Quality = quality.Check(tables, catalog.Names())
		res.Sections = append(res.Sections, report.Section{Title: "Qualidade", Body: report.FormatQuality(res.Quality)})
		logger.Info("data quality checked", "tables", len(res.Quality.Tables), "missing_cells", res.Quality.MissingTotal())
	}

	ds, err := sales.Build(tables)
	if err != nil {
		return nil, fmt.Errorf("building dataset: %w", err)
	}
	if ds.DiscountOutOfRange > 0 {
		logger.Warn("discounts outside [0,1] kept as-is", "rows", ds.DiscountOutOfRange)
	}
	res.DiscountOutOfRange = ds.DiscountOutOfRange

	analyze(ds, opts, res)
	logger.Info("analyses complete", "details", len(ds.Details), "orders", len(ds.Orders),
		"sections", len(res.Sections), "elapsed", time.Since(start))

	if err := report.Write(opts.Out, res.Sections); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	return res, nil
}

// Quality loads the tables and prints only the data-quality report.
func Quality(ctx context.Context, opts Options) (*quality.Report, error) {
	opts = withDefaults(opts)
	logger := opts.Logger.With("run_id", uuid.NewString())

	tables, catalog, err := load(ctx, opts, logger)
	if err != nil {
		return nil, err
	}
	q := quality.Check(tables, catalog.Names())
	if err := report.WriteQuality(opts.Out, q); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	return q, nil
}

func withDefaults(opts Options) Options {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

// Catalog returns the table catalog configured for the source.
func Catalog(cfg *config.Config) (*schema.Schema, error) {
	if cfg.Source.Catalog == "" {
		return schema.Northwind(), nil
	}
	s, err := schema.LoadYAML(config.ExpandHome(cfg.Source.Catalog))
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return s, nil
}

func load(ctx context.Context, opts Options, logger *slog.Logger) (map[string]*dataset.Table, *schema.Schema, error) {
	catalog, err := Catalog(opts.Config)
	if err != nil {
		return nil, nil, err
	}

	r := opts.Reader
	if r == nil {
		r, err = source.New(opts.Config.Source)
		if err != nil {
			return nil, nil, err
		}
	}
	if err := r.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("connecting to source: %w", err)
	}
	defer r.Close()

	tables, err := source.LoadAll(ctx, r, catalog.Names(), logger)
	if err != nil {
		return nil, nil, err
	}
	if err := catalog.Check(tables); err != nil {
		return nil, nil, fmt.Errorf("checking tables: %w", err)
	}
	logger.Info("dataset loaded", "source", opts.Config.Source.Type, "summary", catalog.Summary(tables))
	return tables, catalog, nil
}

// analyze runs every analysis in report order and renders its section.
func analyze(ds *sales.Dataset, opts Options, res *Results) {
	topN := opts.Config.Analysis.TopN
	window := opts.Config.Analysis.ChurnWindowDays
	add := func(title, body string) {
		res.Sections = append(res.Sections, report.Section{Title: title, Body: body})
	}

	res.SalesPerformance = analysis.SalesPerformance(ds)
	add("Vendas", report.FormatSalesPerformance(res.SalesPerformance, topN))

	if opts.All {
		ps := analysis.ProductStatus(ds)
		res.ProductStatus = &ps
		add("Status do Produto", report.FormatProductStatus(ps))
	}

	res.ActiveVsInactive = analysis.ActiveVsInactive(ds)
	add("Ativos vs Inativos", report.FormatActiveVsInactive(res.ActiveVsInactive))

	res.Seasonality = analysis.Seasonality(ds)
	add("Sazonalidade", report.FormatSeasonality(res.Seasonality))

	res.Geographic = analysis.GeographicDistribution(ds)
	add("Geografia", report.FormatGeographic(res.Geographic))

	res.CrossSelling = analysis.CrossSelling(ds)
	add("Cross-selling", report.FormatCrossSelling(res.CrossSelling, topN))

	res.CustomerBehavior = analysis.CustomerBehavior(ds)
	add("Clientes", report.FormatCustomerBehavior(res.CustomerBehavior, topN))

	res.CustomerPatterns = analysis.CustomerPatterns(ds, window)
	add("Padrões de Clientes", report.FormatCustomerPatterns(res.CustomerPatterns))

	res.TemporalPatterns = analysis.TemporalPatterns(ds)
	add("Temporal", report.FormatTemporalPatterns(res.TemporalPatterns))

	res.CategorySeasonality = analysis.CategorySeasonality(ds)
	add("Sazonalidade por Categoria", report.FormatCategorySeasonality(res.CategorySeasonality))

	res.ChurnRisk = analysis.ChurnRisk(ds)
	add("Risco de Churn", report.FormatChurnRisk(res.ChurnRisk))

	res.AverageOrderValue = analysis.AverageOrderValue(ds)
	res.ChurnRate = analysis.ChurnRate(ds, window)
	add("Resumo", report.FormatSummary(res.AverageOrderValue, res.ChurnRate))
}

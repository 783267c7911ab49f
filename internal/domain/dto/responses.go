package dto

import (
	"github.com/tgaplan/estimator/internal/domain"
)

type ClassifyResponse struct {
	RunID        string                        `json:"run_id"`
	ProcessedRef string                        `json:"processed_ref"`
	ReportRef    string                        `json:"report_ref"`
	OutputRef    string                        `json:"output_ref"`
	Rows         int                           `json:"rows"`
	Classified   int                           `json:"classified"`
	Unclassified int                           `json:"unclassified"`
	Results      []domain.ClassificationResult `json:"results"`
	Issues       []domain.RunIssue             `json:"issues,omitempty"`
	Message      string                        `json:"message"`
}

type PowerResponse struct {
	RunID               string                          `json:"run_id"`
	HeatingRef          string                          `json:"heating_ref"`
	VentilationRef      string                          `json:"ventilation_ref"`
	MergedRows          int                             `json:"merged_rows"`
	MergedColumns       int                             `json:"merged_columns"`
	PowerEstimates      map[string]domain.PowerEstimate `json:"power_estimates"`
	Aggregate           *domain.PowerAggregate          `json:"aggregate"`
	PerformanceTableRef string                          `json:"performance_table_ref"`
	Message             string                          `json:"message"`
}

// CostLineItemView is the display form of a line item; money is rounded to
// currency precision here and nowhere earlier.
type CostLineItemView struct {
	Description      string  `json:"description"`
	SubgroupCode     string  `json:"subgroup_code"`
	SubgroupTitle    string  `json:"subgroup_title"`
	TradeTitle       string  `json:"trade_title"`
	Quantity         float64 `json:"quantity"`
	Unit             string  `json:"unit"`
	UnitPrice        string  `json:"unit_price"`
	MaterialSubtotal string  `json:"material_subtotal"`
	FinalPrice       string  `json:"final_price"`
}

func NewCostLineItemView(item domain.CostLineItem) CostLineItemView {
	return CostLineItemView{
		Description:      item.Description,
		SubgroupCode:     item.SubgroupCode,
		SubgroupTitle:    item.SubgroupTitle,
		TradeTitle:       item.TradeTitle,
		Quantity:         item.Quantity.InexactFloat64(),
		Unit:             item.Unit,
		UnitPrice:        item.UnitPrice.StringFixed(2),
		MaterialSubtotal: item.MaterialSubtotal.StringFixed(2),
		FinalPrice:       item.FinalPrice.StringFixed(2),
	}
}

type CostSummaryView struct {
	ProjectMetrics     map[string]float64 `json:"project_metrics"`
	GrandTotalCost     string             `json:"grand_total_cost"`
	CostFactorsApplied map[string]float64 `json:"cost_factors_applied"`
}

type CostResponse struct {
	RunID       string             `json:"run_id"`
	Summary     CostSummaryView    `json:"summary"`
	DetailedBOQ []CostLineItemView `json:"detailed_boq"`
}

type ReportResponse struct {
	ProjectName string            `json:"project_name"`
	FileCount   int               `json:"file_count"`
	Formats     []string          `json:"formats_generated"`
	Artifacts   map[string]string `json:"artifacts"`
	Message     string            `json:"message"`
}

type CatalogImportResponse struct {
	Version string `json:"version"`
	Types   int    `json:"types"`
	Message string `json:"message"`
}

type CostFactorImportResponse struct {
	TableVersion string `json:"table_version"`
	Factors      int    `json:"factors"`
	Message      string `json:"message"`
}

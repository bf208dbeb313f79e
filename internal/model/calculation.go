package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculationOptions controls the adjustment pipeline applied after direct cost.
// Zero location / seasonal factors are treated as neutral (1.0).
type CalculationOptions struct {
	IncludeIndirectCosts   bool            `json:"include_indirect_costs"`
	IndirectCostPercentage decimal.Decimal `json:"indirect_cost_percentage"`
	IncludeOverheads       bool            `json:"include_overheads"`
	OverheadPercentage     decimal.Decimal `json:"overhead_percentage"`
	IncludeContingency     bool            `json:"include_contingency"`
	ContingencyPercentage  decimal.Decimal `json:"contingency_percentage"`

	BulkDiscountPercentage   decimal.Decimal `json:"bulk_discount_percentage"`
	LocationAdjustmentFactor decimal.Decimal `json:"location_adjustment_factor"`
	SeasonalAdjustmentFactor decimal.Decimal `json:"seasonal_adjustment_factor"`

	// UseProjectDefaults fills disabled toggles and neutral factors from the
	// project's default adjustment settings.
	UseProjectDefaults bool `json:"use_project_defaults"`
	// AllowPartial keeps an item successful when a factor references a
	// missing catalogue entry (the line still costs 0 and is warned about).
	AllowPartial bool `json:"allow_partial"`
}

// RateSource records where a line's rate came from.
type RateSource string

const (
	RateSourceProject   RateSource = "project"
	RateSourceCatalogue RateSource = "catalogue"
	RateSourceNone      RateSource = "none"
)

// LineItem is one factor's contribution to a calculation.
type LineItem struct {
	Category          Category        `json:"category"`
	FactorID          string          `json:"factor_id"`
	CatalogueEntryID  string          `json:"catalogue_entry_id"`
	Code              string          `json:"code,omitempty"`
	Name              string          `json:"name,omitempty"`
	Unit              string          `json:"unit,omitempty"`
	BaseQuantity      decimal.Decimal `json:"base_quantity"`
	EffectiveQuantity decimal.Decimal `json:"effective_quantity"`
	Rate              decimal.Decimal `json:"rate"`
	RateSource        RateSource      `json:"rate_source"`
	Cost              decimal.Decimal `json:"cost"`
}

// Warning codes for recoverable data problems.
const (
	WarningMissingCatalogueEntry  = "missing_catalogue_entry"
	WarningInactiveCatalogueEntry = "inactive_catalogue_entry"
	WarningMissingReference       = "missing_reference"
	WarningDefaultProductivity    = "default_productivity_factor"
	WarningDefaultCrewSize        = "default_crew_size"
	WarningDefaultUtilization     = "default_utilization_factor"
)

// Warning is a data-quality problem recovered locally during a calculation.
type Warning struct {
	Code             string   `json:"code"`
	Category         Category `json:"category,omitempty"`
	FactorID         string   `json:"factor_id,omitempty"`
	CatalogueEntryID string   `json:"catalogue_entry_id,omitempty"`
	Message          string   `json:"message"`
}

// CalculationResult is the itemized cost of one library item.
// Monetary fields are rounded to 2 decimal places; Breakdown costs are not.
type CalculationResult struct {
	ItemID    string          `json:"item_id"`
	ItemCode  string          `json:"item_code,omitempty"`
	ItemName  string          `json:"item_name,omitempty"`
	Unit      string          `json:"unit,omitempty"`
	ProjectID string          `json:"project_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`

	MaterialCost  decimal.Decimal `json:"material_cost"`
	LaborCost     decimal.Decimal `json:"labor_cost"`
	EquipmentCost decimal.Decimal `json:"equipment_cost"`
	DirectCost    decimal.Decimal `json:"direct_cost"`

	IndirectCost       decimal.Decimal `json:"indirect_cost"`
	Overhead           decimal.Decimal `json:"overhead"`
	Contingency        decimal.Decimal `json:"contingency"`
	BulkDiscount       decimal.Decimal `json:"bulk_discount"`
	LocationAdjustment decimal.Decimal `json:"location_adjustment"`
	SeasonalAdjustment decimal.Decimal `json:"seasonal_adjustment"`

	UnitCost     decimal.Decimal `json:"unit_cost"`
	ExtendedCost decimal.Decimal `json:"extended_cost"`

	Breakdown    []LineItem `json:"breakdown"`
	Warnings     []Warning  `json:"warnings,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// Failed reports whether the item could not be calculated.
func (r *CalculationResult) Failed() bool {
	return r.Error != ""
}

// BatchSummary aggregates a CalculateMany call.
type BatchSummary struct {
	ItemsRequested  int             `json:"items_requested"`
	ItemsCalculated int             `json:"items_calculated"`
	ItemsFailed     int             `json:"items_failed"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	AverageCost     decimal.Decimal `json:"average_cost"`
}

// BatchResult is the outcome of a CalculateMany call; Results follow input order.
type BatchResult struct {
	ProjectID string               `json:"project_id,omitempty"`
	Results   []*CalculationResult `json:"results"`
	Summary   BatchSummary         `json:"summary"`
	// Rates is the project rate table the batch was priced with.
	Rates *ProjectRates `json:"rates,omitempty"`
	// PricedAt is the instant the rate table was resolved for.
	PricedAt time.Time `json:"priced_at"`
}

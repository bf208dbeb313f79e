package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Project struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	Status    string    `json:"status"` // "planning" | "active" | "closed"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Defaults *ProjectCostDefaults `json:"defaults,omitempty"`
}

// ProjectCostDefaults はプロジェクト既定の間接費・経費・予備費の設定
type ProjectCostDefaults struct {
	IndirectCostPercentage   decimal.Decimal `json:"indirect_cost_percentage"`
	OverheadPercentage       decimal.Decimal `json:"overhead_percentage"`
	ContingencyPercentage    decimal.Decimal `json:"contingency_percentage"`
	LocationAdjustmentFactor decimal.Decimal `json:"location_adjustment_factor"`
}

// ApplyTo fills options the caller left disabled or neutral with the
// project's defaults. Explicit caller settings always win.
func (d *ProjectCostDefaults) ApplyTo(opts CalculationOptions) CalculationOptions {
	if d == nil {
		return opts
	}
	if !opts.IncludeIndirectCosts && d.IndirectCostPercentage.IsPositive() {
		opts.IncludeIndirectCosts = true
		opts.IndirectCostPercentage = d.IndirectCostPercentage
	}
	if !opts.IncludeOverheads && d.OverheadPercentage.IsPositive() {
		opts.IncludeOverheads = true
		opts.OverheadPercentage = d.OverheadPercentage
	}
	if !opts.IncludeContingency && d.ContingencyPercentage.IsPositive() {
		opts.IncludeContingency = true
		opts.ContingencyPercentage = d.ContingencyPercentage
	}
	neutral := opts.LocationAdjustmentFactor.IsZero() || opts.LocationAdjustmentFactor.Equal(decimal.NewFromInt(1))
	if neutral && d.LocationAdjustmentFactor.IsPositive() {
		opts.LocationAdjustmentFactor = d.LocationAdjustmentFactor
	}
	return opts
}

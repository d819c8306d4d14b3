// Package dto shapes exported reports for JSON and YAML output.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"ipo_backend/internal/feature/dataops/usecase"
	ipodto "ipo_backend/internal/feature/ipo/transport/http/dto"
)

// Report type names accepted by the per-type export.
const (
	ReportAllotments   = "allotments"
	ReportApplications = "applications"
	ReportRefunds      = "refunds"
	ReportOverview     = "overview"
)

// FullExport is the body of GET /api/export.
type FullExport struct {
	Companies    []ipodto.CompanyItem `json:"companies" yaml:"companies"`
	Applications []ipodto.DetailItem  `json:"applications" yaml:"applications"`
	Allotments   []ipodto.DetailItem  `json:"allotments" yaml:"allotments"`
	ExportDate   string               `json:"exportDate" yaml:"exportDate"`
}

// OverviewReport is the full export tagged with a report type.
type OverviewReport struct {
	FullExport `yaml:",inline"`
	ReportType string `json:"reportType" yaml:"reportType"`
}

// AllotmentSummary totals an allotment report.
type AllotmentSummary struct {
	TotalAllotted  int64           `json:"totalAllotted" yaml:"totalAllotted"`
	TotalRequested int64           `json:"totalRequested" yaml:"totalRequested"`
	TotalRefunds   decimal.Decimal `json:"totalRefunds" yaml:"totalRefunds"`
}

// AllotmentsReport lists every application with its allotment.
type AllotmentsReport struct {
	Allotments []ipodto.DetailItem `json:"allotments" yaml:"allotments"`
	Summary    AllotmentSummary    `json:"summary" yaml:"summary"`
	ExportDate string              `json:"exportDate" yaml:"exportDate"`
	ReportType string              `json:"reportType" yaml:"reportType"`
}

// ApplicationsReport lists every application.
type ApplicationsReport struct {
	Applications []ipodto.DetailItem `json:"applications" yaml:"applications"`
	ExportDate   string              `json:"exportDate" yaml:"exportDate"`
	ReportType   string              `json:"reportType" yaml:"reportType"`
}

// RefundsReport lists the applications that received a refund.
type RefundsReport struct {
	Refunds           []ipodto.DetailItem `json:"refunds" yaml:"refunds"`
	TotalRefundAmount decimal.Decimal     `json:"totalRefundAmount" yaml:"totalRefundAmount"`
	ExportDate        string              `json:"exportDate" yaml:"exportDate"`
	ReportType        string              `json:"reportType" yaml:"reportType"`
}

// ResetResponse is the body of POST /api/reset.
type ResetResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Deleted usecase.ResetResult `json:"deleted"`
}

func exportDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// NewFullExport converts a snapshot into the full export.
func NewFullExport(s *usecase.Snapshot) FullExport {
	companies := make([]ipodto.CompanyItem, 0, len(s.Companies))
	for i := range s.Companies {
		companies = append(companies, ipodto.NewCompanyItem(&s.Companies[i]))
	}
	details := ipodto.NewDetailItems(s.Details)
	return FullExport{
		Companies:    companies,
		Applications: details,
		Allotments:   details,
		ExportDate:   exportDate(s.TakenAt),
	}
}

// NewReport builds the report named by typ. Unknown names yield the overview.
func NewReport(typ string, s *usecase.Snapshot) any {
	date := exportDate(s.TakenAt)
	details := ipodto.NewDetailItems(s.Details)

	switch typ {
	case ReportAllotments:
		var sum AllotmentSummary
		sum.TotalRefunds = decimal.Zero
		for _, d := range details {
			if d.SharesAlloted != nil {
				sum.TotalAllotted += *d.SharesAlloted
			}
			sum.TotalRequested += d.SharesReq
			if d.RefundAmount != nil {
				sum.TotalRefunds = sum.TotalRefunds.Add(*d.RefundAmount)
			}
		}
		return AllotmentsReport{Allotments: details, Summary: sum, ExportDate: date, ReportType: "Allotment Report"}

	case ReportApplications:
		return ApplicationsReport{Applications: details, ExportDate: date, ReportType: "Applications Report"}

	case ReportRefunds:
		refunds := make([]ipodto.DetailItem, 0, len(details))
		total := decimal.Zero
		for _, d := range details {
			if d.RefundAmount != nil && d.RefundAmount.IsPositive() {
				refunds = append(refunds, d)
				total = total.Add(*d.RefundAmount)
			}
		}
		return RefundsReport{Refunds: refunds, TotalRefundAmount: total, ExportDate: date, ReportType: "Refunds Report"}

	default:
		return OverviewReport{FullExport: NewFullExport(s), ReportType: "Overview Report"}
	}
}

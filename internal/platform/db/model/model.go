// Package model defines the GORM table models for the IPO store and their
// conversions to domain entities.
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"ipo_backend/internal/feature/ipo/domain/entity"
)

// CompanyModel is the GORM model for the companies table.
type CompanyModel struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:255;not null"`
	TotalShares int64           `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	StartDate   string          `gorm:"size:10;not null"`
	EndDate     string          `gorm:"size:10;not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM.
func (CompanyModel) TableName() string { return "companies" }

// ApplicantModel is the GORM model for the applicants table.
type ApplicantModel struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:255;not null"`
	PAN     string `gorm:"column:pan;size:10;not null;uniqueIndex"`
	DematNo string `gorm:"size:64;not null;uniqueIndex"`
}

// TableName returns the table name for GORM.
func (ApplicantModel) TableName() string { return "applicants" }

// ApplicationModel is the GORM model for the applications table.
type ApplicationModel struct {
	ID          uint            `gorm:"primaryKey"`
	ApplicantID uint            `gorm:"not null;index"`
	Applicant   *ApplicantModel `gorm:"constraint:OnDelete:RESTRICT"`
	CompanyID   uint            `gorm:"not null;index"`
	Company     *CompanyModel   `gorm:"constraint:OnDelete:RESTRICT"`
	SharesReq   int64           `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}

// TableName returns the table name for GORM.
func (ApplicationModel) TableName() string { return "applications" }

// AllotmentModel is the GORM model for the allotments table.
// application_id is unique: one allotment per application.
type AllotmentModel struct {
	ID            uint              `gorm:"primaryKey"`
	ApplicationID uint              `gorm:"not null;uniqueIndex"`
	Application   *ApplicationModel `gorm:"constraint:OnDelete:RESTRICT"`
	SharesAlloted int64             `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (AllotmentModel) TableName() string { return "allotments" }

// RefundModel is the GORM model for the refunds table.
// allotment_id is unique: one refund per allotment.
type RefundModel struct {
	ID          uint            `gorm:"primaryKey"`
	AllotmentID uint            `gorm:"not null;uniqueIndex"`
	Allotment   *AllotmentModel `gorm:"constraint:OnDelete:RESTRICT"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}

// TableName returns the table name for GORM.
func (RefundModel) TableName() string { return "refunds" }

// SettingModel is the GORM model for the settings key/value table.
// Keys are "section.field"; values are JSON documents.
type SettingModel struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (SettingModel) TableName() string { return "settings" }

// All returns every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&CompanyModel{},
		&ApplicantModel{},
		&ApplicationModel{},
		&AllotmentModel{},
		&RefundModel{},
		&SettingModel{},
	}
}

// ToEntity converts the model to a domain entity.
func (m *CompanyModel) ToEntity() *entity.Company {
	return &entity.Company{
		ID:          m.ID,
		Name:        m.Name,
		TotalShares: m.TotalShares,
		Price:       m.Price,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		CreatedAt:   m.CreatedAt,
	}
}

// CompanyModelFromEntity converts a domain entity to a model.
func CompanyModelFromEntity(c *entity.Company) *CompanyModel {
	return &CompanyModel{
		ID:          c.ID,
		Name:        c.Name,
		TotalShares: c.TotalShares,
		Price:       c.Price,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		CreatedAt:   c.CreatedAt,
	}
}

// ToEntity converts the model to a domain entity.
func (m *ApplicantModel) ToEntity() *entity.Applicant {
	return &entity.Applicant{ID: m.ID, Name: m.Name, PAN: m.PAN, DematNo: m.DematNo}
}

// ToEntity converts the model to a domain entity.
func (m *ApplicationModel) ToEntity() *entity.Application {
	return &entity.Application{
		ID:          m.ID,
		ApplicantID: m.ApplicantID,
		CompanyID:   m.CompanyID,
		SharesReq:   m.SharesReq,
		Amount:      m.Amount,
	}
}

// ToEntity converts the model to a domain entity.
func (m *AllotmentModel) ToEntity() *entity.Allotment {
	return &entity.Allotment{ID: m.ID, ApplicationID: m.ApplicationID, SharesAlloted: m.SharesAlloted}
}

// ToEntity converts the model to a domain entity.
func (m *RefundModel) ToEntity() *entity.Refund {
	return &entity.Refund{ID: m.ID, AllotmentID: m.AllotmentID, Amount: m.Amount}
}

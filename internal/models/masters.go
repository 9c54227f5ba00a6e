package models

// Master tables are flat name+description lookups maintained by admins and
// referenced by the sales module. They all share the generic CRUD surface.

type Country struct {
	Base
	Name string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Code string `gorm:"size:10" json:"code,omitempty"`
}

func (Country) TableName() string { return "mst_countries" }

type State struct {
	Base
	Name      string   `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	CountryID int64    `gorm:"not null;index" json:"country_id" validate:"required"`
	Country   *Country `gorm:"foreignKey:CountryID" json:"country,omitempty"`
}

func (State) TableName() string { return "mst_states" }

type City struct {
	Base
	Name    string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	StateID int64  `gorm:"not null;index" json:"state_id" validate:"required"`
	State   *State `gorm:"foreignKey:StateID" json:"state,omitempty"`
}

func (City) TableName() string { return "mst_cities" }

type Currency struct {
	Base
	Name   string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Code   string `gorm:"size:10" json:"code,omitempty"`
	Symbol string `gorm:"size:10" json:"symbol,omitempty"`
}

func (Currency) TableName() string { return "mst_currencies" }

type BusinessType struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (BusinessType) TableName() string { return "mst_business_types" }

type AccountType struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (AccountType) TableName() string { return "mst_account_types" }

type AddressType struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (AddressType) TableName() string { return "mst_address_types" }

type DocumentType struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (DocumentType) TableName() string { return "mst_document_types" }

type CompanyType struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (CompanyType) TableName() string { return "mst_company_types" }

type PartnerType struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (PartnerType) TableName() string { return "mst_partner_types" }

type IndustrySegment struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (IndustrySegment) TableName() string { return "mst_industry_segments" }

type SubIndustrySegment struct {
	Base
	Name              string           `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	IndustrySegmentID int64            `gorm:"not null;index" json:"industry_segment_id" validate:"required"`
	IndustrySegment   *IndustrySegment `gorm:"foreignKey:IndustrySegmentID" json:"industry_segment,omitempty"`
}

func (SubIndustrySegment) TableName() string { return "mst_sub_industry_segments" }

type JobFunction struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (JobFunction) TableName() string { return "mst_job_functions" }

type ProductServiceInterest struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (ProductServiceInterest) TableName() string { return "mst_product_service_interests" }

type HeadOfCompany struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (HeadOfCompany) TableName() string { return "mst_head_of_companies" }

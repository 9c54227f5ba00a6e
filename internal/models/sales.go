package models

// Company is the sales module's account record. Addresses, turnover, profit
// and document rows are owned children: updates replace them wholesale.
type Company struct {
	Base
	CompanyName       string `gorm:"size:255;not null" json:"company_name" validate:"required,min=2"`
	GSTNo             string `gorm:"size:20" json:"gst_no,omitempty"`
	PANNo             string `gorm:"size:15" json:"pan_no,omitempty"`
	Website           string `gorm:"size:255" json:"website,omitempty" validate:"omitempty,url"`
	CompanyProfile    string `gorm:"type:text" json:"company_profile,omitempty"`
	IndustrySegmentID *int64 `json:"industry_segment_id,omitempty"`
	AccountTypeID     *int64 `json:"account_type_id,omitempty"`
	BusinessTypeID    *int64 `json:"business_type_id,omitempty"`
	CompanyTypeID     *int64 `json:"company_type_id,omitempty"`
	AccountRegionID   *int64 `json:"account_region_id,omitempty"`
	IsChild           bool   `gorm:"default:false" json:"is_child"`
	ParentCompanyID   *int64 `json:"parent_company_id,omitempty"`

	Addresses       []CompanyAddress  `gorm:"foreignKey:CompanyID" json:"addresses,omitempty"`
	TurnoverRecords []CompanyTurnover `gorm:"foreignKey:CompanyID" json:"turnover_records,omitempty"`
	ProfitRecords   []CompanyProfit   `gorm:"foreignKey:CompanyID" json:"profit_records,omitempty"`
	Documents       []CompanyDocument `gorm:"foreignKey:CompanyID" json:"documents,omitempty"`
	Contacts        []Contact         `gorm:"foreignKey:CompanyID" json:"contacts,omitempty"`
}

func (Company) TableName() string { return "tbl_companies" }

type CompanyAddress struct {
	Base
	CompanyID     int64  `gorm:"not null;index" json:"company_id"`
	AddressTypeID *int64 `json:"address_type_id,omitempty"`
	Address       string `gorm:"type:text" json:"address" validate:"required"`
	CountryID     *int64 `json:"country_id,omitempty"`
	StateID       *int64 `json:"state_id,omitempty"`
	CityID        *int64 `json:"city_id,omitempty"`
	ZipCode       string `gorm:"size:15" json:"zip_code,omitempty"`
}

func (CompanyAddress) TableName() string { return "tbl_company_addresses" }

type CompanyTurnover struct {
	Base
	CompanyID  int64   `gorm:"not null;index" json:"company_id"`
	Year       int     `gorm:"not null" json:"year" validate:"required,min=1900"`
	Revenue    float64 `json:"revenue"`
	CurrencyID *int64  `json:"currency_id,omitempty"`
}

func (CompanyTurnover) TableName() string { return "tbl_company_turnovers" }

type CompanyProfit struct {
	Base
	CompanyID  int64   `gorm:"not null;index" json:"company_id"`
	Year       int     `gorm:"not null" json:"year" validate:"required,min=1900"`
	Revenue    float64 `json:"revenue"`
	CurrencyID *int64  `json:"currency_id,omitempty"`
}

func (CompanyProfit) TableName() string { return "tbl_company_profits" }

type CompanyDocument struct {
	Base
	CompanyID      int64  `gorm:"not null;index" json:"company_id"`
	DocumentTypeID *int64 `json:"document_type_id,omitempty"`
	FileName       string `gorm:"size:255" json:"file_name"`
	FilePath       string `gorm:"size:512" json:"file_path"`
	FileSize       int64  `json:"file_size"`
	Description    string `gorm:"size:255" json:"description,omitempty"`
	SignedURL      string `gorm:"-" json:"signed_url,omitempty"`
}

func (CompanyDocument) TableName() string { return "tbl_company_documents" }

// Contact is a person at a company.
type Contact struct {
	Base
	CompanyID     int64        `gorm:"not null;index" json:"company_id" validate:"required"`
	FirstName     string       `gorm:"size:100;not null" json:"first_name" validate:"required,min=2"`
	LastName      string       `gorm:"size:100" json:"last_name,omitempty"`
	Email         string       `gorm:"size:150" json:"email,omitempty" validate:"omitempty,email"`
	ContactNo     string       `gorm:"size:15" json:"contact_no,omitempty"`
	Designation   string       `gorm:"size:100" json:"designation,omitempty"`
	JobFunctionID *int64       `json:"job_function_id,omitempty"`
	IsPrimary     bool         `gorm:"default:false" json:"is_primary"`
	JobFunction   *JobFunction `gorm:"foreignKey:JobFunctionID" json:"job_function,omitempty"`
}

func (Contact) TableName() string { return "tbl_contacts" }

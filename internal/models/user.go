package models

import (
	"time"
)

// User is an admin-system account. RoleID is nullable: a user without a role
// has no role-based grants. AssignModules is a comma-separated list of module
// ids and is the sole source of module visibility.
type User struct {
	Base
	FullName           string     `gorm:"size:255" json:"full_name" validate:"required,min=2"`
	Username           string     `gorm:"size:100;uniqueIndex" json:"username" validate:"required,min=3"`
	Email              string     `gorm:"size:150;uniqueIndex" json:"email" validate:"required,email"`
	ContactNo          string     `gorm:"size:15" json:"contact_no,omitempty"`
	Gender             string     `gorm:"size:10" json:"gender,omitempty" validate:"omitempty,gender"`
	DOB                *time.Time `json:"dob,omitempty"`
	ProfilePhoto       string     `gorm:"size:255" json:"profile_photo,omitempty"`
	DepartmentID       *int64     `json:"department_id,omitempty"`
	SubDepartmentID    *int64     `json:"sub_department_id,omitempty"`
	DesignationID      *int64     `json:"designation_id,omitempty"`
	IsReporting        bool       `gorm:"default:false" json:"is_reporting"`
	ReportingTo        *int64     `json:"reporting_to,omitempty"`
	RegionID           *int64     `json:"region_id,omitempty"`
	RoleID             *int64     `gorm:"index" json:"role_id,omitempty"`
	AssignModules      string     `gorm:"size:100" json:"assign_modules" validate:"omitempty,id_csv"`
	Address            string     `gorm:"type:text" json:"address,omitempty"`
	BusinessVerticalID *int64     `json:"business_vertical_id,omitempty"`
	PasswordHash       string     `gorm:"type:text" json:"-"`

	Department    *Department    `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	SubDepartment *SubDepartment `gorm:"foreignKey:SubDepartmentID" json:"sub_department,omitempty"`
	Designation   *Designation   `gorm:"foreignKey:DesignationID" json:"designation,omitempty"`
	Role          *Role          `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Region        *Region        `gorm:"foreignKey:RegionID" json:"region,omitempty"`
	Manager       *User          `gorm:"foreignKey:ReportingTo" json:"manager,omitempty"`
}

func (User) TableName() string { return "tbl_users" }

// Role groups users for permission assignment.
type Role struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (Role) TableName() string { return "mst_roles" }

// Department / SubDepartment / Designation form the org structure referenced
// by users.
type Department struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Code        string `gorm:"size:20" json:"code,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Department) TableName() string { return "mst_departments" }

type SubDepartment struct {
	Base
	Name         string      `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Code         string      `gorm:"size:20" json:"code,omitempty"`
	DepartmentID *int64      `json:"department_id,omitempty"`
	Description  string      `gorm:"type:text" json:"description,omitempty"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (SubDepartment) TableName() string { return "mst_sub_departments" }

type Designation struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (Designation) TableName() string { return "mst_designations" }

type Region struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (Region) TableName() string { return "mst_regions" }

type BusinessVertical struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (BusinessVertical) TableName() string { return "mst_business_verticals" }

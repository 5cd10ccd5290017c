package employee

import (
	"time"

	"github.com/cmlabs-hris/clocksync/internal/pkg/utils"
)

// NamePlaceholder replaces empty names; Synel rejects empty name fields.
const NamePlaceholder = "Unknown"

// Employee is the roster entry propagated from Priority to Synel.
type Employee struct {
	ID        string
	FirstName string
	LastName  string
	Active    bool
	StartDate time.Time
}

// TargetEmployee is a Priority USERSB row.
type TargetEmployee struct {
	USERID      utils.FlexString `json:"USERID"`
	FIRSTNAME   string           `json:"FIRSTNAME"`
	FAMILYNAME  string           `json:"FAMILYNAME"`
	EMPINACTIVE string           `json:"EMPINACTIVE"`
}

// SourceEmployee is one item of Synel's InsertUpdateEmployees batch.
type SourceEmployee struct {
	ExternalID     string `json:"ExternalId"`
	EmployeeNo     string `json:"EmployeeNo"`
	BadgeNo        string `json:"BadgeNo"`
	FirstName      string `json:"FirstName"`
	LastName       string `json:"LastName"`
	StartDate      string `json:"StartDate"`
	DepartmentCode string `json:"DepartmentCode"`
	IsActive       string `json:"IsActive"`
}

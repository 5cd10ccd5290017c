package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
)

const SystemTarget = "priority"

// FromTarget maps a USERSB row. today becomes the start date because
// Priority does not expose a hire date to the integration.
func FromTarget(raw TargetEmployee, today time.Time) (Employee, error) {
	id := raw.USERID.String()
	if id == "" {
		return Employee{}, &syncrun.MappingError{
			System: SystemTarget,
			Record: strings.TrimSpace(raw.FIRSTNAME + " " + raw.FAMILYNAME),
			Err:    ErrMissingEmployeeID,
		}
	}

	return Employee{
		ID:        id,
		FirstName: nameOrPlaceholder(raw.FIRSTNAME),
		LastName:  nameOrPlaceholder(raw.FAMILYNAME),
		Active:    strings.TrimSpace(raw.EMPINACTIVE) != "Y",
		StartDate: time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
	}, nil
}

// ToSource maps an employee to Synel's shape. The shared ID doubles as
// employee and badge number.
func ToSource(e Employee, departmentCode string) SourceEmployee {
	isActive := "false"
	if e.Active {
		isActive = "true"
	}
	return SourceEmployee{
		ExternalID:     e.ID,
		EmployeeNo:     e.ID,
		BadgeNo:        e.ID,
		FirstName:      nameOrPlaceholder(e.FirstName),
		LastName:       nameOrPlaceholder(e.LastName),
		StartDate:      e.StartDate.Format("2006-01-02"),
		DepartmentCode: departmentCode,
		IsActive:       isActive,
	}
}

func nameOrPlaceholder(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return NamePlaceholder
	}
	return name
}

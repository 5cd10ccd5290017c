package employee

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 5, 1, 13, 45, 0, 0, time.UTC)

func TestFromTarget_InactiveFlag(t *testing.T) {
	cases := []struct {
		flag string
		want string
	}{
		{"Y", "false"},
		{"", "true"},
		{"N", "true"},
		{"y", "true"},
	}
	for _, c := range cases {
		emp, err := FromTarget(TargetEmployee{USERID: "7", FIRSTNAME: "Ada", FAMILYNAME: "Lovelace", EMPINACTIVE: c.flag}, today)
		require.NoError(t, err)
		assert.Equal(t, c.want, ToSource(emp, "0").IsActive, "EMPINACTIVE=%q", c.flag)
	}
}

func TestFromTarget_Placeholders(t *testing.T) {
	emp, err := FromTarget(TargetEmployee{USERID: "42", FIRSTNAME: "  "}, today)
	require.NoError(t, err)

	src := ToSource(emp, "0")
	assert.Equal(t, NamePlaceholder, src.FirstName)
	assert.Equal(t, NamePlaceholder, src.LastName)
}

func TestFromTarget_MissingID(t *testing.T) {
	_, err := FromTarget(TargetEmployee{FIRSTNAME: "Ada"}, today)

	var mappingErr *syncrun.MappingError
	require.True(t, errors.As(err, &mappingErr))
	assert.ErrorIs(t, err, ErrMissingEmployeeID)
}

func TestToSource(t *testing.T) {
	emp, err := FromTarget(TargetEmployee{USERID: "1001", FIRSTNAME: "Grace", FAMILYNAME: "Hopper"}, today)
	require.NoError(t, err)

	assert.Equal(t, SourceEmployee{
		ExternalID:     "1001",
		EmployeeNo:     "1001",
		BadgeNo:        "1001",
		FirstName:      "Grace",
		LastName:       "Hopper",
		StartDate:      "2024-05-01",
		DepartmentCode: "0",
		IsActive:       "true",
	}, ToSource(emp, "0"))
}

func TestWebhookPayload_Validate(t *testing.T) {
	assert.ErrorIs(t, (&WebhookPayload{}).Validate(), ErrEmptyPayload)
	assert.Error(t, (&WebhookPayload{USERSB: &TargetEmployee{}}).Validate())
	assert.Error(t, (&WebhookPayload{USERSB: &TargetEmployee{USERID: "1; DROP"}}).Validate())
	assert.NoError(t, (&WebhookPayload{USERSB: &TargetEmployee{USERID: "7"}}).Validate())
}

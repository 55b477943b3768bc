package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionOptionsDirectPatientAlwaysAllowed(t *testing.T) {
	opts := ConversionOptions{}

	assert.Equal(t, []ConversionTarget{TargetPatientDirect}, opts.Eligible())
	assert.False(t, opts.Allows(TargetOpportunity))
	assert.True(t, opts.Allows(TargetPatientDirect))
}

func TestConversionOptionsListsAllEligibleTargets(t *testing.T) {
	opts := ConversionOptions{
		CanConvertToContact:     true,
		CanConvertToOpportunity: true,
		CanConvertToPatient:     true,
	}

	assert.Equal(t, ConversionTargets, opts.Eligible())
}

func TestParseConversionTarget(t *testing.T) {
	target, err := ParseConversionTarget("opportunity")
	require.NoError(t, err)
	assert.Equal(t, TargetOpportunity, target)

	_, err = ParseConversionTarget("customer")
	assert.Error(t, err)
}

func TestPatientInputFromLeadOverrides(t *testing.T) {
	lead := Lead{Name: "Paula Reis", Email: "paula@example.com", Phone: "11999990000"}

	in := PatientInputFromLead(lead, PatientInput{Email: "paula@clinic.com", DateOfBirth: "1988-02-01"})

	assert.Equal(t, "Paula", in.FirstName)
	assert.Equal(t, "Reis", in.LastName)
	assert.Equal(t, "paula@clinic.com", in.Email)
	assert.Equal(t, "11999990000", in.Phone)
	assert.Equal(t, "1988-02-01", in.DateOfBirth)
}

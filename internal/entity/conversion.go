package entity

import "fmt"

// ConversionTarget is what an operator converts a lead into.
type ConversionTarget string

const (
	TargetContact       ConversionTarget = "contact"
	TargetOpportunity   ConversionTarget = "opportunity"
	TargetPatient       ConversionTarget = "patient"
	TargetPatientDirect ConversionTarget = "patient_direct"
)

// ConversionTargets in the order the conversion modal lists them.
var ConversionTargets = []ConversionTarget{
	TargetContact,
	TargetOpportunity,
	TargetPatient,
	TargetPatientDirect,
}

// ParseConversionTarget validates a target coming from a form or flag.
func ParseConversionTarget(s string) (ConversionTarget, error) {
	for _, t := range ConversionTargets {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown conversion target %q", s)
}

// ConversionOptions is what the backend says a lead may be converted into.
type ConversionOptions struct {
	LeadID                  int64  `json:"lead_id"`
	CurrentStatus           string `json:"current_status"`
	CanConvertToContact     bool   `json:"can_convert_to_contact"`
	CanConvertToOpportunity bool   `json:"can_convert_to_opportunity"`
	CanConvertToPatient     bool   `json:"can_convert_to_patient"`
}

// Allows reports whether the target may be offered. Direct patient creation
// is always offered.
func (o ConversionOptions) Allows(t ConversionTarget) bool {
	switch t {
	case TargetContact:
		return o.CanConvertToContact
	case TargetOpportunity:
		return o.CanConvertToOpportunity
	case TargetPatient:
		return o.CanConvertToPatient
	case TargetPatientDirect:
		return true
	default:
		return false
	}
}

// Eligible lists every target the operator may pick. No priority is implied.
func (o ConversionOptions) Eligible() []ConversionTarget {
	var out []ConversionTarget
	for _, t := range ConversionTargets {
		if o.Allows(t) {
			out = append(out, t)
		}
	}
	return out
}

// ConversionResult is what a conversion call returns. Only the entities the
// backend sent back are set.
type ConversionResult struct {
	Target      ConversionTarget
	Message     string
	Lead        *Lead
	Opportunity *Opportunity
	Patient     *Patient
	// Calls is the number of conversion requests issued.
	Calls int
}

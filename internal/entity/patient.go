package entity

// Patient lives in the clinical system. The CRM only creates it through a
// conversion and displays what the backend returns.
type Patient struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

func (p Patient) FullName() string {
	return JoinName(p.FirstName, p.LastName)
}

// PatientInput carries the fields used to create a patient straight from a lead.
type PatientInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// PatientInputFromLead fills a PatientInput from the lead; non-empty fields
// of override win.
func PatientInputFromLead(l Lead, override PatientInput) PatientInput {
	first, last := SplitName(l.Name)
	in := PatientInput{
		FirstName: first,
		LastName:  last,
		Email:     l.Email,
		Phone:     l.Phone,
		Notes:     l.Notes,
	}
	if override.FirstName != "" {
		in.FirstName = override.FirstName
	}
	if override.LastName != "" {
		in.LastName = override.LastName
	}
	if override.Email != "" {
		in.Email = override.Email
	}
	if override.Phone != "" {
		in.Phone = override.Phone
	}
	if override.Notes != "" {
		in.Notes = override.Notes
	}
	in.DateOfBirth = override.DateOfBirth
	in.Gender = override.Gender
	return in
}

package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const MsgScheduledInPast = "Scheduled date cannot be in the past"

var phonePattern = regexp.MustCompile(`^[0-9+\-() ]{7,20}$`)

// LeadForm is the lead create/update form as typed by the operator.
type LeadForm struct {
	Name   string `form:"name" validate:"required,max=200"`
	Email  string `form:"email" validate:"omitempty,email"`
	Phone  string `form:"phone" validate:"omitempty,crm_phone"`
	Source string `form:"source" validate:"omitempty,lead_source"`
	Status string `form:"status" validate:"omitempty,lead_status"`
	Stage  string `form:"stage" validate:"max=100"`
	Notes  string `form:"notes" validate:"max=5000"`
}

// OpportunityForm keeps amount and probability as text; they are parsed
// after the tags pass.
type OpportunityForm struct {
	LeadID            int64  `form:"lead_id" validate:"gte=0"`
	Name              string `form:"name" validate:"required,max=200"`
	Amount            string `form:"amount" validate:"required,crm_amount"`
	Stage             string `form:"stage" validate:"omitempty,opportunity_stage"`
	Probability       int    `form:"probability" validate:"gte=0,lte=100"`
	ExpectedCloseDate string `form:"expected_close_date" validate:"omitempty,datetime=2006-01-02"`
	Notes             string `form:"notes" validate:"max=5000"`

	// Malformed lists fields the caller could not parse into their Go type.
	Malformed ValidationErrors `form:"-" validate:"-"`
}

type FollowUpForm struct {
	Type          string `form:"type" validate:"required,followup_type"`
	Subject       string `form:"subject" validate:"required,max=200"`
	Description   string `form:"description" validate:"max=5000"`
	ScheduledDate string `form:"scheduled_date" validate:"required"`
	RelatedType   string `form:"related_type" validate:"required,oneof=lead contact opportunity"`
	RelatedID     int64  `form:"related_id" validate:"required,gt=0"`
	Completed     bool   `form:"completed"`

	Malformed ValidationErrors `form:"-" validate:"-"`
}

// Validator checks forms before anything is sent to the backend.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// NewValidator builds a validator. now is the clock used by the
// "not in the past" rule; nil means time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "crm_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "crm_amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && !d.IsNegative()
	})
	mustRegister(v, "lead_status", inSet(append([]string{entity.LeadStatusContact}, entity.LeadStatuses...)))
	mustRegister(v, "lead_source", inSet(entity.LeadSources))
	mustRegister(v, "opportunity_stage", inSet(entity.OpportunityStages))
	mustRegister(v, "followup_type", inSet(entity.FollowUpTypes))
	return &Validator{v: v, now: now}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

func inSet(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, v := range values {
			if v == s {
				return true
			}
		}
		return false
	}
}

func (val *Validator) Lead(f LeadForm) (entity.LeadInput, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	if errs := val.check(f); len(errs) > 0 {
		return entity.LeadInput{}, errs
	}
	return entity.LeadInput{
		Name:   f.Name,
		Email:  f.Email,
		Phone:  f.Phone,
		Source: f.Source,
		Status: f.Status,
		Stage:  f.Stage,
		Notes:  f.Notes,
	}, nil
}

func (val *Validator) Opportunity(f OpportunityForm) (entity.OpportunityInput, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Amount = strings.TrimSpace(f.Amount)
	if errs := merge(val.check(f), f.Malformed); len(errs) > 0 {
		return entity.OpportunityInput{}, errs
	}
	amount, _ := decimal.NewFromString(f.Amount)
	in := entity.OpportunityInput{
		Name:              f.Name,
		Amount:            amount,
		Stage:             f.Stage,
		Probability:       f.Probability,
		ExpectedCloseDate: f.ExpectedCloseDate,
		Notes:             f.Notes,
	}
	if in.Stage == "" {
		in.Stage = entity.StageProspecting
	}
	if f.LeadID > 0 {
		id := f.LeadID
		in.LeadID = &id
	}
	return in, nil
}

// FollowUp validates the form and resolves the scheduled date in the
// clock's location. A date without time is compared to the start of today,
// so "today" is accepted all day long.
func (val *Validator) FollowUp(f FollowUpForm) (entity.FollowUpInput, error) {
	f.Subject = strings.TrimSpace(f.Subject)
	errs := merge(val.check(f), f.Malformed)

	var scheduled time.Time
	if errs.Field("scheduled_date") == "" {
		now := val.now()
		t, dateOnly, err := parseSchedule(f.ScheduledDate, now.Location())
		switch {
		case err != nil:
			errs = append(errs, ValidationError{"scheduled_date", "must be a valid date"})
		case dateOnly && t.Before(startOfDay(now)):
			errs = append(errs, ValidationError{"scheduled_date", MsgScheduledInPast})
		case !dateOnly && t.Before(now):
			errs = append(errs, ValidationError{"scheduled_date", MsgScheduledInPast})
		default:
			scheduled = t
		}
	}
	if len(errs) > 0 {
		return entity.FollowUpInput{}, errs
	}

	return entity.FollowUpInput{
		Type:          f.Type,
		Subject:       f.Subject,
		Description:   f.Description,
		ScheduledDate: scheduled,
		RelatedType:   entity.RelatedType(f.RelatedType),
		RelatedID:     f.RelatedID,
		Completed:     f.Completed,
	}, nil
}

var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseSchedule(s string, loc *time.Location) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(entity.DateLayout, s, loc); err == nil {
		return t, true, nil
	}
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q", s)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (val *Validator) check(form any) ValidationErrors {
	err := val.v.Struct(form)
	if err == nil {
		return ValidationErrors{}
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "form", Message: err.Error()}}
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// merge reports parse failures in place of the tag errors their zero
// values caused.
func merge(errs, malformed ValidationErrors) ValidationErrors {
	if len(malformed) == 0 {
		return errs
	}
	out := make(ValidationErrors, 0, len(errs)+len(malformed))
	for _, e := range errs {
		if malformed.Field(e.Field) == "" {
			out = append(out, e)
		}
	}
	return append(out, malformed...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "crm_phone":
		return "must be a valid phone number"
	case "crm_amount":
		return "must be a number greater than or equal to zero"
	case "lead_status", "lead_source", "opportunity_stage", "followup_type", "oneof":
		return "is not a valid option"
	case "datetime":
		return "must be a valid date (YYYY-MM-DD)"
	case "gte", "lte", "gt":
		if fe.Field() == "probability" {
			return "must be between 0 and 100"
		}
		return "is out of range"
	case "max":
		return "is too long"
	default:
		return "is invalid"
	}
}

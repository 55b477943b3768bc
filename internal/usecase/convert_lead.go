package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/pkg/logger"
)

type ConvertLeadInput struct {
	Lead   entity.Lead
	Target entity.ConversionTarget
	// Options from a previous query. When nil they are fetched once, except
	// for direct patient creation which needs none.
	Options     *entity.ConversionOptions
	Opportunity OpportunityForm
	// Patient overrides the fields derived from the lead.
	Patient entity.PatientInput
}

type ConvertLeadUseCase struct {
	Gateway   ConversionGateway
	Publisher EventPublisher
	Validator *Validator
	log       *logger.Logger
}

// NewConvertLeadUseCase wires the workflow. publisher may be nil.
func NewConvertLeadUseCase(gateway ConversionGateway, publisher EventPublisher, validator *Validator, log *logger.Logger) *ConvertLeadUseCase {
	if validator == nil {
		validator = NewValidator(nil)
	}
	return &ConvertLeadUseCase{
		Gateway:   gateway,
		Publisher: publisher,
		Validator: validator,
		log:       log.Component("convert_lead"),
	}
}

func (uc *ConvertLeadUseCase) Options(ctx context.Context, leadID int64) (entity.ConversionOptions, error) {
	opts, err := uc.Gateway.ConversionOptions(ctx, leadID)
	if err != nil {
		return entity.ConversionOptions{}, backendError("load conversion options", err)
	}
	return opts, nil
}

// Execute converts the lead into exactly one target. Multi-step targets are
// not rolled back when a later step fails.
func (uc *ConvertLeadUseCase) Execute(ctx context.Context, in ConvertLeadInput) (entity.ConversionResult, error) {
	target, err := entity.ParseConversionTarget(string(in.Target))
	if err != nil {
		return entity.ConversionResult{}, &DomainError{Code: CodeInvalidTarget, Message: err.Error()}
	}

	if target != entity.TargetPatientDirect {
		opts := in.Options
		if opts == nil {
			fetched, err := uc.Options(ctx, in.Lead.ID)
			if err != nil {
				return entity.ConversionResult{}, err
			}
			opts = &fetched
		}
		if !opts.Allows(target) {
			metrics.RecordConversion(string(target), "refused")
			return entity.ConversionResult{}, &DomainError{
				Code:    CodeConversionNotAllowed,
				Message: fmt.Sprintf("lead %d cannot be converted to %s", in.Lead.ID, target),
			}
		}
	}

	var res entity.ConversionResult
	switch target {
	case entity.TargetContact:
		res, err = uc.Gateway.ConvertToContact(ctx, in.Lead.ID)
	case entity.TargetOpportunity:
		res, err = uc.toOpportunity(ctx, in)
	case entity.TargetPatient:
		res, err = uc.toPatient(ctx, in)
	case entity.TargetPatientDirect:
		res, err = uc.Gateway.CreatePatientFromLead(ctx, in.Lead.ID, entity.PatientInputFromLead(in.Lead, in.Patient))
	}
	res.Target = target

	if err != nil {
		if _, isValidation := AsValidationErrors(err); isValidation {
			return res, err
		}
		metrics.RecordConversion(string(target), "failed")
		uc.log.Error().Err(err).Int64("lead_id", in.Lead.ID).Str("target", string(target)).Msg("lead conversion failed")
		return res, backendError("convert lead to "+string(target), err)
	}

	metrics.RecordConversion(string(target), "ok")
	uc.log.Info().Int64("lead_id", in.Lead.ID).Str("target", string(target)).Int("calls", res.Calls).Msg("lead converted")
	uc.publish(ctx, in.Lead, res)
	return res, nil
}

func (uc *ConvertLeadUseCase) toOpportunity(ctx context.Context, in ConvertLeadInput) (entity.ConversionResult, error) {
	form := in.Opportunity
	if form.Name == "" {
		form.Name = in.Lead.Name
	}
	opp, err := uc.Validator.Opportunity(form)
	if err != nil {
		return entity.ConversionResult{}, err
	}
	return uc.Gateway.ConvertToOpportunity(ctx, in.Lead.ID, opp)
}

// toPatient runs the two-step path: contact first, then patient. The first
// step is skipped for leads that already read as contacts.
func (uc *ConvertLeadUseCase) toPatient(ctx context.Context, in ConvertLeadInput) (entity.ConversionResult, error) {
	calls := 0
	lead := in.Lead

	if !lead.IsContact() {
		step, err := uc.Gateway.ConvertToContact(ctx, lead.ID)
		calls++
		if err != nil {
			return entity.ConversionResult{Calls: calls}, fmt.Errorf("contact step: %w", err)
		}
		if step.Lead != nil {
			lead = *step.Lead
		}
	}

	res, err := uc.Gateway.ConvertLeadToPatient(ctx, lead.ID, entity.PatientInputFromLead(lead, in.Patient))
	calls++
	res.Calls = calls
	if err != nil {
		return res, fmt.Errorf("patient step: %w", err)
	}
	if res.Lead == nil {
		res.Lead = &lead
	}
	return res, nil
}

func (uc *ConvertLeadUseCase) publish(ctx context.Context, lead entity.Lead, res entity.ConversionResult) {
	if uc.Publisher == nil {
		return
	}
	ev := queue.ConversionEvent{
		Target:    string(res.Target),
		LeadID:    lead.ID,
		LeadName:  lead.Name,
		LeadEmail: lead.Email,
		Message:   res.Message,
	}
	if res.Opportunity != nil {
		ev.OpportunityID = res.Opportunity.ID
	}
	if res.Patient != nil {
		ev.PatientID = res.Patient.ID
	}
	if err := uc.Publisher.PublishConversion(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Int64("lead_id", lead.ID).Msg("could not publish conversion event")
	}
}

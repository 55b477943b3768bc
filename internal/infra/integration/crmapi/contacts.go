package crmapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const contactsPath = "/crm/contacts"

// ListContacts reads lead records from the contacts endpoint and projects
// them into contacts. Contacts have no storage of their own.
func (c *Client) ListContacts(ctx context.Context, f entity.ListFilter) (entity.Page[entity.Contact], error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, contactsPath, f.Values(), nil, &raw); err != nil {
		return entity.Page[entity.Contact]{}, err
	}
	dtos, total, err := decodeList[leadDTO](raw)
	if err != nil {
		return entity.Page[entity.Contact]{}, fmt.Errorf("decode contacts: %w", err)
	}
	leads, skipped := mapRecords(dtos, toLead)
	c.warnSkipped("contacts", skipped)
	contacts := make([]entity.Contact, 0, len(leads))
	for _, l := range leads {
		contacts = append(contacts, l.AsContactView())
	}
	return entity.Page[entity.Contact]{Data: contacts, Total: total}, nil
}

// ConvertContactToPatient materializes a patient from a contact.
func (c *Client) ConvertContactToPatient(ctx context.Context, contactID int64, in entity.PatientInput) (entity.ConversionResult, error) {
	return c.convert(ctx, entity.TargetPatient, idPath(contactsPath, contactID, "convert-to-patient"), in)
}

package store

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Fold lowercases s and strips diacritics so "João" matches "joao".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

func matches(query string, fields ...string) bool {
	q := Fold(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Fold(f), q) {
			return true
		}
	}
	return false
}

// FilterLeads narrows already loaded leads by name, email or phone.
func FilterLeads(leads []entity.Lead, query string) []entity.Lead {
	out := []entity.Lead{}
	for _, l := range leads {
		if matches(query, l.Name, l.Email, l.Phone) {
			out = append(out, l)
		}
	}
	return out
}

func FilterContacts(contacts []entity.Contact, query string) []entity.Contact {
	out := []entity.Contact{}
	for _, c := range contacts {
		if matches(query, c.FullName(), c.Email, c.Phone) {
			out = append(out, c)
		}
	}
	return out
}

func FilterOpportunities(opps []entity.Opportunity, query string) []entity.Opportunity {
	out := []entity.Opportunity{}
	for _, o := range opps {
		if matches(query, o.Name, o.Notes) {
			out = append(out, o)
		}
	}
	return out
}

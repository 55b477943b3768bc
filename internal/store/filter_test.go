package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestFoldStripsAccentsAndCase(t *testing.T) {
	assert.Equal(t, "joao conceicao", Fold("  João Conceição "))
}

func TestFilterLeadsIgnoresAccents(t *testing.T) {
	leads := []entity.Lead{
		{ID: 1, Name: "José Antônio"},
		{ID: 2, Name: "Maria", Email: "maria@clinica.com"},
	}

	got := FilterLeads(leads, "antonio")
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	assert.Len(t, FilterLeads(leads, "CLINICA"), 1)
	assert.Len(t, FilterLeads(leads, ""), 2)
	assert.Empty(t, FilterLeads(leads, "zzz"))
}

func TestFilterContactsUsesFullName(t *testing.T) {
	contacts := []entity.Contact{{ID: 1, FirstName: "Lúcia", LastName: "Gonçalves"}}

	assert.Len(t, FilterContacts(contacts, "lucia gonc"), 1)
}

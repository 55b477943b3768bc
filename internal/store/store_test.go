package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestStoreSnapshotIsIsolated(t *testing.T) {
	s := New()
	s.Dispatch(LeadsLoaded{Page: entity.Page[entity.Lead]{Data: []entity.Lead{{ID: 1, Name: "Ana"}}}})

	snap := s.State()
	snap.Leads[0].Name = "changed"
	snap.Modals[ModalLead] = true

	fresh := s.State()
	assert.Equal(t, "Ana", fresh.Leads[0].Name)
	assert.False(t, fresh.Modals[ModalLead])
}

func TestStoreNotifiesSubscribers(t *testing.T) {
	s := New()
	var got []bool
	unsubscribe := s.Subscribe(func(st State) { got = append(got, st.IsLoading) })

	s.Dispatch(FetchStarted{})
	s.Dispatch(FetchFailed{Err: "x"})
	unsubscribe()
	s.Dispatch(FetchStarted{})

	assert.Equal(t, []bool{true, false}, got)
}

func TestStoreDispatchBatchNotifiesOnce(t *testing.T) {
	s := New()
	calls := 0
	s.Subscribe(func(State) { calls++ })

	s.Dispatch(FetchStarted{}, StatisticsLoaded{Stats: entity.CRMStatistics{TotalLeads: 3}})

	assert.Equal(t, 1, calls)
	require.NotNil(t, s.State().Statistics)
	assert.Equal(t, 3, s.State().Statistics.TotalLeads)
}

func TestStoreConcurrentDispatch(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Dispatch(LeadSaved{Lead: entity.Lead{ID: id}})
		}(int64(i))
	}
	wg.Wait()

	assert.Len(t, s.State().Leads, 50)
}

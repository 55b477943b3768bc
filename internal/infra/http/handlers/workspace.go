package handlers

import (
	"sync"

	"github.com/xavierca1/ligue-crm/internal/store"
	"github.com/xavierca1/ligue-crm/internal/usecase"
	"github.com/xavierca1/ligue-crm/pkg/logger"
)

// Workspaces keeps one store per signed-in session, so two operators never
// see each other's lists, selections or modals.
type Workspaces struct {
	mu        sync.Mutex
	gateway   usecase.CRMGateway
	publisher usecase.EventPublisher
	validator *usecase.Validator
	log       *logger.Logger
	bySession map[string]*usecase.Actions
}

func NewWorkspaces(gateway usecase.CRMGateway, publisher usecase.EventPublisher, validator *usecase.Validator, log *logger.Logger) *Workspaces {
	return &Workspaces{
		gateway:   gateway,
		publisher: publisher,
		validator: validator,
		log:       log,
		bySession: map[string]*usecase.Actions{},
	}
}

// For returns the actions bound to the session's store, creating both on
// first use.
func (w *Workspaces) For(sessionID string) *usecase.Actions {
	w.mu.Lock()
	defer w.mu.Unlock()

	if a, ok := w.bySession[sessionID]; ok {
		return a
	}
	a := usecase.NewActions(w.gateway, store.New(), w.publisher, w.validator, w.log)
	w.bySession[sessionID] = a
	return a
}

func (w *Workspaces) Drop(sessionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.bySession, sessionID)
}

func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.bySession)
}

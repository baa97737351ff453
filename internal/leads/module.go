// Package leads provides the lead lifecycle bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"leadtrack_backend/internal/events"
	apphttp "leadtrack_backend/internal/http"
	"leadtrack_backend/internal/leads/handler"
	"leadtrack_backend/internal/leads/repository"
	"leadtrack_backend/internal/leads/service"
	"leadtrack_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
// The activity recorder subscribes to every lifecycle event, so all writers on
// this bus feed the audit trail.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)

	service.NewActivityRecorder(repo).Register(eventBus)

	svc := service.New(repo, eventBus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead lifecycle service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the lead store, used by the reaper's composition root.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts the lead lifecycle routes for both path families.
// The family segment is resolved by middleware before any handler runs.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	familyGroup := ctx.Protected.Group("/:family", handler.FamilyResolver())
	m.handler.RegisterRoutes(familyGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

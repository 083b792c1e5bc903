package shared

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot is a consistency boundary that records events while it changes
type AggregateRoot interface {
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot tracks the version used for optimistic locking and the
// events raised since the aggregate was loaded.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// MarkChanged bumps the version and the update timestamp
func (a *BaseAggregateRoot) MarkChanged() {
	a.Version++
	a.UpdatedAt = time.Now()
}

// AddDomainEvent queues event for publication after commit
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the queued events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the queued events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// TenantAggregateRoot is an aggregate owned by one tenant
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID
	CreatedBy *uuid.UUID
}

// NewTenantAggregateRoot starts a new aggregate at version 1
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1},
		TenantID:          tenantID,
	}
}

// SetCreatedBy records the user that created the aggregate
func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	t.CreatedBy = &userID
}

package farm

import (
	"context"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLogHandler writes an activity log line for every committed farm operation.
// Failures are logged and returned to the bus; they never undo the operation.
type ActivityLogHandler struct {
	repo   farm.ActivityLogRepository
	logger *zap.Logger
}

// NewActivityLogHandler creates a new ActivityLogHandler
func NewActivityLogHandler(repo farm.ActivityLogRepository, logger *zap.Logger) *ActivityLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLogHandler{repo: repo, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ActivityLogHandler) EventTypes() []string {
	return []string{
		farm.EventTypeIntakeRecorded,
		farm.EventTypeTransferRecorded,
		farm.EventTypeSaleRecorded,
		farm.EventTypeBiometryRecorded,
	}
}

// Handle records the activity described by the event
func (h *ActivityLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	ae, ok := event.(farm.ActivityEvent)
	if !ok {
		h.logger.Warn("Event does not describe an activity",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()))
		return nil
	}
	actor := ae.GetActor()
	entry := farm.NewActivityLog(event.TenantID(), actor.UserID, actor.UserName, ae.Describe())
	eventID := event.EventID()
	entry.EventID = &eventID

	if err := h.repo.Save(ctx, entry); err != nil {
		h.logger.Warn("Failed to record activity",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", eventID.String()),
			zap.String("tenant_id", event.TenantID().String()),
			zap.Error(err))
		return err
	}
	h.logger.Debug("Activity recorded",
		zap.String("event_type", event.EventType()),
		zap.String("activity_id", entry.ID.String()))
	return nil
}

// ActivityService lists activity log entries
type ActivityService struct {
	repo farm.ActivityLogRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo farm.ActivityLogRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// List returns a page of the tenant's activity log, newest first
func (s *ActivityService) List(ctx context.Context, rc shared.RequestContext, filter ActivityLogFilter) ([]ActivityLogResponse, int64, error) {
	if err := rc.Validate(); err != nil {
		return nil, 0, err
	}
	f := buildFilter(filter.Page, filter.PageSize, "created_at", "desc")
	if filter.UserID != nil {
		f.Filters["user_id"] = *filter.UserID
	}
	entries, err := s.repo.FindAllForTenant(ctx, rc.TenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, rc.TenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ActivityLogResponse, len(entries))
	for i, e := range entries {
		out[i] = ActivityLogResponse{
			ID:          e.ID,
			UserID:      e.UserID,
			UserName:    e.UserName,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		}
	}
	return out, total, nil
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)

// Package maintenance implements machine work orders and recurring
// maintenance schedules.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"karmdeep-backend/internal/domain"
	"karmdeep-backend/internal/keys"
	"karmdeep-backend/internal/messaging"
	"karmdeep-backend/internal/repository"
	"karmdeep-backend/pkg/auth"
	appErrors "karmdeep-backend/pkg/errors"
	"karmdeep-backend/pkg/validation"
)

var maintainerPolicy = auth.Policy{
	Roles:   []string{auth.RoleEngineer, auth.RoleAdmin},
	Message: "only engineers can manage maintenance",
}

// Fields a work order update may touch; status drives the machine below.
var workOrderUpdateFields = []string{"status", "findings", "partsUsed", "cost"}

// Service implements the maintenance operations.
type Service struct {
	store     repository.Store
	publisher messaging.Publisher
	topicARN  string
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires a maintenance service. topicARN is the
// maintenance-events topic.
func NewService(store repository.Store, publisher messaging.Publisher, topicARN string, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		topicARN:  topicARN,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CreateWorkOrder opens a CREATED work order on a machine and announces it.
func (s *Service) CreateWorkOrder(ctx context.Context, p auth.Principal, payload map[string]interface{}) (*domain.WorkOrder, error) {
	if err := auth.Authorize(p, maintainerPolicy, ""); err != nil {
		return nil, err
	}
	if err := validation.Required(payload, "machineId", "maintenanceType", "assignedTechnician", "scheduledDate"); err != nil {
		return nil, err
	}

	var wo domain.WorkOrder
	if err := repository.Unmarshal(repository.Record(payload), &wo); err != nil {
		return nil, appErrors.NewValidation("malformed work order payload")
	}
	if err := validation.OneOf(wo.MaintenanceType, "maintenanceType",
		domain.MaintenancePreventive, domain.MaintenanceCorrective,
		domain.MaintenancePredictive, domain.MaintenanceEmergency); err != nil {
		return nil, err
	}

	wo.WorkOrderID = s.newID()
	wo.Status = domain.WorkOrderCreated
	wo.CreatedAt = repository.Timestamp(s.now())
	if err := validation.Struct(wo); err != nil {
		return nil, err
	}

	rec, err := repository.Marshal(wo)
	if err != nil {
		return nil, appErrors.NewInternal("failed to encode work order", err)
	}
	rec = rec.WithKey(keys.WorkOrder(wo.WorkOrderID)).
		WithGSI1(keys.WorkOrderByMachine(wo.MachineID, wo.WorkOrderID)).
		WithGSI2(keys.WorkOrderByTechnician(wo.AssignedTechnician, wo.ScheduledDate))
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, err
	}

	event := messaging.NewEvent(messaging.EventWorkOrderCreated, map[string]interface{}{
		"workOrderId":        wo.WorkOrderID,
		"machineId":          wo.MachineID,
		"assignedTechnician": wo.AssignedTechnician,
		"scheduledDate":      wo.ScheduledDate,
	})
	subject := fmt.Sprintf("New Work Order: %s", wo.WorkOrderID)
	if _, err := s.publisher.Publish(ctx, s.topicARN, subject, event); err != nil {
		s.logger.Warn("Work order notification failed",
			zap.Error(err),
			zap.String("workOrderId", wo.WorkOrderID),
		)
	}

	s.logger.Info("Work order created",
		zap.String("workOrderId", wo.WorkOrderID),
		zap.String("machineId", wo.MachineID),
	)
	return &wo, nil
}

// UpdateWorkOrder applies whitelisted changes. A status change must follow
// the work-order machine; reaching COMPLETED stamps completedDate and any
// status change is announced.
func (s *Service) UpdateWorkOrder(ctx context.Context, p auth.Principal, workOrderID string, payload map[string]interface{}) (*domain.WorkOrder, error) {
	if err := auth.Authorize(p, maintainerPolicy, ""); err != nil {
		return nil, err
	}

	updates := repository.Record{}
	for _, field := range workOrderUpdateFields {
		if value, ok := payload[field]; ok && value != nil {
			updates[field] = value
		}
	}
	if len(updates) == 0 {
		return nil, appErrors.NewValidation("no valid fields to update")
	}

	status, _ := updates["status"].(string)
	if status != "" {
		rec, err := s.store.Get(ctx, keys.WorkOrder(workOrderID))
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, appErrors.NewNotFound("work order not found")
		}
		var current domain.WorkOrder
		if err := repository.Unmarshal(rec, &current); err != nil {
			return nil, appErrors.NewInternal("failed to decode work order", err)
		}
		if err := domain.WorkOrderTransitions.Check("work order", current.Status, status); err != nil {
			return nil, err
		}
		if status == domain.WorkOrderCompleted {
			updates["completedDate"] = repository.Timestamp(s.now())
		}
	}

	rec, err := s.store.Update(ctx, keys.WorkOrder(workOrderID), updates)
	if err != nil {
		return nil, err
	}
	var updated domain.WorkOrder
	if err := repository.Unmarshal(rec, &updated); err != nil {
		return nil, appErrors.NewInternal("failed to decode work order", err)
	}

	if status != "" {
		event := messaging.NewEvent(messaging.EventWorkOrderUpdated, map[string]interface{}{
			"workOrderId": workOrderID,
			"status":      status,
		})
		subject := fmt.Sprintf("Work Order %s - Status: %s", workOrderID, status)
		if _, err := s.publisher.Publish(ctx, s.topicARN, subject, event); err != nil {
			s.logger.Warn("Work order notification failed",
				zap.Error(err),
				zap.String("workOrderId", workOrderID),
			)
		}
	}
	return &updated, nil
}

// GetWorkOrders pages work orders by technician or by machine.
func (s *Service) GetWorkOrders(ctx context.Context, technicianID, machineID string, limit int, nextToken string) ([]domain.WorkOrder, string, error) {
	var q repository.Query
	switch {
	case technicianID != "":
		q = repository.Query{
			Partition: keys.TechnicianPartition(technicianID),
			Index:     repository.IndexGSI2,
			Limit:     limit,
			NextToken: nextToken,
		}
	case machineID != "":
		q = repository.Query{
			Partition:  keys.MachinePartition(machineID),
			SortPrefix: "WORKORDER#",
			Index:      repository.IndexGSI1,
			Limit:      limit,
			NextToken:  nextToken,
		}
	default:
		return nil, "", appErrors.NewValidation("either technicianId or machineId is required")
	}

	page, err := s.store.Query(ctx, q)
	if err != nil {
		return nil, "", err
	}

	workOrders := make([]domain.WorkOrder, 0, len(page.Items))
	for _, rec := range page.Items {
		var wo domain.WorkOrder
		if err := repository.Unmarshal(rec, &wo); err != nil {
			return nil, "", appErrors.NewInternal("failed to decode work order", err)
		}
		workOrders = append(workOrders, wo)
	}
	return workOrders, page.NextToken, nil
}

// CreateSchedule records a recurring maintenance plan for a machine.
func (s *Service) CreateSchedule(ctx context.Context, p auth.Principal, payload map[string]interface{}) (*domain.MaintenanceSchedule, error) {
	if err := auth.Authorize(p, maintainerPolicy, ""); err != nil {
		return nil, err
	}
	if err := validation.Required(payload, "machineId", "maintenanceType", "frequency", "nextDueDate", "instructions"); err != nil {
		return nil, err
	}

	var schedule domain.MaintenanceSchedule
	if err := repository.Unmarshal(repository.Record(payload), &schedule); err != nil {
		return nil, appErrors.NewValidation("malformed schedule payload")
	}
	if schedule.Priority == "" {
		schedule.Priority = domain.PriorityMedium
	} else if err := validation.OneOf(schedule.Priority, "priority",
		domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityCritical); err != nil {
		return nil, err
	}

	schedule.ScheduleID = s.newID()
	schedule.CreatedAt = repository.Timestamp(s.now())

	rec, err := repository.Marshal(schedule)
	if err != nil {
		return nil, appErrors.NewInternal("failed to encode schedule", err)
	}
	rec = rec.WithKey(keys.Schedule(schedule.MachineID, schedule.ScheduleID)).
		WithGSI1(keys.ScheduleByID(schedule.ScheduleID, schedule.NextDueDate))
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("Maintenance schedule created",
		zap.String("scheduleId", schedule.ScheduleID),
		zap.String("machineId", schedule.MachineID),
	)
	return &schedule, nil
}

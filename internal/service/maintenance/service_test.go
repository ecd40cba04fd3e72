package maintenance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"karmdeep-backend/internal/domain"
	"karmdeep-backend/internal/messaging"
	"karmdeep-backend/internal/repository"
	"karmdeep-backend/internal/repository/mocks"
	"karmdeep-backend/pkg/auth"
	appErrors "karmdeep-backend/pkg/errors"
)

const testTopic = "arn:aws:sns:ap-south-1:000000000000:maintenance-events"

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *messaging.MockPublisher) {
	store := mocks.NewMockStore()
	publisher := messaging.NewMockPublisher()
	svc := NewService(store, publisher, testTopic, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	counter := 0
	svc.newID = func() string {
		counter++
		return fmt.Sprintf("wo-%d", counter)
	}
	return svc, publisher
}

func engineer() auth.Principal {
	return auth.Principal{UserID: "e-1", Role: auth.RoleEngineer}
}

func workOrderPayload() map[string]interface{} {
	return map[string]interface{}{
		"machineId":          "m-1",
		"maintenanceType":    domain.MaintenancePreventive,
		"assignedTechnician": "tech-1",
		"scheduledDate":      testNow.Add(24 * time.Hour).Format(time.RFC3339),
	}
}

func TestCreateWorkOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("engineer opens a created work order with notification", func(t *testing.T) {
		svc, publisher := newTestService()

		wo, err := svc.CreateWorkOrder(ctx, engineer(), workOrderPayload())
		require.NoError(t, err)
		assert.Equal(t, domain.WorkOrderCreated, wo.Status)
		assert.Empty(t, wo.CompletedDate)
		assert.Equal(t, []string{messaging.EventWorkOrderCreated}, publisher.EventTypes())
	})

	t.Run("vendor is forbidden", func(t *testing.T) {
		svc, _ := newTestService()

		p := auth.Principal{UserID: "u-1", Role: auth.RoleVendor, CompanyID: "c-1"}
		_, err := svc.CreateWorkOrder(ctx, p, workOrderPayload())
		require.Error(t, err)
		assert.True(t, appErrors.IsForbidden(err))
	})

	t.Run("unknown maintenance type is rejected", func(t *testing.T) {
		svc, _ := newTestService()

		payload := workOrderPayload()
		payload["maintenanceType"] = "WHENEVER"
		_, err := svc.CreateWorkOrder(ctx, engineer(), payload)
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
	})
}

func TestUpdateWorkOrder(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, svc *Service) *domain.WorkOrder {
		wo, err := svc.CreateWorkOrder(ctx, engineer(), workOrderPayload())
		require.NoError(t, err)
		return wo
	}

	advance := func(t *testing.T, svc *Service, id string, statuses ...string) *domain.WorkOrder {
		var wo *domain.WorkOrder
		var err error
		for _, status := range statuses {
			wo, err = svc.UpdateWorkOrder(ctx, engineer(), id, map[string]interface{}{"status": status})
			require.NoError(t, err)
		}
		return wo
	}

	t.Run("completion stamps completedDate", func(t *testing.T) {
		svc, publisher := newTestService()
		wo := create(t, svc)

		done := advance(t, svc, wo.WorkOrderID,
			domain.WorkOrderAssigned, domain.WorkOrderInProgress, domain.WorkOrderCompleted)
		assert.Equal(t, domain.WorkOrderCompleted, done.Status)
		assert.Equal(t, repository.Timestamp(testNow), done.CompletedDate)

		assert.Equal(t, []string{
			messaging.EventWorkOrderCreated,
			messaging.EventWorkOrderUpdated,
			messaging.EventWorkOrderUpdated,
			messaging.EventWorkOrderUpdated,
		}, publisher.EventTypes())
	})

	t.Run("skipping states is rejected", func(t *testing.T) {
		svc, _ := newTestService()
		wo := create(t, svc)

		_, err := svc.UpdateWorkOrder(ctx, engineer(), wo.WorkOrderID, map[string]interface{}{
			"status": domain.WorkOrderCompleted,
		})
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
	})

	t.Run("findings update without status does not notify", func(t *testing.T) {
		svc, publisher := newTestService()
		wo := create(t, svc)

		updated, err := svc.UpdateWorkOrder(ctx, engineer(), wo.WorkOrderID, map[string]interface{}{
			"findings":  "worn spindle bearing",
			"partsUsed": []interface{}{"bearing-6204"},
			"cost":      120.0,
		})
		require.NoError(t, err)
		assert.Equal(t, "worn spindle bearing", updated.Findings)
		assert.Equal(t, []string{messaging.EventWorkOrderCreated}, publisher.EventTypes())
	})

	t.Run("unknown work order is not found", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.UpdateWorkOrder(ctx, engineer(), "ghost", map[string]interface{}{
			"status": domain.WorkOrderAssigned,
		})
		require.Error(t, err)
		assert.True(t, appErrors.IsNotFound(err))
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		svc, _ := newTestService()
		wo := create(t, svc)

		_, err := svc.UpdateWorkOrder(ctx, engineer(), wo.WorkOrderID, map[string]interface{}{
			"machineId": "m-2", // not whitelisted
		})
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
	})
}

func TestGetWorkOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("by technician and by machine", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.CreateWorkOrder(ctx, engineer(), workOrderPayload())
		require.NoError(t, err)

		other := workOrderPayload()
		other["machineId"] = "m-2"
		other["assignedTechnician"] = "tech-2"
		_, err = svc.CreateWorkOrder(ctx, engineer(), other)
		require.NoError(t, err)

		byTech, _, err := svc.GetWorkOrders(ctx, "tech-1", "", 0, "")
		require.NoError(t, err)
		require.Len(t, byTech, 1)
		assert.Equal(t, "m-1", byTech[0].MachineID)

		byMachine, _, err := svc.GetWorkOrders(ctx, "", "m-2", 0, "")
		require.NoError(t, err)
		require.Len(t, byMachine, 1)
		assert.Equal(t, "tech-2", byMachine[0].AssignedTechnician)

		_, _, err = svc.GetWorkOrders(ctx, "", "", 0, "")
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
	})
}

func TestCreateSchedule(t *testing.T) {
	ctx := context.Background()

	payload := map[string]interface{}{
		"machineId":       "m-1",
		"maintenanceType": domain.MaintenancePreventive,
		"frequency":       "MONTHLY",
		"nextDueDate":     testNow.Add(30 * 24 * time.Hour).Format(time.RFC3339),
		"instructions":    "grease rails, check belt tension",
	}

	t.Run("defaults to medium priority", func(t *testing.T) {
		svc, _ := newTestService()

		schedule, err := svc.CreateSchedule(ctx, engineer(), payload)
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityMedium, schedule.Priority)
		assert.NotEmpty(t, schedule.ScheduleID)
	})

	t.Run("admin may create schedules", func(t *testing.T) {
		svc, _ := newTestService()

		admin := auth.Principal{UserID: "a-1", Role: auth.RoleAdmin}
		_, err := svc.CreateSchedule(ctx, admin, payload)
		require.NoError(t, err)
	})

	t.Run("missing instructions reported", func(t *testing.T) {
		svc, _ := newTestService()

		bad := map[string]interface{}{}
		for k, v := range payload {
			bad[k] = v
		}
		delete(bad, "instructions")
		_, err := svc.CreateSchedule(ctx, engineer(), bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "instructions")
	})
}

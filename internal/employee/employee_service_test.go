package employee_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-staff/internal/employee"
	employeeerrors "go-staff/internal/employee/errors"
	employeeMock "go-staff/internal/employee/mock"
	"go-staff/internal/events"
	"go-staff/internal/shared/contextutil"
	"go-staff/internal/shared/pagination"
	"go-staff/internal/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type serviceDeps struct {
	repo      *employeeMock.MockRepository
	publisher *employeeMock.MockEventPublisher
	redis     *miniredis.Miniredis
	service   employee.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := employeeMock.NewMockRepository(ctrl)
	pub := employeeMock.NewMockEventPublisher(ctrl)

	return &serviceDeps{
		repo:      repo,
		publisher: pub,
		redis:     mr,
		service:   employee.NewService(repo, rdb, pub),
	}
}

func sampleEmployee(id, userID uint) *employee.Employee {
	return &employee.Employee{
		ID:         id,
		UserID:     userID,
		User:       user.User{ID: userID, Email: "grace@example.com", FirstName: "Grace", LastName: "Hopper"},
		Department: "Engineering",
		Role:       "Admiral",
		DateJoined: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}
}

func TestEmployeeService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("second page of fifteen", func(t *testing.T) {
		deps := setupServiceTest(t)
		want := employee.ListFilter{Department: "HR", Ordering: "-name", Offset: 10, Limit: 10}
		deps.repo.EXPECT().Count(ctx, want).Return(int64(15), nil)
		deps.repo.EXPECT().List(ctx, want).Return([]employee.Employee{*sampleEmployee(1, 2)}, nil)

		items, total, err := deps.service.List(ctx,
			employee.ListQuery{Department: "HR", Ordering: "-name"},
			pagination.Page{Number: 2, Size: 10},
		)

		assert.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, items, 1)
		assert.Equal(t, "Grace Hopper", items[0].Name)
		assert.Equal(t, "2024-03-09", items[0].DateJoined)
	})

	t.Run("page past the end", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().Count(ctx, gomock.Any()).Return(int64(5), nil)

		_, _, err := deps.service.List(ctx, employee.ListQuery{}, pagination.Page{Number: 2, Size: 10})

		assert.ErrorIs(t, err, pagination.ErrInvalidPage)
	})

	t.Run("my record mode filters by user", func(t *testing.T) {
		deps := setupServiceTest(t)
		want := employee.ListFilter{UserID: 7, Limit: 10}
		deps.repo.EXPECT().Count(ctx, want).Return(int64(0), nil)
		deps.repo.EXPECT().List(ctx, want).Return(nil, nil)

		items, total, err := deps.service.List(ctx, employee.ListQuery{UserID: 7}, pagination.Page{Number: 1, Size: 10})

		assert.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, items)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("miss loads and caches", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(gomock.Any(), uint(4)).Return(sampleEmployee(4, 9), nil).Times(1)

		first, err := deps.service.GetByID(ctx, 4)
		assert.NoError(t, err)
		second, err := deps.service.GetByID(ctx, 4)
		assert.NoError(t, err)

		assert.Equal(t, first, second)
		assert.True(t, deps.redis.Exists("employees:detail:4"))
		assert.InDelta(t, 10*time.Minute, deps.redis.TTL("employees:detail:4"), float64(time.Second))
	})

	t.Run("not found is not cached", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(gomock.Any(), uint(5)).Return(nil, employeeerrors.ErrEmployeeNotFound)

		_, err := deps.service.GetByID(ctx, 5)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.False(t, deps.redis.Exists("employees:detail:5"))
	})
}

func TestEmployeeService_GetByID_RedisDown(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := employeeMock.NewMockRepository(ctrl)
	rdb, rmock := redismock.NewClientMock()
	svc := employee.NewService(repo, rdb, nil)

	rmock.ExpectGet("employees:detail:3").SetErr(errors.New("connection refused"))
	rmock.ExpectGet("employees:detail:3:version").SetErr(errors.New("connection refused"))
	repo.EXPECT().FindByID(gomock.Any(), uint(3)).Return(sampleEmployee(3, 1), nil)

	resp, err := svc.GetByID(ctx, 3)

	assert.NoError(t, err)
	assert.Equal(t, uint(3), resp.ID)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestEmployeeService_GetByID_WriteDuringLoad(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)

	gomock.InOrder(
		deps.repo.EXPECT().FindByID(gomock.Any(), uint(4)).DoAndReturn(func(context.Context, uint) (*employee.Employee, error) {
			// the row is deleted while this read is still in flight
			assert.NoError(t, deps.service.Delete(ctx, 4))
			return sampleEmployee(4, 9), nil
		}),
		deps.repo.EXPECT().FindByID(ctx, uint(4)).Return(sampleEmployee(4, 9), nil),
		deps.repo.EXPECT().Delete(ctx, uint(4)).Return(nil),
		deps.repo.EXPECT().FindByID(gomock.Any(), uint(4)).Return(nil, employeeerrors.ErrEmployeeNotFound),
	)
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	_, err := deps.service.GetByID(ctx, 4)
	assert.NoError(t, err)
	assert.False(t, deps.redis.Exists("employees:detail:4"))

	_, err = deps.service.GetByID(ctx, 4)
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestEmployeeService_GetByID_CallerCancels(t *testing.T) {
	deps := setupServiceTest(t)
	release := make(chan struct{})
	started := make(chan struct{})

	deps.repo.EXPECT().FindByID(gomock.Any(), uint(4)).DoAndReturn(func(context.Context, uint) (*employee.Employee, error) {
		close(started)
		<-release
		return sampleEmployee(4, 9), nil
	}).Times(1)

	cancelled, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := deps.service.GetByID(cancelled, 4)
		firstErr <- err
	}()
	<-started

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	// the shared load keeps going for whoever else is waiting on it
	close(release)
	assert.Eventually(t, func() bool {
		return deps.redis.Exists("employees:detail:4")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEmployeeService_GetMine(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)

	deps.repo.EXPECT().FindByUserID(ctx, uint(2)).Return(sampleEmployee(1, 2), nil)
	resp, err := deps.service.GetMine(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), resp.ID)

	deps.repo.EXPECT().FindByUserID(ctx, uint(3)).Return(nil, employeeerrors.ErrEmployeeNotFound)
	_, err = deps.service.GetMine(ctx, 3)
	assert.ErrorIs(t, err, employeeerrors.ErrNoEmployeeRecord)
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-42")

	t.Run("success publishes created event", func(t *testing.T) {
		deps := setupServiceTest(t)
		gomock.InOrder(
			deps.repo.EXPECT().UserExists(ctx, uint(9)).Return(true, nil),
			deps.repo.EXPECT().FindByUserID(ctx, uint(9)).Return(nil, employeeerrors.ErrEmployeeNotFound),
			deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, uint(9), e.UserID)
				assert.Equal(t, "Engineering", e.Department)
				assert.False(t, e.DateJoined.IsZero())
				e.ID = 21
				return nil
			}),
			deps.repo.EXPECT().FindByID(ctx, uint(21)).Return(sampleEmployee(21, 9), nil),
		)
		deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev events.EmployeeEvent) error {
			assert.Equal(t, events.EmployeeCreated, ev.EventType)
			assert.Equal(t, uint(21), ev.EmployeeID)
			assert.Equal(t, "req-42", ev.RequestID)
			return nil
		})

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{UserID: 9, Department: "Engineering"})

		assert.NoError(t, err)
		assert.Equal(t, uint(21), resp.ID)
		assert.Equal(t, "grace@example.com", resp.Email)
	})

	t.Run("unknown user", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().UserExists(ctx, uint(99)).Return(false, nil)

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{UserID: 99})

		assert.ErrorIs(t, err, employeeerrors.ErrUserNotFound)
	})

	t.Run("user already has a record", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().UserExists(ctx, uint(9)).Return(true, nil)
		deps.repo.EXPECT().FindByUserID(ctx, uint(9)).Return(sampleEmployee(1, 9), nil)

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{UserID: 9})

		assert.ErrorIs(t, err, employeeerrors.ErrUserAlreadyEmployee)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().UserExists(ctx, gomock.Any()).Return(true, nil)
		deps.repo.EXPECT().FindByUserID(ctx, gomock.Any()).Return(nil, employeeerrors.ErrEmployeeNotFound)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().FindByID(ctx, gomock.Any()).Return(sampleEmployee(1, 9), nil)
		deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{UserID: 9})

		assert.NoError(t, err)
	})
}

func TestEmployeeService_SlowBroker(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := employeeMock.NewMockRepository(ctrl)
	pub := employeeMock.NewMockEventPublisher(ctrl)
	svc := employee.NewService(repo, nil, pub, employee.WithPublishTimeout(50*time.Millisecond))

	repo.EXPECT().FindByID(ctx, uint(6)).Return(sampleEmployee(6, 2), nil)
	repo.EXPECT().Delete(ctx, uint(6)).Return(nil)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ events.EmployeeEvent) error {
		<-ctx.Done()
		return ctx.Err()
	})

	start := time.Now()
	err := svc.Delete(ctx, 6)

	assert.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("put replaces fields and invalidates cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		assert.NoError(t, deps.redis.Set("employees:detail:1", `{"id":1}`))

		updated := sampleEmployee(1, 2)
		updated.Department = ""
		updated.Role = "Lead"
		deps.repo.EXPECT().FindByID(ctx, uint(1)).Return(sampleEmployee(1, 2), nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e *employee.Employee) error {
			assert.Equal(t, "", e.Department)
			assert.Equal(t, "Lead", e.Role)
			assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), e.DateJoined)
			return nil
		})
		deps.repo.EXPECT().FindByID(ctx, uint(1)).Return(updated, nil)
		deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := deps.service.Update(ctx, 1, employee.CreateEmployeeRequest{UserID: 2, Role: "Lead"})

		assert.NoError(t, err)
		assert.Equal(t, "Lead", resp.Role)
		assert.False(t, deps.redis.Exists("employees:detail:1"))
	})

	t.Run("moving to a user that already has a record", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(ctx, uint(1)).Return(sampleEmployee(1, 2), nil)
		deps.repo.EXPECT().UserExists(ctx, uint(3)).Return(true, nil)
		deps.repo.EXPECT().FindByUserID(ctx, uint(3)).Return(sampleEmployee(8, 3), nil)

		_, err := deps.service.Update(ctx, 1, employee.CreateEmployeeRequest{UserID: 3})

		assert.ErrorIs(t, err, employeeerrors.ErrUserAlreadyEmployee)
	})

	t.Run("missing employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(ctx, uint(404)).Return(nil, employeeerrors.ErrEmployeeNotFound)

		_, err := deps.service.Update(ctx, 404, employee.CreateEmployeeRequest{UserID: 1})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Patch(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	role := "Captain"

	deps.repo.EXPECT().FindByID(ctx, uint(1)).Return(sampleEmployee(1, 2), nil)
	deps.repo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e *employee.Employee) error {
		assert.Equal(t, "Engineering", e.Department)
		assert.Equal(t, "Captain", e.Role)
		assert.Equal(t, uint(2), e.UserID)
		return nil
	})
	deps.repo.EXPECT().FindByID(ctx, uint(1)).Return(sampleEmployee(1, 2), nil)
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	_, err := deps.service.Patch(ctx, 1, employee.PatchEmployeeRequest{Role: &role})

	assert.NoError(t, err)
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		assert.NoError(t, deps.redis.Set("employees:detail:6", `{"id":6}`))
		deps.repo.EXPECT().FindByID(ctx, uint(6)).Return(sampleEmployee(6, 2), nil)
		deps.repo.EXPECT().Delete(ctx, uint(6)).Return(nil)
		deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev events.EmployeeEvent) error {
			assert.Equal(t, events.EmployeeDeleted, ev.EventType)
			assert.Equal(t, uint(2), ev.UserID)
			return nil
		})

		assert.NoError(t, deps.service.Delete(ctx, 6))
		assert.False(t, deps.redis.Exists("employees:detail:6"))
	})

	t.Run("unknown", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(ctx, uint(6)).Return(nil, employeeerrors.ErrEmployeeNotFound)

		assert.ErrorIs(t, deps.service.Delete(ctx, 6), employeeerrors.ErrEmployeeNotFound)
	})
}

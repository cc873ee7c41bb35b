package employee

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	employeeerrors "go-staff/internal/employee/errors"
	"go-staff/internal/events"
	"go-staff/internal/shared/contextutil"
	"go-staff/internal/shared/pagination"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DetailCacheKeyPrefix = "employees:detail:"
	detailCacheTTL       = 10 * time.Minute
	// outlives any in-flight detail load; only its value matters
	detailVersionTTL = 24 * time.Hour

	DefaultPublishTimeout = 2 * time.Second
)

func GetDetailCacheKey(id uint) string {
	return DetailCacheKeyPrefix + strconv.FormatUint(uint64(id), 10)
}

func getDetailVersionKey(id uint) string {
	return GetDetailCacheKey(id) + ":version"
}

// fillDetailScript stores the detail only when no write bumped the version
// since the load started.
var fillDetailScript = redis.NewScript(`
local v = redis.call('GET', KEYS[2])
if not v then v = '0' end
if v ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, q ListQuery, page pagination.Page) ([]EmployeeResponse, int64, error)
	GetByID(ctx context.Context, id uint) (EmployeeResponse, error)
	GetMine(ctx context.Context, userID uint) (EmployeeResponse, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, id uint, req CreateEmployeeRequest) (EmployeeResponse, error)
	Patch(ctx context.Context, id uint, req PatchEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo      Repository
	rdb       *redis.Client
	publisher EventPublisher
	sf        *singleflight.Group
	logger    *zap.Logger
	now       func() time.Time

	publishTimeout time.Duration
}

type Option func(*service)

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("employee.service")
		}
	}
}

// WithPublishTimeout bounds how long a write waits on the broker before the
// event is dropped. Non-positive values keep the default.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// NewService wires the employee use cases. rdb may be nil, which disables
// the detail cache; a nil publisher drops lifecycle events.
func NewService(repo Repository, rdb *redis.Client, publisher EventPublisher, opts ...Option) Service {
	if publisher == nil {
		publisher = NewNoopEventPublisher()
	}
	s := &service{
		repo:           repo,
		rdb:            rdb,
		publisher:      publisher,
		sf:             &singleflight.Group{},
		logger:         zap.L().Named("employee.service"),
		now:            time.Now,
		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) List(ctx context.Context, q ListQuery, page pagination.Page) ([]EmployeeResponse, int64, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	filter := ListFilter{
		Department: q.Department,
		Role:       q.Role,
		Search:     q.Search,
		Ordering:   q.Ordering,
		UserID:     q.UserID,
		Offset:     page.Offset(),
		Limit:      page.Size,
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error("count employees failed", zap.Error(err))
		return nil, 0, err
	}
	if err := page.Validate(total); err != nil {
		return nil, total, err
	}

	emps, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error("list employees failed", zap.Error(err))
		return nil, 0, err
	}

	return mapToListResponse(emps), total, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	key := GetDetailCacheKey(id)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var resp EmployeeResponse
			if json.Unmarshal(cached, &resp) == nil {
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn("employee detail cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	// the shared load must not die with whichever caller started it
	loadCtx := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(key, func() (interface{}, error) {
		version, cacheable := s.detailVersion(loadCtx, id)

		e, err := s.repo.FindByID(loadCtx, id)
		if err != nil {
			return nil, err
		}
		resp := mapToResponse(*e)

		if cacheable {
			s.fillDetail(loadCtx, id, version, resp)
		}
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return EmployeeResponse{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return EmployeeResponse{}, res.Err
		}
		return res.Val.(EmployeeResponse), nil
	}
}

// detailVersion reads the write counter for id. The second result is false
// when Redis is unavailable and the load must not be cached.
func (s *service) detailVersion(ctx context.Context, id uint) (string, bool) {
	if s.rdb == nil {
		return "", false
	}
	v, err := s.rdb.Get(ctx, getDetailVersionKey(id)).Result()
	switch {
	case err == nil:
		return v, true
	case errors.Is(err, redis.Nil):
		return "0", true
	default:
		contextutil.GetLogger(ctx, s.logger).Warn("employee detail version read failed",
			zap.Uint("employee_id", id),
			zap.Error(err),
		)
		return "", false
	}
}

func (s *service) fillDetail(ctx context.Context, id uint, version string, resp EmployeeResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	keys := []string{GetDetailCacheKey(id), getDetailVersionKey(id)}
	err = fillDetailScript.Run(ctx, s.rdb, keys, version, data, detailCacheTTL.Milliseconds()).Err()
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("employee detail cache write failed",
			zap.String("key", keys[0]),
			zap.Error(err),
		)
	}
}

func (s *service) GetMine(ctx context.Context, userID uint) (EmployeeResponse, error) {
	e, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrNoEmployeeRecord
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create employee requested", zap.Uint("user_id", req.UserID))

	if err := s.ensureUserAvailable(ctx, req.UserID); err != nil {
		return EmployeeResponse{}, err
	}

	now := s.now().UTC()
	e := &Employee{
		UserID:     req.UserID,
		Department: req.Department,
		Role:       req.Role,
		DateJoined: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		log.Warn("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	created, err := s.repo.FindByID(ctx, e.ID)
	if err != nil {
		log.Error("create employee reload failed", zap.Uint("employee_id", e.ID), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.publish(ctx, events.EmployeeCreated, *created)
	log.Info("create employee success", zap.Uint("employee_id", created.ID))

	return mapToResponse(*created), nil
}

func (s *service) Update(ctx context.Context, id uint, req CreateEmployeeRequest) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}

	if req.UserID != e.UserID {
		if err := s.ensureUserAvailable(ctx, req.UserID); err != nil {
			return EmployeeResponse{}, err
		}
	}
	e.UserID = req.UserID
	e.Department = req.Department
	e.Role = req.Role

	return s.save(ctx, e)
}

func (s *service) Patch(ctx context.Context, id uint, req PatchEmployeeRequest) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}

	if req.UserID != nil && *req.UserID != e.UserID {
		if err := s.ensureUserAvailable(ctx, *req.UserID); err != nil {
			return EmployeeResponse{}, err
		}
		e.UserID = *req.UserID
	}
	if req.Department != nil {
		e.Department = *req.Department
	}
	if req.Role != nil {
		e.Role = *req.Role
	}

	return s.save(ctx, e)
}

func (s *service) save(ctx context.Context, e *Employee) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if err := s.repo.Update(ctx, e); err != nil {
		log.Warn("update employee persist failed", zap.Uint("employee_id", e.ID), zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.invalidate(ctx, e.ID)

	updated, err := s.repo.FindByID(ctx, e.ID)
	if err != nil {
		log.Error("update employee reload failed", zap.Uint("employee_id", e.ID), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.publish(ctx, events.EmployeeUpdated, *updated)
	log.Info("update employee success", zap.Uint("employee_id", e.ID))

	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	log := contextutil.GetLogger(ctx, s.logger)

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("delete employee failed", zap.Uint("employee_id", id), zap.Error(err))
		return err
	}
	s.invalidate(ctx, id)
	s.publish(ctx, events.EmployeeDeleted, *e)

	log.Info("delete employee success", zap.Uint("employee_id", id))
	return nil
}

// ensureUserAvailable checks that userID names an account that does not
// already own an employee record.
func (s *service) ensureUserAvailable(ctx context.Context, userID uint) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return employeeerrors.ErrUserNotFound
	}

	_, err = s.repo.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		return employeeerrors.ErrUserAlreadyEmployee
	case errors.Is(err, employeeerrors.ErrEmployeeNotFound):
		return nil
	default:
		return err
	}
}

func (s *service) invalidate(ctx context.Context, id uint) {
	if s.rdb == nil {
		return
	}
	// the row already changed; a client hanging up must not skip this
	ctx = context.WithoutCancel(ctx)
	key := GetDetailCacheKey(id)
	versionKey := getDetailVersionKey(id)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		pipe.Expire(ctx, versionKey, detailVersionTTL)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("failed to invalidate employee detail cache",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// publish is best effort: a broker failure or a slow broker is logged and
// never fails the write that already happened.
func (s *service) publish(ctx context.Context, eventType string, e Employee) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	err := s.publisher.Publish(pubCtx, events.EmployeeEvent{
		EventType:  eventType,
		RequestID:  contextutil.GetRequestID(ctx),
		EmployeeID: e.ID,
		UserID:     e.UserID,
		Department: e.Department,
		Role:       e.Role,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("publish employee event failed",
			zap.String("event_type", eventType),
			zap.Uint("employee_id", e.ID),
			zap.Error(err),
		)
	}
}

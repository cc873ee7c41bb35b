package employee

import (
	"context"

	employeeerrors "go-staff/internal/employee/errors"
	"go-staff/internal/user"

	"gorm.io/gorm"
)

type ListFilter struct {
	Department string
	Role       string
	Search     string
	Ordering   string
	UserID     uint
	Offset     int
	Limit      int
}

func (f ListFilter) scopes() []func(*gorm.DB) *gorm.DB {
	return []func(*gorm.DB) *gorm.DB{
		withUser,
		byDepartment(f.Department),
		byRole(f.Role),
		byUser(f.UserID),
		search(f.Search),
	}
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	Count(ctx context.Context, f ListFilter) (int64, error)
	List(ctx context.Context, f ListFilter) ([]Employee, error)
	FindByID(ctx context.Context, id uint) (*Employee, error)
	FindByUserID(ctx context.Context, userID uint) (*Employee, error)
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id uint) error
	UserExists(ctx context.Context, userID uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Count(ctx context.Context, f ListFilter) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(f.scopes()...).
		Count(&total).Error
	return total, mapRepositoryError(err)
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Employee, error) {
	var emps []Employee
	err := r.db.WithContext(ctx).
		Select("employees.*").
		Scopes(f.scopes()...).
		Scopes(orderBy(f.Ordering)).
		Preload("User").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&emps).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return emps, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&e, "employees.id = ?", id).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &e, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID uint) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&e, "employees.user_id = ?", userID).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &e, nil
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return mapRepositoryError(r.db.WithContext(ctx).Omit("User").Create(e).Error)
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	res := r.db.WithContext(ctx).
		Model(&Employee{ID: e.ID}).
		Updates(map[string]any{
			"user_id":    e.UserID,
			"department": e.Department,
			"role":       e.Role,
		})
	if res.Error != nil {
		return mapRepositoryError(res.Error)
	}
	if res.RowsAffected == 0 {
		return employeeerrors.ErrEmployeeNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return mapRepositoryError(res.Error)
	}
	if res.RowsAffected == 0 {
		return employeeerrors.ErrEmployeeNotFound
	}
	return nil
}

func (r *repository) UserExists(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", userID).
		Count(&count).Error
	return count > 0, mapRepositoryError(err)
}

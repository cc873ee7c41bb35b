package employee

import (
	"time"

	"go-staff/internal/user"
)

// Employee is the staff record attached to exactly one user account.
type Employee struct {
	ID         uint      `gorm:"column:id;primaryKey"`
	UserID     uint      `gorm:"column:user_id;not null;uniqueIndex:uq_employees_user_id"`
	User       user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Department string    `gorm:"column:department;type:varchar(100);not null;default:'';index"`
	Role       string    `gorm:"column:role;type:varchar(100);not null;default:'';index"`
	DateJoined time.Time `gorm:"column:date_joined;type:date;not null"`
}

func (Employee) TableName() string {
	return "employees"
}

package user

import (
	"strings"
	"time"
)

// User is an account identified by its email address.
type User struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Email     string    `gorm:"column:email;type:varchar(254);not null;uniqueIndex:uq_users_email"`
	FirstName string    `gorm:"column:first_name;type:varchar(20);not null"`
	LastName  string    `gorm:"column:last_name;type:varchar(20);not null"`
	Password  string    `gorm:"column:password;type:varchar(128);not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	IsStaff   bool      `gorm:"column:is_staff;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}

// Name is the display name, "First Last".
func (u User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail trims the address and lower-cases its domain part. The
// local part is kept as given.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

package blacklist

import "time"

// BlacklistedToken records a refresh token that may no longer be exchanged.
// Rows are only needed until the token would have expired anyway.
type BlacklistedToken struct {
	ID            uint      `gorm:"column:id;primaryKey"`
	JTI           string    `gorm:"column:jti;type:varchar(64);not null;uniqueIndex:uq_blacklisted_tokens_jti"`
	UserID        uint      `gorm:"column:user_id;not null;index"`
	ExpiresAt     time.Time `gorm:"column:expires_at;not null;index"`
	BlacklistedAt time.Time `gorm:"column:blacklisted_at;autoCreateTime"`
}

func (BlacklistedToken) TableName() string {
	return "blacklisted_tokens"
}

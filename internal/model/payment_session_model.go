package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentSession struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Kind          string     `gorm:"type:varchar(50);not null"`
	ProjectId     *uuid.UUID `gorm:"type:uuid;index"`
	PackId        *string    `gorm:"type:varchar(50)"`
	Credits       int        `gorm:"not null;default:0"`
	Amount        int64      `gorm:"not null"`
	Currency      string     `gorm:"type:varchar(10);not null;default:'eur'"`
	Status        string     `gorm:"type:varchar(50);not null;default:'pending';index"`
	SnapToken     string     `gorm:"type:text"`
	RedirectURL   string     `gorm:"type:text"`
	TransactionId *string    `gorm:"type:varchar(255)"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

func (PaymentSession) TableName() string {
	return "payment_sessions"
}

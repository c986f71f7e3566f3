package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditBalance struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CreditsRemaining int       `gorm:"not null;default:0"`
	CreditsTotal     int       `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (CreditBalance) TableName() string {
	return "credit_balances"
}

type CreditTransaction struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Amount      int        `gorm:"not null"`
	Type        string     `gorm:"type:varchar(50);not null"`
	Description string     `gorm:"type:text"`
	ReferenceId *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

type PromoCodeUsage struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_promo_usage"`
	PromoCode      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_promo_usage"`
	CreditsAwarded int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (PromoCodeUsage) TableName() string {
	return "promo_code_usage"
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	Id               uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID                   `gorm:"type:uuid;not null;index"`
	InputImageURLs   datatypes.JSONSlice[string] `gorm:"not null"`
	Prompt           string                      `gorm:"type:text;not null"`
	ModelName        string                      `gorm:"type:varchar(255);not null"`
	OutputImageURL   *string                     `gorm:"type:text"`
	Status           string                      `gorm:"type:varchar(50);not null;default:'pending';index"`
	PaymentStatus    string                      `gorm:"type:varchar(50);not null;default:'pending';index"`
	PaymentAmount    int64                       `gorm:"not null;default:0"`
	PaymentSessionId *uuid.UUID                  `gorm:"type:uuid;index"`
	CreatedAt        time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt              `gorm:"index"`
}

func (Project) TableName() string {
	return "projects"
}

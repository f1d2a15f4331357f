package model

import (
	"time"

	"github.com/google/uuid"
)

type Activity struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type          string    `gorm:"type:varchar(64);not null;index"`
	DocumentId    uuid.UUID `gorm:"type:uuid;not null;index"`
	DocumentTitle string    `gorm:"type:varchar(255);not null"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

func (Activity) TableName() string {
	return "activities"
}

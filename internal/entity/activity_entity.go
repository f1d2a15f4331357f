package entity

import (
	"time"

	"github.com/google/uuid"
)

// Activity event types.
const (
	ActivityDocumentCreated = "DOCUMENT_CREATED"
	ActivityDocumentUpdated = "DOCUMENT_UPDATED"
	ActivityDocumentDeleted = "DOCUMENT_DELETED"
)

// Activity is one entry in the team's document activity feed.
type Activity struct {
	Id            uuid.UUID
	Type          string
	DocumentId    uuid.UUID
	DocumentTitle string
	UserId        uuid.UUID
	CreatedAt     time.Time
}

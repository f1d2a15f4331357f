package dto

import (
	"time"

	"github.com/google/uuid"
)

// PublishActivityMessage is the payload carried on the in-process
// activity topic and mirrored to JetStream.
type PublishActivityMessage struct {
	Type          string    `json:"type"`
	DocumentId    uuid.UUID `json:"document_id"`
	DocumentTitle string    `json:"document_title"`
	UserId        uuid.UUID `json:"user_id"`
}

type ActivityResponse struct {
	Id            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	DocumentId    uuid.UUID `json:"document_id"`
	DocumentTitle string    `json:"document_title"`
	UserId        uuid.UUID `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
}

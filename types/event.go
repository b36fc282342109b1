package types

import "time"

// Content event types emitted on the message queue.
const (
	EventContentCreated   = "content.created"
	EventContentUpdated   = "content.updated"
	EventContentPublished = "content.published"
	EventContentDeleted   = "content.deleted"
)

// ContentEvent is the payload published whenever an article changes.
type ContentEvent struct {
	Type       string    `json:"type"`
	ContentID  string    `json:"contentId"`
	AuthorID   string    `json:"authorId"`
	ActorID    string    `json:"actorId"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

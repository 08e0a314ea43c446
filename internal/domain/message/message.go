package message

import "time"

type Message struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	// AuthorID is nil when the author account no longer exists; the message
	// itself survives.
	AuthorID   *string `json:"authorId,omitempty"`
	AuthorName string  `json:"authorName,omitempty"`
}

func (m Message) TimestampFormatted() string {
	return m.CreatedAt.Format("Jan 2, 2006, 3:04:05 PM")
}

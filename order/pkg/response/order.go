package response

import (
	"time"

	"github.com/google/uuid"
)

// Order is the order endpoint's reply to a submission.
type Order struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

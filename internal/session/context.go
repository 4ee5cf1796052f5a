package session

import (
	"context"

	"github.com/google/uuid"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

type sessionID struct{}

func AttachSessionID(c context.Context, id uuid.UUID) context.Context {
	return context.WithValue(c, sessionID{}, id)
}

func IDFromContext(c context.Context) (uuid.UUID, error) {
	id, ok := c.Value(sessionID{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, inErrors.ErrSessionMissing
	}
	return id, nil
}

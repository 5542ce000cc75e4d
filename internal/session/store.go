package session

import (
	"context"
	"errors"

	"github.com/terraquiz/terraquiz/internal/model"
)

// ErrNotFound is returned when a session has expired or never existed.
// Callers treat it as "start from a fresh state".
var ErrNotFound = errors.New("session not found")

// Store persists per-session quiz state. Implementations must return a fresh
// copy from Get so callers can mutate freely before Save.
type Store interface {
	Get(ctx context.Context, id string) (*model.SessionState, error)
	Save(ctx context.Context, id string, state *model.SessionState) error
	Delete(ctx context.Context, id string) error
}

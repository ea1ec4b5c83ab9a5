package ws

import (
	"encoding/json"
	"errors"

	"github.com/KirkDiggler/taskguess/internal/models"
	"github.com/KirkDiggler/taskguess/internal/services/session"
)

// Gateway level error kinds, reported next to the session kinds
const (
	kindRateLimited = "rate_limited"
	kindUnknown     = "unknown_command"
)

var (
	errMalformed      = &session.Error{Kind: session.KindValidation, Message: "malformed command payload"}
	errRateLimited    = errors.New("too many commands")
	errUnknownCommand = errors.New("unknown command")
)

// encode builds the wire form of an outbound message
func encode(t models.EventType, payload any) ([]byte, error) {
	return json.Marshal(&Message{Type: t, Data: payload})
}

// renderError turns a command failure into the Error event payload.
// Internal failures are not described to clients.
func renderError(err error) *models.ErrorPayload {
	switch {
	case errors.Is(err, errRateLimited):
		return &models.ErrorPayload{Message: err.Error(), Kind: kindRateLimited}
	case errors.Is(err, errUnknownCommand):
		return &models.ErrorPayload{Message: err.Error(), Kind: kindUnknown}
	}

	kind := session.KindOf(err)
	if kind == session.KindInternal {
		return &models.ErrorPayload{Message: "something went wrong", Kind: string(kind)}
	}

	return &models.ErrorPayload{Message: err.Error(), Kind: string(kind)}
}

package session

import (
	"context"

	"github.com/KirkDiggler/taskguess/internal/models"
)

// outbox collects the events of one command; they are published only once
// the command has fully succeeded
type outbox struct {
	events []*models.Event
}

func (o *outbox) add(t models.EventType, code models.RoomCode, recipients []models.PlayerID, payload any) {
	if len(recipients) == 0 {
		return
	}
	o.events = append(o.events, &models.Event{
		Type:       t,
		RoomCode:   code,
		Recipients: recipients,
		Payload:    payload,
	})
}

// toRoom addresses every member of the room
func (o *outbox) toRoom(room *models.Room, t models.EventType, payload any) {
	o.add(t, room.Code, append([]models.PlayerID(nil), room.PlayerIDs...), payload)
}

// toOthers addresses every member except one
func (o *outbox) toOthers(room *models.Room, except models.PlayerID, t models.EventType, payload any) {
	recipients := make([]models.PlayerID, 0, len(room.PlayerIDs))
	for _, id := range room.PlayerIDs {
		if id != except {
			recipients = append(recipients, id)
		}
	}
	o.add(t, room.Code, recipients, payload)
}

// toPlayer addresses a single player
func (o *outbox) toPlayer(code models.RoomCode, id models.PlayerID, t models.EventType, payload any) {
	o.add(t, code, []models.PlayerID{id}, payload)
}

func (s *service) publish(ctx context.Context, o *outbox) {
	for _, event := range o.events {
		s.publisher.Publish(ctx, event)
	}
}

package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/pranav1211/bmb-content-server/internal/event"
)

func publish(bus event.Bus, t event.Type, payload any) {
	if bus == nil {
		return
	}

	bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

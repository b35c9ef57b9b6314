// Package transport moves settings records between the client and the BeakerX settings endpoint.
package transport

import (
	"context"
	"fmt"

	"github.com/wizzomafizzo/beakersync/internal/settings"
)

// Transport loads and saves the remote settings record.
type Transport interface {
	LoadSettings(ctx context.Context) (*settings.Record, error)
	SaveSettings(ctx context.Context, payload settings.Envelope) error
}

// StatusError reports a non-2xx response from the settings endpoint.
type StatusError struct {
	Body string
	Code int
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("settings endpoint returned status %d", e.Code)
	}
	return fmt.Sprintf("settings endpoint returned status %d: %s", e.Code, e.Body)
}

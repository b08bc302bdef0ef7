package fixtures

import (
	command "github.com/goliatone/go-command"
)

// RecordingRegistry captures registered command handlers.
type RecordingRegistry struct {
	Handlers []any
	err      error
}

// NewRecordingRegistry constructs an empty registry recorder.
func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{Handlers: make([]any, 0)}
}

// Fail makes every later registration return err.
func (r *RecordingRegistry) Fail(err error) {
	r.err = err
}

// RegisterCommand records the handler.
func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.Handlers = append(r.Handlers, handler)
	return nil
}

// CronRegistration captures a single cron wiring invocation.
type CronRegistration struct {
	Config  command.HandlerConfig
	Handler any
}

// CronRecorder records calls to a cron registrar function.
type CronRecorder struct {
	Registrations []CronRegistration
}

// Registrar returns a registrar that records invocations.
func (c *CronRecorder) Registrar() func(command.HandlerConfig, any) error {
	return func(cfg command.HandlerConfig, handler any) error {
		c.Registrations = append(c.Registrations, CronRegistration{Config: cfg, Handler: handler})
		return nil
	}
}

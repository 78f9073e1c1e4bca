// Package app provides the core application service for Wails bindings.
package app

// Event names for frontend communication.
const (
	EventState       = "state"
	EventStatus      = "status"
	EventSourceText  = "source-text"
	EventTargetText  = "target-text"
	EventTranslation = "translation"
)

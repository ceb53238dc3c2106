// Package audit records who changed which part of the portfolio, and when.
package audit

import "time"

// ActorType identifies who performed an action.
type ActorType string

const (
	ActorUser   ActorType = "user"
	ActorSystem ActorType = "system"
	ActorCLI    ActorType = "cli"
)

// Action describes what was done.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionMoved    Action = "moved"
	ActionExported Action = "exported"
	ActionImported Action = "imported"
	ActionSeeded   Action = "seeded"
)

// Scope names the portfolio field an action applies to.
type Scope string

const (
	ScopeProjects Scope = "projects"
	ScopeGallery  Scope = "gallery"
	ScopeAbout    Scope = "about"
	ScopeSkills   Scope = "skills"
	ScopeContact  Scope = "contact"
	ScopeHero     Scope = "hero"
	// ScopeSite covers whole-dataset operations such as export and import.
	ScopeSite Scope = "site"
)

// Entry is a single audit trail record.
type Entry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	ActorType     ActorType `json:"actor_type"`
	ActorID       string    `json:"actor_id"`
	Action        Action    `json:"action"`
	Scope         Scope     `json:"scope"`
	ScopeID       string    `json:"scope_id,omitempty"`
	Summary       string    `json:"summary"`
	PreviousValue string    `json:"previous_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
}

package domain

import "context"

// Lookup methods treat a missing record as a normal empty result and
// return (nil, nil). Only updates against a missing id fail, with
// ErrNotFound.

// UserStore defines access methods for users.
type UserStore interface {
	UserByID(ctx context.Context, id int) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, in NewUser) (*User, error)
	UpdateUser(ctx context.Context, id int, patch UserPatch) (*User, error)
}

// PreferenceStore defines access methods for user preferences.
// PreferencesByUser returns the first match; duplicates are not prevented.
type PreferenceStore interface {
	PreferencesByUser(ctx context.Context, userID int) (*UserPreference, error)
	CreatePreferences(ctx context.Context, in NewUserPreference) (*UserPreference, error)
	// UpdatePreferencesByUser merges the patch into the user's record,
	// creating one from defaults when none exists yet.
	UpdatePreferencesByUser(ctx context.Context, userID int, patch PreferencePatch) (*UserPreference, error)
}

// PlanStore defines persistence for study plans.
type PlanStore interface {
	PlanByID(ctx context.Context, id int) (*StudyPlan, error)
	// PlansByUser returns the user's plans, most recent first.
	PlansByUser(ctx context.Context, userID int) ([]StudyPlan, error)
	CreatePlan(ctx context.Context, in NewStudyPlan) (*StudyPlan, error)
	UpdatePlan(ctx context.Context, id int, patch StudyPlanPatch) (*StudyPlan, error)
	// DeletePlan reports whether a record was removed. Idempotent.
	DeletePlan(ctx context.Context, id int) (bool, error)
}

// MessageStore defines persistence for chat messages.
type MessageStore interface {
	MessageByID(ctx context.Context, id int) (*ChatMessage, error)
	// MessagesByUser returns the user's messages in chronological order.
	MessagesByUser(ctx context.Context, userID int) ([]ChatMessage, error)
	CreateMessage(ctx context.Context, in NewChatMessage) (*ChatMessage, error)
	// ClearMessages removes every message belonging to the user. Idempotent.
	ClearMessages(ctx context.Context, userID int) error
}

// Store is the full entity store handlers are wired against. Implemented
// in-memory today; the split interfaces keep the door open for a
// persistent backend behind the same contract.
type Store interface {
	UserStore
	PreferenceStore
	PlanStore
	MessageStore
}

package model

import "errors"

// Engine error taxonomy. The api layer maps these to http statuses, so
// every rejection a caller can see must be one of them (possibly wrapped).
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("invalid request")
	ErrInvalidTransition = errors.New("invalid mission state transition")
	ErrAlreadyJoined     = errors.New("already joined")
	ErrAlreadyInvited    = errors.New("already invited")
	ErrInviteNotPending  = errors.New("invite is not pending")
	ErrMissionFull       = errors.New("mission is full")
	ErrSelfJoin          = errors.New("the chief cannot join his own mission")
	ErrNotJoinable       = errors.New("mission is not joinable")
	ErrNotAuthorized     = errors.New("not authorized")
)

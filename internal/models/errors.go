package models

import (
	"errors"
)

var (
	ErrNoRows           = errors.New("no rows")
	ErrInternal         = errors.New("internal server error")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrForbidden        = errors.New("access denied")
	ErrConflict         = errors.New("operation not allowed in current state")
	ErrInvalidParams    = errors.New("invalid params")
	ErrNoMembers        = errors.New("team has no members")
	ErrDocumentNotFound = errors.New("document not found")
	ErrRevisionNotFound = errors.New("revision not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrDependencyFailed = errors.New("dependency call failed")
)

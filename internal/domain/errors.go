package domain

import "errors"

var (
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when a username or email is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers bad username/password pairs.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSubjectNotFound indicates an unknown subject ID or slug.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrTopicNotFound indicates an unknown topic ID.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrMalformedQuestion indicates the options/answer invariant is violated.
	ErrMalformedQuestion = errors.New("question must have exactly 4 options and a correct answer index in [0,3]")
	// ErrSessionNotFound is returned when a game session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionCompleted is returned when mutating an already finalized session.
	ErrSessionCompleted = errors.New("session already completed")
	// ErrTournamentNotFound indicates an unknown tournament ID.
	ErrTournamentNotFound = errors.New("tournament not found")
	// ErrTournamentNotActive is returned on registration outside the active window.
	ErrTournamentNotActive = errors.New("tournament is not open for registration")
	// ErrTournamentFull is returned when max players is reached.
	ErrTournamentFull = errors.New("tournament is full")
	// ErrAlreadyRegistered is returned on duplicate tournament registration.
	ErrAlreadyRegistered = errors.New("already registered for this tournament")
	// ErrAlreadyPlayed enforces the one-run-per-participant rule.
	ErrAlreadyPlayed = errors.New("participant has already played this tournament")
	// ErrParticipantNotFound is returned when a user has not joined the tournament.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrNotAuthorized is returned when a user acts on another user's resources.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInsufficientPoints is returned on powerup purchases the user cannot afford.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrPowerupNotFound indicates an unknown or exhausted powerup.
	ErrPowerupNotFound = errors.New("powerup not found")
)

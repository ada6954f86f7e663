// Package services holds the business logic of the duo backend.
//
// Errors returned by services are either one of the sentinels below (possibly
// wrapped) or an unexpected storage/upstream failure. Translation into HTTP
// status codes happens in the handlers package via Classify.
package services

import "errors"

// Duo errors.
var (
	// ErrInvalidCode is returned when an invite code is malformed or no pending
	// duo holds it.
	ErrInvalidCode = errors.New("invalid or expired invite code")

	// ErrAlreadyPaired is returned when the requester is already in an active duo.
	ErrAlreadyPaired = errors.New("already in an active duo")

	// ErrSelfJoin is returned when a user tries to join their own duo.
	ErrSelfJoin = errors.New("cannot join your own duo")

	// ErrNotPaired is returned when an operation needs an active duo and the
	// requester has none.
	ErrNotPaired = errors.New("not in an active duo")

	// ErrInvalidType is returned by LogForPartner for unknown log types.
	ErrInvalidType = errors.New("invalid type, must be water, meal, or smoke")

	// ErrInvalidInput is returned for out-of-range counter values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuoNotFound is returned when a user's duo reference points nowhere.
	ErrDuoNotFound = errors.New("duo not found")

	// ErrUserNotFound is returned when the requesting user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInviteCodeExhausted is returned when no free invite code was found
	// within the retry budget.
	ErrInviteCodeExhausted = errors.New("failed to generate unique invite code")
)

// Kind groups errors by how the API reports them.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
)

// Classify maps an error returned by a service to its Kind.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidCode), errors.Is(err, ErrInvalidType), errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrAlreadyPaired), errors.Is(err, ErrSelfJoin), errors.Is(err, ErrNotPaired):
		return KindConflict
	case errors.Is(err, ErrDuoNotFound), errors.Is(err, ErrUserNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

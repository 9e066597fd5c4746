package services

import "errors"

var (
	// ErrDuplicateSubmission is returned when a roll number already has a CV
	// in the queue. The pre-insert existence check is read-then-write, so two
	// simultaneous submits can still both pass it; the API treats this as a
	// user-facing rejection, not a retryable failure.
	ErrDuplicateSubmission = errors.New("a CV for this roll number has already been submitted")

	ErrSubmissionNotFound = errors.New("submission not found")
	ErrReviewerNotFound   = errors.New("reviewer not found")

	// ErrNotAssigned rejects a review of a submission that is not assigned
	// to the calling reviewer. The roll number in the request is
	// caller-supplied, so the assignment is re-checked on every submit.
	ErrNotAssigned = errors.New("submission is not assigned to this reviewer")

	// ErrEmptyReview rejects feedback with no filled-in section.
	ErrEmptyReview = errors.New("review must contain at least one feedback section")

	// ErrQuotaExhausted blocks first-time reviews once a reviewer has
	// completed their quota. Editing an existing review is always allowed.
	ErrQuotaExhausted = errors.New("review quota exhausted")
)

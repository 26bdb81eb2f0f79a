package services

import "errors"

// Sentinel errors returned by the service layer. Controllers translate these
// into HTTP status codes; ownership failures deliberately reuse ErrNotFound
// so callers cannot probe for the existence of content they do not own.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidTarget   = errors.New("vote must reference exactly one of thread_id or comment_id")
	ErrInvalidVoteType = errors.New("vote_type must be upvote or downvote")
	ErrUpstream        = errors.New("upstream render service failure")
)

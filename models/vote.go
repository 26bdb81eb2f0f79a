package models

// Vote is one signed unit cast by a user on exactly one target: a thread or
// a comment. Exactly one of ThreadID/CommentID is set.
//
// The composite unique indexes are the storage backstop for the
// one-vote-per-(user,target) rule: MySQL treats NULL as distinct inside a
// unique index, so a user may hold many comment votes (thread_id NULL) but
// never two votes on the same thread or the same comment.
type Vote struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	UserID    uint  `gorm:"not null;index;uniqueIndex:idx_vote_user_thread;uniqueIndex:idx_vote_user_comment" json:"user_id"`
	ThreadID  *uint `gorm:"index;uniqueIndex:idx_vote_user_thread" json:"thread_id"`
	CommentID *uint `gorm:"index;uniqueIndex:idx_vote_user_comment" json:"comment_id"`
	Value     int   `gorm:"not null" json:"value"` // +1 or -1

	Thread  *Thread  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Comment *Comment `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

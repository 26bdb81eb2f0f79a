package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aeroforge/aerobbs/models"
)

// Vote type names accepted on the wire and their signed values.
const (
	VoteTypeUp   = "upvote"
	VoteTypeDown = "downvote"
)

var voteValues = map[string]int{
	VoteTypeUp:   1,
	VoteTypeDown: -1,
}

// VoteResult describes the outcome of a cast: either the vote now on record,
// or Removed=true when an identical cast toggled the previous vote off.
type VoteResult struct {
	Removed bool
	Vote    *models.Vote
}

// VoteService is the ledger holding at most one vote per (user, target) pair.
type VoteService struct {
	db *gorm.DB
}

// NewVoteService creates a VoteService on the given database handle.
func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// CastVote applies upsert-toggle-overwrite semantics for one user and one
// target, where the target is exactly one of threadID/commentID:
//
//	no existing vote            -> insert
//	existing vote, same value   -> delete (toggle-off)
//	existing vote, other value  -> overwrite in place
//
// The lookup and the following write run in one transaction with the row
// locked, so concurrent casts on the same pair serialize. If a first-vote
// race slips past the lookup anyway, the composite unique indexes on the
// votes table reject the second insert and the caller sees ErrConflict.
func (s *VoteService) CastVote(userID uint, threadID, commentID *uint, voteType string) (*VoteResult, error) {
	value, ok := voteValues[voteType]
	if !ok {
		return nil, ErrInvalidVoteType
	}
	if (threadID == nil) == (commentID == nil) {
		return nil, ErrInvalidTarget
	}

	var res VoteResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID)
		if threadID != nil {
			q = q.Where("thread_id = ?", *threadID)
		} else {
			q = q.Where("comment_id = ?", *commentID)
		}

		var existing models.Vote
		err := q.First(&existing).Error
		switch {
		case err == nil:
			if existing.Value == value {
				if err := tx.Delete(&existing).Error; err != nil {
					return err
				}
				res.Removed = true
				return nil
			}
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
			existing.Value = value
			res.Vote = &existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{
				UserID:    userID,
				ThreadID:  threadID,
				CommentID: commentID,
				Value:     value,
			}
			if err := tx.Create(&vote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrConflict
				}
				return err
			}
			res.Vote = &vote
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/aeroforge/aerobbs/models"
)

// CommentService owns comment mutations and their ownership guards.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService on the given database handle.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// Create stores a new comment on a thread, optionally replying to a parent
// comment. The thread must exist, and the parent (when given) must be a
// comment on the same thread.
func (s *CommentService) Create(userID, threadID uint, content string, parentID *uint) (*models.Comment, error) {
	var thread models.Thread
	if err := s.db.First(&thread, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if parentID != nil {
		if err := s.checkParent(threadID, *parentID); err != nil {
			return nil, err
		}
	}
	comment := models.Comment{
		ThreadID:        threadID,
		UserID:          userID,
		Content:         content,
		ParentCommentID: parentID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update rewrites a comment's content and parent link. Only the author (or
// staff) may update; ownership failures surface as ErrNotFound.
func (s *CommentService) Update(actorID uint, actorRole string, id uint, content string, parentID *uint) (*models.Comment, error) {
	comment, err := s.loadOwned(actorID, actorRole, id)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		if *parentID == comment.ID {
			return nil, ErrNotFound
		}
		if err := s.checkParent(comment.ThreadID, *parentID); err != nil {
			return nil, err
		}
	}
	comment.Content = content
	comment.ParentCommentID = parentID
	if err := s.db.Save(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment under the same ownership rule as Update.
func (s *CommentService) Delete(actorID uint, actorRole string, id uint) error {
	comment, err := s.loadOwned(actorID, actorRole, id)
	if err != nil {
		return err
	}
	return s.db.Delete(comment).Error
}

func (s *CommentService) loadOwned(actorID uint, actorRole string, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if comment.UserID != actorID && !models.IsStaffRole(actorRole) {
		return nil, ErrNotFound
	}
	return &comment, nil
}

func (s *CommentService) checkParent(threadID, parentID uint) error {
	var parent models.Comment
	if err := s.db.First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if parent.ThreadID != threadID {
		return ErrNotFound
	}
	return nil
}

package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aeroforge/aerobbs/models"
)

// ThreadInput carries the caller-editable thread fields.
type ThreadInput struct {
	Title    string
	Content  string
	Summary  string
	Category string
	Tags     []string
}

// ThreadService owns thread mutations and their ownership guards.
type ThreadService struct {
	db *gorm.DB
}

// NewThreadService creates a ThreadService on the given database handle.
func NewThreadService(db *gorm.DB) *ThreadService {
	return &ThreadService{db: db}
}

// Create stores a new thread authored by userID.
func (s *ThreadService) Create(userID uint, in ThreadInput) (*models.Thread, error) {
	thread := models.Thread{
		UserID:   userID,
		Title:    in.Title,
		Content:  in.Content,
		Summary:  in.Summary,
		Category: in.Category,
		Tags:     in.Tags,
	}
	if err := s.db.Create(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

// Update rewrites a thread's editable fields. Only the author (or staff) may
// update; a failed ownership check reports ErrNotFound so non-owners learn
// nothing about the thread's existence.
func (s *ThreadService) Update(actorID uint, actorRole string, id uint, in ThreadInput) (*models.Thread, error) {
	thread, err := s.loadOwned(actorID, actorRole, id)
	if err != nil {
		return nil, err
	}
	thread.Title = in.Title
	thread.Content = in.Content
	thread.Summary = in.Summary
	thread.Category = in.Category
	thread.Tags = in.Tags
	thread.UpdatedAt = time.Now()
	if err := s.db.Save(thread).Error; err != nil {
		return nil, err
	}
	return thread, nil
}

// Delete removes a thread under the same ownership rule as Update. Votes on
// the thread go with it via the storage-level cascade.
func (s *ThreadService) Delete(actorID uint, actorRole string, id uint) error {
	thread, err := s.loadOwned(actorID, actorRole, id)
	if err != nil {
		return err
	}
	return s.db.Delete(thread).Error
}

func (s *ThreadService) loadOwned(actorID uint, actorRole string, id uint) (*models.Thread, error) {
	var thread models.Thread
	if err := s.db.First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if thread.UserID != actorID && !models.IsStaffRole(actorRole) {
		return nil, ErrNotFound
	}
	return &thread, nil
}

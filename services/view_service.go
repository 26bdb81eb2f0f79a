package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aeroforge/aerobbs/models"
)

// UserView is the author block embedded in composed views.
type UserView struct {
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	Email        *string `json:"email"`
	Role         string  `json:"role"`
	Organization string  `json:"organization"`
}

// AttachmentSummary is the single attachment surfaced on a thread view.
type AttachmentSummary struct {
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
}

// ThreadView is a thread joined with its author, every vote cast on it, and
// at most one attachment.
type ThreadView struct {
	ID         uint               `json:"id"`
	UserID     uint               `json:"user_id"`
	Title      string             `json:"title"`
	Content    string             `json:"content"`
	Summary    string             `json:"summary"`
	Category   string             `json:"category"`
	Tags       []string           `json:"tags"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	User       UserView           `json:"user"`
	Vote       []models.Vote      `json:"vote"`
	Attachment *AttachmentSummary `json:"attachment"`
}

// CommentView is a comment joined with its author and its votes.
type CommentView struct {
	ID              uint          `json:"id"`
	ThreadID        uint          `json:"thread_id"`
	Content         string        `json:"content"`
	CreatedAt       time.Time     `json:"created_at"`
	ParentCommentID *uint         `json:"parent_comment_id"`
	User            UserView      `json:"user"`
	Vote            []models.Vote `json:"vote"`
}

// ViewService assembles response views by joining content with authors,
// votes, and attachments.
//
// The one-to-many joins are done as batched IN loads collapsed through maps
// keyed by entity id, so an entity appears exactly once no matter how many
// votes or attachments hang off it, and a zero-vote entity carries an empty
// slice rather than a null.
type ViewService struct {
	db *gorm.DB
}

// NewViewService creates a ViewService on the given database handle.
func NewViewService(db *gorm.DB) *ViewService {
	return &ViewService{db: db}
}

// ListThreads returns composed thread views ordered newest first, ties broken
// by ascending id. skip/limit follow the usual offset contract; there is no
// total count, callers detect the last page by a short read.
func (s *ViewService) ListThreads(skip, limit int) ([]ThreadView, error) {
	var threads []models.Thread
	err := s.db.Order("created_at DESC, id ASC").Offset(skip).Limit(limit).Find(&threads).Error
	if err != nil {
		return nil, err
	}
	return s.composeThreadViews(threads)
}

// GetThread returns the composed view for one thread, or ErrNotFound.
func (s *ViewService) GetThread(id uint) (*ThreadView, error) {
	var thread models.Thread
	if err := s.db.First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	views, err := s.composeThreadViews([]models.Thread{thread})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListComments returns composed comment views for one thread, most recent
// first (descending id). Callers rebuild the reply tree from
// parent_comment_id.
func (s *ViewService) ListComments(threadID uint, skip, limit int) ([]CommentView, error) {
	var comments []models.Comment
	q := s.db.Where("thread_id = ?", threadID).Order("id DESC").Offset(skip)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&comments).Error; err != nil {
		return nil, err
	}
	return s.composeCommentViews(comments)
}

func (s *ViewService) composeThreadViews(threads []models.Thread) ([]ThreadView, error) {
	views := make([]ThreadView, 0, len(threads))
	if len(threads) == 0 {
		return views, nil
	}

	threadIDs := make([]uint, 0, len(threads))
	userIDs := make([]uint, 0, len(threads))
	for _, t := range threads {
		threadIDs = append(threadIDs, t.ID)
		userIDs = append(userIDs, t.UserID)
	}

	users, err := s.loadUsers(userIDs)
	if err != nil {
		return nil, err
	}

	var votes []models.Vote
	if err := s.db.Where("thread_id IN ?", threadIDs).Find(&votes).Error; err != nil {
		return nil, err
	}
	votesByThread := map[uint][]models.Vote{}
	for _, v := range votes {
		votesByThread[*v.ThreadID] = append(votesByThread[*v.ThreadID], v)
	}

	var attachments []models.Attachment
	if err := s.db.Where("thread_id IN ?", threadIDs).Order("id ASC").Find(&attachments).Error; err != nil {
		return nil, err
	}
	// keep only the first attachment per thread
	attachmentByThread := map[uint]*AttachmentSummary{}
	for _, a := range attachments {
		if _, seen := attachmentByThread[a.ThreadID]; !seen {
			attachmentByThread[a.ThreadID] = &AttachmentSummary{FileURL: a.FileURL, FileType: a.FileType}
		}
	}

	for _, t := range threads {
		vs := votesByThread[t.ID]
		if vs == nil {
			vs = []models.Vote{}
		}
		views = append(views, ThreadView{
			ID:         t.ID,
			UserID:     t.UserID,
			Title:      t.Title,
			Content:    t.Content,
			Summary:    t.Summary,
			Category:   t.Category,
			Tags:       t.Tags,
			CreatedAt:  t.CreatedAt,
			UpdatedAt:  t.UpdatedAt,
			User:       users[t.UserID],
			Vote:       vs,
			Attachment: attachmentByThread[t.ID],
		})
	}
	return views, nil
}

func (s *ViewService) composeCommentViews(comments []models.Comment) ([]CommentView, error) {
	views := make([]CommentView, 0, len(comments))
	if len(comments) == 0 {
		return views, nil
	}

	commentIDs := make([]uint, 0, len(comments))
	userIDs := make([]uint, 0, len(comments))
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
		userIDs = append(userIDs, c.UserID)
	}

	users, err := s.loadUsers(userIDs)
	if err != nil {
		return nil, err
	}

	var votes []models.Vote
	if err := s.db.Where("comment_id IN ?", commentIDs).Find(&votes).Error; err != nil {
		return nil, err
	}
	votesByComment := map[uint][]models.Vote{}
	for _, v := range votes {
		votesByComment[*v.CommentID] = append(votesByComment[*v.CommentID], v)
	}

	for _, c := range comments {
		vs := votesByComment[c.ID]
		if vs == nil {
			vs = []models.Vote{}
		}
		views = append(views, CommentView{
			ID:              c.ID,
			ThreadID:        c.ThreadID,
			Content:         c.Content,
			CreatedAt:       c.CreatedAt,
			ParentCommentID: c.ParentCommentID,
			User:            users[c.UserID],
			Vote:            vs,
		})
	}
	return views, nil
}

func (s *ViewService) loadUsers(ids []uint) (map[uint]UserView, error) {
	var users []models.User
	if err := s.db.Find(&users, uniqueUint(ids)).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]UserView, len(users))
	for _, u := range users {
		byID[u.ID] = UserView{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			Role:         u.Role,
			Organization: u.Organization,
		}
	}
	return byID, nil
}

func uniqueUint(in []uint) []uint {
	seen := make(map[uint]struct{}, len(in))
	out := make([]uint, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aeroforge/aerobbs/models"
)

func TestGetThreadComposedView(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	bob := mustUser(t, db, "bob", models.RoleUser)
	carol := mustUser(t, db, "carol", models.RoleUser)
	thread := mustThread(t, db, alice.ID, "popular")

	votes := []models.Vote{
		{UserID: alice.ID, ThreadID: uintPtr(thread.ID), Value: 1},
		{UserID: bob.ID, ThreadID: uintPtr(thread.ID), Value: 1},
		{UserID: carol.ID, ThreadID: uintPtr(thread.ID), Value: -1},
	}
	for i := range votes {
		if err := db.Create(&votes[i]).Error; err != nil {
			t.Fatalf("seed vote: %v", err)
		}
	}
	att := models.Attachment{ThreadID: thread.ID, FileURL: "/api/file/a.glb", FileType: models.FileTypeModel}
	if err := db.Create(&att).Error; err != nil {
		t.Fatalf("seed attachment: %v", err)
	}

	svc := NewViewService(db)
	view, err := svc.GetThread(thread.ID)
	if err != nil {
		t.Fatalf("get thread: %v", err)
	}
	if len(view.Vote) != 3 {
		t.Fatalf("expected 3 votes on the view, got %d", len(view.Vote))
	}
	if view.User.Username != "alice" {
		t.Fatalf("author = %q, want alice", view.User.Username)
	}
	if view.Attachment == nil || view.Attachment.FileURL != "/api/file/a.glb" {
		t.Fatalf("attachment = %+v", view.Attachment)
	}
}

func TestGetThreadZeroVotes(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	thread := mustThread(t, db, alice.ID, "quiet")

	svc := NewViewService(db)
	view, err := svc.GetThread(thread.ID)
	if err != nil {
		t.Fatalf("get thread: %v", err)
	}
	if view.Vote == nil {
		t.Fatalf("vote list must be empty, not nil")
	}
	if len(view.Vote) != 0 {
		t.Fatalf("expected no votes, got %d", len(view.Vote))
	}
	if view.Attachment != nil {
		t.Fatalf("expected no attachment, got %+v", view.Attachment)
	}
}

func TestGetThreadNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewViewService(db)
	if _, err := svc.GetThread(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListThreadsCollapsesFanOut(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	bob := mustUser(t, db, "bob", models.RoleUser)
	thread := mustThread(t, db, alice.ID, "only")

	for _, v := range []models.Vote{
		{UserID: alice.ID, ThreadID: uintPtr(thread.ID), Value: 1},
		{UserID: bob.ID, ThreadID: uintPtr(thread.ID), Value: 1},
	} {
		vote := v
		if err := db.Create(&vote).Error; err != nil {
			t.Fatalf("seed vote: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		att := models.Attachment{ThreadID: thread.ID, FileURL: fmt.Sprintf("/api/file/%d.png", i), FileType: models.FileTypeImage}
		if err := db.Create(&att).Error; err != nil {
			t.Fatalf("seed attachment: %v", err)
		}
	}

	svc := NewViewService(db)
	views, err := svc.ListThreads(0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("thread must appear once despite joined rows, got %d entries", len(views))
	}
	if len(views[0].Vote) != 2 {
		t.Fatalf("expected 2 votes, got %d", len(views[0].Vote))
	}
	if views[0].Attachment == nil || views[0].Attachment.FileURL != "/api/file/0.png" {
		t.Fatalf("expected first attachment only, got %+v", views[0].Attachment)
	}
}

func TestListThreadsOrderingAndPagination(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var ids []uint
	for i := 0; i < 25; i++ {
		th := mustThreadAt(t, db, alice.ID, fmt.Sprintf("t%02d", i), base.Add(time.Duration(i)*time.Hour))
		ids = append(ids, th.ID)
	}

	svc := NewViewService(db)

	// newest first
	first, err := svc.ListThreads(0, 10)
	if err != nil {
		t.Fatalf("page 0: %v", err)
	}
	if len(first) != 10 {
		t.Fatalf("page 0 size = %d", len(first))
	}
	if first[0].ID != ids[24] || first[9].ID != ids[15] {
		t.Fatalf("page 0 spans %d..%d, want %d..%d", first[0].ID, first[9].ID, ids[24], ids[15])
	}

	// page=1, limit=10 means skip the newest 10
	second, err := svc.ListThreads(10, 10)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if second[0].ID != ids[14] || second[9].ID != ids[5] {
		t.Fatalf("page 1 spans %d..%d, want %d..%d", second[0].ID, second[9].ID, ids[14], ids[5])
	}

	// last page is a short read
	third, err := svc.ListThreads(20, 10)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(third) != 5 {
		t.Fatalf("page 2 size = %d, want 5", len(third))
	}
}

func TestListThreadsCreatedAtTieBreak(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)

	same := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	a := mustThreadAt(t, db, alice.ID, "a", same)
	b := mustThreadAt(t, db, alice.ID, "b", same)

	svc := NewViewService(db)
	views, err := svc.ListThreads(0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 || views[0].ID != a.ID || views[1].ID != b.ID {
		t.Fatalf("equal timestamps must order by ascending id, got %v then %v", views[0].ID, views[1].ID)
	}
}

func TestListCommentsOrderAndVotes(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	bob := mustUser(t, db, "bob", models.RoleUser)
	thread := mustThread(t, db, alice.ID, "t")

	c1 := mustComment(t, db, alice.ID, thread.ID, "first")
	c2 := mustComment(t, db, bob.ID, thread.ID, "second")
	vote := models.Vote{UserID: alice.ID, CommentID: uintPtr(c2.ID), Value: 1}
	if err := db.Create(&vote).Error; err != nil {
		t.Fatalf("seed vote: %v", err)
	}

	svc := NewViewService(db)
	views, err := svc.ListComments(thread.ID, 0, 0)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(views))
	}
	// most recent first
	if views[0].ID != c2.ID || views[1].ID != c1.ID {
		t.Fatalf("order = %d,%d want %d,%d", views[0].ID, views[1].ID, c2.ID, c1.ID)
	}
	if len(views[0].Vote) != 1 {
		t.Fatalf("expected 1 vote on newest comment, got %d", len(views[0].Vote))
	}
	if views[1].Vote == nil || len(views[1].Vote) != 0 {
		t.Fatalf("zero-vote comment must carry an empty list")
	}
	if views[0].User.Username != "bob" || views[1].User.Username != "alice" {
		t.Fatalf("authors = %q,%q", views[0].User.Username, views[1].User.Username)
	}
}

func TestListCommentsScopedToThread(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	t1 := mustThread(t, db, alice.ID, "one")
	t2 := mustThread(t, db, alice.ID, "two")
	mustComment(t, db, alice.ID, t1.ID, "on one")
	mustComment(t, db, alice.ID, t2.ID, "on two")

	svc := NewViewService(db)
	views, err := svc.ListComments(t1.ID, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].ThreadID != t1.ID {
		t.Fatalf("expected only thread one's comment, got %+v", views)
	}
}

package services

import (
	"errors"
	"testing"

	"github.com/aeroforge/aerobbs/models"
)

func TestCommentCreateAndReply(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	bob := mustUser(t, db, "bob", models.RoleUser)
	thread := mustThread(t, db, alice.ID, "t")
	svc := NewCommentService(db)

	top, err := svc.Create(alice.ID, thread.ID, "top level", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	reply, err := svc.Create(bob.ID, thread.ID, "a reply", uintPtr(top.ID))
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.ParentCommentID == nil || *reply.ParentCommentID != top.ID {
		t.Fatalf("reply parent = %+v", reply.ParentCommentID)
	}
}

func TestCommentCreateMissingThread(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	svc := NewCommentService(db)

	if _, err := svc.Create(alice.ID, 404, "into the void", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCommentReplyAcrossThreads(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	t1 := mustThread(t, db, alice.ID, "one")
	t2 := mustThread(t, db, alice.ID, "two")
	other := mustComment(t, db, alice.ID, t2.ID, "elsewhere")
	svc := NewCommentService(db)

	if _, err := svc.Create(alice.ID, t1.ID, "cross reply", uintPtr(other.ID)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("parent on another thread: got %v, want ErrNotFound", err)
	}
}

func TestCommentUpdateOwnership(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	mallory := mustUser(t, db, "mallory", models.RoleUser)
	admin := mustUser(t, db, "root", models.RoleAdmin)
	thread := mustThread(t, db, alice.ID, "t")
	comment := mustComment(t, db, alice.ID, thread.ID, "original")
	svc := NewCommentService(db)

	if _, err := svc.Update(mallory.ID, models.RoleUser, comment.ID, "defaced", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("non-owner update: got %v, want ErrNotFound", err)
	}
	var stored models.Comment
	if err := db.First(&stored, comment.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Content != "original" {
		t.Fatalf("comment modified by non-owner: %q", stored.Content)
	}

	if _, err := svc.Update(admin.ID, models.RoleAdmin, comment.ID, "moderated", nil); err != nil {
		t.Fatalf("admin update: %v", err)
	}
}

func TestCommentUpdateSelfParent(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	thread := mustThread(t, db, alice.ID, "t")
	comment := mustComment(t, db, alice.ID, thread.ID, "loop")
	svc := NewCommentService(db)

	if _, err := svc.Update(alice.ID, models.RoleUser, comment.ID, "loop", uintPtr(comment.ID)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("self parent: got %v, want ErrNotFound", err)
	}
}

func TestCommentDelete(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	mallory := mustUser(t, db, "mallory", models.RoleUser)
	thread := mustThread(t, db, alice.ID, "t")
	comment := mustComment(t, db, alice.ID, thread.ID, "gone soon")
	svc := NewCommentService(db)

	if err := svc.Delete(mallory.ID, models.RoleUser, comment.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("non-owner delete: got %v, want ErrNotFound", err)
	}
	if err := svc.Delete(alice.ID, models.RoleUser, comment.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	var n int64
	db.Model(&models.Comment{}).Count(&n)
	if n != 0 {
		t.Fatalf("comment survived owner delete")
	}
}

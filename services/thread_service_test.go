package services

import (
	"errors"
	"testing"

	"github.com/aeroforge/aerobbs/models"
)

func TestThreadCreateAndUpdate(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	svc := NewThreadService(db)

	thread, err := svc.Create(alice.ID, ThreadInput{Title: "hello", Content: "world", Tags: []string{"go"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if thread.ID == 0 || thread.UserID != alice.ID {
		t.Fatalf("created thread %+v", thread)
	}

	updated, err := svc.Update(alice.ID, models.RoleUser, thread.ID, ThreadInput{Title: "hello2", Content: "world2"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "hello2" || updated.Content != "world2" {
		t.Fatalf("update did not apply: %+v", updated)
	}
}

func TestThreadUpdateByNonOwner(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	mallory := mustUser(t, db, "mallory", models.RoleUser)
	thread := mustThread(t, db, alice.ID, "mine")
	svc := NewThreadService(db)

	_, err := svc.Update(mallory.ID, models.RoleUser, thread.ID, ThreadInput{Title: "stolen"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("non-owner update: got %v, want ErrNotFound", err)
	}

	var stored models.Thread
	if err := db.First(&stored, thread.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Title != "mine" {
		t.Fatalf("thread was modified by non-owner: %q", stored.Title)
	}
}

func TestThreadDeleteByStaff(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	mod := mustUser(t, db, "mod", models.RoleModerator)
	thread := mustThread(t, db, alice.ID, "reported")
	svc := NewThreadService(db)

	if err := svc.Delete(mod.ID, models.RoleModerator, thread.ID); err != nil {
		t.Fatalf("moderator delete: %v", err)
	}
	var n int64
	db.Model(&models.Thread{}).Count(&n)
	if n != 0 {
		t.Fatalf("thread survived staff delete")
	}
}

func TestThreadDeleteByNonOwner(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	mallory := mustUser(t, db, "mallory", models.RoleUser)
	thread := mustThread(t, db, alice.ID, "mine")
	svc := NewThreadService(db)

	if err := svc.Delete(mallory.ID, models.RoleUser, thread.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("non-owner delete: got %v, want ErrNotFound", err)
	}
	var n int64
	db.Model(&models.Thread{}).Count(&n)
	if n != 1 {
		t.Fatalf("thread deleted by non-owner")
	}
}

func TestThreadMutateMissing(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice", models.RoleUser)
	svc := NewThreadService(db)

	if _, err := svc.Update(alice.ID, models.RoleAdmin, 404, ThreadInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: got %v, want ErrNotFound", err)
	}
	if err := svc.Delete(alice.ID, models.RoleAdmin, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing: got %v, want ErrNotFound", err)
	}
}

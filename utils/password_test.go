package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("hash equals plaintext")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}

func TestSanitizeStripsScripts(t *testing.T) {
	out := Sanitize(`<p>hi</p><script>alert(1)</script>`)
	if out != "<p>hi</p>" {
		t.Fatalf("sanitize = %q", out)
	}
}

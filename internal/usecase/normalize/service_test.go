package normalize

import (
	"errors"
	"strings"
	"testing"

	"github.com/inboxlab/mailrag/internal/domain"
	"github.com/inboxlab/mailrag/internal/domain/email"
)

func mustEmail(t *testing.T, id, subject, body string) email.Email {
	t.Helper()
	e, err := email.New(id, "from@x.com", "to@x.com", subject, "2026-01-01", body)
	if err != nil {
		t.Fatalf("email.New: %v", err)
	}
	return e
}

func TestNormalize_PreservesCountAndOrder(t *testing.T) {
	emails := []email.Email{
		mustEmail(t, "e1", "first", "body one"),
		mustEmail(t, "e2", "second", "body two"),
		mustEmail(t, "e3", "third", "body three"),
	}

	msgs, err := New().Normalize(emails)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != len(emails) {
		t.Fatalf("expected %d messages, got %d", len(emails), len(msgs))
	}
	for i := range msgs {
		if msgs[i].ID() != emails[i].ID() {
			t.Errorf("message %d: id = %q, want %q", i, msgs[i].ID(), emails[i].ID())
		}
	}
}

func TestNormalize_TextLayout(t *testing.T) {
	e := mustEmail(t, "e1", "Invoice #42", "Please pay by Friday.")

	msgs, err := New().Normalize([]email.Email{e})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := msgs[0].Text()
	want := "From: from@x.com\nTo: to@x.com\nSubject: Invoice #42\nDate: 2026-01-01\n\nPlease pay by Friday."
	if text != want {
		t.Errorf("text layout mismatch:\ngot  %q\nwant %q", text, want)
	}
}

func TestNormalize_MetadataCarried(t *testing.T) {
	e := mustEmail(t, "e1", "subj", "body")

	msgs, err := New().Normalize([]email.Email{e})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meta := msgs[0].Metadata()
	if meta.From() != "from@x.com" || meta.Subject() != "subj" || meta.Date() != "2026-01-01" {
		t.Errorf("metadata not carried: %+v", meta)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	msgs, err := New().Normalize(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected no messages, got %d", len(msgs))
	}
}

func TestNormalize_InvalidRecordRejectsBatch(t *testing.T) {
	emails := []email.Email{
		mustEmail(t, "e1", "ok", "body"),
		{}, // zero value: no id, no body
	}

	msgs, err := New().Normalize(emails)
	if !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if msgs != nil {
		t.Error("no partial output on validation failure")
	}
	if !strings.Contains(err.Error(), "[1]") {
		t.Errorf("error should name the failing position: %v", err)
	}
}

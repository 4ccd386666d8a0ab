package notify

import (
	"context"
	"testing"
)

func TestNewSendGridSenderNilWithoutAPIKey(t *testing.T) {
	if s := NewSendGridSender("", From{Email: "agenda@example.com"}, nil); s != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestFromDefaultsDisplayName(t *testing.T) {
	if got := (From{Email: "agenda@example.com"}).displayName(); got != DefaultFromName {
		t.Errorf("displayName = %q, want %q", got, DefaultFromName)
	}
	if got := (From{Email: "agenda@example.com", Name: "Banho Feliz"}).displayName(); got != "Banho Feliz" {
		t.Errorf("displayName = %q, want custom name", got)
	}
}

func TestSendGridSenderNilClientErrors(t *testing.T) {
	var s SendGridSender
	if err := s.Send(context.Background(), Message{To: "tutor@example.com"}); err == nil {
		t.Error("expected error from unconfigured sender")
	}
}

func TestNewSESSenderNilWithoutClient(t *testing.T) {
	if s := NewSESSender(nil, From{Email: "agenda@example.com"}, nil); s != nil {
		t.Error("expected nil sender without SES client")
	}
}

func TestSESSenderNilClientErrors(t *testing.T) {
	var s SESSender
	if err := s.Send(context.Background(), Message{To: "tutor@example.com"}); err == nil {
		t.Error("expected error from unconfigured sender")
	}
}

func TestStubSenderSwallowsMessages(t *testing.T) {
	s := NewStubSender(nil)
	if err := s.Send(context.Background(), Message{To: "tutor@example.com", Subject: "Lembrete"}); err != nil {
		t.Errorf("stub send failed: %v", err)
	}
}

package sender

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"joke-bot/internal/models"
)

func TestStubSend(t *testing.T) {
	tests := []struct {
		platform models.Platform
		expected string
	}{
		{models.PlatformFeishu, "[Feishu] hello\n"},
		{models.PlatformWeCom, "[WeCom] hello\n"},
		{models.PlatformTelegram, "[Telegram] hello\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			var buf bytes.Buffer
			s := NewStub(tt.platform, &buf)

			if err := s.Send(context.Background(), "hello"); err != nil {
				t.Fatalf("Send() error = %v", err)
			}
			if buf.String() != tt.expected {
				t.Errorf("Send() wrote %q, want %q", buf.String(), tt.expected)
			}
			if s.Platform() != tt.platform {
				t.Errorf("Platform() = %v, want %v", s.Platform(), tt.platform)
			}
		})
	}
}

func TestStubSendCancelled(t *testing.T) {
	var buf bytes.Buffer
	s := NewStub(models.PlatformFeishu, &buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, "hello")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Send() error = %v, want context.Canceled", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected nothing written, got %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestStubSendWriteError(t *testing.T) {
	s := NewStub(models.PlatformWeCom, failingWriter{})
	if err := s.Send(context.Background(), "hello"); err == nil {
		t.Error("Expected write error")
	}
}

func TestStubs(t *testing.T) {
	stubs := Stubs(&bytes.Buffer{})
	if len(stubs) != len(models.Platforms()) {
		t.Fatalf("len(Stubs()) = %v, want %v", len(stubs), len(models.Platforms()))
	}
	for i, p := range models.Platforms() {
		if stubs[i].Platform() != p {
			t.Errorf("Stubs()[%d].Platform() = %v, want %v", i, stubs[i].Platform(), p)
		}
	}
}

// Package sender holds the chat-platform delivery channels. The channels
// here are stubs that print the message tagged with the platform name.
package sender

import (
	"context"
	"fmt"
	"io"
	"os"

	"joke-bot/internal/models"
)

type Sender interface {
	Platform() models.Platform
	Send(ctx context.Context, message string) error
}

type Stub struct {
	platform models.Platform
	w        io.Writer
}

// NewStub returns a sender for platform that writes to w, or stdout if w is nil.
func NewStub(platform models.Platform, w io.Writer) *Stub {
	if w == nil {
		w = os.Stdout
	}
	return &Stub{platform: platform, w: w}
}

func (s *Stub) Platform() models.Platform {
	return s.platform
}

func (s *Stub) Send(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "[%s] %s\n", s.platform.DisplayName(), message); err != nil {
		return fmt.Errorf("failed to write %s message: %w", s.platform, err)
	}
	return nil
}

// Stubs returns one stub per known platform, all writing to w.
func Stubs(w io.Writer) []Sender {
	platforms := models.Platforms()
	out := make([]Sender, 0, len(platforms))
	for _, p := range platforms {
		out = append(out, NewStub(p, w))
	}
	return out
}

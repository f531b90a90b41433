// Package notify delivers one-line sync summaries to the user.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Notifier delivers a user-facing message.
type Notifier interface {
	Notify(ctx context.Context, msg string) error
}

// Console prints messages, one per line.
type Console struct {
	w io.Writer
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Notify writes msg followed by a newline.
func (c *Console) Notify(_ context.Context, msg string) error {
	if _, err := fmt.Fprintln(c.w, msg); err != nil {
		return fmt.Errorf("console notify: %w", err)
	}
	return nil
}

// Multi fans a message out to every notifier and joins their errors.
type Multi []Notifier

// Notify delivers msg to all notifiers even when one of them fails.
func (m Multi) Notify(ctx context.Context, msg string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

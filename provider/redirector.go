package provider

import (
	"context"
	"fmt"
	"io"
)

// Redirector moves the browsing context to an external URL.
type Redirector interface {
	Redirect(ctx context.Context, url string) error
}

// RedirectorFunc adapts a function to Redirector.
type RedirectorFunc func(ctx context.Context, url string) error

func (f RedirectorFunc) Redirect(ctx context.Context, url string) error {
	return f(ctx, url)
}

// WriterRedirector asks the user to open the URL by printing it, for
// terminals without a browser to drive.
type WriterRedirector struct {
	W io.Writer
}

func (r WriterRedirector) Redirect(_ context.Context, url string) error {
	_, err := fmt.Fprintf(r.W, "Open this URL in your browser to log in:\n\n  %s\n\n", url)
	return err
}

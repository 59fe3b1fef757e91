package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/varta/internal/client/services"
)

// consoleNotifier prints session notices.
type consoleNotifier struct {
	w io.Writer
}

func (n consoleNotifier) Notify(_ context.Context, notice services.Notice) {
	prefix := "*"
	if notice.Kind == services.NoticeError {
		prefix = "!"
	}
	if notice.Message == "" {
		fmt.Fprintf(n.w, "%s %s\n", prefix, notice.Title)
		return
	}
	fmt.Fprintf(n.w, "%s %s %s\n", prefix, notice.Title, notice.Message)
}

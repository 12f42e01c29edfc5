package services

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/router"
	"github.com/nicholas-fedor/shoutrrr/pkg/types"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
)

// AdminNotifier reaches the site administrators
type AdminNotifier interface {
	NotifyAdmins(subject, message string) error
}

// ShoutrrrNotifier sends admin notifications to every configured shoutrrr
// URL (usually a single smtp:// URL addressed to the admins).
type ShoutrrrNotifier struct {
	sender *router.ServiceRouter
}

// NewShoutrrrNotifier validates urls and builds one sender for all of them.
// With no urls it returns a notifier that only logs.
func NewShoutrrrNotifier(urls []string, timeout time.Duration) (AdminNotifier, error) {
	if len(urls) == 0 {
		return LogNotifier{}, nil
	}
	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, fmt.Errorf("invalid admin notification url: %w", err)
	}
	if timeout > 0 {
		sender.Timeout = timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))
	return &ShoutrrrNotifier{sender: sender}, nil
}

func (n *ShoutrrrNotifier) NotifyAdmins(subject, message string) error {
	params := types.Params{}
	params.SetTitle(subject)
	for _, err := range n.sender.Send(message, &params) {
		if err != nil {
			return fmt.Errorf("notify admins: %w", err)
		}
	}
	return nil
}

// LogNotifier is used when no notification URL is configured
type LogNotifier struct{}

func (LogNotifier) NotifyAdmins(subject, message string) error {
	logger.Warn().Str("subject", subject).Str("message", message).Msg("Admin notification (no transport configured)")
	return nil
}

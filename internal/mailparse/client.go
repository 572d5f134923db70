package mailparse

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"time"

	apperrors "github.com/welldanyogia/webrana-mailarchive/internal/errors"
	"github.com/welldanyogia/webrana-mailarchive/internal/logger"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"golang.org/x/sync/errgroup"
)

// All requests every record instead of the N most recent
const All = -1

// Config selects the mailbox files a Client reads
type Config struct {
	// ProfilesDir is searched with a Locator when MailboxFiles is empty
	ProfilesDir  string
	MailboxFiles []string
	// Workers bounds how many files are parsed at once
	Workers int
}

// Client reads messages from a local Thunderbird mail store
type Client struct {
	cfg Config
	log *slog.Logger
}

// NewClient creates a new Client
func NewClient(cfg Config, log *slog.Logger) *Client {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Client{cfg: cfg, log: logger.OrDiscard(log)}
}

// Vendor returns the vendor tag of messages produced by this client
func (c *Client) Vendor() string {
	return models.VendorThunderbird
}

// MailboxFiles returns the configured files, or the located ones
func (c *Client) MailboxFiles() ([]string, error) {
	if len(c.cfg.MailboxFiles) > 0 {
		return c.cfg.MailboxFiles, nil
	}
	if c.cfg.ProfilesDir == "" {
		return nil, fmt.Errorf("no mail store configured: %w", apperrors.ErrInvalidInput)
	}
	return Locator{Root: c.cfg.ProfilesDir, Log: c.log}.MailboxFiles()
}

// ValidateCount accepts All or a positive count
func ValidateCount(count int) error {
	if count == 0 || count < All {
		return fmt.Errorf("count must be %d (all) or positive, got %d: %w", All, count, apperrors.ErrInvalidInput)
	}
	return nil
}

// GetMails returns the newest messages across all mailbox files, sorted by
// received time descending. With a cursor only messages received after it
// are returned. Files that cannot be read are logged and skipped.
func (c *Client) GetMails(ctx context.Context, count int, cursor *time.Time) ([]models.MessageData, error) {
	if err := ValidateCount(count); err != nil {
		return nil, err
	}

	files, err := c.MailboxFiles()
	if err != nil {
		return nil, err
	}

	results := make([][]models.MessageData, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			mails, err := ReadMailbox(gctx, path, c.Vendor(), c.log)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.log.Warn("Failed to read mailbox file", "file", path, "error", err)
			}
			results[i] = filterAfter(mails, cursor)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.MessageData
	for _, r := range results {
		all = append(all, r...)
	}
	slices.SortStableFunc(all, func(a, b models.MessageData) int {
		return cmp.Compare(b.DateReceived.UnixNano(), a.DateReceived.UnixNano())
	})
	if count != All && len(all) > count {
		all = all[:count]
	}

	c.log.Info("Retrieved mails", "count", len(all), "mailboxes", len(files))
	return all, nil
}

// GetMail returns the message with the given Message-ID
func (c *Client) GetMail(ctx context.Context, messageID string) (*models.MessageData, error) {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return nil, fmt.Errorf("message id is empty: %w", apperrors.ErrInvalidInput)
	}

	files, err := c.MailboxFiles()
	if err != nil {
		return nil, err
	}

	var found *models.MessageData
	for _, path := range files {
		folder := FolderName(path)
		err := eachRecord(ctx, path, func(_ int, raw []byte) bool {
			h, err := readHeader(raw)
			if err != nil || strings.TrimSpace(h.Get("Message-Id")) != messageID {
				return true
			}
			if data, ok := ParseRecord(raw, c.Vendor(), folder, c.log); ok {
				found = data
				return false
			}
			return true
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			c.log.Warn("Failed to search mailbox file", "file", path, "error", err)
		}
		if found != nil {
			return found, nil
		}
	}

	c.log.Info("Mail not found", "message_id", messageID)
	return nil, fmt.Errorf("message %s: %w", messageID, apperrors.ErrMessageNotFound)
}

func filterAfter(mails []models.MessageData, cursor *time.Time) []models.MessageData {
	if cursor == nil {
		return mails
	}
	out := mails[:0]
	for _, m := range mails {
		if m.DateReceived.After(*cursor) {
			out = append(out, m)
		}
	}
	return out
}

package mailparse

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-mbox"
	"github.com/welldanyogia/webrana-mailarchive/internal/logger"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
)

// FolderName derives the folder of a mailbox file from its base name
func FolderName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadMailbox parses every record of an mbox file. Records that fail to
// parse are logged and skipped.
func ReadMailbox(ctx context.Context, path, vendor string, log *slog.Logger) ([]models.MessageData, error) {
	log = logger.OrDiscard(log).With("mailbox", path)
	folder := FolderName(path)

	var out []models.MessageData
	skipped := 0
	err := eachRecord(ctx, path, func(index int, raw []byte) bool {
		data, ok := ParseRecord(raw, vendor, folder, log.With("record", index))
		if !ok {
			skipped++
			return true
		}
		out = append(out, *data)
		return true
	})
	if err != nil {
		return out, err
	}

	log.Debug("Parsed mailbox", "messages", len(out), "skipped", skipped)
	return out, nil
}

// eachRecord streams the raw records of an mbox file to fn until fn
// returns false or the file ends
func eachRecord(ctx context.Context, path string, fn func(index int, raw []byte) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open mailbox: %w", err)
	}
	defer f.Close()

	r := mbox.NewReader(bufio.NewReader(f))
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := r.NextMessage()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read mailbox record %d: %w", i, err)
		}

		raw, err := io.ReadAll(msg)
		if err != nil {
			return fmt.Errorf("failed to read mailbox record %d: %w", i, err)
		}
		if !fn(i, raw) {
			return nil
		}
	}
}

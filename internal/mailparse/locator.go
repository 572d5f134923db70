package mailparse

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/welldanyogia/webrana-mailarchive/internal/logger"
)

// MailDirs are the profile subdirectories that hold account folders
var MailDirs = []string{"ImapMail", "Mail"}

const indexSuffix = ".msf"

// Locator finds mailbox files inside a Thunderbird profiles directory.
// A mailbox is an extensionless file with a sibling .msf index and a
// non-zero size, living in <profile>/{Mail,ImapMail}/<account>/.
type Locator struct {
	Root string
	Log  *slog.Logger
}

// Profiles returns the profile directories under Root. Root itself counts
// as a profile when it has a mail directory.
func (l Locator) Profiles() ([]string, error) {
	if hasMailDir(l.Root) {
		return []string{l.Root}, nil
	}

	entries, err := os.ReadDir(l.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles directory: %w", err)
	}

	var profiles []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(l.Root, e.Name())
		if hasMailDir(dir) {
			profiles = append(profiles, dir)
		}
	}
	return profiles, nil
}

// MailboxFiles returns every mailbox file of every profile
func (l Locator) MailboxFiles() ([]string, error) {
	log := logger.OrDiscard(l.Log)

	profiles, err := l.Profiles()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, profile := range profiles {
		for _, name := range MailDirs {
			mailDir := filepath.Join(profile, name)
			accounts, err := os.ReadDir(mailDir)
			if err != nil {
				continue
			}
			for _, account := range accounts {
				if !account.IsDir() {
					continue
				}
				found := mailboxesInAccount(filepath.Join(mailDir, account.Name()), log)
				files = append(files, found...)
			}
		}
	}

	log.Info("Located mailbox files", "root", l.Root, "profiles", len(profiles), "files", len(files))
	return files, nil
}

func mailboxesInAccount(dir string, log *slog.Logger) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("Failed to read account directory", "dir", dir, "error", err)
		return nil
	}

	indexes := make(map[string]bool)
	var candidates []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, indexSuffix):
			indexes[strings.TrimSuffix(name, indexSuffix)] = true
		case filepath.Ext(name) == "":
			candidates = append(candidates, e)
		}
	}

	var files []string
	for _, e := range candidates {
		if !indexes[e.Name()] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			log.Warn("Failed to stat mailbox", "file", e.Name(), "error", err)
			continue
		}
		if info.Size() > 0 {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files
}

func hasMailDir(dir string) bool {
	for _, name := range MailDirs {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

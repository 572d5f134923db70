// Package ingest persists parsed messages idempotently, keyed by their
// RFC 822 Message-ID.
package ingest

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/welldanyogia/webrana-mailarchive/internal/errors"
	"github.com/welldanyogia/webrana-mailarchive/internal/logger"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/repository"
	"gorm.io/gorm"
)

// MailSource produces parsed messages for one vendor
type MailSource interface {
	Vendor() string
	GetMails(ctx context.Context, count int, cursor *time.Time) ([]models.MessageData, error)
}

// BatchResult counts the outcome of a batch save
type BatchResult struct {
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// SyncResult reports a pull from a MailSource
type SyncResult struct {
	Vendor  string `json:"vendor"`
	Fetched int    `json:"fetched"`
	BatchResult
}

// Service defines the ingestion operations
type Service interface {
	// SaveMessage stores one message. A message whose Message-ID is already
	// stored is a no-op.
	SaveMessage(ctx context.Context, data *models.MessageData) error

	// SaveMessages stores a batch. Per-message failures are counted, never returned.
	SaveMessages(ctx context.Context, batch []models.MessageData) BatchResult

	// Sync registers the source vendor, pulls messages and saves them
	Sync(ctx context.Context, source MailSource, count int, cursor *time.Time) (*SyncResult, error)
}

// service implements Service
type service struct {
	db    *gorm.DB
	repos repository.Repositories
	log   *slog.Logger
}

// NewService creates a new ingestion Service
func NewService(db *gorm.DB, log *slog.Logger) Service {
	return &service{
		db:    db,
		repos: repository.NewRepositories(db),
		log:   logger.OrDiscard(log).With("component", "ingest"),
	}
}

// SaveMessage stores data unless its Message-ID is already present
func (s *service) SaveMessage(ctx context.Context, data *models.MessageData) error {
	if data == nil || data.RFC822MessageID == "" {
		return fmt.Errorf("message has no Message-ID: %w", apperrors.ErrInvalidInput)
	}

	_, err := s.repos.Messages.GetByRFC822ID(ctx, data.RFC822MessageID)
	switch {
	case err == nil:
		s.log.Debug("Message already stored", "message_id", data.RFC822MessageID)
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("failed to check message: %w", err)
	}

	vendorID, err := s.repos.Vendors.Ensure(ctx, data.Vendor)
	if err != nil {
		return fmt.Errorf("failed to resolve vendor %q: %w", data.Vendor, err)
	}

	_, err = s.save(ctx, vendorID, data)
	return err
}

// SaveMessages stores every message of batch that is not stored yet
func (s *service) SaveMessages(ctx context.Context, batch []models.MessageData) BatchResult {
	log := s.log.With("run_id", uuid.NewString())
	var result BatchResult

	vendorIDs := make(map[string]uint)
	vendorErrs := make(map[string]error)
	ids := make([]string, 0, len(batch))
	for i := range batch {
		if id := batch[i].RFC822MessageID; id != "" {
			ids = append(ids, id)
		}
		name := batch[i].Vendor
		if _, ok := vendorIDs[name]; ok {
			continue
		}
		if _, ok := vendorErrs[name]; ok {
			continue
		}
		id, err := s.repos.Vendors.Ensure(ctx, name)
		if err != nil {
			log.Error("Failed to resolve vendor", "vendor", name, "error", err)
			vendorErrs[name] = err
			continue
		}
		vendorIDs[name] = id
	}

	existing, err := s.repos.Messages.ExistingRFC822IDs(ctx, ids)
	if err != nil {
		// The per-message conflict handling still keeps saves idempotent
		log.Warn("Failed to pre-scan existing messages", "error", err)
		existing = map[string]struct{}{}
	}

	seen := make(map[string]struct{}, len(batch))
	for i := range batch {
		data := &batch[i]
		mlog := log.With("message_id", data.RFC822MessageID)

		if data.RFC822MessageID == "" {
			mlog.Warn("Message has no Message-ID")
			result.Failed++
			continue
		}
		if _, ok := existing[data.RFC822MessageID]; ok {
			result.Skipped++
			continue
		}
		if _, ok := seen[data.RFC822MessageID]; ok {
			mlog.Debug("Duplicate Message-ID in batch")
			result.Skipped++
			continue
		}
		seen[data.RFC822MessageID] = struct{}{}

		vendorID, ok := vendorIDs[data.Vendor]
		if !ok {
			result.Failed++
			continue
		}

		created, err := s.save(ctx, vendorID, data)
		switch {
		case err != nil:
			mlog.Error("Failed to save message", "error", err)
			result.Failed++
		case created:
			result.Saved++
		default:
			result.Skipped++
		}
	}

	log.Info("Batch saved",
		"total", len(batch),
		"saved", result.Saved,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result
}

// Sync pulls up to count messages received after cursor from source
func (s *service) Sync(ctx context.Context, source MailSource, count int, cursor *time.Time) (*SyncResult, error) {
	vendor := models.CanonicalVendorName(source.Vendor())
	if _, err := s.repos.Vendors.Ensure(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to register vendor %q: %w", vendor, err)
	}

	mails, err := source.GetMails(ctx, count, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mails: %w", err)
	}

	return &SyncResult{
		Vendor:      vendor,
		Fetched:     len(mails),
		BatchResult: s.SaveMessages(ctx, mails),
	}, nil
}

// save writes the message, its parts and its address links in one
// transaction. It reports false when another writer stored the same
// Message-ID first.
func (s *service) save(ctx context.Context, vendorID uint, data *models.MessageData) (bool, error) {
	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)

		folderID, err := s.folderID(ctx, repos, data.Folder)
		if err != nil {
			return err
		}

		msg := &models.Message{
			MessageFields: data.MessageFields,
			VendorID:      vendorID,
			FolderID:      folderID,
		}
		created, err = repos.Messages.Create(ctx, msg)
		if err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		if !created {
			return nil
		}

		if err := saveParts(ctx, repos, msg.ID, data.Parts); err != nil {
			return err
		}
		return s.saveAddresses(ctx, repos, msg.ID, data)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// folderID resolves name to a folder. Unknown folders leave the message unfiled.
func (s *service) folderID(ctx context.Context, repos repository.Repositories, name string) (*uint, error) {
	if name == "" {
		return nil, nil
	}
	id, err := repos.Folders.GetID(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Debug("Folder not found, message left unfiled", "folder", name)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve folder %q: %w", name, err)
	}
	return &id, nil
}

// saveParts stores parts in PartOrder, mapping each order to its new row id
// so children can point at their container
func saveParts(ctx context.Context, repos repository.Repositories, messageID uint, parts []models.MessagePartData) error {
	sorted := slices.Clone(parts)
	slices.SortStableFunc(sorted, func(a, b models.MessagePartData) int {
		return cmp.Compare(a.PartOrder, b.PartOrder)
	})

	ids := make(map[int]uint, len(sorted))
	for _, p := range sorted {
		if _, dup := ids[p.PartOrder]; dup {
			return fmt.Errorf("duplicate part order %d: %w", p.PartOrder, apperrors.ErrInvalidInput)
		}

		part := &models.MessagePart{MessageID: messageID, PartFields: p.PartFields}
		if p.ParentPartOrder != nil {
			parentID, ok := ids[*p.ParentPartOrder]
			if !ok {
				return fmt.Errorf("part %d references unsaved parent %d: %w",
					p.PartOrder, *p.ParentPartOrder, apperrors.ErrInvalidInput)
			}
			part.ParentPartID = &parentID
		}

		if err := repos.Parts.Create(ctx, part); err != nil {
			return fmt.Errorf("failed to create part %d: %w", p.PartOrder, err)
		}
		ids[p.PartOrder] = part.ID
	}
	return nil
}

func (s *service) saveAddresses(ctx context.Context, repos repository.Repositories, messageID uint, data *models.MessageData) error {
	for _, list := range data.AddressesByType() {
		seen := make(map[string]struct{}, len(list.Addresses))
		for _, a := range list.Addresses {
			email := models.NormalizeEmail(a.Email)
			if _, dup := seen[email]; dup {
				continue
			}
			seen[email] = struct{}{}

			addr, err := repos.Addresses.FindOrCreate(ctx, email, a.DisplayName)
			if errors.Is(err, repository.ErrInvalidInput) {
				s.log.Warn("Skipping invalid address", "email", a.Email, "type", list.Type)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to resolve address %q: %w", email, err)
			}

			created, err := repos.AddressMaps.Create(ctx, &models.MessageAddressMap{
				MessageID:   messageID,
				AddressID:   addr.ID,
				AddressType: list.Type,
			})
			if err != nil {
				return fmt.Errorf("failed to link address %q: %w", email, err)
			}
			if !created {
				s.log.Debug("Address link already exists", "email", email, "type", list.Type)
			}
		}
	}
	return nil
}

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/welldanyogia/webrana-mailarchive/internal/body"
	"github.com/welldanyogia/webrana-mailarchive/internal/ingest"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
)

// MockIngestService implements ingest.Service
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) SaveMessage(ctx context.Context, data *models.MessageData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockIngestService) SaveMessages(ctx context.Context, batch []models.MessageData) ingest.BatchResult {
	args := m.Called(ctx, batch)
	return args.Get(0).(ingest.BatchResult)
}

func (m *MockIngestService) Sync(ctx context.Context, source ingest.MailSource, count int, cursor *time.Time) (*ingest.SyncResult, error) {
	args := m.Called(ctx, source, count, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ingest.SyncResult), args.Error(1)
}

// MockBodyService implements body.Service
type MockBodyService struct {
	mock.Mock
}

// GetMessageBody fills attachment URLs through build so callers' URL
// scheme shows up in the result
func (m *MockBodyService) GetMessageBody(ctx context.Context, messageID uint, build body.URLBuilder, owner *body.Owner) (*models.MessageBody, error) {
	args := m.Called(ctx, messageID, mock.Anything, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	result := args.Get(0).(*models.MessageBody)
	for i := range result.Attachments {
		result.Attachments[i].ContentURL = build(result.Attachments[i].PartID)
	}
	return result, args.Error(1)
}

func (m *MockBodyService) GetMessagePartContent(ctx context.Context, vendorID, folderID, messageID, partID uint) (*models.PartContent, error) {
	args := m.Called(ctx, vendorID, folderID, messageID, partID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PartContent), args.Error(1)
}

// MockMailSource implements ingest.MailSource
type MockMailSource struct {
	mock.Mock
}

func (m *MockMailSource) Vendor() string {
	return m.Called().String(0)
}

func (m *MockMailSource) GetMails(ctx context.Context, count int, cursor *time.Time) ([]models.MessageData, error) {
	args := m.Called(ctx, count, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MessageData), args.Error(1)
}

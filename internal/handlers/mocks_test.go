package handlers

import (
	"context"
	"encoding/json"

	"github.com/lambdupdate/lambdupdate/internal/messaging"
	"github.com/lambdupdate/lambdupdate/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockUpdateService struct {
	mock.Mock
}

func (m *MockUpdateService) Update(ctx context.Context, event models.NotificationEvent) (models.AggregateResult, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(models.AggregateResult), args.Error(1)
}

type MockReportDispatcher struct {
	mock.Mock
}

func (m *MockReportDispatcher) DispatchUpdateReport(ctx context.Context, event models.NotificationEvent, result models.AggregateResult, updateErr error) error {
	args := m.Called(ctx, event, result, updateErr)
	return args.Error(0)
}

type MockSNSMessenger struct {
	mock.Mock
}

func (m *MockSNSMessenger) PublishUpdateReport(ctx context.Context, report messaging.UpdateReport) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

type MockUpdateHandler struct {
	mock.Mock
}

func (m *MockUpdateHandler) ProcessNotification(ctx context.Context, payload json.RawMessage) error {
	args := m.Called(ctx, string(payload))
	return args.Error(0)
}

func (m *MockUpdateHandler) HandleEvent(ctx context.Context, event models.NotificationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

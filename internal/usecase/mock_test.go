package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/simple-icons/release-action/internal/domain"
)

// mockClient is a mock implementation of the gateway.Client interface.
type mockClient struct {
	mock.Mock
}

func (m *mockClient) ListClosedPullRequests(ctx context.Context, page, perPage int) ([]domain.PullRequest, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func (m *mockClient) ListPullRequestFiles(ctx context.Context, number int) ([]domain.PRFile, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PRFile), args.Error(1)
}

func (m *mockClient) GetFileContent(ctx context.Context, path, ref string) (domain.Blob, error) {
	args := m.Called(ctx, path, ref)
	return args.Get(0).(domain.Blob), args.Error(1)
}

func (m *mockClient) FindOpenPullRequest(ctx context.Context, head, base string) (int, bool, error) {
	args := m.Called(ctx, head, base)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *mockClient) CreatePullRequest(ctx context.Context, title, body, head, base string) (int, error) {
	args := m.Called(ctx, title, body, head, base)
	return args.Int(0), args.Error(1)
}

func (m *mockClient) UpdatePullRequest(ctx context.Context, number int, title, body string) error {
	return m.Called(ctx, number, title, body).Error(0)
}

func (m *mockClient) AddLabels(ctx context.Context, number int, labels []string) error {
	return m.Called(ctx, number, labels).Error(0)
}

func (m *mockClient) MergePullRequest(ctx context.Context, number int, commitTitle, commitMessage, method string) error {
	return m.Called(ctx, number, commitTitle, commitMessage, method).Error(0)
}

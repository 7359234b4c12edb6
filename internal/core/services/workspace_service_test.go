package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/SscSPs/taskboard_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockWorkspaceRepository is a mock type for the WorkspaceRepositoryFacade interface
type MockWorkspaceRepository struct {
	mock.Mock
}

// --- Implement mock methods for WorkspaceRepositoryFacade ---

func (m *MockWorkspaceRepository) FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListWorkspacesByUserID(ctx context.Context, userID string) ([]domain.Workspace, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) SaveWorkspace(ctx context.Context, workspace domain.Workspace, creator domain.WorkspaceMembership) error {
	args := m.Called(ctx, workspace, creator)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) UpsertWorkspaceMembership(ctx context.Context, membership domain.WorkspaceMembership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) FindWorkspaceMembership(ctx context.Context, userID, workspaceID string) (*domain.WorkspaceMembership, error) {
	args := m.Called(ctx, userID, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceMembership), args.Error(1)
}

func (m *MockWorkspaceRepository) DeleteWorkspaceMembership(ctx context.Context, userID, workspaceID string) error {
	args := m.Called(ctx, userID, workspaceID)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) ListWorkspaceMemberships(ctx context.Context, workspaceID string) ([]domain.WorkspaceMembership, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkspaceMembership), args.Error(1)
}

// --- Test Suite Setup ---

type WorkspaceServiceTestSuite struct {
	suite.Suite
	mockRepo *MockWorkspaceRepository
	service  portssvc.WorkspaceSvcFacade
	ctx      context.Context
	rc       domain.RequestContext
}

func (suite *WorkspaceServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockWorkspaceRepository)
	suite.service = services.NewWorkspaceService(suite.mockRepo)
	suite.ctx = context.Background()
	suite.rc = domain.RequestContext{UserID: uuid.NewString(), WorkspaceID: uuid.NewString()}
}

func TestWorkspaceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkspaceServiceTestSuite))
}

func (suite *WorkspaceServiceTestSuite) expectRole(userID string, role domain.Role) {
	suite.mockRepo.On("FindWorkspaceMembership", suite.ctx, userID, suite.rc.WorkspaceID).
		Return(&domain.WorkspaceMembership{UserID: userID, WorkspaceID: suite.rc.WorkspaceID, Role: role}, nil)
}

// --- Test Cases ---

func (suite *WorkspaceServiceTestSuite) TestCreateWorkspace_CreatorBecomesAdmin() {
	creator := uuid.NewString()
	suite.mockRepo.On("SaveWorkspace", suite.ctx,
		mock.MatchedBy(func(w domain.Workspace) bool { return w.Name == "Acme" && w.CreatedBy == creator }),
		mock.MatchedBy(func(m domain.WorkspaceMembership) bool { return m.UserID == creator && m.Role == domain.RoleAdmin }),
	).Return(nil).Once()

	ws, err := suite.service.CreateWorkspace(suite.ctx, " Acme ", "desc", creator)
	suite.Require().NoError(err)
	suite.NotEmpty(ws.WorkspaceID)
	suite.Equal("Acme", ws.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WorkspaceServiceTestSuite) TestCreateWorkspace_EmptyName() {
	_, err := suite.service.CreateWorkspace(suite.ctx, "  ", "", uuid.NewString())
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveWorkspace", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkspaceServiceTestSuite) TestAuthorizeUserAction() {
	suite.expectRole(suite.rc.UserID, domain.RoleMember)

	suite.NoError(suite.service.AuthorizeUserAction(suite.ctx, suite.rc.UserID, suite.rc.WorkspaceID))
	suite.NoError(suite.service.AuthorizeUserAction(suite.ctx, suite.rc.UserID, suite.rc.WorkspaceID, domain.RoleAdmin, domain.RoleMember))
	suite.ErrorIs(suite.service.AuthorizeUserAction(suite.ctx, suite.rc.UserID, suite.rc.WorkspaceID, domain.RoleAdmin), apperrors.ErrForbidden)
}

func (suite *WorkspaceServiceTestSuite) TestAuthorizeUserAction_NotMember() {
	suite.mockRepo.On("FindWorkspaceMembership", suite.ctx, suite.rc.UserID, suite.rc.WorkspaceID).
		Return(nil, apperrors.NewNotFoundError("workspace membership not found")).Once()

	err := suite.service.AuthorizeUserAction(suite.ctx, suite.rc.UserID, suite.rc.WorkspaceID)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *WorkspaceServiceTestSuite) TestAuthorizeUserAction_RepositoryError() {
	dbErr := errors.New("connection reset")
	suite.mockRepo.On("FindWorkspaceMembership", suite.ctx, suite.rc.UserID, suite.rc.WorkspaceID).
		Return(nil, dbErr).Once()

	err := suite.service.AuthorizeUserAction(suite.ctx, suite.rc.UserID, suite.rc.WorkspaceID)
	suite.ErrorIs(err, dbErr)
}

func (suite *WorkspaceServiceTestSuite) TestAddUserToWorkspace() {
	target := uuid.NewString()
	suite.expectRole(suite.rc.UserID, domain.RoleAdmin)
	suite.mockRepo.On("UpsertWorkspaceMembership", suite.ctx, mock.MatchedBy(func(m domain.WorkspaceMembership) bool {
		return m.UserID == target && m.WorkspaceID == suite.rc.WorkspaceID && m.Role == domain.RoleClient
	})).Return(nil).Once()

	suite.NoError(suite.service.AddUserToWorkspace(suite.ctx, suite.rc, target, domain.RoleClient))
	suite.ErrorIs(suite.service.AddUserToWorkspace(suite.ctx, suite.rc, target, domain.Role("owner")), apperrors.ErrValidation)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WorkspaceServiceTestSuite) TestAddUserToWorkspace_RequiresAdmin() {
	suite.expectRole(suite.rc.UserID, domain.RoleMember)

	err := suite.service.AddUserToWorkspace(suite.ctx, suite.rc, uuid.NewString(), domain.RoleMember)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertWorkspaceMembership", mock.Anything, mock.Anything)
}

func (suite *WorkspaceServiceTestSuite) TestRemoveUserFromWorkspace_KeepsLastAdmin() {
	suite.expectRole(suite.rc.UserID, domain.RoleAdmin)
	suite.mockRepo.On("ListWorkspaceMemberships", suite.ctx, suite.rc.WorkspaceID).Return([]domain.WorkspaceMembership{
		{UserID: suite.rc.UserID, WorkspaceID: suite.rc.WorkspaceID, Role: domain.RoleAdmin},
		{UserID: uuid.NewString(), WorkspaceID: suite.rc.WorkspaceID, Role: domain.RoleMember},
	}, nil).Once()

	err := suite.service.RemoveUserFromWorkspace(suite.ctx, suite.rc, suite.rc.UserID)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteWorkspaceMembership", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkspaceServiceTestSuite) TestListUserWorkspaces_EmptyIsNotNil() {
	suite.mockRepo.On("ListWorkspacesByUserID", suite.ctx, suite.rc.UserID).Return(nil, nil).Once()

	workspaces, err := suite.service.ListUserWorkspaces(suite.ctx, suite.rc.UserID)
	suite.Require().NoError(err)
	suite.NotNil(workspaces)
	suite.Empty(workspaces)
}

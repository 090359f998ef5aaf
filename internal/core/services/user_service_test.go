package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/baki_khata/internal/apperrors"
	"github.com/SscSPs/baki_khata/internal/core/domain"
	portssvc "github.com/SscSPs/baki_khata/internal/core/ports/services"
	"github.com/SscSPs/baki_khata/internal/core/services"
	"github.com/SscSPs/baki_khata/internal/dto"
	"github.com/SscSPs/baki_khata/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

// --- Register Tests ---
func (suite *UserServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{Username: "ShopKeeper", Password: "password123", Name: " Test User "}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "shopkeeper").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Username == "shopkeeper" && user.Name == "Test User" && user.PasswordHash != "" && user.PasswordHash != req.Password
	})).Return(nil).Once()

	createdUser, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdUser)
	suite.NotEmpty(createdUser.UserID)
	suite.Equal(createdUser.UserID, createdUser.CreatedBy)
	suite.True(utils.CheckPasswordHash(req.Password, createdUser.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateUsername() {
	ctx := context.Background()
	req := dto.RegisterRequest{Username: "taken", Password: "password123", Name: "Someone"}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "taken").Return(&domain.User{UserID: uuid.NewString()}, nil).Once()

	createdUser, err := suite.service.Register(ctx, req)

	suite.Nil(createdUser)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegister_SaveError() {
	ctx := context.Background()
	req := dto.RegisterRequest{Username: "testuser", Password: "password123", Name: "Test"}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "testuser").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(assert.AnError).Once()

	createdUser, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdUser)
	suite.ErrorIs(err, assert.AnError)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- AuthenticateUser Tests ---
func (suite *UserServiceTestSuite) TestAuthenticateUser() {
	ctx := context.Background()
	hash, err := utils.HashPassword("password123")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: uuid.NewString(), Username: "karim", PasswordHash: hash}
	suite.mockUserRepo.On("FindUserByUsername", ctx, "karim").Return(stored, nil)
	suite.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound)

	user, err := suite.service.AuthenticateUser(ctx, " Karim", "password123")
	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)

	_, err = suite.service.AuthenticateUser(ctx, "karim", "wrong-password")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.service.AuthenticateUser(ctx, "ghost", "password123")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

// --- GetUserByID Tests ---
func (suite *UserServiceTestSuite) TestGetUserByID_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	expectedUser := &domain.User{UserID: userID, Name: "Found User"}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(expectedUser, nil).Once()

	user, err := suite.service.GetUserByID(ctx, userID)

	suite.Require().NoError(err)
	suite.Equal(expectedUser, user)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.GetUserByID(ctx, userID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

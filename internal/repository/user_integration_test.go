//go:build integration

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"sendit/internal/apperr"
	"sendit/internal/domain"
	"sendit/internal/repository"
)

type UserRepositorySuite struct {
	suite.Suite
	repo *repository.UserRepo
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

func (s *UserRepositorySuite) SetupSuite() {
	s.repo = repository.NewUserRepo(tcPool)
}

func (s *UserRepositorySuite) SetupTest() {
	s.Require().NoError(truncateAll(context.Background(), tcPool))
}

func newUser(username, email string) *domain.User {
	return &domain.User{
		FirstName:    "John",
		LastName:     "Alabi",
		OtherNames:   "Ijeoma",
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$10$hash",
	}
}

func (s *UserRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()

	u := newUser("jimbo", "jimbo@mail.test")
	s.Require().NoError(s.repo.Create(ctx, u))
	s.Require().Positive(u.ID)
	s.False(u.Registered.IsZero())

	byID, err := s.repo.GetByID(ctx, u.ID)
	s.Require().NoError(err)
	s.Require().NotNil(byID)
	s.Equal("jimbo", byID.Username)
	s.False(byID.IsAdmin)

	byName, err := s.repo.GetByUsername(ctx, "jimbo")
	s.Require().NoError(err)
	s.Require().NotNil(byName)
	s.Equal(u.ID, byName.ID)
}

func (s *UserRepositorySuite) TestGetMissingReturnsNil() {
	ctx := context.Background()

	u, err := s.repo.GetByID(ctx, 999)
	s.Require().NoError(err)
	s.Nil(u)

	u, err = s.repo.GetByUsername(ctx, "ghost")
	s.Require().NoError(err)
	s.Nil(u)
}

func (s *UserRepositorySuite) TestDuplicateIsConflict() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Create(ctx, newUser("a", "a@mail.test")))

	err := s.repo.Create(ctx, newUser("a", "other@mail.test"))
	s.ErrorIs(err, apperr.Conflict)

	err = s.repo.Create(ctx, newUser("other", "a@mail.test"))
	s.ErrorIs(err, apperr.Conflict)
}

func (s *UserRepositorySuite) TestExistsByEmailOrUsername() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Create(ctx, newUser("a", "a@mail.test")))

	ok, err := s.repo.ExistsByEmailOrUsername(ctx, "a@mail.test", "zzz")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.repo.ExistsByEmailOrUsername(ctx, "zzz@mail.test", "a")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.repo.ExistsByEmailOrUsername(ctx, "b@mail.test", "b")
	s.Require().NoError(err)
	s.False(ok)
}

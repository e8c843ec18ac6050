//go:build integration

package assignment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"caseflow/internal/cases/models"
	"caseflow/internal/cases/store/assignment"
	"caseflow/internal/cases/store/casestore"
	id "caseflow/pkg/domain"
	"caseflow/pkg/platform/sentinel"
	"caseflow/pkg/testutil/containers"
)

type PostgresAssignmentSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	cases    *casestore.Postgres
	store    *assignment.Postgres
	caseID   id.CaseID
}

func TestPostgresAssignmentSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAssignmentSuite))
}

func (s *PostgresAssignmentSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.cases = casestore.NewPostgres(s.postgres.DB)
	s.store = assignment.NewPostgres(s.postgres.DB)
}

func (s *PostgresAssignmentSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.Truncate(ctx, "case_assignments", "cases"))

	// Assignments reference a case row.
	c, err := models.NewCase(id.NewCaseID(), "BFC/2026/00001", models.CaseTypeAdoption, "Bristol Family Court", id.NewUserID(), time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.cases.Create(ctx, c))
	s.caseID = c.ID
}

func (s *PostgresAssignmentSuite) TestCreateAndRemove() {
	ctx := context.Background()
	a := models.NewCaseAssignment(s.caseID, id.NewUserID(), models.AssignmentJudge, id.NewUserID(), time.Now().UTC())

	s.Require().NoError(s.store.Create(ctx, a))

	s.Run("duplicate type for same user and case is rejected", func() {
		dup := models.NewCaseAssignment(s.caseID, a.UserID, models.AssignmentJudge, id.NewUserID(), time.Now().UTC())
		s.ErrorIs(s.store.Create(ctx, dup), sentinel.ErrAlreadyExists)
	})

	s.Run("remove returns the removed record", func() {
		removed, err := s.store.Remove(ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(a.UserID, removed.UserID)
		s.Equal(models.AssignmentJudge, removed.Type)

		_, err = s.store.Remove(ctx, a.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresAssignmentSuite) TestListings() {
	ctx := context.Background()
	userID := id.NewUserID()

	s.Require().NoError(s.store.Create(ctx, models.NewCaseAssignment(s.caseID, userID, models.AssignmentJudge, id.NewUserID(), time.Now().UTC())))
	s.Require().NoError(s.store.Create(ctx, models.NewCaseAssignment(s.caseID, id.NewUserID(), models.AssignmentCafcass, id.NewUserID(), time.Now().UTC())))

	byCase, err := s.store.ListByCase(ctx, s.caseID)
	s.Require().NoError(err)
	s.Len(byCase, 2)

	byUser, err := s.store.ListByUser(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(byUser, 1)
	s.Equal(models.AssignmentJudge, byUser[0].Type)
}

package service

import (
	"caseflow/internal/audit"
	"caseflow/internal/cases/models"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

func (s *ServiceSuite) TestCreateAssignment() {
	c := s.createCase()

	s.Run("officer attaches a judge", func() {
		a, err := s.service.CreateAssignment(s.ctx, c.ID, s.judge.UserID, models.AssignmentJudge, s.officer)
		s.Require().NoError(err)
		s.Equal(c.ID, a.CaseID)
		s.Equal(models.AssignmentJudge, a.Type)
		s.Equal(s.officer.UserID, a.CreatedBy)
	})

	s.Run("duplicate assignment is a conflict", func() {
		_, err := s.service.CreateAssignment(s.ctx, c.ID, s.judge.UserID, models.AssignmentJudge, s.officer)
		s.assertCode(err, dErrors.CodeConflict)
	})

	s.Run("non-officer roles are forbidden", func() {
		_, err := s.service.CreateAssignment(s.ctx, c.ID, id.NewUserID(), models.AssignmentCafcass, s.judge)
		s.assertCode(err, dErrors.CodeForbidden)
	})

	s.Run("unknown assignment type is rejected", func() {
		_, err := s.service.CreateAssignment(s.ctx, c.ID, id.NewUserID(), models.AssignmentType("guardian"), s.officer)
		s.assertCode(err, dErrors.CodeValidation)
	})

	s.Run("absent case is not found", func() {
		_, err := s.service.CreateAssignment(s.ctx, id.NewCaseID(), id.NewUserID(), models.AssignmentJudge, s.officer)
		s.assertCode(err, dErrors.CodeNotFound)
	})

	s.Run("each assignment appends one audit entry", func() {
		entries := s.auditEntries(c.ID)
		var created int
		for _, e := range entries {
			if e.Action == audit.ActionAssignmentCreated {
				created++
			}
		}
		s.Equal(1, created)
	})
}

func (s *ServiceSuite) TestApplicantAssignmentMaintainsApplicantSet() {
	c := s.createCase()

	a, err := s.service.CreateAssignment(s.ctx, c.ID, s.adopter.UserID, models.AssignmentApplicant, s.officer)
	s.Require().NoError(err)

	stored, err := s.caseStore.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Require().Len(stored.ApplicantIDs, 1)
	s.Equal(s.adopter.UserID, stored.ApplicantIDs[0])
	s.Equal(int64(2), stored.Version)

	s.Run("removal takes the applicant back out", func() {
		err := s.service.RemoveAssignment(s.ctx, a.ID, s.officer)
		s.Require().NoError(err)

		stored, err := s.caseStore.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Empty(stored.ApplicantIDs)
		s.Equal(int64(3), stored.Version)
	})
}

func (s *ServiceSuite) TestRemoveAssignment() {
	c := s.createCase()
	a, err := s.service.CreateAssignment(s.ctx, c.ID, s.judge.UserID, models.AssignmentJudge, s.officer)
	s.Require().NoError(err)

	s.Run("non-officer roles are forbidden", func() {
		err := s.service.RemoveAssignment(s.ctx, a.ID, s.judge)
		s.assertCode(err, dErrors.CodeForbidden)
	})

	s.Run("removal revokes the judge's visibility", func() {
		_, err := s.service.GetCase(s.ctx, c.ID, s.judge)
		s.Require().NoError(err)

		s.Require().NoError(s.service.RemoveAssignment(s.ctx, a.ID, s.officer))

		_, err = s.service.GetCase(s.ctx, c.ID, s.judge)
		s.assertCode(err, dErrors.CodeForbidden)
	})

	s.Run("removing an absent assignment is not found", func() {
		err := s.service.RemoveAssignment(s.ctx, id.NewAssignmentID(), s.officer)
		s.assertCode(err, dErrors.CodeNotFound)
	})

	s.Run("removal appends an audit entry", func() {
		entries := s.auditEntries(c.ID)
		var removed int
		for _, e := range entries {
			if e.Action == audit.ActionAssignmentRemoved {
				removed++
			}
		}
		s.Equal(1, removed)
	})
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/suite"

	"caseflow/internal/audit"
	auditmemory "caseflow/internal/audit/store/memory"
	"caseflow/internal/cases/casenumber"
	"caseflow/internal/cases/metrics"
	"caseflow/internal/cases/models"
	"caseflow/internal/cases/store/assignment"
	"caseflow/internal/cases/store/casestore"
	"caseflow/internal/cases/store/sequence"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/requestcontext"
	"go.uber.org/zap"
)

type ServiceSuite struct {
	suite.Suite
	service     *Service
	caseStore   *casestore.InMemory
	assignments *assignment.InMemory
	auditStore  *auditmemory.Store
	recorder    *audit.Recorder
	ctx         context.Context
	now         time.Time

	officer id.Actor
	judge   id.Actor
	adopter id.Actor
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.caseStore = casestore.NewInMemory()
	s.assignments = assignment.NewInMemory()
	s.auditStore = auditmemory.New()
	s.recorder = audit.NewRecorder(s.auditStore, nil, zap.NewNop())

	s.service = New(
		s.caseStore,
		s.assignments,
		casenumber.NewGenerator(sequence.NewInMemory()),
		s.recorder,
	)

	s.now = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	s.officer = id.Actor{UserID: id.NewUserID(), Role: id.RoleCaseOfficer, CourtAssignment: "Bristol Family Court"}
	s.judge = id.Actor{UserID: id.NewUserID(), Role: id.RoleJudge}
	s.adopter = id.Actor{UserID: id.NewUserID(), Role: id.RoleAdopter}
}

// createCase opens a case at the officer's court.
func (s *ServiceSuite) createCase() *models.Case {
	c, err := s.service.CreateCase(s.ctx, "adoption", "Bristol Family Court", s.officer)
	s.Require().NoError(err)
	return c
}

func (s *ServiceSuite) assertCode(err error, code dErrors.Code) {
	s.Require().Error(err)
	s.Equalf(code, dErrors.CodeOf(err), "expected %s, got %v", code, err)
}

func (s *ServiceSuite) auditEntries(caseID id.CaseID) []audit.Entry {
	entries, err := s.auditStore.ListByCase(context.Background(), caseID)
	s.Require().NoError(err)
	return entries
}

func (s *ServiceSuite) TestCreateCase() {
	s.Run("issues sequential numbers at one court", func() {
		first := s.createCase()
		s.Equal("BFC/2026/00001", first.CaseNumber)
		s.Equal(models.StatusApplication, first.Status)
		s.Equal(int64(1), first.Version)
		s.Equal(s.officer.UserID, first.CreatedBy)

		second := s.createCase()
		s.Equal("BFC/2026/00002", second.CaseNumber)
	})

	s.Run("writes exactly one audit entry", func() {
		c := s.createCase()
		entries := s.auditEntries(c.ID)
		s.Require().Len(entries, 1)
		s.Equal(audit.ActionCaseCreated, entries[0].Action)
		s.Equal(s.officer.UserID, entries[0].ActorID)
		s.Equal(id.RoleCaseOfficer, entries[0].ActorRole)
	})

	s.Run("non-officer roles are forbidden", func() {
		for _, actor := range []id.Actor{s.judge, s.adopter} {
			_, err := s.service.CreateCase(s.ctx, "adoption", "Bristol Family Court", actor)
			s.assertCode(err, dErrors.CodeForbidden)
		}
	})

	s.Run("unknown case type is rejected", func() {
		_, err := s.service.CreateCase(s.ctx, "fostering", "Bristol Family Court", s.officer)
		s.assertCode(err, dErrors.CodeValidation)
	})

	s.Run("empty court is rejected", func() {
		_, err := s.service.CreateCase(s.ctx, "adoption", "   ", s.officer)
		s.assertCode(err, dErrors.CodeValidation)
	})

	s.Run("unauthenticated actor is forbidden", func() {
		_, err := s.service.CreateCase(s.ctx, "adoption", "Bristol Family Court", id.Actor{})
		s.assertCode(err, dErrors.CodeForbidden)
	})

	s.Run("rejected calls write no audit entries", func() {
		before := len(s.auditStore.All())
		_, _ = s.service.CreateCase(s.ctx, "fostering", "Bristol Family Court", s.officer)
		_, _ = s.service.CreateCase(s.ctx, "adoption", "Bristol Family Court", s.adopter)
		s.Len(s.auditStore.All(), before)
	})
}

func (s *ServiceSuite) TestDeleteCase() {
	s.Run("soft-deletes and hides the case", func() {
		c := s.createCase()

		ok, err := s.service.DeleteCase(s.ctx, c.ID, s.officer)
		s.Require().NoError(err)
		s.True(ok)

		sw := id.Actor{UserID: id.NewUserID(), Role: id.RoleSocialWorker}
		_, err = s.service.GetCase(s.ctx, c.ID, sw)
		s.assertCode(err, dErrors.CodeNotFound)

		entries := s.auditEntries(c.ID)
		s.Require().Len(entries, 2)
		s.Equal(audit.ActionCaseDeleted, entries[0].Action)
	})

	s.Run("delete is case-officer only", func() {
		c := s.createCase()
		_, err := s.service.DeleteCase(s.ctx, c.ID, s.judge)
		s.assertCode(err, dErrors.CodeForbidden)
	})

	s.Run("deleting an absent case is not found", func() {
		_, err := s.service.DeleteCase(s.ctx, id.NewCaseID(), s.officer)
		s.assertCode(err, dErrors.CodeNotFound)
	})

	s.Run("deleted cases reject further status changes", func() {
		c := s.createCase()
		_, err := s.service.DeleteCase(s.ctx, c.ID, s.officer)
		s.Require().NoError(err)

		_, err = s.service.UpdateStatus(s.ctx, c.ID, models.StatusDirections, s.officer, "", nil)
		s.assertCode(err, dErrors.CodeNotFound)
	})
}

func (s *ServiceSuite) TestCreateCaseRecordsMetrics() {
	m := metrics.NewWith(prometheus.NewRegistry())
	svc := New(
		s.caseStore,
		s.assignments,
		casenumber.NewGenerator(sequence.NewInMemory()),
		s.recorder,
		WithMetrics(m),
	)

	_, err := svc.CreateCase(s.ctx, "adoption", "Bristol Family Court", s.officer)
	s.Require().NoError(err)

	var created dto.Metric
	s.Require().NoError(m.CasesCreated.Write(&created))
	s.Equal(float64(1), created.GetCounter().GetValue())

	var issuance dto.Metric
	s.Require().NoError(m.CaseNumberDuration.Write(&issuance))
	s.Equal(uint64(1), issuance.GetHistogram().GetSampleCount())
}

func (s *ServiceSuite) TestGetCaseVisibility() {
	c := s.createCase()
	c.InternalNotes = "internal"
	c.StaffComments = "staff"
	c.ExternalRef = "AGY-1"
	s.Require().NoError(s.caseStore.UpdateWithVersion(s.ctx, c, c.Version))

	s.Run("officer at the case's court sees full record", func() {
		view, err := s.service.GetCase(s.ctx, c.ID, s.officer)
		s.Require().NoError(err)
		s.False(view.Redacted)
		s.Equal("internal", view.InternalNotes)
	})

	s.Run("officer at another court is forbidden", func() {
		elsewhere := id.Actor{UserID: id.NewUserID(), Role: id.RoleCaseOfficer, CourtAssignment: "Leeds Family Court"}
		_, err := s.service.GetCase(s.ctx, c.ID, elsewhere)
		s.assertCode(err, dErrors.CodeForbidden)
	})

	s.Run("judge without an assignment is forbidden", func() {
		_, err := s.service.GetCase(s.ctx, c.ID, s.judge)
		s.assertCode(err, dErrors.CodeForbidden)
	})

	s.Run("assigned adopter sees a redacted view", func() {
		_, err := s.service.CreateAssignment(s.ctx, c.ID, s.adopter.UserID, models.AssignmentApplicant, s.officer)
		s.Require().NoError(err)

		view, err := s.service.GetCase(s.ctx, c.ID, s.adopter)
		s.Require().NoError(err)
		s.True(view.Redacted)
		s.Empty(view.InternalNotes)
		s.Empty(view.StaffComments)
		s.Empty(view.ExternalRef)
		s.Equal(c.CaseNumber, view.CaseNumber)
	})

	s.Run("unassigned adopter is forbidden", func() {
		stranger := id.Actor{UserID: id.NewUserID(), Role: id.RoleAdopter}
		_, err := s.service.GetCase(s.ctx, c.ID, stranger)
		s.assertCode(err, dErrors.CodeForbidden)
	})

	s.Run("social worker sees all cases unredacted", func() {
		sw := id.Actor{UserID: id.NewUserID(), Role: id.RoleSocialWorker}
		view, err := s.service.GetCase(s.ctx, c.ID, sw)
		s.Require().NoError(err)
		s.False(view.Redacted)
	})

	s.Run("forbidden does not reveal existence to scoped actors", func() {
		stranger := id.Actor{UserID: id.NewUserID(), Role: id.RoleAdopter}

		_, existingErr := s.service.GetCase(s.ctx, c.ID, stranger)
		_, absentErr := s.service.GetCase(s.ctx, id.NewCaseID(), stranger)
		s.assertCode(existingErr, dErrors.CodeForbidden)
		s.assertCode(absentErr, dErrors.CodeForbidden)

		_, err := s.service.GetCase(s.ctx, id.NewCaseID(), s.judge)
		s.assertCode(err, dErrors.CodeForbidden)

		_, err = s.service.GetCase(s.ctx, id.NewCaseID(), s.officer)
		s.assertCode(err, dErrors.CodeForbidden)
	})

	s.Run("global readers see absent ids as not found", func() {
		sw := id.Actor{UserID: id.NewUserID(), Role: id.RoleSocialWorker}
		_, err := s.service.GetCase(s.ctx, id.NewCaseID(), sw)
		s.assertCode(err, dErrors.CodeNotFound)
	})
}

func (s *ServiceSuite) TestListCases() {
	bristol := s.createCase()
	leedsOfficer := id.Actor{UserID: id.NewUserID(), Role: id.RoleCaseOfficer, CourtAssignment: "Leeds Family Court"}
	leeds, err := s.service.CreateCase(s.ctx, "adoption", "Leeds Family Court", leedsOfficer)
	s.Require().NoError(err)

	s.Run("officer sees only their court", func() {
		views, err := s.service.ListCases(s.ctx, s.officer)
		s.Require().NoError(err)
		s.Require().Len(views, 1)
		s.Equal(bristol.ID, views[0].ID)
	})

	s.Run("officer without a court sees nothing", func() {
		floating := id.Actor{UserID: id.NewUserID(), Role: id.RoleCaseOfficer}
		views, err := s.service.ListCases(s.ctx, floating)
		s.Require().NoError(err)
		s.Empty(views)
	})

	s.Run("judge sees only assigned cases", func() {
		views, err := s.service.ListCases(s.ctx, s.judge)
		s.Require().NoError(err)
		s.Empty(views)

		_, err = s.service.CreateAssignment(s.ctx, leeds.ID, s.judge.UserID, models.AssignmentJudge, leedsOfficer)
		s.Require().NoError(err)

		views, err = s.service.ListCases(s.ctx, s.judge)
		s.Require().NoError(err)
		s.Require().Len(views, 1)
		s.Equal(leeds.ID, views[0].ID)
	})

	s.Run("adopter list is redacted", func() {
		_, err := s.service.CreateAssignment(s.ctx, bristol.ID, s.adopter.UserID, models.AssignmentApplicant, s.officer)
		s.Require().NoError(err)

		views, err := s.service.ListCases(s.ctx, s.adopter)
		s.Require().NoError(err)
		s.Require().Len(views, 1)
		s.True(views[0].Redacted)
	})

	s.Run("social worker sees everything", func() {
		sw := id.Actor{UserID: id.NewUserID(), Role: id.RoleSocialWorker}
		views, err := s.service.ListCases(s.ctx, sw)
		s.Require().NoError(err)
		s.Len(views, 2)
	})
}

func (s *ServiceSuite) TestGetAuditLog() {
	c := s.createCase()
	_, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusDirections, s.officer, "", nil)
	s.Require().NoError(err)

	s.Run("returns newest first", func() {
		entries, err := s.service.GetAuditLog(s.ctx, c.ID, s.officer)
		s.Require().NoError(err)
		s.Require().Len(entries, 2)
		s.Equal(audit.ActionStatusChanged, entries[0].Action)
		s.Equal(audit.ActionCaseCreated, entries[1].Action)
	})

	s.Run("out-of-scope actor is forbidden", func() {
		_, err := s.service.GetAuditLog(s.ctx, c.ID, s.adopter)
		s.assertCode(err, dErrors.CodeForbidden)
	})

	s.Run("absent case is not found for a global reader", func() {
		sw := id.Actor{UserID: id.NewUserID(), Role: id.RoleSocialWorker}
		_, err := s.service.GetAuditLog(s.ctx, id.NewCaseID(), sw)
		s.assertCode(err, dErrors.CodeNotFound)
	})

	s.Run("absent case is forbidden for scoped actors", func() {
		_, err := s.service.GetAuditLog(s.ctx, id.NewCaseID(), s.officer)
		s.assertCode(err, dErrors.CodeForbidden)

		_, err = s.service.GetAuditLog(s.ctx, id.NewCaseID(), s.adopter)
		s.assertCode(err, dErrors.CodeForbidden)
	})
}

package service

import (
	"sync"

	"caseflow/internal/audit"
	"caseflow/internal/cases/models"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

// advance walks a case along a path of valid transitions.
func (s *ServiceSuite) advance(caseID id.CaseID, actor id.Actor, path ...models.CaseStatus) *models.Case {
	var latest *models.Case
	for _, status := range path {
		reason := ""
		if models.RequiresReason(status) {
			reason = "test reason"
		}
		change, err := s.service.UpdateStatus(s.ctx, caseID, status, actor, reason, nil)
		s.Require().NoError(err)
		latest = change.Case
	}
	return latest
}

func (s *ServiceSuite) TestHappyPath() {
	c := s.createCase()

	change, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusDirections, s.officer, "", nil)
	s.Require().NoError(err)

	s.Equal(models.StatusApplication, change.PreviousStatus)
	s.Equal(models.StatusDirections, change.Case.Status)
	s.Equal(int64(2), change.Case.Version)

	stored, err := s.caseStore.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusDirections, stored.Status)
	s.Equal(int64(2), stored.Version)
}

func (s *ServiceSuite) TestVersionProgression() {
	c := s.createCase()
	latest := s.advance(c.ID, s.officer,
		models.StatusDirections,
		models.StatusConsentAndReporting,
		models.StatusFinalHearing,
	)
	s.Equal(int64(4), latest.Version)

	change, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusOrderGranted, s.judge, "", nil)
	s.Require().NoError(err)
	s.Equal(int64(5), change.Case.Version)
}

func (s *ServiceSuite) TestAuditPairing() {
	s.Run("each successful change appends exactly one entry", func() {
		c := s.createCase()
		s.advance(c.ID, s.officer, models.StatusDirections, models.StatusConsentAndReporting)

		entries := s.auditEntries(c.ID)
		s.Require().Len(entries, 3) // creation plus two changes
		s.Equal(audit.ActionStatusChanged, entries[0].Action)
		s.Require().NotNil(entries[0].Changes)
		s.Equal(string(models.StatusDirections), entries[0].Changes.PreviousValue)
		s.Equal(string(models.StatusConsentAndReporting), entries[0].Changes.NewValue)
	})

	s.Run("reason is recorded in the entry", func() {
		c := s.createCase()
		_, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusOnHold, s.officer, "documents missing", nil)
		s.Require().NoError(err)

		entries := s.auditEntries(c.ID)
		s.Require().NotNil(entries[0].Changes)
		s.Equal("documents missing", entries[0].Changes.Reason)
	})

	s.Run("rejected change appends nothing", func() {
		c := s.createCase()
		before := len(s.auditEntries(c.ID))

		_, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusFinalHearing, s.officer, "", nil)
		s.assertCode(err, dErrors.CodeInvalidTransition)

		s.Len(s.auditEntries(c.ID), before)
	})
}

func (s *ServiceSuite) TestInvalidTransition() {
	c := s.createCase()
	_, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusOrderGranted, s.judge, "", nil)
	s.assertCode(err, dErrors.CodeInvalidTransition)
}

func (s *ServiceSuite) TestTransitionCheckedBeforeAuthorization() {
	// An adopter may never change status, but an illegal transition is
	// reported as such rather than leaking an authorization failure.
	c := s.createCase()

	_, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusFinalHearing, s.adopter, "", nil)
	s.assertCode(err, dErrors.CodeInvalidTransition)

	_, err = s.service.UpdateStatus(s.ctx, c.ID, models.StatusDirections, s.adopter, "", nil)
	s.assertCode(err, dErrors.CodeForbidden)
}

func (s *ServiceSuite) TestJudicialStatusesRequireJudge() {
	c := s.createCase()
	s.advance(c.ID, s.officer,
		models.StatusDirections,
		models.StatusConsentAndReporting,
		models.StatusFinalHearing,
	)

	_, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusOrderGranted, s.officer, "", nil)
	s.assertCode(err, dErrors.CodeForbidden)

	_, err = s.service.UpdateStatus(s.ctx, c.ID, models.StatusApplicationRefused, s.officer, "", nil)
	s.assertCode(err, dErrors.CodeForbidden)

	change, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusOrderGranted, s.judge, "", nil)
	s.Require().NoError(err)
	s.Equal(models.StatusOrderGranted, change.Case.Status)
}

func (s *ServiceSuite) TestTerminalStatusRejectsEverything() {
	c := s.createCase()
	s.advance(c.ID, s.officer, models.StatusDirections)
	_, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusApplicationWithdrawn, s.officer, "applicants withdrew", nil)
	s.Require().NoError(err)

	for _, target := range models.AllStatuses {
		_, err := s.service.UpdateStatus(s.ctx, c.ID, target, s.judge, "reason", nil)
		s.assertCode(err, dErrors.CodeTerminalStatus)
	}
}

func (s *ServiceSuite) TestReasonRequired() {
	s.Run("on hold without reason is rejected", func() {
		c := s.createCase()
		_, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusOnHold, s.officer, "   ", nil)
		s.assertCode(err, dErrors.CodeReasonRequired)
	})

	s.Run("withdrawal without reason is rejected", func() {
		c := s.createCase()
		_, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusApplicationWithdrawn, s.officer, "", nil)
		s.assertCode(err, dErrors.CodeReasonRequired)
	})

	s.Run("reason is stored on the case", func() {
		c := s.createCase()
		change, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusOnHold, s.officer, "awaiting consent", nil)
		s.Require().NoError(err)
		s.Equal("awaiting consent", change.Case.StatusReason)
	})
}

func (s *ServiceSuite) TestResumeFromHold() {
	c := s.createCase()
	s.advance(c.ID, s.officer, models.StatusDirections, models.StatusOnHold)

	change, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusConsentAndReporting, s.officer, "", nil)
	s.Require().NoError(err)
	s.Equal(models.StatusConsentAndReporting, change.Case.Status)
}

func (s *ServiceSuite) TestUnknownStatus() {
	c := s.createCase()
	_, err := s.service.UpdateStatus(s.ctx, c.ID, models.CaseStatus("CLOSED"), s.officer, "", nil)
	s.assertCode(err, dErrors.CodeValidation)
}

func (s *ServiceSuite) TestStaleExpectedVersion() {
	c := s.createCase()
	s.advance(c.ID, s.officer, models.StatusDirections) // now at version 2

	stale := int64(1)
	_, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusConsentAndReporting, s.officer, "", &stale)
	s.assertCode(err, dErrors.CodeConflict)

	current, ok := dErrors.DetailOf(err, dErrors.DetailCurrentVersion)
	s.Require().True(ok)
	s.Equal(int64(2), current)
}

func (s *ServiceSuite) TestMatchingExpectedVersion() {
	c := s.createCase()

	expected := c.Version
	change, err := s.service.UpdateStatus(s.ctx, c.ID, models.StatusDirections, s.officer, "", &expected)
	s.Require().NoError(err)
	s.Equal(int64(2), change.Case.Version)
}

// TestConcurrentUpdateOneWins races two writers that both observed version N;
// exactly one commits and the loser's CONFLICT names the winner's version N+1.
func (s *ServiceSuite) TestConcurrentUpdateOneWins() {
	c := s.createCase()
	observed := c.Version

	var wg sync.WaitGroup
	errs := make([]error, 2)
	targets := []models.CaseStatus{models.StatusDirections, models.StatusOnHold}

	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.service.UpdateStatus(s.ctx, c.ID, targets[i], s.officer, "race reason", &observed)
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case dErrors.HasCode(err, dErrors.CodeConflict):
			conflicts++
			current, ok := dErrors.DetailOf(err, dErrors.DetailCurrentVersion)
			s.Require().True(ok)
			s.Equal(int64(2), current)
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, successes)
	s.Equal(1, conflicts)

	stored, err := s.caseStore.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), stored.Version)

	// Exactly one status_changed entry beyond creation.
	s.Len(s.auditEntries(c.ID), 2)
}

package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cinememory/backend/internal/gates"
	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

// shareBlockingSample is a representative share payload carrying a licensed
// poster URL. The checklist validates it live so a regression in URL
// detection shows up as a failed check, not just a unit test.
const shareBlockingSample = `{"title":"Test","posterUrl":"https://image.tmdb.org/t/p/w500/poster.jpg"}`

// piiStatsWindow bounds the SLA stats query in the checklist run.
const piiStatsWindow = 30 * 24 * time.Hour

type ComplianceReport struct {
	MissingEndStatus   *gates.MissingEndStatusReport `json:"missingEndStatus"`
	MissingTagReasons  *gates.MissingReasonReport    `json:"missingTagReasons"`
	ReleaseChecklistOK bool                          `json:"releaseChecklistOk"`
	ReleaseChecklist   string                        `json:"releaseChecklist"`
	ShareBlockingOK    bool                          `json:"shareBlockingOk"`
	ShareBlocking      string                        `json:"shareBlocking"`
	PIIAuditOK         bool                          `json:"piiAuditOk"`
	PIIAuditStats      *gates.SLAStats               `json:"piiAuditStats"`
	Clean              bool                          `json:"clean"`
}

type ChecklistService struct {
	log           *logger.Logger
	sessionEnd    *gates.SessionEndGate
	tags          *gates.TagDecisionGate
	commercial    *gates.CommercialTransitionGate
	shareBlocking *gates.ShareBlockingGate
	piiAudit      *gates.PIIAuditGate
}

func NewChecklistService(
	sessionEnd *gates.SessionEndGate,
	tags *gates.TagDecisionGate,
	commercial *gates.CommercialTransitionGate,
	shareBlocking *gates.ShareBlockingGate,
	piiAudit *gates.PIIAuditGate,
	baseLog *logger.Logger,
) *ChecklistService {
	svcLog := baseLog.With("service", "ChecklistService")
	return &ChecklistService{
		log:           svcLog,
		sessionEnd:    sessionEnd,
		tags:          tags,
		commercial:    commercial,
		shareBlocking: shareBlocking,
		piiAudit:      piiAudit,
	}
}

// Run executes the integrity scans concurrently and folds them into one
// report. A checklist violation is a finding, not an error; only storage
// failures abort the run.
func (s *ChecklistService) Run(ctx context.Context) (*ComplianceReport, error) {
	report := &ComplianceReport{ReleaseChecklistOK: true, ReleaseChecklist: "ok"}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		endStatus, err := s.sessionEnd.DetectMissingEndStatus(groupCtx)
		if err != nil {
			return err
		}
		report.MissingEndStatus = endStatus
		return nil
	})

	group.Go(func() error {
		reasons, err := s.tags.DetectMissingReason(groupCtx)
		if err != nil {
			return err
		}
		report.MissingTagReasons = reasons
		return nil
	})

	group.Go(func() error {
		err := s.commercial.ValidateReleaseChecklist(groupCtx)
		switch {
		case err == nil:
		case errors.Is(err, gates.ErrNoTransitionRecord), errors.Is(err, gates.ErrTransitionStale):
			report.ReleaseChecklistOK = false
			report.ReleaseChecklist = err.Error()
		default:
			return err
		}
		return nil
	})

	group.Go(func() error {
		validation, err := s.shareBlocking.ValidateAndBlock(groupCtx, shareBlockingSample, types.ShareOGImage)
		if err != nil {
			return err
		}
		if validation.Blocked && validation.SanitizedContent != "" {
			report.ShareBlockingOK = true
			report.ShareBlocking = "TMDb URLs correctly blocked"
		} else {
			report.ShareBlocking = "TMDb URLs not detected"
		}
		return nil
	})

	group.Go(func() error {
		end := time.Now()
		stats, err := s.piiAudit.GetSLAStats(groupCtx, end.Add(-piiStatsWindow), end)
		if err != nil {
			return err
		}
		report.PIIAuditStats = stats
		report.PIIAuditOK = true
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	report.Clean = report.MissingEndStatus.Count == 0 &&
		report.MissingTagReasons.Count == 0 &&
		report.ReleaseChecklistOK &&
		report.ShareBlockingOK &&
		report.PIIAuditOK
	if !report.Clean {
		s.log.Warn("compliance findings",
			"missing_end_status", report.MissingEndStatus.Count,
			"missing_tag_reasons", report.MissingTagReasons.Count,
			"release_checklist", report.ReleaseChecklist,
			"share_blocking", report.ShareBlocking)
	}
	return report, nil
}

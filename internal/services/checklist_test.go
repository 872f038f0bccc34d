package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/gates"
	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

func newTestChecklist(t *testing.T) (*ChecklistService, *gates.CommercialTransitionGate, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t,
		&types.SearchSession{}, &types.Candidate{}, &types.Question{}, &types.Movie{},
		&types.MovieTag{}, &types.CommercialTransition{}, &types.ShareAudit{}, &types.PIIAuditLog{},
	)
	log := logger.NewNop()
	commercial := gates.NewCommercialTransitionGate(repos.NewCommercialTransitionRepo(db, log), log)
	svc := NewChecklistService(
		gates.NewSessionEndGate(repos.NewSearchSessionRepo(db, log), log),
		gates.NewTagDecisionGate(repos.NewMovieTagRepo(db, log), log),
		commercial,
		gates.NewShareBlockingGate(repos.NewShareAuditRepo(db, log), log),
		gates.NewPIIAuditGate(repos.NewPIIAuditLogRepo(db, log), log),
		log,
	)
	return svc, commercial, db
}

func TestRun_CleanStateReportsClean(t *testing.T) {
	svc, commercial, _ := newTestChecklist(t)
	ctx := context.Background()

	if _, err := commercial.CheckAndRecord(ctx, gates.CommercialTrigger{}, "release-bot", ""); err != nil {
		t.Fatalf("recording transition check: %v", err)
	}

	report, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Clean {
		t.Fatalf("expected clean report, got %+v", report)
	}
	if report.MissingEndStatus.Count != 0 || report.MissingTagReasons.Count != 0 {
		t.Fatalf("expected zero findings, got %+v", report)
	}
	if !report.ReleaseChecklistOK {
		t.Fatalf("expected checklist to pass, got %q", report.ReleaseChecklist)
	}
	if !report.ShareBlockingOK {
		t.Fatalf("expected share blocking to pass, got %q", report.ShareBlocking)
	}
	if !report.PIIAuditOK || report.PIIAuditStats == nil {
		t.Fatalf("expected PII audit stats, got %+v", report.PIIAuditStats)
	}
}

func TestRun_ShareBlockingCheckBlocksSampleAndAudits(t *testing.T) {
	svc, commercial, db := newTestChecklist(t)
	ctx := context.Background()

	if _, err := commercial.CheckAndRecord(ctx, gates.CommercialTrigger{}, "release-bot", ""); err != nil {
		t.Fatalf("recording transition check: %v", err)
	}

	report, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.ShareBlockingOK {
		t.Fatalf("expected blocked sample, got %q", report.ShareBlocking)
	}
	if report.ShareBlocking != "TMDb URLs correctly blocked" {
		t.Fatalf("unexpected message %q", report.ShareBlocking)
	}

	var audits []types.ShareAudit
	if err := db.Find(&audits).Error; err != nil {
		t.Fatalf("loading share audits: %v", err)
	}
	if len(audits) != 1 {
		t.Fatalf("expected 1 share audit row, got %d", len(audits))
	}
	if !audits[0].Blocked {
		t.Fatal("expected audited validation to be blocked")
	}
}

func TestRun_PIIAuditStatsEmptyStore(t *testing.T) {
	svc, commercial, _ := newTestChecklist(t)
	ctx := context.Background()

	if _, err := commercial.CheckAndRecord(ctx, gates.CommercialTrigger{}, "release-bot", ""); err != nil {
		t.Fatalf("recording transition check: %v", err)
	}

	report, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.PIIAuditOK {
		t.Fatal("expected PII audit check to pass")
	}
	if report.PIIAuditStats.CompletedRequests != 0 || report.PIIAuditStats.P95SlaMs != 0 {
		t.Fatalf("expected empty stats, got %+v", report.PIIAuditStats)
	}
}

func TestRun_MissingTransitionRecordIsAFindingNotAnError(t *testing.T) {
	svc, _, _ := newTestChecklist(t)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Clean {
		t.Fatal("expected findings")
	}
	if report.ReleaseChecklistOK {
		t.Fatal("expected checklist failure")
	}
	if !strings.Contains(report.ReleaseChecklist, "no commercial transition record") {
		t.Fatalf("unexpected checklist message %q", report.ReleaseChecklist)
	}
}

func TestRun_SurfacesStaleSessionsAndStaleTransition(t *testing.T) {
	svc, commercial, db := newTestChecklist(t)
	ctx := context.Background()

	// A session past the grace window with no end status.
	stale := &types.SearchSession{UserMemorySentence: "left open"}
	log := logger.NewNop()
	if _, err := repos.NewSearchSessionRepo(db, log).Create(ctx, nil, []*types.SearchSession{stale}); err != nil {
		t.Fatalf("creating session: %v", err)
	}
	if err := db.Model(&types.SearchSession{}).
		Where("id = ?", stale.ID).
		Update("created_at", time.Now().Add(-10*time.Minute)).Error; err != nil {
		t.Fatalf("backdating session: %v", err)
	}

	// A required transition confirmed too long ago.
	record, err := commercial.CheckAndRecord(ctx, gates.CommercialTrigger{AdsEnabled: true}, "release-bot", "")
	if err != nil {
		t.Fatalf("recording transition check: %v", err)
	}
	if err := db.Model(&types.CommercialTransition{}).
		Where("id = ?", record.ID).
		Update("checked_at", time.Now().Add(-8*24*time.Hour)).Error; err != nil {
		t.Fatalf("backdating transition: %v", err)
	}

	report, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Clean {
		t.Fatal("expected findings")
	}
	if report.MissingEndStatus.Count != 1 {
		t.Fatalf("expected 1 stale session, got %d", report.MissingEndStatus.Count)
	}
	if report.ReleaseChecklistOK {
		t.Fatal("expected checklist failure")
	}
	if !strings.Contains(report.ReleaseChecklist, "not confirmed within 7 days") {
		t.Fatalf("unexpected checklist message %q", report.ReleaseChecklist)
	}
}

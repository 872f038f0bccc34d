package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

func newExecutorTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.DecisionLog{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func newTestExecutor(t *testing.T, db *gorm.DB, runner SolverRunner) *Executor {
	t.Helper()
	log := logger.NewNop()
	decisions := NewDecisionLogger(repos.NewDecisionLogRepo(db, log), log)
	return NewExecutor(NewIntentClassifier(nil), runner, decisions, log)
}

func decisionLogCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&types.DecisionLog{}).Count(&n).Error; err != nil {
		t.Fatalf("counting logs: %v", err)
	}
	return n
}

type fixedRunner struct {
	candidates int
}

func (r fixedRunner) Run(ctx context.Context, solver Solver, userInput string, genre Genre, tags []Tag) (*ResultEnvelope, error) {
	cands := make([]ResultCandidate, r.candidates)
	for i := range cands {
		cands[i] = ResultCandidate{MovieID: "m", Rank: i + 1, ConfidenceScore: 0.9}
	}
	return &ResultEnvelope{Type: "test", Candidates: cands}, nil
}

type failingRunner struct {
	err error
}

func (r failingRunner) Run(ctx context.Context, solver Solver, userInput string, genre Genre, tags []Tag) (*ResultEnvelope, error) {
	return nil, r.err
}

func TestExecute_SuccessWithEnoughCandidates(t *testing.T) {
	db := newExecutorTestDB(t)
	exec := newTestExecutor(t, db, fixedRunner{candidates: 3})

	res, err := exec.Execute(context.Background(), "find the movie I forgot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Intent != IntentSearch {
		t.Fatalf("expected SEARCH, got %s", res.Intent)
	}
	if res.Genre != GenreExploratoryDiscovery {
		t.Fatalf("expected exploratory genre, got %s", res.Genre)
	}
	if res.SelectedSolver != SolverEmbeddingSimilarity {
		t.Fatalf("expected EMBEDDING_SIMILARITY, got %s", res.SelectedSolver)
	}
	// 0.8*0.3 + 0.8*0.7 = 0.8, plus the candidate bonus.
	if res.Confidence < 0.89 || res.Confidence > 0.91 {
		t.Fatalf("expected confidence ~0.9, got %.2f", res.Confidence)
	}
	if res.ResultType != types.ResultSuccess {
		t.Fatalf("expected SUCCESS, got %s", res.ResultType)
	}

	if n := decisionLogCount(t, db); n != 1 {
		t.Fatalf("expected exactly one decision log, got %d", n)
	}
	var row types.DecisionLog
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("loading log: %v", err)
	}
	if row.ID != res.LogID {
		t.Fatalf("result log id %s does not match stored row %s", res.LogID, row.ID)
	}
	if row.ResultType != types.ResultSuccess || row.FailureType != nil {
		t.Fatalf("unexpected log row: %+v", row)
	}
	if !row.ResultGenerated {
		t.Fatalf("expected result_generated=true")
	}
}

func TestExecute_FewCandidatesIsPartial(t *testing.T) {
	db := newExecutorTestDB(t)
	exec := newTestExecutor(t, db, fixedRunner{candidates: 2})

	res, err := exec.Execute(context.Background(), "find the movie I forgot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ResultType != types.ResultPartial {
		t.Fatalf("expected PARTIAL, got %s", res.ResultType)
	}
}

func TestExecute_EmptyCandidatesIsFailureWithTaxonomy(t *testing.T) {
	db := newExecutorTestDB(t)
	exec := newTestExecutor(t, db, nil) // static runner: empty envelopes

	res, err := exec.Execute(context.Background(), "find the movie I forgot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ResultType != types.ResultFailure {
		t.Fatalf("expected FAILURE, got %s", res.ResultType)
	}

	var row types.DecisionLog
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("loading log: %v", err)
	}
	if row.FailureType == nil || *row.FailureType != types.FailureNoCandidates {
		t.Fatalf("expected NO_CANDIDATES, got %v", row.FailureType)
	}
	if !strings.Contains(row.FailureReason, "No candidates found for genre G1_EXPLORATORY_DISCOVERY") {
		t.Fatalf("unexpected failure reason: %q", row.FailureReason)
	}
	var failureTags []string
	if err := json.Unmarshal(row.FailureTags, &failureTags); err != nil {
		t.Fatalf("parsing failure tags: %v", err)
	}
	wantTags := []string{"NO_MATCHES", "GENRE_G1_EXPLORATORY_DISCOVERY"}
	if len(failureTags) != len(wantTags) || failureTags[0] != wantTags[0] || failureTags[1] != wantTags[1] {
		t.Fatalf("unexpected failure tags: %v", failureTags)
	}
}

func TestExecute_RunnerErrorLogsPipelineErrorAndWraps(t *testing.T) {
	db := newExecutorTestDB(t)
	cause := errors.New("solver backend unavailable")
	exec := newTestExecutor(t, db, failingRunner{err: cause})

	_, err := exec.Execute(context.Background(), "find the movie I forgot")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "pipeline execution failed") {
		t.Fatalf("unexpected error message: %q", err)
	}

	if n := decisionLogCount(t, db); n != 1 {
		t.Fatalf("expected exactly one decision log, got %d", n)
	}
	var row types.DecisionLog
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("loading log: %v", err)
	}
	if row.FailureType == nil || *row.FailureType != types.FailurePipelineError {
		t.Fatalf("expected PIPELINE_ERROR, got %v", row.FailureType)
	}
	if row.Intent != string(IntentUnknown) || row.Genre != string(GenreExploratoryDiscovery) || row.Solver != string(SolverRuleBased) {
		t.Fatalf("expected placeholder stage values, got intent=%s genre=%s solver=%s", row.Intent, row.Genre, row.Solver)
	}
	if row.Confidence != 0 || row.CostLevel != types.CostLow {
		t.Fatalf("expected zero confidence and LOW cost, got %.2f %s", row.Confidence, row.CostLevel)
	}
	if row.FailureReason != cause.Error() {
		t.Fatalf("expected cause message, got %q", row.FailureReason)
	}
	if row.ResultGenerated {
		t.Fatalf("expected result_generated=false")
	}
}

func TestExecute_OneLogRowPerRun(t *testing.T) {
	db := newExecutorTestDB(t)
	exec := newTestExecutor(t, db, nil)

	for i := 0; i < 4; i++ {
		if _, err := exec.Execute(context.Background(), "browse thrillers"); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if n := decisionLogCount(t, db); n != 4 {
		t.Fatalf("expected 4 decision logs, got %d", n)
	}
}

package gates

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

func newAPIAuditGate(t *testing.T) (*APIAuditGate, *gorm.DB) {
	t.Helper()
	db := newGateTestDB(t, &types.APIAuditLog{}, &types.APIKey{})
	log := logger.NewNop()
	return NewAPIAuditGate(repos.NewAPIAuditLogRepo(db, log), repos.NewAPIKeyRepo(db, log), log), db
}

func seedAPIKey(t *testing.T, db *gorm.DB, rawKey string, active bool, modules []types.APIModule, limit int) {
	t.Helper()
	allowed, err := json.Marshal(modules)
	if err != nil {
		t.Fatalf("marshaling modules: %v", err)
	}
	key := &types.APIKey{
		ID:              uuid.New(),
		KeyHash:         HashAPIKey(rawKey),
		IsActive:        active,
		AllowedModules:  allowed,
		RateLimitPerMin: limit,
	}
	if err := db.Create(key).Error; err != nil {
		t.Fatalf("seeding api key: %v", err)
	}
}

func TestLog_StoresMaskedKeyOnly(t *testing.T) {
	gate, db := newAPIAuditGate(t)
	rawKey := "cine-live-4f9a1b2c"

	if err := gate.Log(context.Background(), AuditEntry{
		Module:         types.ModuleGenreClassifier,
		APIKey:         rawKey,
		Endpoint:       "/api/modules/genre-classifier",
		Method:         "POST",
		StatusCode:     200,
		ResponseTimeMs: 12,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var row types.APIAuditLog
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("loading audit row: %v", err)
	}
	if strings.Contains(row.APIKey, "cine-live") {
		t.Fatalf("raw key leaked into audit log: %q", row.APIKey)
	}
	if !strings.HasSuffix(row.APIKey, "1b2c") {
		t.Fatalf("expected last 4 chars preserved, got %q", row.APIKey)
	}
	if row.APIKey != logger.MaskSecret(rawKey) {
		t.Fatalf("stored key %q does not match masked form", row.APIKey)
	}
}

func TestCheckRateLimit_FailsClosedForUnknownKey(t *testing.T) {
	gate, _ := newAPIAuditGate(t)

	decision, err := gate.CheckRateLimit(context.Background(), "no-such-key", types.ModuleGenreClassifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed || decision.Remaining != 0 {
		t.Fatalf("expected fail-closed decision, got %+v", decision)
	}
}

func TestCheckRateLimit_FailsClosedForInactiveKey(t *testing.T) {
	gate, db := newAPIAuditGate(t)
	seedAPIKey(t, db, "revoked-key-0001", false, []types.APIModule{types.ModuleGenreClassifier}, 60)

	decision, err := gate.CheckRateLimit(context.Background(), "revoked-key-0001", types.ModuleGenreClassifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed || decision.Remaining != 0 {
		t.Fatalf("expected fail-closed decision, got %+v", decision)
	}
}

func TestCheckRateLimit_FailsClosedForUnscopedModule(t *testing.T) {
	gate, db := newAPIAuditGate(t)
	seedAPIKey(t, db, "ranker-only-key1", true, []types.APIModule{types.ModuleCandidateRanker}, 60)

	decision, err := gate.CheckRateLimit(context.Background(), "ranker-only-key1", types.ModuleGenreClassifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed || decision.Remaining != 0 {
		t.Fatalf("expected fail-closed decision, got %+v", decision)
	}
}

func TestCheckRateLimit_CountsTrailingWindowAndAuditsRejection(t *testing.T) {
	gate, db := newAPIAuditGate(t)
	rawKey := "busy-key-77aa88"
	seedAPIKey(t, db, rawKey, true, []types.APIModule{types.ModuleGenreClassifier}, 2)

	first, err := gate.CheckRateLimit(context.Background(), rawKey, types.ModuleGenreClassifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Allowed || first.Remaining != 2 {
		t.Fatalf("expected 2 remaining on fresh key, got %+v", first)
	}

	for i := 0; i < 2; i++ {
		if err := gate.Log(context.Background(), AuditEntry{
			Module:     types.ModuleGenreClassifier,
			APIKey:     rawKey,
			Endpoint:   "/api/modules/genre-classifier",
			Method:     "POST",
			StatusCode: 200,
		}); err != nil {
			t.Fatalf("logging call %d: %v", i, err)
		}
	}

	decision, err := gate.CheckRateLimit(context.Background(), rawKey, types.ModuleGenreClassifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed || decision.Remaining != 0 {
		t.Fatalf("expected limit exhausted, got %+v", decision)
	}

	var rejections []types.APIAuditLog
	if err := db.Where("rate_limit_hit = ?", true).Find(&rejections).Error; err != nil {
		t.Fatalf("loading rejections: %v", err)
	}
	if len(rejections) != 1 {
		t.Fatalf("expected one 429 audit row, got %d", len(rejections))
	}
	if rejections[0].StatusCode != 429 || rejections[0].Endpoint != "rate-limit-check" {
		t.Fatalf("unexpected rejection row: %+v", rejections[0])
	}
}

func TestCheckRateLimit_ScopedCallsDoNotCountAcrossModules(t *testing.T) {
	gate, db := newAPIAuditGate(t)
	rawKey := "multi-module-key"
	seedAPIKey(t, db, rawKey, true, []types.APIModule{types.ModuleGenreClassifier, types.ModuleCandidateRanker}, 1)

	if err := gate.Log(context.Background(), AuditEntry{
		Module:     types.ModuleCandidateRanker,
		APIKey:     rawKey,
		Endpoint:   "/api/modules/candidate-ranker",
		Method:     "POST",
		StatusCode: 200,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decision, err := gate.CheckRateLimit(context.Background(), rawKey, types.ModuleGenreClassifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Allowed || decision.Remaining != 1 {
		t.Fatalf("ranker call should not reduce classifier budget, got %+v", decision)
	}
}

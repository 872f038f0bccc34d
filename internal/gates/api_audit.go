package gates

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

// APIAuditGate records every gated module call and enforces per-key rate
// limits. Raw keys never reach the store: rows hold the masked form, key
// lookup goes through the hash.
type APIAuditGate struct {
	log    *logger.Logger
	audits repos.APIAuditLogRepo
	keys   repos.APIKeyRepo
}

func NewAPIAuditGate(audits repos.APIAuditLogRepo, keys repos.APIKeyRepo, baseLog *logger.Logger) *APIAuditGate {
	return &APIAuditGate{
		log:    baseLog.With("gate", "APIAuditGate"),
		audits: audits,
		keys:   keys,
	}
}

// HashAPIKey is the storage form of a credential for lookup.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

type AuditEntry struct {
	Module         types.APIModule `json:"module"`
	APIKey         string          `json:"-"`
	Endpoint       string          `json:"endpoint"`
	Method         string          `json:"method"`
	StatusCode     int             `json:"status_code"`
	ResponseTimeMs int64           `json:"response_time_ms"`
	RateLimitHit   bool            `json:"rate_limit_hit"`
}

// Log persists one audit row per call, key masked to its last 4 characters.
func (g *APIAuditGate) Log(ctx context.Context, entry AuditEntry) error {
	_, err := g.audits.Create(ctx, nil, []*types.APIAuditLog{{
		Module:         entry.Module,
		APIKey:         logger.MaskSecret(entry.APIKey),
		Endpoint:       entry.Endpoint,
		Method:         entry.Method,
		StatusCode:     entry.StatusCode,
		ResponseTimeMs: entry.ResponseTimeMs,
		RateLimitHit:   entry.RateLimitHit,
	}})
	if err != nil {
		g.log.Error("failed to write api audit log", "module", entry.Module, "error", err)
	}
	return err
}

type RateLimitDecision struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
}

// CheckRateLimit fails closed: an unknown, inactive, or unscoped key gets
// zero budget. On rejection the 429 is itself audited before the caller
// hears the verdict.
func (g *APIAuditGate) CheckRateLimit(ctx context.Context, apiKey string, module types.APIModule) (RateLimitDecision, error) {
	keyRecord, err := g.keys.GetByHash(ctx, nil, HashAPIKey(apiKey))
	if err != nil {
		return RateLimitDecision{}, err
	}
	if keyRecord == nil || !keyRecord.IsActive || !keyAllowsModule(keyRecord, module) {
		return RateLimitDecision{Allowed: false, Remaining: 0}, nil
	}

	since := time.Now().Add(-time.Minute)
	recentCalls, err := g.audits.CountByKeyAndModuleSince(ctx, nil, logger.MaskSecret(apiKey), module, since)
	if err != nil {
		return RateLimitDecision{}, err
	}

	remaining := keyRecord.RateLimitPerMin - int(recentCalls)
	if remaining < 0 {
		remaining = 0
	}
	allowed := remaining > 0

	if !allowed {
		if err := g.Log(ctx, AuditEntry{
			Module:       module,
			APIKey:       apiKey,
			Endpoint:     "rate-limit-check",
			Method:       "GET",
			StatusCode:   429,
			RateLimitHit: true,
		}); err != nil {
			return RateLimitDecision{}, err
		}
	}

	return RateLimitDecision{Allowed: allowed, Remaining: remaining}, nil
}

func keyAllowsModule(key *types.APIKey, module types.APIModule) bool {
	if len(key.AllowedModules) == 0 {
		return false
	}
	var modules []types.APIModule
	if err := json.Unmarshal(key.AllowedModules, &modules); err != nil {
		return false
	}
	for _, m := range modules {
		if m == module {
			return true
		}
	}
	return false
}

package gates

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

// PIIAuditGate produces the machine-generated deletion evidence trail.
// Operators never write these rows by hand; every lifecycle step is a
// one-way transition recorded by the system.
type PIIAuditGate struct {
	log    *logger.Logger
	audits repos.PIIAuditLogRepo
}

func NewPIIAuditGate(audits repos.PIIAuditLogRepo, baseLog *logger.Logger) *PIIAuditGate {
	return &PIIAuditGate{
		log:    baseLog.With("gate", "PIIAuditGate"),
		audits: audits,
	}
}

type PIIDeleteRequest struct {
	UserID         *uuid.UUID        `json:"user_id,omitempty"`
	DataType       types.PIIDataType `json:"data_type"`
	OptInStatus    *bool             `json:"opt_in_status,omitempty"`
	MaskingApplied bool              `json:"masking_applied"`
}

func (g *PIIAuditGate) RecordDeleteRequest(ctx context.Context, request PIIDeleteRequest) (*types.PIIAuditLog, error) {
	created, err := g.audits.Create(ctx, nil, []*types.PIIAuditLog{{
		UserID:            request.UserID,
		DataType:          request.DataType,
		DeleteRequestedAt: time.Now(),
		OptInStatus:       request.OptInStatus,
		MaskingApplied:    request.MaskingApplied,
	}})
	if err != nil {
		g.log.Error("failed to record delete request", "error", err)
		return nil, err
	}
	return created[0], nil
}

// RecordDeleteCompleted stamps completion and freezes slaMs. Re-completing
// an already completed record is rejected: the SLA is computed once.
func (g *PIIAuditGate) RecordDeleteCompleted(ctx context.Context, auditLogID uuid.UUID) (time.Time, int64, error) {
	record, err := g.getRecord(ctx, auditLogID)
	if err != nil {
		return time.Time{}, 0, err
	}
	if record.DeleteCompletedAt != nil {
		return time.Time{}, 0, fmt.Errorf("delete already completed for audit log %s", auditLogID)
	}

	completedAt := time.Now()
	slaMs := completedAt.Sub(record.DeleteRequestedAt).Milliseconds()
	if err := g.audits.UpdateFields(ctx, nil, auditLogID, map[string]interface{}{
		"delete_completed_at": completedAt,
		"sla_ms":              slaMs,
	}); err != nil {
		g.log.Error("failed to record delete completion", "audit_log_id", auditLogID, "error", err)
		return time.Time{}, 0, err
	}
	return completedAt, slaMs, nil
}

func (g *PIIAuditGate) RecordRetentionExpired(ctx context.Context, auditLogID uuid.UUID, expiredAt time.Time) error {
	record, err := g.getRecord(ctx, auditLogID)
	if err != nil {
		return err
	}
	if record.RetentionExpiredAt != nil {
		return fmt.Errorf("retention expiry already recorded for audit log %s", auditLogID)
	}
	return g.audits.UpdateFields(ctx, nil, auditLogID, map[string]interface{}{
		"retention_expired_at": expiredAt,
	})
}

func (g *PIIAuditGate) RecordPurgeCompleted(ctx context.Context, auditLogID uuid.UUID, purgedAt time.Time) error {
	record, err := g.getRecord(ctx, auditLogID)
	if err != nil {
		return err
	}
	if record.PurgeCompletedAt != nil {
		return fmt.Errorf("purge already recorded for audit log %s", auditLogID)
	}
	return g.audits.UpdateFields(ctx, nil, auditLogID, map[string]interface{}{
		"purge_completed_at": purgedAt,
	})
}

type SLAStats struct {
	TotalRequests     int     `json:"total_requests"`
	CompletedRequests int     `json:"completed_requests"`
	AverageSlaMs      float64 `json:"average_sla_ms"`
	P95SlaMs          int64   `json:"p95_sla_ms"`
}

// GetSLAStats reports over completed deletions requested in range. The 95th
// percentile is the value at floor(0.95*n) of the ascending SLA list.
func (g *PIIAuditGate) GetSLAStats(ctx context.Context, start, end time.Time) (*SLAStats, error) {
	logs, err := g.audits.GetCompletedInRange(ctx, nil, start, end)
	if err != nil {
		return nil, err
	}

	slaValues := make([]int64, 0, len(logs))
	for _, log := range logs {
		if log.SlaMs != nil {
			slaValues = append(slaValues, *log.SlaMs)
		}
	}
	sort.Slice(slaValues, func(i, j int) bool { return slaValues[i] < slaValues[j] })

	stats := &SLAStats{
		TotalRequests:     len(logs),
		CompletedRequests: len(slaValues),
	}
	if len(slaValues) > 0 {
		var sum int64
		for _, v := range slaValues {
			sum += v
		}
		stats.AverageSlaMs = float64(sum) / float64(len(slaValues))
		stats.P95SlaMs = slaValues[int(float64(len(slaValues))*0.95)]
	}
	return stats, nil
}

func (g *PIIAuditGate) getRecord(ctx context.Context, auditLogID uuid.UUID) (*types.PIIAuditLog, error) {
	records, err := g.audits.GetByIDs(ctx, nil, []uuid.UUID{auditLogID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrAuditLogNotFound
	}
	return records[0], nil
}

package gates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

// Sessions still open after this long without an end status are treated as
// leaks, not work in progress.
const missingEndStatusGrace = 5 * time.Minute

// SessionEndGate guarantees every search session terminates with one of the
// four end statuses. A session without one is a bug, never a valid state.
type SessionEndGate struct {
	log      *logger.Logger
	sessions repos.SearchSessionRepo
}

func NewSessionEndGate(sessions repos.SearchSessionRepo, baseLog *logger.Logger) *SessionEndGate {
	return &SessionEndGate{
		log:      baseLog.With("gate", "SessionEndGate"),
		sessions: sessions,
	}
}

// SetEndStatus writes the terminal status. If no reason is supplied, one is
// generated from the status so the reason column is never empty.
func (g *SessionEndGate) SetEndStatus(ctx context.Context, sessionID uuid.UUID, status types.SessionEndStatus, reason string) error {
	if reason == "" {
		reason = fmt.Sprintf("Session ended with status: %s", status)
	}
	if err := g.sessions.SetEndStatus(ctx, nil, sessionID, status, reason); err != nil {
		g.log.Error("failed to set session end status", "session_id", sessionID, "error", err)
		return err
	}
	return nil
}

type MissingEndStatusSession struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type MissingEndStatusReport struct {
	Count    int                       `json:"count"`
	Sessions []MissingEndStatusSession `json:"sessions"`
}

// DetectMissingEndStatus scans for sessions past the grace window with no
// end status. Monitoring input; nothing is auto-remediated.
func (g *SessionEndGate) DetectMissingEndStatus(ctx context.Context) (*MissingEndStatusReport, error) {
	cutoff := time.Now().Add(-missingEndStatusGrace)
	sessions, err := g.sessions.GetWithoutEndStatusBefore(ctx, nil, cutoff)
	if err != nil {
		return nil, err
	}

	report := &MissingEndStatusReport{
		Count:    len(sessions),
		Sessions: make([]MissingEndStatusSession, 0, len(sessions)),
	}
	for _, s := range sessions {
		report.Sessions = append(report.Sessions, MissingEndStatusSession{ID: s.ID, CreatedAt: s.CreatedAt})
	}
	return report, nil
}

// ValidateSession returns the session's end status, or a GateAViolation if
// it has none.
func (g *SessionEndGate) ValidateSession(ctx context.Context, sessionID uuid.UUID) (types.SessionEndStatus, error) {
	sessions, err := g.sessions.GetByIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "", ErrSessionNotFound
	}
	if sessions[0].EndStatus == nil {
		return "", &GateAViolation{SessionID: sessionID}
	}
	return *sessions[0].EndStatus, nil
}

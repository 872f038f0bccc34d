package gates

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

// TagDecisionGate is the only write path for movie tags. Every tag carries a
// one-line reason, an author, and a version; a tag without a reason is
// rejected before it reaches the store.
type TagDecisionGate struct {
	log  *logger.Logger
	tags repos.MovieTagRepo
}

func NewTagDecisionGate(tags repos.MovieTagRepo, baseLog *logger.Logger) *TagDecisionGate {
	return &TagDecisionGate{
		log:  baseLog.With("gate", "TagDecisionGate"),
		tags: tags,
	}
}

type TagDecisionInput struct {
	MovieID         uuid.UUID             `json:"movie_id"`
	TagType         types.TagType         `json:"tag_type"`
	TagCode         string                `json:"tag_code"`
	Reason          string                `json:"reason"`
	Author          string                `json:"author"`
	ConfidenceLevel types.ConfidenceLevel `json:"confidence_level,omitempty"`
	NodeID          string                `json:"node_id,omitempty"`
}

func (g *TagDecisionGate) CreateTag(ctx context.Context, input TagDecisionInput) (uuid.UUID, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return uuid.Nil, NewValidationError("Reason is required")
	}
	if strings.TrimSpace(input.Author) == "" {
		return uuid.Nil, NewValidationError("Author is required")
	}

	confidence := input.ConfidenceLevel
	if confidence == "" {
		confidence = types.ConfidenceMedium
	}

	created, err := g.tags.Create(ctx, nil, []*types.MovieTag{{
		MovieID:         input.MovieID,
		TagType:         input.TagType,
		TagCode:         input.TagCode,
		Reason:          input.Reason,
		Author:          input.Author,
		ConfidenceLevel: confidence,
		NodeID:          input.NodeID,
		Version:         1,
	}})
	if err != nil {
		g.log.Error("failed to create tag", "movie_id", input.MovieID, "error", err)
		return uuid.Nil, err
	}
	return created[0].ID, nil
}

// TagUpdate carries a partial update. A nil Reason preserves the existing
// one; an explicit empty Reason is rejected.
type TagUpdate struct {
	Reason          *string                `json:"reason,omitempty"`
	ConfidenceLevel *types.ConfidenceLevel `json:"confidence_level,omitempty"`
	Author          string                 `json:"author"`
}

func (g *TagDecisionGate) UpdateTag(ctx context.Context, tagID uuid.UUID, update TagUpdate) error {
	if update.Reason != nil && strings.TrimSpace(*update.Reason) == "" {
		return NewValidationError("Reason cannot be empty")
	}
	if strings.TrimSpace(update.Author) == "" {
		return NewValidationError("Author is required")
	}

	existing, err := g.tags.GetByIDs(ctx, nil, []uuid.UUID{tagID})
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return ErrTagNotFound
	}

	reason := existing[0].Reason
	if update.Reason != nil {
		reason = *update.Reason
	}

	fields := map[string]interface{}{
		"reason":  reason,
		"author":  update.Author,
		"version": existing[0].Version + 1,
	}
	if update.ConfidenceLevel != nil {
		fields["confidence_level"] = *update.ConfidenceLevel
	}

	if err := g.tags.UpdateFields(ctx, nil, tagID, fields); err != nil {
		g.log.Error("failed to update tag", "tag_id", tagID, "error", err)
		return err
	}
	return nil
}

type MissingReasonTag struct {
	ID      uuid.UUID     `json:"id"`
	MovieID uuid.UUID     `json:"movie_id"`
	TagType types.TagType `json:"tag_type"`
}

type MissingReasonReport struct {
	Count int                `json:"count"`
	Tags  []MissingReasonTag `json:"tags"`
}

// DetectMissingReason is an integrity scan for empty-string reasons written
// around the gate at the storage level.
func (g *TagDecisionGate) DetectMissingReason(ctx context.Context) (*MissingReasonReport, error) {
	tags, err := g.tags.GetWithEmptyReason(ctx, nil)
	if err != nil {
		return nil, err
	}

	report := &MissingReasonReport{
		Count: len(tags),
		Tags:  make([]MissingReasonTag, 0, len(tags)),
	}
	for _, tag := range tags {
		report.Tags = append(report.Tags, MissingReasonTag{ID: tag.ID, MovieID: tag.MovieID, TagType: tag.TagType})
	}
	return report, nil
}

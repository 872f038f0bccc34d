package gates

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

func newTagDecisionGate(t *testing.T) (*TagDecisionGate, *gorm.DB) {
	t.Helper()
	db := newGateTestDB(t, &types.MovieTag{})
	log := logger.NewNop()
	return NewTagDecisionGate(repos.NewMovieTagRepo(db, log), log), db
}

func TestCreateTag_PersistsWithVersionOne(t *testing.T) {
	gate, db := newTagDecisionGate(t)

	id, err := gate.CreateTag(context.Background(), TagDecisionInput{
		MovieID:         uuid.New(),
		TagType:         types.TagGenrePrimary,
		TagCode:         "DRAMA",
		Reason:          "User confirmed genre",
		Author:          "system",
		ConfidenceLevel: types.ConfidenceHigh,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var tag types.MovieTag
	if err := db.First(&tag, "id = ?", id).Error; err != nil {
		t.Fatalf("loading tag: %v", err)
	}
	if tag.Version != 1 {
		t.Fatalf("expected version 1, got %d", tag.Version)
	}
	if tag.ConfidenceLevel != types.ConfidenceHigh {
		t.Fatalf("expected HIGH confidence, got %s", tag.ConfidenceLevel)
	}
}

func TestCreateTag_RejectsEmptyReason(t *testing.T) {
	gate, _ := newTagDecisionGate(t)

	_, err := gate.CreateTag(context.Background(), TagDecisionInput{
		MovieID: uuid.New(),
		TagType: types.TagGenrePrimary,
		TagCode: "DRAMA",
		Reason:  "",
		Author:  "system",
	})
	if err == nil || !strings.Contains(err.Error(), "Reason is required") {
		t.Fatalf("expected reason validation error, got %v", err)
	}
	if !IsValidationError(err) {
		t.Fatalf("expected ValidationError type, got %T", err)
	}
}

func TestCreateTag_RejectsMissingAuthor(t *testing.T) {
	gate, _ := newTagDecisionGate(t)

	_, err := gate.CreateTag(context.Background(), TagDecisionInput{
		MovieID: uuid.New(),
		TagType: types.TagMood,
		TagCode: "MELANCHOLY",
		Reason:  "Detected from narrative hints",
	})
	if err == nil || !strings.Contains(err.Error(), "Author is required") {
		t.Fatalf("expected author validation error, got %v", err)
	}
}

func TestCreateTag_DefaultsConfidenceToMedium(t *testing.T) {
	gate, db := newTagDecisionGate(t)

	id, err := gate.CreateTag(context.Background(), TagDecisionInput{
		MovieID: uuid.New(),
		TagType: types.TagObject,
		TagCode: "LIGHTHOUSE",
		Reason:  "Mentioned in user sentence",
		Author:  "pipeline",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var tag types.MovieTag
	if err := db.First(&tag, "id = ?", id).Error; err != nil {
		t.Fatalf("loading tag: %v", err)
	}
	if tag.ConfidenceLevel != types.ConfidenceMedium {
		t.Fatalf("expected MEDIUM default, got %s", tag.ConfidenceLevel)
	}
}

func TestUpdateTag_PreservesReasonWhenOmitted(t *testing.T) {
	gate, db := newTagDecisionGate(t)

	id, err := gate.CreateTag(context.Background(), TagDecisionInput{
		MovieID: uuid.New(),
		TagType: types.TagGenrePrimary,
		TagCode: "DRAMA",
		Reason:  "Original reason",
		Author:  "system",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	high := types.ConfidenceHigh
	if err := gate.UpdateTag(context.Background(), id, TagUpdate{
		Author:          "admin",
		ConfidenceLevel: &high,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var tag types.MovieTag
	if err := db.First(&tag, "id = ?", id).Error; err != nil {
		t.Fatalf("loading tag: %v", err)
	}
	if tag.Reason != "Original reason" {
		t.Fatalf("reason not preserved: %q", tag.Reason)
	}
	if tag.Version != 2 {
		t.Fatalf("expected version 2, got %d", tag.Version)
	}
	if tag.Author != "admin" {
		t.Fatalf("expected author admin, got %q", tag.Author)
	}
	if tag.ConfidenceLevel != types.ConfidenceHigh {
		t.Fatalf("expected HIGH confidence, got %s", tag.ConfidenceLevel)
	}
}

func TestUpdateTag_RejectsExplicitEmptyReason(t *testing.T) {
	gate, _ := newTagDecisionGate(t)

	id, err := gate.CreateTag(context.Background(), TagDecisionInput{
		MovieID: uuid.New(),
		TagType: types.TagGenrePrimary,
		TagCode: "DRAMA",
		Reason:  "Original reason",
		Author:  "system",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := ""
	err = gate.UpdateTag(context.Background(), id, TagUpdate{Reason: &empty, Author: "admin"})
	if err == nil || !strings.Contains(err.Error(), "Reason cannot be empty") {
		t.Fatalf("expected empty-reason rejection, got %v", err)
	}
}

func TestUpdateTag_EveryUpdateIncrementsVersion(t *testing.T) {
	gate, db := newTagDecisionGate(t)

	id, err := gate.CreateTag(context.Background(), TagDecisionInput{
		MovieID: uuid.New(),
		TagType: types.TagNarrativeHint,
		TagCode: "TWIST_ENDING",
		Reason:  "Mentioned twist",
		Author:  "system",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := gate.UpdateTag(context.Background(), id, TagUpdate{Author: "admin"}); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	var tag types.MovieTag
	if err := db.First(&tag, "id = ?", id).Error; err != nil {
		t.Fatalf("loading tag: %v", err)
	}
	if tag.Version != 4 {
		t.Fatalf("expected version 4 after 3 updates, got %d", tag.Version)
	}
}

func TestUpdateTag_UnknownTag(t *testing.T) {
	gate, _ := newTagDecisionGate(t)
	if err := gate.UpdateTag(context.Background(), uuid.New(), TagUpdate{Author: "admin"}); err != ErrTagNotFound {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}
}

func TestDetectMissingReason_FindsStorageLevelBypass(t *testing.T) {
	gate, db := newTagDecisionGate(t)

	// Written around the gate, straight into the store.
	bypassed := &types.MovieTag{
		ID:              uuid.New(),
		MovieID:         uuid.New(),
		TagType:         types.TagMood,
		TagCode:         "DARK",
		Reason:          "",
		Author:          "rogue-script",
		ConfidenceLevel: types.ConfidenceLow,
		Version:         1,
	}
	if err := db.Create(bypassed).Error; err != nil {
		t.Fatalf("seeding bypassed tag: %v", err)
	}
	if _, err := gate.CreateTag(context.Background(), TagDecisionInput{
		MovieID: uuid.New(),
		TagType: types.TagMood,
		TagCode: "LIGHT",
		Reason:  "Valid reason",
		Author:  "system",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := gate.DetectMissingReason(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Count != 1 {
		t.Fatalf("expected 1 offending tag, got %d", report.Count)
	}
	if report.Tags[0].ID != bypassed.ID {
		t.Fatalf("expected tag %s, got %s", bypassed.ID, report.Tags[0].ID)
	}
}

package gates

import (
	"context"
	"encoding/json"
	"regexp"
	"unicode/utf8"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

const shareContentAuditLimit = 10000

// tmdbImagePatterns are the licensed image URL shapes that may never leave
// the service through a share surface.
var tmdbImagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)image\.tmdb\.org/[^\s"']*/poster[^\s"']*`),
	regexp.MustCompile(`(?i)image\.tmdb\.org/[^\s"']*/still[^\s"']*`),
	regexp.MustCompile(`(?i)image\.tmdb\.org/[^\s"']*/backdrop[^\s"']*`),
	regexp.MustCompile(`(?i)themoviedb\.org/[^\s"']*/poster[^\s"']*`),
	regexp.MustCompile(`(?i)themoviedb\.org/[^\s"']*/still[^\s"']*`),
}

// imageURLFields are the JSON keys scanned for blocked URLs.
var imageURLFields = []string{"poster", "posterUrl", "still", "stillUrl", "backdrop", "backdropUrl", "image", "imageUrl"}

// sanitizeImageFields is the subset stripped by SanitizeForShare.
var sanitizeImageFields = []string{"poster", "posterUrl", "still", "stillUrl", "backdrop", "backdropUrl"}

var (
	imgSrcPattern = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
	imgTagPattern = regexp.MustCompile(`(?i)<img[^>]+>`)
)

// ShareBlockingGate keeps licensed movie imagery out of share cards, OG
// images and link previews. Every validation call is audited, blocked or
// not.
type ShareBlockingGate struct {
	log    *logger.Logger
	audits repos.ShareAuditRepo
}

func NewShareBlockingGate(audits repos.ShareAuditRepo, baseLog *logger.Logger) *ShareBlockingGate {
	return &ShareBlockingGate{
		log:    baseLog.With("gate", "ShareBlockingGate"),
		audits: audits,
	}
}

type ShareValidation struct {
	Blocked          bool     `json:"blocked"`
	DetectedURLs     []string `json:"detected_urls"`
	SanitizedContent string   `json:"sanitized_content,omitempty"`
}

// ValidateAndBlock scans content for blocked image URLs across raw text,
// JSON field values and HTML <img> tags. The audit row is written before
// the verdict is returned; if blocking, a sanitized copy comes back with
// offending JSON fields nulled or <img> tags stripped.
func (g *ShareBlockingGate) ValidateAndBlock(ctx context.Context, content string, shareType types.ShareType) (*ShareValidation, error) {
	var detected []string

	for _, pattern := range tmdbImagePatterns {
		detected = append(detected, pattern.FindAllString(content, -1)...)
	}

	var parsed map[string]interface{}
	isJSON := json.Unmarshal([]byte(content), &parsed) == nil
	if isJSON {
		for _, field := range imageURLFields {
			value, ok := parsed[field].(string)
			if !ok {
				continue
			}
			for _, pattern := range tmdbImagePatterns {
				if pattern.MatchString(value) {
					detected = append(detected, value)
				}
			}
		}
	}

	for _, match := range imgSrcPattern.FindAllStringSubmatch(content, -1) {
		url := match[1]
		for _, pattern := range tmdbImagePatterns {
			if pattern.MatchString(url) {
				detected = append(detected, url)
			}
		}
	}

	detected = dedupeStrings(detected)
	blocked := len(detected) > 0

	stored := content
	if len(stored) > shareContentAuditLimit {
		cut := shareContentAuditLimit
		// Keep the truncated copy valid UTF-8 when the limit lands inside
		// a multi-byte rune.
		for cut > 0 && !utf8.RuneStart(stored[cut]) {
			cut--
		}
		stored = stored[:cut]
	}
	urlsJSON, err := json.Marshal(detected)
	if err != nil {
		return nil, err
	}
	if _, err := g.audits.Create(ctx, nil, []*types.ShareAudit{{
		ShareType:    shareType,
		Content:      stored,
		DetectedURLs: urlsJSON,
		Blocked:      blocked,
	}}); err != nil {
		g.log.Error("failed to write share audit", "share_type", shareType, "error", err)
		return nil, err
	}

	validation := &ShareValidation{Blocked: blocked, DetectedURLs: detected}
	if blocked {
		if isJSON {
			for _, field := range imageURLFields {
				if _, ok := parsed[field]; ok && parsed[field] != nil {
					parsed[field] = nil
				}
			}
			sanitized, err := json.Marshal(parsed)
			if err != nil {
				return nil, err
			}
			validation.SanitizedContent = string(sanitized)
		} else {
			validation.SanitizedContent = imgTagPattern.ReplaceAllString(content, "")
		}
	}
	return validation, nil
}

// SanitizeForShare strips known image URL fields from an arbitrary decoded
// JSON structure, recursively. Defense in depth on response construction,
// independent of the audit path.
func SanitizeForShare(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		sanitized := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSanitizedField(key) && value != nil {
				continue
			}
			sanitized[key] = SanitizeForShare(value)
		}
		return sanitized
	case []interface{}:
		sanitized := make([]interface{}, len(v))
		for i, item := range v {
			sanitized[i] = SanitizeForShare(item)
		}
		return sanitized
	default:
		return data
	}
}

func isSanitizedField(key string) bool {
	for _, field := range sanitizeImageFields {
		if key == field {
			return true
		}
	}
	return false
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"eventfolio/internal/domain"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphenRuns = regexp.MustCompile(`-+`)
)

// Slugify derives a URL-safe identifier from a title: lowercase, trimmed,
// disallowed characters stripped, whitespace runs collapsed to a single
// hyphen, hyphen runs collapsed. An empty title yields an empty slug; callers
// must reject empty titles before deriving.
func Slugify(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphenRuns.ReplaceAllString(s, "-")
	return s
}

// ensureUniqueSlug returns the first slug candidate not held by any event
// other than excludeID, starting from the base derivation of title and
// appending -1, -2, ... on collision. The probe-then-commit sequence is not
// atomic across writers; the unique index on events.slug is the final
// authority and callers retry on domain.ErrSlugTaken.
func ensureUniqueSlug(ctx context.Context, repo domain.EventRepository, title, excludeID string) (string, error) {
	base := Slugify(title)
	candidate := base
	for counter := 1; ; counter++ {
		inUse, err := repo.SlugInUse(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("probe slug %q: %w", candidate, err)
		}
		if !inUse {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

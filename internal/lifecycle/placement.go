// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package lifecycle

import (
	"time"

	"newsdesk/internal/models"
)

// PlacementOptions carries the moderator's placement decision for a publish
// or a placement update on an already-published article.
type PlacementOptions struct {
	Section        *models.Section `json:"section,omitempty"`
	Essential      bool            `json:"essential"`
	IsPremium      bool            `json:"is_premium"`
	IsFeaturedHome bool            `json:"is_featured_home"`
	IsArchive      bool            `json:"is_archive"`

	// Deferred publish. Ignored by placement updates.
	IsScheduled        bool       `json:"is_scheduled"`
	ScheduledPublishAt *time.Time `json:"scheduled_publish_at,omitempty"`
}

// applyPlacement resolves the placement options onto the article.
//
// A summary skips section resolution entirely and is forced premium. A
// standard article must end up with exactly one section: the essential flag
// is a shorthand for the essential section, an explicit section value wins
// otherwise, and resolving neither is a validation error. Focus and
// chronicle are conventionally premium but the premium flag stays whatever
// the moderator set.
func applyPlacement(a *models.Article, opts PlacementOptions) error {
	if a.IsSummary() {
		a.Section = nil
		a.IsPremium = true
		a.IsFeaturedHome = opts.IsFeaturedHome
		a.IsArchive = opts.IsArchive
		return nil
	}

	section, err := resolveSection(opts)
	if err != nil {
		return err
	}
	a.Section = &section
	a.IsPremium = opts.IsPremium
	a.IsFeaturedHome = opts.IsFeaturedHome
	a.IsArchive = opts.IsArchive
	return nil
}

// resolveSection picks the destination section for a standard article.
func resolveSection(opts PlacementOptions) (models.Section, error) {
	if opts.Essential {
		return models.SectionEssential, nil
	}
	if opts.Section == nil {
		return "", &ValidationError{Field: "section", Reason: "a standard article needs a section or the essential flag"}
	}
	if !models.ValidSection(*opts.Section) {
		return "", &ValidationError{Field: "section", Reason: "unknown section " + string(*opts.Section)}
	}
	return *opts.Section, nil
}

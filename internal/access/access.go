// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package access decides what a viewer may see of an article: the full
// content or a bounded preview with a prompt. The decision is a pure
// function of the article's premium flag and the viewer's identity facts,
// re-evaluated on every request because subscription status can change
// between two page views.
package access

import (
	"strings"
	"unicode/utf8"

	"newsdesk/internal/models"
)

// Decision is the outcome of the access check.
type Decision string

const (
	FullContent Decision = "full_content"
	Denied      Decision = "denied"
)

// Prompt tells the frontend which call-to-action to render next to a preview.
type Prompt string

const (
	PromptNone      Prompt = ""
	PromptLogin     Prompt = "login"
	PromptSubscribe Prompt = "subscribe"
)

// Viewer carries the externally-supplied identity facts. The engine never
// fetches these itself; the session and subscription collaborators hand
// them in per request.
type Viewer struct {
	IsAuthenticated       bool
	Role                  models.Role
	HasActiveSubscription bool
}

// Result bundles the decision with the prompt to show when it is Denied.
type Result struct {
	Decision Decision
	Prompt   Prompt
}

// Decide evaluates the paywall rules in order: free articles are open to
// everyone, staff always bypass the paywall, anonymous viewers are asked to
// log in, subscribers get through, everyone else is asked to subscribe.
func Decide(isPremium bool, v Viewer) Result {
	if !isPremium {
		return Result{Decision: FullContent}
	}
	if v.Role == models.RoleWatcher || v.Role == models.RoleModerator || v.Role == models.RoleAdmin {
		return Result{Decision: FullContent}
	}
	if !v.IsAuthenticated {
		return Result{Decision: Denied, Prompt: PromptLogin}
	}
	if v.HasActiveSubscription {
		return Result{Decision: FullContent}
	}
	return Result{Decision: Denied, Prompt: PromptSubscribe}
}

// PreviewBudget is the maximum number of runes of body text served to a
// denied viewer. The cut happens server-side; the remainder of the body is
// never transmitted.
const PreviewBudget = 300

// Preview returns the bounded prefix shown to a denied viewer, cut at the
// last word boundary inside the budget with an ellipsis appended.
func Preview(body string) string {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) <= PreviewBudget {
		return body
	}

	runes := []rune(body)
	cut := PreviewBudget
	for i := cut; i > 0; i-- {
		if runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t' {
			cut = i
			break
		}
	}
	return strings.TrimSpace(string(runes[:cut])) + "…"
}

package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jakechorley/activity-board/pkg/core/board"
)

// RemoveTarget resolves a remove control to the participant email (from its
// data-email attribute) and the activity name (from the header of the nearest
// enclosing activity card). ok is false when either value is missing.
func RemoveTarget(control *goquery.Selection) (activity, email string, ok bool) {
	if control == nil || control.Length() == 0 {
		return "", "", false
	}

	email, _ = control.Attr("data-email")
	card := control.Closest(".activity-card")
	if card.Length() > 0 {
		activity = card.Find("h4").First().Text()
	}

	if activity == "" || email == "" {
		return "", "", false
	}
	return activity, email, true
}

// FindRemoveControl locates the remove control with the given id in a rendered list
func FindRemoveControl(doc *goquery.Document, controlID string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("button.delete-participant").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, _ := s.Attr("value"); v == controlID {
			found = s
			return false
		}
		return true
	})
	return found
}

// ResolveRemoveControl renders the list for view and resolves controlID against it
func ResolveRemoveControl(ctx context.Context, view *board.View, controlID string) (activity, email string, ok bool, err error) {
	if strings.TrimSpace(controlID) == "" {
		return "", "", false, nil
	}

	var buf bytes.Buffer
	if err := ActivityList(view).Render(ctx, &buf); err != nil {
		return "", "", false, fmt.Errorf("failed to render activity list: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", "", false, fmt.Errorf("failed to parse activity list: %w", err)
	}

	activity, email, ok = RemoveTarget(FindRemoveControl(doc, controlID))
	return activity, email, ok, nil
}

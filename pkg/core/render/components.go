package render

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/jakechorley/activity-board/pkg/core/board"
	"github.com/jakechorley/activity-board/pkg/core/model"
)

const (
	PlaceholderOption  = "-- Select an activity --"
	LoadingText        = "Loading activities..."
	NoParticipantsText = "No participants yet"
	DefaultTitle       = "Mergington High School Activities"
	RemoveAction       = "/participants/remove"
	SignupAction       = "/signup"
)

// htmlWriter writes markup and keeps the first error
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) text(v any) {
	hw.raw(EscapeHTML(v))
}

func (hw *htmlWriter) rawf(format string, args ...any) {
	hw.raw(fmt.Sprintf(format, args...))
}

func (hw *htmlWriter) child(c templ.Component) {
	if hw.err != nil {
		return
	}
	hw.err = c.Render(hw.ctx, hw.w)
}

func component(fn func(hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{ctx: ctx, w: w}
		fn(hw)
		return hw.err
	})
}

// ControlID identifies the remove control for a participant row
func ControlID(card, row int) string {
	return fmt.Sprintf("%d-%d", card, row)
}

// ParticipantRow renders one roster entry with its initials badge and remove control
func ParticipantRow(card, row int, email string) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<li class="participant-item"><span class="participant-badge">`)
		hw.text(Initials(email))
		hw.raw(`</span><span class="participant-name">`)
		hw.text(model.LocalPart(email))
		hw.raw(`</span><button type="submit" class="delete-participant" title="Remove" name="control" value="`)
		hw.text(ControlID(card, row))
		hw.raw(`" data-email="`)
		hw.text(email)
		hw.raw(`" aria-label="Remove participant">&#128465;</button></li>`)
	})
}

// ActivityCard renders a single activity; spots left is computed on every render
func ActivityCard(card int, a model.Activity) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.rawf(`<div class="activity-card" data-card="%d">`, card)
		hw.raw(`<h4>`)
		hw.text(a.Name)
		hw.raw(`</h4><p>`)
		hw.text(a.Description)
		hw.raw(`</p><p><strong>Schedule:</strong> `)
		hw.text(a.Schedule)
		hw.rawf(`</p><p><strong>Availability:</strong> %d spots left</p>`, a.SpotsLeft())

		if len(a.Participants) == 0 {
			hw.raw(`<p class="no-participants">` + NoParticipantsText + `</p>`)
		} else {
			hw.raw(`<ul class="participants">`)
			for row, email := range a.Participants {
				hw.child(ParticipantRow(card, row, email))
			}
			hw.raw(`</ul>`)
		}

		hw.raw(`</div>`)
	})
}

// ActivityList renders the contents of the list area for the current view
func ActivityList(view *board.View) templ.Component {
	return component(func(hw *htmlWriter) {
		switch view.Status {
		case board.ListLoading:
			hw.raw(`<p>` + LoadingText + `</p>`)
		case board.ListFailed:
			hw.raw(`<p>`)
			hw.text(board.LoadFailedText)
			hw.raw(`</p>`)
		default:
			hw.raw(`<form method="post" action="` + RemoveAction + `">`)
			for card, a := range view.Catalog.Ordered() {
				hw.child(ActivityCard(card, a))
			}
			hw.raw(`</form>`)
		}
	})
}

// ActivityOptions renders the placeholder and one option per selectable activity
func ActivityOptions(options []string, selected string) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<option value="">` + PlaceholderOption + `</option>`)
		for _, name := range options {
			hw.raw(`<option value="`)
			hw.text(name)
			hw.raw(`"`)
			if name == selected {
				hw.raw(` selected`)
			}
			hw.raw(`>`)
			hw.text(name)
			hw.raw(`</option>`)
		}
	})
}

// MessageArea renders the outcome message; hidden messages keep their class
func MessageArea(msg board.MessageState) templ.Component {
	return component(func(hw *htmlWriter) {
		class := string(msg.Kind)
		if !msg.Visible {
			if class != "" {
				class += " "
			}
			class += "hidden"
		}
		hw.raw(`<div id="message" class="`)
		hw.text(class)
		hw.raw(`">`)
		hw.text(msg.Text)
		hw.raw(`</div>`)
	})
}

func head(hw *htmlWriter, title string) {
	hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8">`)
	hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1.0"><title>`)
	hw.text(title)
	hw.raw(`</title></head><body><header><h1>`)
	hw.text(title)
	hw.raw(`</h1></header><main>`)
}

// Page renders the full board: list area, signup form and message area.
// A non-empty alert is shown as a banner above the list.
func Page(title string, view *board.View, alert string) templ.Component {
	if title == "" {
		title = DefaultTitle
	}
	return component(func(hw *htmlWriter) {
		head(hw, title)

		if alert != "" {
			hw.raw(`<div id="alert" class="alert" role="alert">`)
			hw.text(alert)
			hw.raw(`</div>`)
		}

		hw.raw(`<section id="activities-container"><h3>Available Activities</h3><div id="activities-list">`)
		hw.child(ActivityList(view))
		hw.raw(`</div></section>`)

		hw.raw(`<section id="signup-container"><h3>Sign Up for an Activity</h3>`)
		hw.raw(`<form id="signup-form" method="post" action="` + SignupAction + `">`)
		hw.raw(`<div class="form-group"><label for="email">Student Email:</label>`)
		hw.raw(`<input type="email" id="email" name="email" required placeholder="your-email@mergington.edu" value="`)
		hw.text(view.Form.Email)
		hw.raw(`"></div>`)
		hw.raw(`<div class="form-group"><label for="activity">Select Activity:</label><select id="activity" name="activity" required>`)
		hw.child(ActivityOptions(view.Options, view.Form.Activity))
		hw.raw(`</select></div><button type="submit">Sign Up</button></form>`)
		hw.child(MessageArea(view.Message))
		hw.raw(`</section></main></body></html>`)
	})
}

// ConfirmPage asks for an affirmative answer before a remove control is acted on.
// The activity and email the control resolved to are posted back with the answer.
func ConfirmPage(title, prompt, control, activity, email string) templ.Component {
	if title == "" {
		title = DefaultTitle
	}
	return component(func(hw *htmlWriter) {
		head(hw, title)
		hw.raw(`<section id="confirm"><p class="confirm-prompt">`)
		hw.text(prompt)
		hw.raw(`</p><form method="post" action="` + RemoveAction + `">`)
		hw.raw(`<input type="hidden" name="control" value="`)
		hw.text(control)
		hw.raw(`"><input type="hidden" name="activity" value="`)
		hw.text(activity)
		hw.raw(`"><input type="hidden" name="email" value="`)
		hw.text(email)
		hw.raw(`"><button type="submit" name="confirmed" value="yes">Yes</button></form>`)
		hw.raw(`<a class="cancel" href="/">No</a></section></main></body></html>`)
	})
}

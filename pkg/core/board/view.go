package board

import "github.com/jakechorley/activity-board/pkg/core/model"

// ListStatus is the state of the activities list area
type ListStatus string

const (
	ListLoading ListStatus = "loading"
	ListLoaded  ListStatus = "loaded"
	ListFailed  ListStatus = "failed"
)

// MessageKind styles the outcome message
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// FormState is what the signup form currently holds
type FormState struct {
	Activity string
	Email    string
}

// MessageState is the last operation outcome
type MessageState struct {
	Kind    MessageKind
	Text    string
	Visible bool
}

// View is everything needed to draw the board
type View struct {
	Status  ListStatus
	Catalog *model.Catalog
	// Options are the selectable activity names, excluding the placeholder
	Options []string
	Form    FormState
	Message MessageState
}

func (v View) clone() View {
	v.Options = append([]string(nil), v.Options...)
	return v
}

package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/activity-board/pkg/clients/activitiesclient"
	"github.com/jakechorley/activity-board/pkg/core/model"
)

// DefaultMessageTimeout is how long an outcome message stays visible
const DefaultMessageTimeout = 5 * time.Second

// User-facing texts
const (
	LoadFailedText   = "Failed to load activities. Please try again later."
	SignupErrorText  = "An error occurred"
	SignupFailedText = "Failed to sign up. Please try again."
	RemoveErrorText  = "Failed to remove participant."
	RemoveFailedText = "Error removing participant."
	removePromptFmt  = "Remove %s from %s?"
)

// CatalogClient is the backend the board talks to
type CatalogClient interface {
	ListActivities(ctx context.Context) (*model.Catalog, error)
	Signup(ctx context.Context, activity, email string) (string, error)
	Unregister(ctx context.Context, activity, email string) (string, error)
}

// Confirmer asks the user a yes/no question.
// Only an explicit true lets the operation proceed.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Notifier shows a one-off notification to the user
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// RemoveOutcome describes what happened to a remove request
type RemoveOutcome string

const (
	RemoveSkipped  RemoveOutcome = "skipped"
	RemoveDeclined RemoveOutcome = "declined"
	RemoveDone     RemoveOutcome = "removed"
	RemoveFailed   RemoveOutcome = "failed"
)

// RemovePrompt is the confirmation question for removing email from activity
func RemovePrompt(email, activity string) string {
	return fmt.Sprintf(removePromptFmt, email, activity)
}

// Board owns the view state and relays user actions to the backend.
// All view-state mutation goes through mu; network calls run unlocked.
type Board struct {
	client     CatalogClient
	logger     *zap.Logger
	messageTTL time.Duration
	afterFunc  func(d time.Duration, f func())

	mu     sync.Mutex
	view   View
	issued uint64
}

// Option configures a Board
type Option func(*Board)

// WithMessageTimeout sets how long outcome messages stay visible
func WithMessageTimeout(d time.Duration) Option {
	return func(b *Board) {
		if d > 0 {
			b.messageTTL = d
		}
	}
}

// WithAfterFunc replaces the timer used to hide messages
func WithAfterFunc(f func(d time.Duration, fn func())) Option {
	return func(b *Board) {
		b.afterFunc = f
	}
}

// New creates a board in the loading state
func New(client CatalogClient, logger *zap.Logger, opts ...Option) *Board {
	b := &Board{
		client:     client,
		logger:     logger,
		messageTTL: DefaultMessageTimeout,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		view: View{Status: ListLoading},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Snapshot returns a copy of the current view state
func (b *Board) Snapshot() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view.clone()
}

// Load fetches the catalog and rebuilds the list and options.
// A response that is not for the latest issued load is discarded.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	b.issued++
	seq := b.issued
	b.mu.Unlock()

	logger := b.logger.With(zap.Uint64("load_seq", seq))
	logger.Debug("Loading activities")

	catalog, err := b.client.ListActivities(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	if seq != b.issued {
		logger.Debug("Discarding stale activities response", zap.Uint64("latest_seq", b.issued))
		return nil
	}

	if err != nil {
		b.view.Status = ListFailed
		logger.Error("Error fetching activities", zap.Error(err))
		return fmt.Errorf("failed to load activities: %w", err)
	}

	b.view.Status = ListLoaded
	b.view.Catalog = catalog
	b.view.Options = append([]string(nil), catalog.Names...)

	logger.Debug("Activities loaded", zap.Int("count", catalog.Len()))
	return nil
}

// reload is the single refresh path run after every successful mutation
func (b *Board) reload(ctx context.Context) {
	// Load already logs the failure and leaves the list in the failed state
	_ = b.Load(ctx)
}

// SubmitSignup signs email up for activity and returns the message shown
func (b *Board) SubmitSignup(ctx context.Context, email, activity string) MessageState {
	logger := b.logger.With(
		zap.String("action_id", uuid.NewString()),
		zap.String("activity", activity),
		zap.String("email", email),
	)

	b.mu.Lock()
	b.view.Form = FormState{Activity: activity, Email: email}
	b.mu.Unlock()

	logger.Info("Signing up")
	message, err := b.client.Signup(ctx, activity, email)

	var apiErr *activitiesclient.APIError
	switch {
	case err == nil:
		logger.Info("Signed up")
		shown := b.showMessage(MessageSuccess, message)
		b.mu.Lock()
		b.view.Form = FormState{}
		b.mu.Unlock()
		b.reload(ctx)
		return shown
	case errors.As(err, &apiErr):
		logger.Warn("Signup rejected", zap.Int("status", apiErr.StatusCode), zap.String("detail", apiErr.Detail))
		text := apiErr.Detail
		if text == "" {
			text = SignupErrorText
		}
		return b.showMessage(MessageError, text)
	default:
		logger.Error("Error signing up", zap.Error(err))
		return b.showMessage(MessageError, SignupFailedText)
	}
}

// RemoveParticipant unregisters email from activity after confirmation.
// Missing values are a silent no-op. Failures go to notifier; the returned
// error is only set when the confirmer itself fails.
func (b *Board) RemoveParticipant(ctx context.Context, activity, email string, confirmer Confirmer, notifier Notifier) (RemoveOutcome, error) {
	if activity == "" || email == "" {
		return RemoveSkipped, nil
	}

	logger := b.logger.With(
		zap.String("action_id", uuid.NewString()),
		zap.String("activity", activity),
		zap.String("email", email),
	)

	confirmed, err := confirmer.Confirm(ctx, RemovePrompt(email, activity))
	if err != nil {
		return RemoveSkipped, fmt.Errorf("failed to confirm removal: %w", err)
	}
	if !confirmed {
		logger.Debug("Removal declined")
		return RemoveDeclined, nil
	}

	logger.Info("Removing participant")
	if _, err := b.client.Unregister(ctx, activity, email); err != nil {
		var apiErr *activitiesclient.APIError
		if errors.As(err, &apiErr) {
			logger.Warn("Removal rejected", zap.Int("status", apiErr.StatusCode), zap.String("detail", apiErr.Detail))
			text := apiErr.Detail
			if text == "" {
				text = RemoveErrorText
			}
			notifier.Notify(ctx, text)
		} else {
			logger.Error("Error removing participant", zap.Error(err))
			notifier.Notify(ctx, RemoveFailedText)
		}
		return RemoveFailed, nil
	}

	logger.Info("Participant removed")
	b.reload(ctx)
	return RemoveDone, nil
}

// showMessage replaces the displayed message and schedules it to hide.
// Every scheduled hide fires, even if a newer message is showing by then.
func (b *Board) showMessage(kind MessageKind, text string) MessageState {
	b.mu.Lock()
	b.view.Message = MessageState{Kind: kind, Text: text, Visible: true}
	shown := b.view.Message
	b.mu.Unlock()

	b.afterFunc(b.messageTTL, b.hideMessage)
	return shown
}

func (b *Board) hideMessage() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.Message.Visible = false
}

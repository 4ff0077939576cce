package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/activity-board/pkg/clients/activitiesclient"
	"github.com/jakechorley/activity-board/pkg/core/model"
)

// mockClient is an in-memory backend that records every call
type mockClient struct {
	mu            sync.Mutex
	catalog       *model.Catalog
	listErr       error
	signupErr     error
	unregisterErr error
	listCalls     int
	signupCalls   int
	unregCalls    int
}

func newMockClient(activities ...model.Activity) *mockClient {
	return &mockClient{catalog: model.NewCatalog(activities...)}
}

func (m *mockClient) ListActivities(ctx context.Context) (*model.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	// Return a fresh copy so the board never shares state with the backend
	return model.NewCatalog(m.catalog.Ordered()...), nil
}

func (m *mockClient) Signup(ctx context.Context, activity, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signupCalls++
	if m.signupErr != nil {
		return "", m.signupErr
	}
	a := m.catalog.Activities[activity]
	a.Participants = append(append([]string{}, a.Participants...), email)
	m.catalog.Activities[activity] = a
	return "Signed up " + email + " for " + activity, nil
}

func (m *mockClient) Unregister(ctx context.Context, activity, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unregCalls++
	if m.unregisterErr != nil {
		return "", m.unregisterErr
	}
	a := m.catalog.Activities[activity]
	var kept []string
	for _, p := range a.Participants {
		if p != email {
			kept = append(kept, p)
		}
	}
	a.Participants = kept
	m.catalog.Activities[activity] = a
	return "Unregistered " + email + " from " + activity, nil
}

// fakeTimers captures scheduled hides so tests control when they fire
type fakeTimers struct {
	durations []time.Duration
	pending   []func()
}

func (f *fakeTimers) afterFunc(d time.Duration, fn func()) {
	f.durations = append(f.durations, d)
	f.pending = append(f.pending, fn)
}

func (f *fakeTimers) fire(i int) {
	f.pending[i]()
}

type stubConfirmer struct {
	answer  bool
	err     error
	prompts []string
}

func (s *stubConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	s.prompts = append(s.prompts, prompt)
	return s.answer, s.err
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(ctx context.Context, message string) {
	r.messages = append(r.messages, message)
}

func chessClub(participants ...string) model.Activity {
	return model.Activity{
		Name:            "Chess Club",
		Description:     "Learn strategies and compete in chess tournaments",
		Schedule:        "Mon",
		MaxParticipants: 2,
		Participants:    participants,
	}
}

func newTestBoard(client CatalogClient) (*Board, *fakeTimers) {
	timers := &fakeTimers{}
	b := New(client, zap.NewNop(), WithAfterFunc(timers.afterFunc))
	return b, timers
}

func TestNew_StartsLoading(t *testing.T) {
	b, _ := newTestBoard(newMockClient())
	view := b.Snapshot()
	assert.Equal(t, ListLoading, view.Status)
	assert.Nil(t, view.Catalog)
	assert.Empty(t, view.Options)
}

func TestLoad_Success(t *testing.T) {
	client := newMockClient(chessClub("ann@x.com"), model.Activity{Name: "Gym Class", MaxParticipants: 30})
	b, _ := newTestBoard(client)

	require.NoError(t, b.Load(context.Background()))

	view := b.Snapshot()
	assert.Equal(t, ListLoaded, view.Status)
	assert.Equal(t, []string{"Chess Club", "Gym Class"}, view.Options)
	chess, ok := view.Catalog.Get("Chess Club")
	require.True(t, ok)
	assert.Equal(t, 1, chess.SpotsLeft())
}

func TestLoad_RebuildsOptions(t *testing.T) {
	client := newMockClient(chessClub(), model.Activity{Name: "Gym Class"})
	b, _ := newTestBoard(client)
	require.NoError(t, b.Load(context.Background()))

	client.catalog = model.NewCatalog(model.Activity{Name: "Drama Club"})
	require.NoError(t, b.Load(context.Background()))

	assert.Equal(t, []string{"Drama Club"}, b.Snapshot().Options)
}

func TestLoad_FailureKeepsOptions(t *testing.T) {
	client := newMockClient(chessClub())
	b, _ := newTestBoard(client)
	require.NoError(t, b.Load(context.Background()))

	client.listErr = &activitiesclient.TransportError{Op: "list activities", Err: errors.New("connection refused")}
	err := b.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load activities")

	view := b.Snapshot()
	assert.Equal(t, ListFailed, view.Status)
	assert.Equal(t, []string{"Chess Club"}, view.Options)
}

// blockingClient holds the first list call until released
type blockingClient struct {
	*mockClient
	first    chan struct{}
	release  chan struct{}
	calls    int
	mu       sync.Mutex
	catalogs []*model.Catalog
}

func (b *blockingClient) ListActivities(ctx context.Context) (*model.Catalog, error) {
	b.mu.Lock()
	b.calls++
	call := b.calls
	b.mu.Unlock()

	if call == 1 {
		close(b.first)
		<-b.release
	}
	return b.catalogs[call-1], nil
}

func TestLoad_DiscardsStaleResponse(t *testing.T) {
	client := &blockingClient{
		mockClient: newMockClient(),
		first:      make(chan struct{}),
		release:    make(chan struct{}),
		catalogs: []*model.Catalog{
			model.NewCatalog(model.Activity{Name: "Old"}),
			model.NewCatalog(model.Activity{Name: "New"}),
		},
	}
	b, _ := newTestBoard(client)

	done := make(chan error)
	go func() {
		done <- b.Load(context.Background())
	}()

	<-client.first
	require.NoError(t, b.Load(context.Background()))
	close(client.release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"New"}, b.Snapshot().Options)
}

func TestSubmitSignup_Success(t *testing.T) {
	client := newMockClient(chessClub("ann@x.com"))
	b, timers := newTestBoard(client)
	require.NoError(t, b.Load(context.Background()))

	msg := b.SubmitSignup(context.Background(), "bob@x.com", "Chess Club")

	assert.Equal(t, MessageSuccess, msg.Kind)
	assert.Equal(t, "Signed up bob@x.com for Chess Club", msg.Text)
	assert.True(t, msg.Visible)

	view := b.Snapshot()
	assert.Equal(t, FormState{}, view.Form)
	chess, _ := view.Catalog.Get("Chess Club")
	assert.Equal(t, []string{"ann@x.com", "bob@x.com"}, chess.Participants)
	assert.Equal(t, 0, chess.SpotsLeft())
	assert.Equal(t, 2, client.listCalls)

	require.Len(t, timers.durations, 1)
	assert.Equal(t, DefaultMessageTimeout, timers.durations[0])
}

func TestSubmitSignup_APIErrorRetainsForm(t *testing.T) {
	client := newMockClient(chessClub("ann@x.com"))
	client.signupErr = &activitiesclient.APIError{StatusCode: 400, Detail: "Already signed up"}
	b, _ := newTestBoard(client)
	require.NoError(t, b.Load(context.Background()))

	msg := b.SubmitSignup(context.Background(), "ann@x.com", "Chess Club")

	assert.Equal(t, MessageError, msg.Kind)
	assert.Equal(t, "Already signed up", msg.Text)

	view := b.Snapshot()
	assert.Equal(t, FormState{Activity: "Chess Club", Email: "ann@x.com"}, view.Form)
	assert.Equal(t, 1, client.listCalls, "catalog must not reload after a failed signup")
}

func TestSubmitSignup_APIErrorWithoutDetail(t *testing.T) {
	client := newMockClient(chessClub())
	client.signupErr = &activitiesclient.APIError{StatusCode: 500}
	b, _ := newTestBoard(client)

	msg := b.SubmitSignup(context.Background(), "ann@x.com", "Chess Club")
	assert.Equal(t, SignupErrorText, msg.Text)
}

func TestSubmitSignup_TransportFailure(t *testing.T) {
	client := newMockClient(chessClub())
	client.signupErr = &activitiesclient.TransportError{Op: "signup", Err: errors.New("dial tcp: refused")}
	b, timers := newTestBoard(client)

	msg := b.SubmitSignup(context.Background(), "ann@x.com", "Chess Club")

	assert.Equal(t, MessageError, msg.Kind)
	assert.Equal(t, SignupFailedText, msg.Text)
	assert.Equal(t, 0, client.listCalls)
	assert.Len(t, timers.pending, 1)
}

func TestMessage_HidesAfterTimeout(t *testing.T) {
	client := newMockClient(chessClub())
	b, timers := newTestBoard(client)

	b.SubmitSignup(context.Background(), "ann@x.com", "Chess Club")
	require.True(t, b.Snapshot().Message.Visible)

	timers.fire(0)
	view := b.Snapshot()
	assert.False(t, view.Message.Visible)
	assert.Equal(t, MessageSuccess, view.Message.Kind)
}

func TestMessage_EarlierTimerHidesNewerMessage(t *testing.T) {
	client := newMockClient(chessClub())
	b, timers := newTestBoard(client)

	b.SubmitSignup(context.Background(), "ann@x.com", "Chess Club")
	client.signupErr = &activitiesclient.APIError{StatusCode: 400, Detail: "Already signed up"}
	b.SubmitSignup(context.Background(), "ann@x.com", "Chess Club")

	view := b.Snapshot()
	assert.Equal(t, "Already signed up", view.Message.Text)
	assert.True(t, view.Message.Visible)

	timers.fire(0)
	view = b.Snapshot()
	assert.Equal(t, "Already signed up", view.Message.Text)
	assert.False(t, view.Message.Visible)
}

func TestWithMessageTimeout(t *testing.T) {
	timers := &fakeTimers{}
	b := New(newMockClient(chessClub()), zap.NewNop(),
		WithMessageTimeout(2*time.Second),
		WithAfterFunc(timers.afterFunc),
	)

	b.SubmitSignup(context.Background(), "ann@x.com", "Chess Club")
	require.Len(t, timers.durations, 1)
	assert.Equal(t, 2*time.Second, timers.durations[0])
}

func TestRemoveParticipant_Confirmed(t *testing.T) {
	client := newMockClient(chessClub("ann@x.com", "bob@x.com"))
	b, timers := newTestBoard(client)
	require.NoError(t, b.Load(context.Background()))

	confirmer := &stubConfirmer{answer: true}
	notifier := &recordingNotifier{}

	outcome, err := b.RemoveParticipant(context.Background(), "Chess Club", "ann@x.com", confirmer, notifier)
	require.NoError(t, err)
	assert.Equal(t, RemoveDone, outcome)

	assert.Equal(t, []string{"Remove ann@x.com from Chess Club?"}, confirmer.prompts)
	assert.Empty(t, notifier.messages)
	assert.Empty(t, timers.pending, "removal shows no message")

	chess, _ := b.Snapshot().Catalog.Get("Chess Club")
	assert.Equal(t, []string{"bob@x.com"}, chess.Participants)
	assert.Equal(t, 2, client.listCalls)
}

func TestRemoveParticipant_Declined(t *testing.T) {
	client := newMockClient(chessClub("ann@x.com"))
	b, _ := newTestBoard(client)
	require.NoError(t, b.Load(context.Background()))

	outcome, err := b.RemoveParticipant(context.Background(), "Chess Club", "ann@x.com", &stubConfirmer{answer: false}, &recordingNotifier{})
	require.NoError(t, err)
	assert.Equal(t, RemoveDeclined, outcome)

	assert.Equal(t, 0, client.unregCalls)
	assert.Equal(t, 1, client.listCalls)
	chess, _ := b.Snapshot().Catalog.Get("Chess Club")
	assert.Equal(t, []string{"ann@x.com"}, chess.Participants)
}

func TestRemoveParticipant_MissingValues(t *testing.T) {
	client := newMockClient(chessClub("ann@x.com"))
	b, _ := newTestBoard(client)
	confirmer := &stubConfirmer{answer: true}

	tests := []struct {
		name     string
		activity string
		email    string
	}{
		{"no activity", "", "ann@x.com"},
		{"no email", "Chess Club", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := b.RemoveParticipant(context.Background(), tt.activity, tt.email, confirmer, &recordingNotifier{})
			require.NoError(t, err)
			assert.Equal(t, RemoveSkipped, outcome)
		})
	}

	assert.Empty(t, confirmer.prompts)
	assert.Equal(t, 0, client.unregCalls)
}

func TestRemoveParticipant_Failures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"api error with detail", &activitiesclient.APIError{StatusCode: 404, Detail: "Participant not found"}, "Participant not found"},
		{"api error without detail", &activitiesclient.APIError{StatusCode: 500}, RemoveErrorText},
		{"transport failure", &activitiesclient.TransportError{Op: "unregister", Err: errors.New("timeout")}, RemoveFailedText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockClient(chessClub("ann@x.com"))
			client.unregisterErr = tt.err
			b, _ := newTestBoard(client)
			notifier := &recordingNotifier{}

			outcome, err := b.RemoveParticipant(context.Background(), "Chess Club", "ann@x.com", &stubConfirmer{answer: true}, notifier)
			require.NoError(t, err)
			assert.Equal(t, RemoveFailed, outcome)
			assert.Equal(t, []string{tt.expected}, notifier.messages)
			assert.Equal(t, 0, client.listCalls)
		})
	}
}

func TestRemoveParticipant_ConfirmerError(t *testing.T) {
	client := newMockClient(chessClub("ann@x.com"))
	b, _ := newTestBoard(client)

	_, err := b.RemoveParticipant(context.Background(), "Chess Club", "ann@x.com", &stubConfirmer{err: errors.New("stdin closed")}, &recordingNotifier{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to confirm removal")
	assert.Equal(t, 0, client.unregCalls)
}

func TestSnapshot_IsACopy(t *testing.T) {
	b, _ := newTestBoard(newMockClient(chessClub()))
	require.NoError(t, b.Load(context.Background()))

	view := b.Snapshot()
	view.Options[0] = "changed"

	assert.Equal(t, []string{"Chess Club"}, b.Snapshot().Options)
}

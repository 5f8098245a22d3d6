package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"voice-notes/models"
	"voice-notes/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleNotes() []models.Note {
	return []models.Note{
		mkNote("Groceries", "milk, eggs", t0.Add(2*time.Hour)),
		mkNote("Meeting", "Discuss BUDGET with Ana", t0),
		mkNote("budget plan", "numbers", t0.Add(time.Hour)),
		mkNote("Ideas", "none yet", t0.Add(3*time.Hour)),
	}
}

func newLoadedCollection(t *testing.T, api *fakeAPI) (*Collection, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	c := NewCollection(api, n, utils.DiscardLogger())
	require.NoError(t, c.Refresh(context.Background()))
	return c, n
}

func titles(notes []models.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func TestCollection_DefaultsNewestFirst(t *testing.T) {
	c, _ := newLoadedCollection(t, newFakeAPI(sampleNotes()...))

	assert.Equal(t, SortDesc, c.Order())
	assert.Equal(t, []string{"Ideas", "Groceries", "budget plan", "Meeting"}, titles(c.Visible()))
}

func TestCollection_EmptyQueryIsFullList(t *testing.T) {
	c, _ := newLoadedCollection(t, newFakeAPI(sampleNotes()...))

	c.SetQuery("")
	assert.Len(t, c.Visible(), 4)
	assert.Empty(t, c.MatchSummary())
}

func TestCollection_SearchTitleOrContentIgnoringCase(t *testing.T) {
	c, _ := newLoadedCollection(t, newFakeAPI(sampleNotes()...))

	c.SetQuery("BuDgEt")
	assert.Equal(t, []string{"budget plan", "Meeting"}, titles(c.Visible()))
	assert.Equal(t, "Found 2 notes matching BuDgEt", c.MatchSummary())

	c.SetQuery("milk")
	assert.Equal(t, []string{"Groceries"}, titles(c.Visible()))
	assert.Equal(t, "Found 1 note matching milk", c.MatchSummary())

	c.SetQuery("nothing like this")
	assert.Empty(t, c.Visible())
	assert.Equal(t, "No notes found matching your search", c.EmptyMessage())
}

func TestCollection_SearchAlwaysFiltersFullList(t *testing.T) {
	c, _ := newLoadedCollection(t, newFakeAPI(sampleNotes()...))

	c.SetQuery("budget")
	require.Len(t, c.Visible(), 2)
	// widening the query again must find notes the narrower one hid
	c.SetQuery("e")
	assert.Len(t, c.Visible(), 4)
	assert.Len(t, c.Notes(), 4)
}

func TestFilter_MatchesExactSubsequence(t *testing.T) {
	notes := sampleNotes()
	for _, q := range []string{"", "a", "BUDGET", "eggs", "zzz"} {
		got := Filter(notes, q)
		var want []models.Note
		for _, n := range notes {
			if strings.Contains(strings.ToLower(n.Title), strings.ToLower(q)) ||
				strings.Contains(strings.ToLower(n.Content), strings.ToLower(q)) {
				want = append(want, n)
			}
		}
		assert.Equal(t, titles(want), titles(got), "query %q", q)
	}
}

func TestCollection_ToggleOrderReverses(t *testing.T) {
	notes := sampleNotes()
	// identical timestamps still reverse exactly
	notes = append(notes, mkNote("Twin", "x", t0), mkNote("Twin 2", "x", t0))
	c, _ := newLoadedCollection(t, newFakeAPI(notes...))

	desc := c.Visible()
	assert.Equal(t, SortAsc, c.ToggleOrder())
	asc := c.Visible()
	require.Len(t, asc, len(desc))
	for i := range asc {
		assert.Equal(t, desc[len(desc)-1-i].ID, asc[i].ID)
	}
	assert.ElementsMatch(t, titles(desc), titles(asc))
	assert.Equal(t, SortDesc, c.ToggleOrder())
	assert.Error(t, c.SetOrder("sideways"))
}

func TestCollection_CreateGuard(t *testing.T) {
	api := newFakeAPI()
	c, n := newLoadedCollection(t, api)
	calls := api.ListCalls()

	require.NoError(t, c.Create(context.Background(), "", "content"))
	require.NoError(t, c.Create(context.Background(), "title", ""))
	assert.Empty(t, api.created)
	assert.Equal(t, calls, api.ListCalls())
	assert.Empty(t, n.successes)
	assert.False(t, CanCreate("", "x"))
	assert.True(t, CanCreate("x", "y"))
}

func TestCollection_MutationsRefetchWholesale(t *testing.T) {
	api := newFakeAPI()
	c, n := newLoadedCollection(t, api)
	ctx := context.Background()

	require.NoError(t, c.Create(ctx, "A", "B"))
	assert.Equal(t, 2, api.ListCalls())
	require.Len(t, c.Notes(), 1)
	id := c.Notes()[0].ID.Hex()
	assert.Equal(t, models.NoteKindText, api.created[0].Type)

	require.NoError(t, c.ToggleFavorite(ctx, id))
	assert.Equal(t, 3, api.ListCalls())
	assert.True(t, c.Notes()[0].Favorite)

	require.NoError(t, c.ToggleFavorite(ctx, id))
	assert.False(t, c.Notes()[0].Favorite)

	require.NoError(t, c.Delete(ctx, id))
	assert.Equal(t, 5, api.ListCalls())
	assert.Empty(t, c.Notes())
	assert.Equal(t, "No notes yet. Create your first note!", c.EmptyMessage())

	assert.Equal(t, []string{
		"Note created successfully",
		"Note updated successfully",
		"Note updated successfully",
		"Note deleted successfully",
	}, n.successes)
}

func TestCollection_FailedMutationKeepsList(t *testing.T) {
	api := newFakeAPI(sampleNotes()...)
	c, n := newLoadedCollection(t, api)
	before := c.Notes()

	api.writeErr = &APIError{Status: 500, Message: "Failed to delete note"}
	api.listErr = ErrTransient
	err := c.Delete(context.Background(), before[0].ID.Hex())
	assert.Error(t, err)

	assert.Equal(t, before, c.Notes())
	assert.Contains(t, n.Errors(), "Failed to delete note")
	assert.Contains(t, n.Errors(), "Failed to fetch notes: server unreachable")
}

func TestCollection_UnauthorizedRefreshIsQuiet(t *testing.T) {
	api := newFakeAPI()
	api.listErr = &APIError{Status: 401, Message: "Invalid or expired token"}
	n := &recordingNotifier{}
	c := NewCollection(api, n, utils.DiscardLogger())

	assert.True(t, IsUnauthorized(c.Refresh(context.Background())))
	assert.Empty(t, n.Errors())
	assert.False(t, c.Loaded())

	api.listErr = ErrNotAuthenticated
	assert.ErrorIs(t, c.Refresh(context.Background()), ErrNotAuthenticated)
	assert.Empty(t, n.Errors())

	api.listErr = &APIError{Status: 500, Message: "boom"}
	assert.Error(t, c.Refresh(context.Background()))
	assert.Equal(t, []string{"boom"}, n.Errors())
}

func TestCollection_CreateFromTranscript(t *testing.T) {
	api := newFakeAPI()
	c, n := newLoadedCollection(t, api)
	c.now = func() time.Time { return time.Date(2026, 10, 14, 15, 4, 5, 0, time.UTC) }

	require.NoError(t, c.CreateFromTranscript(context.Background(), "hello world"))
	require.Len(t, api.created, 1)
	assert.Equal(t, "Audio Note 10/14/2026, 3:04:05 PM", api.created[0].Title)
	assert.Equal(t, "hello world", api.created[0].Content)
	assert.Equal(t, models.NoteKindAudio, api.created[0].Type)
	assert.Equal(t, []string{"Audio note created successfully"}, n.successes)
	assert.Len(t, c.Notes(), 1)
}

func TestCollection_ToggleFavoriteUnknownNote(t *testing.T) {
	api := newFakeAPI()
	c, n := newLoadedCollection(t, api)

	assert.ErrorIs(t, c.ToggleFavorite(context.Background(), "deadbeef"), ErrNotInView)
	assert.Empty(t, api.patches)
	assert.Equal(t, []string{"Note not found"}, n.Errors())
}

func TestCollection_AttachImage(t *testing.T) {
	api := newFakeAPI(sampleNotes()...)
	c, n := newLoadedCollection(t, api)
	id := c.Notes()[0].ID.Hex()

	assert.ErrorIs(t, c.AttachImage(context.Background(), id, "data:text/plain;base64,aGk="), ErrNotImage)
	assert.Equal(t, []string{"Please upload an image file"}, n.Errors())
	assert.Empty(t, api.patches)

	require.NoError(t, c.AttachImage(context.Background(), id, "data:image/png;base64,AAAA"))
	got, ok := c.Find(id)
	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,AAAA", got.ImageURL)
}

// gatedAPI lets the test decide when each ListNotes call returns.
type gatedAPI struct {
	fakeAPI
	calls    int32
	releases []chan []models.Note
}

func (g *gatedAPI) ListNotes(context.Context) ([]models.Note, error) {
	idx := atomic.AddInt32(&g.calls, 1) - 1
	return <-g.releases[idx], nil
}

func TestCollection_StaleRefreshDiscarded(t *testing.T) {
	api := &gatedAPI{releases: []chan []models.Note{make(chan []models.Note), make(chan []models.Note)}}
	c := NewCollection(api, &recordingNotifier{}, utils.DiscardLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() { defer wg.Done(); _ = c.Refresh(ctx) }()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&api.calls) == 1 }, time.Second, time.Millisecond)

	second := make(chan struct{})
	go func() { _ = c.Refresh(ctx); close(second) }()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&api.calls) == 2 }, time.Second, time.Millisecond)

	newer := []models.Note{mkNote("newer", "x", t0)}
	older := []models.Note{mkNote("older", "x", t0)}
	api.releases[1] <- newer
	<-second
	api.releases[0] <- older
	wg.Wait()

	assert.Equal(t, []string{"newer"}, titles(c.Notes()))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "custom", UserMessage(&APIError{Status: 400, Message: "custom"}, "fallback"))
	assert.Equal(t, "Please log in first", UserMessage(ErrNotAuthenticated, "fallback"))
	assert.Equal(t, "fallback", UserMessage(errors.New("odd"), "fallback"))
}

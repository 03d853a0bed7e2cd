package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"moltmon/internal/adapters/storage/filestore"
	"moltmon/internal/domain/care"
	"moltmon/internal/domain/pet"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, seed bool) (*Client, *filestore.Store) {
	t.Helper()
	store := filestore.New(t.TempDir())
	if seed {
		_, _, err := store.RestoreOrCreateState(context.Background())
		require.NoError(t, err)
	}

	r := chi.NewRouter()
	care.RegisterRoutes(r, care.NewService(store))
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	c, err := NewClient(Config{BaseURL: ts.URL + "/"})
	require.NoError(t, err)
	return c, store
}

func TestClient_HatchAndQueries(t *testing.T) {
	ctx := context.Background()
	c, store := newServer(t, true)

	st, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, pet.StateEgg, st.State)

	rec, err := c.Hatch(ctx, "curious")
	require.NoError(t, err)
	assert.Equal(t, pet.CommandHatch, rec.Type)
	assert.NotEmpty(t, rec.CreatureID)

	q, err := store.ReadCommands(ctx)
	require.NoError(t, err)
	require.Len(t, q.PendingCommands, 1)
	assert.Equal(t, rec.CommandID, q.PendingCommands[0].ID)

	h, err := c.History(ctx)
	require.NoError(t, err)
	assert.Len(t, h.Pets, 1)

	s, err := c.CurrentSummary(ctx)
	require.NoError(t, err)
	assert.True(t, s.IsAlive)
}

func TestClient_RejectionsKeepSentinels(t *testing.T) {
	ctx := context.Background()
	c, _ := newServer(t, true)

	_, err := c.Feed(ctx)
	require.ErrorIs(t, err, care.ErrNotHungry)
	assert.Contains(t, err.Error(), "(current state: EGG)")

	_, err = c.Clean(ctx)
	assert.ErrorIs(t, err, care.ErrNothingToClean)

	_, err = c.Heal(ctx)
	assert.ErrorIs(t, err, care.ErrNotSick)

	_, err = c.Hatch(ctx, " ")
	assert.ErrorIs(t, err, care.ErrInvalidPersonality)
}

func TestClient_NoPet(t *testing.T) {
	c, _ := newServer(t, false)
	_, err := c.State(context.Background())
	assert.ErrorIs(t, err, care.ErrPetNotFound)
}

func TestClient_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c, err := NewClient(Config{BaseURL: ts.URL})
	require.NoError(t, err)

	_, err = c.Status(context.Background())
	require.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "status=500")
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient(Config{BaseURL: "not a url"})
	assert.Error(t, err)
}

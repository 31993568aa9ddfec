package session_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	loader "github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/session"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	store := session.NewMemoryStore(time.Minute).WithClock(clk.Now)

	_, ok, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	st := session.State{
		Kind:  session.KindAddTitle,
		Step:  "genre",
		Title: &session.TitleDraft{Code: "100", Title: "Naruto"},
	}
	require.NoError(t, store.Set(ctx, 7, st))

	got, ok, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Naruto", got.Title.Title)

	// 新流程覆盖旧流程
	require.NoError(t, store.Set(ctx, 7, session.State{Kind: session.KindSearch}))
	got, _, _ = store.Get(ctx, 7)
	assert.Equal(t, session.KindSearch, got.Kind)
	assert.Nil(t, got.Title)

	require.NoError(t, store.Clear(ctx, 7))
	_, ok, _ = store.Get(ctx, 7)
	assert.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	store := session.NewMemoryStore(time.Minute).WithClock(clk.Now)

	require.NoError(t, store.Set(ctx, 1, session.State{Kind: session.KindContact}))
	clk.Advance(30 * time.Second)
	require.NoError(t, store.Set(ctx, 2, session.State{Kind: session.KindContact}))
	clk.Advance(45 * time.Second)

	_, ok, _ := store.Get(ctx, 1)
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, 2)
	assert.True(t, ok)

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestSweeper(t *testing.T) {
	clk := &clock{now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	store := session.NewMemoryStore(time.Second).WithClock(clk.Now)
	require.NoError(t, store.Set(context.Background(), 1, session.State{Kind: session.KindSearch}))
	clk.Advance(2 * time.Second)

	sw, err := session.NewSweeper("@every 1m", store, log.NewStdLogger(io.Discard))
	require.NoError(t, err)
	sw.RunOnce()
	assert.Zero(t, store.Len())

	require.NoError(t, sw.Start(context.Background()))
	require.NoError(t, sw.Stop(context.Background()))

	_, err = session.NewSweeper("not a spec", store, log.NewStdLogger(io.Discard))
	require.Error(t, err)
}

func TestSweeperWithoutTarget(t *testing.T) {
	sw, err := session.NewSweeper("ignored", nil, log.NewStdLogger(io.Discard))
	require.NoError(t, err)
	sw.RunOnce()
	require.NoError(t, sw.Start(context.Background()))
	require.NoError(t, sw.Stop(context.Background()))
}

func TestProvideStoreMemory(t *testing.T) {
	cfg := loader.Session{
		Backend:   loader.SessionBackendMemory,
		TTL:       loader.Duration{Duration: time.Minute},
		SweepSpec: "@every 5m",
	}
	store, cleanup, err := session.ProvideStore(cfg, loader.Redis{}, log.NewStdLogger(io.Discard))
	require.NoError(t, err)
	defer cleanup()
	require.IsType(t, &session.MemoryStore{}, store)

	sw, err := session.ProvideSweeper(cfg, store, log.NewStdLogger(io.Discard))
	require.NoError(t, err)
	require.NotNil(t, sw)
}

func TestTitleDraftToTitle(t *testing.T) {
	d := &session.TitleDraft{
		Code:       "100",
		Title:      "Naruto",
		TotalParts: 3,
		PosterType: po.PosterPhoto,
		Parts:      []string{"f1", "f2"},
	}
	title := d.ToTitle()
	assert.Equal(t, 2, title.PartCount())
	d.Parts[0] = "changed"
	assert.Equal(t, "f1", title.Parts[0])
}

package services_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/vo"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"
)

var errStorage = errors.New("db down")

type titleRepoStub struct {
	titles map[string]*po.Title
	err    error
}

func newTitleRepoStub(titles ...*po.Title) *titleRepoStub {
	r := &titleRepoStub{titles: make(map[string]*po.Title)}
	for _, t := range titles {
		r.titles[t.Code] = t
	}
	return r
}

func (r *titleRepoStub) Upsert(_ context.Context, title *po.Title) error {
	if r.err != nil {
		return r.err
	}
	cp := *title
	cp.Parts = append([]string(nil), title.Parts...)
	r.titles[title.Code] = &cp
	return nil
}

func (r *titleRepoStub) Get(_ context.Context, code string) (*po.Title, error) {
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.titles[code]
	if !ok {
		return nil, services.ErrTitleNotFound
	}
	return t, nil
}

func (r *titleRepoStub) List(context.Context) ([]po.TitleSummary, error) {
	out := make([]po.TitleSummary, 0, len(r.titles))
	for _, t := range r.titles {
		out = append(out, po.TitleSummary{Code: t.Code, Title: t.Title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, r.err
}

func (r *titleRepoStub) Search(_ context.Context, query string, limit int) ([]po.TitleSummary, error) {
	var out []po.TitleSummary
	for _, t := range r.titles {
		if strings.Contains(strings.ToLower(t.Title), strings.ToLower(query)) {
			out = append(out, po.TitleSummary{Code: t.Code, Title: t.Title})
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, r.err
}

func (r *titleRepoStub) Count(context.Context) (int64, error) {
	return int64(len(r.titles)), r.err
}

func (r *titleRepoStub) Delete(_ context.Context, code string) (bool, error) {
	_, ok := r.titles[code]
	delete(r.titles, code)
	return ok, r.err
}

func (r *titleRepoStub) UpdateField(_ context.Context, code string, field po.TitleField, value any) error {
	t, ok := r.titles[code]
	if !ok {
		return services.ErrTitleNotFound
	}
	switch field {
	case po.FieldTitle:
		t.Title = value.(string)
	case po.FieldTotalParts:
		t.TotalParts = value.(int)
	}
	return nil
}

func (r *titleRepoStub) AppendParts(_ context.Context, code string, fileIDs []string) (int, error) {
	t, ok := r.titles[code]
	if !ok {
		return 0, services.ErrTitleNotFound
	}
	t.Parts = append(t.Parts, fileIDs...)
	return len(t.Parts), nil
}

func (r *titleRepoStub) DeletePart(_ context.Context, code string, n int) (int, error) {
	t, ok := r.titles[code]
	if !ok {
		return 0, services.ErrTitleNotFound
	}
	if n < 1 || n > len(t.Parts) {
		return 0, services.ErrPartNotFound
	}
	t.Parts = append(t.Parts[:n-1], t.Parts[n:]...)
	return len(t.Parts), nil
}

type statsRepoStub struct {
	known map[string]bool
	rows  map[string]*po.UsageStats
}

func newStatsRepoStub(codes ...string) *statsRepoStub {
	s := &statsRepoStub{known: make(map[string]bool), rows: make(map[string]*po.UsageStats)}
	for _, c := range codes {
		s.known[c] = true
	}
	return s
}

func (s *statsRepoStub) Init(_ context.Context, code string) error {
	if s.known[code] && s.rows[code] == nil {
		s.rows[code] = &po.UsageStats{Code: code}
	}
	return nil
}

func (s *statsRepoStub) Increment(_ context.Context, code string, field po.StatField) error {
	row := s.rows[code]
	if row == nil {
		return nil
	}
	switch field {
	case po.StatSearched:
		row.Searched++
	case po.StatViewed:
		row.Viewed++
	}
	return nil
}

func (s *statsRepoStub) Get(_ context.Context, code string) (*po.UsageStats, error) {
	row := s.rows[code]
	if row == nil {
		return nil, services.ErrStatsNotFound
	}
	cp := *row
	return &cp, nil
}

type userRepoStub struct {
	ids   []int64
	today int64
	since time.Time
}

func (u *userRepoStub) Add(_ context.Context, id int64) (bool, error) {
	for _, existing := range u.ids {
		if existing == id {
			return false, nil
		}
	}
	u.ids = append(u.ids, id)
	return true, nil
}

func (u *userRepoStub) Count(context.Context) (int64, error) { return int64(len(u.ids)), nil }

func (u *userRepoStub) CountSince(_ context.Context, since time.Time) (int64, error) {
	u.since = since
	return u.today, nil
}

func (u *userRepoStub) ListIDs(context.Context) ([]int64, error) { return u.ids, nil }

type adminRepoStub struct {
	ids map[int64]bool
	err error
}

func newAdminRepoStub(ids ...int64) *adminRepoStub {
	r := &adminRepoStub{ids: make(map[int64]bool)}
	for _, id := range ids {
		r.ids[id] = true
	}
	return r
}

func (r *adminRepoStub) List(context.Context) ([]int64, error) {
	out := make([]int64, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, r.err
}

func (r *adminRepoStub) Exists(_ context.Context, id int64) (bool, error) {
	return r.ids[id], r.err
}

func (r *adminRepoStub) Add(_ context.Context, id int64) (bool, error) {
	if r.ids[id] {
		return false, r.err
	}
	r.ids[id] = true
	return true, r.err
}

func (r *adminRepoStub) RemoveUnlessLast(_ context.Context, id int64) (bool, error) {
	if !r.ids[id] || len(r.ids) <= 1 {
		return false, r.err
	}
	delete(r.ids, id)
	return true, r.err
}

func (r *adminRepoStub) Seed(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		_, _ = r.Add(ctx, id)
	}
	return r.err
}

type channelRepoStub struct {
	channels []po.Channel
	err      error
}

func (r *channelRepoStub) Upsert(_ context.Context, ch *po.Channel) error {
	if r.err != nil {
		return r.err
	}
	for i := range r.channels {
		if r.channels[i].ChannelID == ch.ChannelID && r.channels[i].Kind == ch.Kind {
			r.channels[i] = *ch
			return nil
		}
	}
	r.channels = append(r.channels, *ch)
	return nil
}

func (r *channelRepoStub) ListByKind(_ context.Context, kind po.ChannelKind) ([]po.Channel, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []po.Channel
	for _, ch := range r.channels {
		if ch.Kind == kind {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (r *channelRepoStub) Remove(_ context.Context, id int64, kind po.ChannelKind) (bool, error) {
	for i, ch := range r.channels {
		if ch.ChannelID == id && ch.Kind == kind {
			r.channels = append(r.channels[:i], r.channels[i+1:]...)
			return true, nil
		}
	}
	return false, r.err
}

type ledgerStub struct {
	rows map[[2]int64]bool
	err  error
}

func newLedgerStub() *ledgerStub { return &ledgerStub{rows: make(map[[2]int64]bool)} }

func (l *ledgerStub) Record(_ context.Context, userID, channelID int64) (bool, error) {
	key := [2]int64{userID, channelID}
	if l.rows[key] {
		return false, l.err
	}
	l.rows[key] = true
	return true, l.err
}

func (l *ledgerStub) Exists(_ context.Context, userID, channelID int64) (bool, error) {
	return l.rows[[2]int64{userID, channelID}], l.err
}

// chatStub 模拟平台成员状态查询。
type chatStub struct {
	statuses map[[2]int64]string
	errs     map[int64]error
	chats    map[int64]*vo.ChatInfo
	self     int64
	calls    int
}

func newChatStub() *chatStub {
	return &chatStub{
		statuses: make(map[[2]int64]string),
		errs:     make(map[int64]error),
		chats:    make(map[int64]*vo.ChatInfo),
		self:     999,
	}
}

func (c *chatStub) MemberStatus(_ context.Context, chatID, userID int64) (string, error) {
	c.calls++
	if err := c.errs[chatID]; err != nil {
		return "", err
	}
	status, ok := c.statuses[[2]int64{chatID, userID}]
	if !ok {
		return "left", nil
	}
	return status, nil
}

func (c *chatStub) Chat(_ context.Context, chatID int64) (*vo.ChatInfo, error) {
	if err := c.errs[chatID]; err != nil {
		return nil, err
	}
	info, ok := c.chats[chatID]
	if !ok {
		return nil, errors.New("Bad Request: chat not found")
	}
	return info, nil
}

func (c *chatStub) SelfID() int64 { return c.self }

type pingerStub struct{ err error }

func (p pingerStub) Ping(context.Context) error { return p.err }

type flakyPingerStub struct {
	failures int
	calls    int
}

func (p *flakyPingerStub) Ping(context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errStorage
	}
	return nil
}

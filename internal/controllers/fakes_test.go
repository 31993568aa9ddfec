package controllers_test

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-animebot/internal/controllers"
	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/database"
	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/session"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/vo"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"
	"github.com/bionicotaku/lingo-services-animebot/internal/tasks/broadcast"

	"github.com/go-kratos/kratos/v2/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// catalogStore 以内存模拟 titles 与 stats 两张表。
type catalogStore struct {
	titles map[string]*po.Title
	stats  map[string]*po.UsageStats
}

type titleRepo struct{ s *catalogStore }

func (r titleRepo) Upsert(_ context.Context, t *po.Title) error {
	cp := *t
	cp.Parts = append([]string(nil), t.Parts...)
	r.s.titles[t.Code] = &cp
	if _, ok := r.s.stats[t.Code]; !ok {
		r.s.stats[t.Code] = &po.UsageStats{Code: t.Code}
	}
	return nil
}

func (r titleRepo) Get(_ context.Context, code string) (*po.Title, error) {
	t, ok := r.s.titles[code]
	if !ok {
		return nil, services.ErrTitleNotFound
	}
	cp := *t
	cp.Parts = append([]string(nil), t.Parts...)
	return &cp, nil
}

func (r titleRepo) List(context.Context) ([]po.TitleSummary, error) {
	var out []po.TitleSummary
	for _, t := range r.s.titles {
		out = append(out, po.TitleSummary{Code: t.Code, Title: t.Title})
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].Code)
		b, _ := strconv.Atoi(out[j].Code)
		return a < b
	})
	return out, nil
}

func (r titleRepo) Search(_ context.Context, q string, limit int) ([]po.TitleSummary, error) {
	var out []po.TitleSummary
	for _, t := range r.s.titles {
		if strings.Contains(strings.ToLower(t.Title), strings.ToLower(q)) {
			out = append(out, po.TitleSummary{Code: t.Code, Title: t.Title})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r titleRepo) Count(context.Context) (int64, error) { return int64(len(r.s.titles)), nil }

func (r titleRepo) Delete(_ context.Context, code string) (bool, error) {
	_, ok := r.s.titles[code]
	delete(r.s.titles, code)
	delete(r.s.stats, code)
	return ok, nil
}

func (r titleRepo) UpdateField(_ context.Context, code string, field po.TitleField, value any) error {
	t, ok := r.s.titles[code]
	if !ok {
		return services.ErrTitleNotFound
	}
	switch field {
	case po.FieldTitle:
		t.Title = value.(string)
	case po.FieldGenre:
		t.Genre = value.(string)
	case po.FieldTotalParts:
		t.TotalParts = value.(int)
	}
	return nil
}

func (r titleRepo) AppendParts(_ context.Context, code string, ids []string) (int, error) {
	t, ok := r.s.titles[code]
	if !ok {
		return 0, services.ErrTitleNotFound
	}
	t.Parts = append(t.Parts, ids...)
	return len(t.Parts), nil
}

func (r titleRepo) DeletePart(_ context.Context, code string, n int) (int, error) {
	t, ok := r.s.titles[code]
	if !ok {
		return 0, services.ErrTitleNotFound
	}
	if n < 1 || n > len(t.Parts) {
		return 0, services.ErrPartNotFound
	}
	t.Parts = append(t.Parts[:n-1], t.Parts[n:]...)
	return len(t.Parts), nil
}

type statsRepo struct{ s *catalogStore }

func (r statsRepo) Init(_ context.Context, code string) error {
	if _, ok := r.s.titles[code]; !ok {
		return nil
	}
	if _, ok := r.s.stats[code]; !ok {
		r.s.stats[code] = &po.UsageStats{Code: code}
	}
	return nil
}

func (r statsRepo) Increment(_ context.Context, code string, field po.StatField) error {
	st, ok := r.s.stats[code]
	if !ok {
		return nil
	}
	if field == po.StatSearched {
		st.Searched++
	} else {
		st.Viewed++
	}
	return nil
}

func (r statsRepo) Get(_ context.Context, code string) (*po.UsageStats, error) {
	st, ok := r.s.stats[code]
	if !ok {
		return nil, services.ErrStatsNotFound
	}
	cp := *st
	return &cp, nil
}

type userRepo struct{ ids []int64 }

func (r *userRepo) Add(_ context.Context, id int64) (bool, error) {
	for _, existing := range r.ids {
		if existing == id {
			return false, nil
		}
	}
	r.ids = append(r.ids, id)
	return true, nil
}

func (r *userRepo) Count(context.Context) (int64, error) { return int64(len(r.ids)), nil }
func (r *userRepo) CountSince(context.Context, time.Time) (int64, error) {
	return int64(len(r.ids)), nil
}
func (r *userRepo) ListIDs(context.Context) ([]int64, error) {
	return append([]int64(nil), r.ids...), nil
}

type adminRepo struct{ ids []int64 }

func (r *adminRepo) List(context.Context) ([]int64, error) {
	return append([]int64(nil), r.ids...), nil
}

func (r *adminRepo) Exists(_ context.Context, id int64) (bool, error) {
	for _, existing := range r.ids {
		if existing == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *adminRepo) Add(ctx context.Context, id int64) (bool, error) {
	if ok, _ := r.Exists(ctx, id); ok {
		return false, nil
	}
	r.ids = append(r.ids, id)
	return true, nil
}

func (r *adminRepo) RemoveUnlessLast(_ context.Context, id int64) (bool, error) {
	if len(r.ids) <= 1 {
		return false, nil
	}
	for i, existing := range r.ids {
		if existing == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *adminRepo) Seed(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		_, _ = r.Add(ctx, id)
	}
	return nil
}

type channelRepo struct{ items []po.Channel }

func (r *channelRepo) Upsert(_ context.Context, ch *po.Channel) error {
	for i, existing := range r.items {
		if existing.ChannelID == ch.ChannelID && existing.Kind == ch.Kind {
			r.items[i] = *ch
			return nil
		}
	}
	r.items = append(r.items, *ch)
	return nil
}

func (r *channelRepo) ListByKind(_ context.Context, kind po.ChannelKind) ([]po.Channel, error) {
	var out []po.Channel
	for _, ch := range r.items {
		if ch.Kind == kind {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (r *channelRepo) Remove(_ context.Context, id int64, kind po.ChannelKind) (bool, error) {
	for i, ch := range r.items {
		if ch.ChannelID == id && ch.Kind == kind {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type ledger struct{ rows map[[2]int64]bool }

func (l *ledger) Record(_ context.Context, userID, channelID int64) (bool, error) {
	key := [2]int64{userID, channelID}
	if l.rows[key] {
		return false, nil
	}
	l.rows[key] = true
	return true, nil
}

func (l *ledger) Exists(_ context.Context, userID, channelID int64) (bool, error) {
	return l.rows[[2]int64{userID, channelID}], nil
}

// chats 模拟 getChat/getChatMember，未登记的成员状态为 "left"。
type chats struct {
	statuses map[[2]int64]string
	infos    map[int64]*vo.ChatInfo
}

const botID int64 = 999

func (c *chats) MemberStatus(_ context.Context, chatID, userID int64) (string, error) {
	if s, ok := c.statuses[[2]int64{chatID, userID}]; ok {
		return s, nil
	}
	return "left", nil
}

func (c *chats) Chat(_ context.Context, chatID int64) (*vo.ChatInfo, error) {
	if info, ok := c.infos[chatID]; ok {
		return info, nil
	}
	return nil, &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}
}

func (c *chats) SelfID() int64 { return botID }

type pinger struct{}

func (pinger) Ping(context.Context) error { return nil }

// fakeBot 记录全部出站请求。
type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
	sendErr  error
}

func (b *fakeBot) Send(_ context.Context, msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return tgbotapi.Message{}, b.sendErr
	}
	b.sent = append(b.sent, msg)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID, Chat: &tgbotapi.Chat{ID: chatOf(msg)}}, nil
}

func chatOf(c tgbotapi.Chattable) int64 {
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		return m.ChatID
	case tgbotapi.DocumentConfig:
		return m.ChatID
	case tgbotapi.PhotoConfig:
		return m.ChatID
	case tgbotapi.VideoConfig:
		return m.ChatID
	}
	return 0
}

func (b *fakeBot) Request(_ context.Context, req tgbotapi.Chattable) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
	return nil
}

func (b *fakeBot) Username() string { return "anime_uz_bot" }

func (b *fakeBot) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent, b.requests = nil, nil
}

// texts 返回已发送消息的正文（文本或说明文字）。
func (b *fakeBot) texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.sent))
	for _, c := range b.sent {
		out = append(out, bodyOf(c))
	}
	return out
}

func (b *fakeBot) last() tgbotapi.Chattable {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.sent) == 0 {
		return nil
	}
	return b.sent[len(b.sent)-1]
}

func bodyOf(c tgbotapi.Chattable) string {
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		return m.Text
	case tgbotapi.PhotoConfig:
		return m.Caption
	case tgbotapi.VideoConfig:
		return m.Caption
	case tgbotapi.DocumentConfig:
		return m.Caption
	case tgbotapi.EditMessageTextConfig:
		return m.Text
	case tgbotapi.CallbackConfig:
		return m.Text
	default:
		return ""
	}
}

type fakeLauncher struct{ jobs []broadcast.Job }

func (l *fakeLauncher) Launch(job broadcast.Job) uuid.UUID {
	l.jobs = append(l.jobs, job)
	return uuid.New()
}

const (
	adminID int64 = 1
	userID  int64 = 500
)

type env struct {
	d        *controllers.Dispatcher
	bot      *fakeBot
	catalog  *catalogStore
	users    *userRepo
	admins   *adminRepo
	channels *channelRepo
	ledger   *ledger
	chats    *chats
	launcher *fakeLauncher
	sessions *session.MemoryStore
	runtime  *services.RuntimeState
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := log.NewStdLogger(io.Discard)
	e := &env{
		bot:      &fakeBot{},
		catalog:  &catalogStore{titles: map[string]*po.Title{}, stats: map[string]*po.UsageStats{}},
		users:    &userRepo{},
		admins:   &adminRepo{ids: []int64{adminID}},
		channels: &channelRepo{},
		ledger:   &ledger{rows: map[[2]int64]bool{}},
		chats:    &chats{statuses: map[[2]int64]string{}, infos: map[int64]*vo.ChatInfo{}},
		launcher: &fakeLauncher{},
		sessions: session.NewMemoryStore(time.Hour),
		runtime:  services.NewRuntimeState(),
	}
	titles, stats := titleRepo{e.catalog}, statsRepo{e.catalog}
	admins := services.NewAdminService(e.admins, logger)
	e.d = controllers.NewDispatcher(
		e.bot,
		e.sessions,
		e.runtime,
		admins,
		services.NewUserService(e.users, logger),
		services.NewSubscriptionGate(admins, e.channels, e.ledger, e.chats, logger),
		services.NewDeliveryService(titles, stats, logger),
		services.NewCatalogService(titles, stats, logger),
		services.NewChannelService(e.channels, e.chats, logger),
		services.NewStatsService(pinger{}, database.ProbePolicy{Attempts: 1}, e.users, titles, logger),
		e.launcher,
		logger,
	)
	return e
}

func (e *env) addTitle(code, title string, parts ...string) {
	_ = titleRepo{e.catalog}.Upsert(context.Background(), &po.Title{
		Code:         code,
		Title:        title,
		TotalParts:   len(parts),
		Parts:        parts,
		PosterFileID: "poster-" + code,
		PosterType:   po.PosterPhoto,
	})
}

var nextMessageID = 100

func message(from int64, text string) *tgbotapi.Message {
	nextMessageID++
	return &tgbotapi.Message{
		MessageID: nextMessageID,
		From:      &tgbotapi.User{ID: from, FirstName: "Ali", LastName: "Valiyev"},
		Chat:      &tgbotapi.Chat{ID: from},
		Text:      text,
	}
}

func (e *env) text(from int64, text string) {
	e.d.Handle(context.Background(), tgbotapi.Update{Message: message(from, text)})
}

func (e *env) command(from int64, command, args string) {
	text := "/" + command
	if args != "" {
		text += " " + args
	}
	msg := message(from, text)
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command) + 1}}
	e.d.Handle(context.Background(), tgbotapi.Update{Message: msg})
}

func (e *env) document(from int64, fileID string) {
	msg := message(from, "")
	msg.Document = &tgbotapi.Document{FileID: fileID}
	e.d.Handle(context.Background(), tgbotapi.Update{Message: msg})
}

func (e *env) photo(from int64, fileID, caption string) {
	msg := message(from, "")
	msg.Caption = caption
	msg.Photo = []tgbotapi.PhotoSize{{FileID: fileID + "-small"}, {FileID: fileID}}
	e.d.Handle(context.Background(), tgbotapi.Update{Message: msg})
}

func (e *env) callback(from int64, data string) {
	e.d.Handle(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-" + data,
		From:    &tgbotapi.User{ID: from, FirstName: "Ali"},
		Message: &tgbotapi.Message{MessageID: 10, Chat: &tgbotapi.Chat{ID: from}},
		Data:    data,
	}})
}

func (e *env) callbackAnswers() []tgbotapi.CallbackConfig {
	e.bot.mu.Lock()
	defer e.bot.mu.Unlock()
	var out []tgbotapi.CallbackConfig
	for _, r := range e.bot.requests {
		if cb, ok := r.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb)
		}
	}
	return out
}

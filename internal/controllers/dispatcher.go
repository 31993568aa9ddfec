// Package controllers 把 Telegram 更新路由到用户流程、管理员面板与向导。
package controllers

import (
	"context"

	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/session"
	"github.com/bionicotaku/lingo-services-animebot/internal/metadata"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"
	"github.com/bionicotaku/lingo-services-animebot/internal/views"

	"github.com/go-kratos/kratos/v2/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// 仅管理员可进入的流程。
var adminKinds = map[session.Kind]struct{}{
	session.KindAdminReply:  {},
	session.KindAddTitle:    {},
	session.KindEditTitle:   {},
	session.KindDeleteTitle: {},
	session.KindCodeStats:   {},
	session.KindChannel:     {},
	session.KindAdminAdd:    {},
	session.KindAdminRemove: {},
	session.KindBroadcast:   {},
	session.KindPostTitle:   {},
	session.KindPostPart:    {},
}

// Dispatcher 按更新类型与会话状态分发，每个更新串行处理。
type Dispatcher struct {
	*BaseHandler

	bot        Messenger
	sessions   session.Store
	runtime    *services.RuntimeState
	admins     *services.AdminService
	users      *services.UserService
	gate       *services.SubscriptionGate
	delivery   *services.DeliveryService
	catalog    *services.CatalogService
	channels   *services.ChannelService
	stats      *services.StatsService
	broadcasts BroadcastLauncher
	log        *log.Helper
}

// NewDispatcher 组装分发器。
func NewDispatcher(
	bot Messenger,
	sessions session.Store,
	runtime *services.RuntimeState,
	admins *services.AdminService,
	users *services.UserService,
	gate *services.SubscriptionGate,
	delivery *services.DeliveryService,
	catalog *services.CatalogService,
	channels *services.ChannelService,
	stats *services.StatsService,
	broadcasts BroadcastLauncher,
	logger log.Logger,
) *Dispatcher {
	return &Dispatcher{
		BaseHandler: NewBaseHandler(HandlerTimeouts{}),
		bot:         bot,
		sessions:    sessions,
		runtime:     runtime,
		admins:      admins,
		users:       users,
		gate:        gate,
		delivery:    delivery,
		catalog:     catalog,
		channels:    channels,
		stats:       stats,
		broadcasts:  broadcasts,
		log:         log.NewHelper(log.With(logger, "module", "controllers")),
	}
}

// Handle 处理单个更新。错误在内部记录并以通用提示反馈，不向上返回。
func (d *Dispatcher) Handle(ctx context.Context, upd tgbotapi.Update) {
	actor := d.ExtractActor(upd)
	if actor.IsZero() {
		return
	}
	if upd.ChatJoinRequest == nil {
		isAdmin, err := d.admins.IsAdmin(ctx, actor.UserID)
		if err != nil {
			d.log.WithContext(ctx).Warnw("msg", "admin lookup failed", "user_id", actor.UserID, "error", err)
		}
		actor.IsAdmin = isAdmin
	}

	kind := HandlerTypeQuery
	if actor.IsAdmin {
		kind = HandlerTypeCommand
	}
	ctx, cancel := d.WithTimeout(ctx, kind)
	defer cancel()
	ctx = metadata.Inject(ctx, actor)

	switch {
	case upd.ChatJoinRequest != nil:
		d.onJoinRequest(ctx, upd.ChatJoinRequest)
	case upd.CallbackQuery != nil:
		d.onCallback(ctx, actor, upd.CallbackQuery)
	case upd.Message != nil:
		d.onMessage(ctx, actor, upd.Message)
	}
}

func (d *Dispatcher) onJoinRequest(ctx context.Context, req *tgbotapi.ChatJoinRequest) {
	if err := d.gate.RecordJoinRequest(ctx, req.From.ID, req.Chat.ID); err != nil {
		d.log.WithContext(ctx).Errorw("msg", "record join request failed",
			"user_id", req.From.ID, "channel_id", req.Chat.ID, "error", err)
	}
}

func (d *Dispatcher) onMessage(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message) {
	if err := d.users.Register(ctx, actor.UserID); err != nil {
		d.log.WithContext(ctx).Warnw("msg", "register user failed", "user_id", actor.UserID, "error", err)
	}
	if !actor.IsAdmin && !d.runtime.Enabled() {
		d.say(ctx, actor.ChatID, views.MsgBotDisabled, nil)
		return
	}

	text := msg.Text
	if views.IsCancel(text) {
		d.cancelFlow(ctx, actor)
		return
	}
	if msg.IsCommand() && msg.Command() == "start" {
		d.clearSession(ctx, actor.UserID)
		d.onStart(ctx, actor, msg.CommandArguments())
		return
	}

	// 菜单按钮开启新流程，未完成的向导直接丢弃。
	if views.IsMenuButton(text, actor.IsAdmin) {
		d.clearSession(ctx, actor.UserID)
	} else if d.resumeFlow(ctx, actor, msg) {
		return
	}

	if actor.IsAdmin && d.onAdminMenu(ctx, actor, text) {
		return
	}
	if d.onUserMenu(ctx, actor, text) {
		return
	}
	if services.IsCode(text) {
		d.onCode(ctx, actor, text)
	}
}

// resumeFlow 把消息交给进行中的向导；没有可继续的会话时返回 false。
func (d *Dispatcher) resumeFlow(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message) bool {
	st, ok, err := d.sessions.Get(ctx, actor.UserID)
	if err != nil {
		d.log.WithContext(ctx).Warnw("msg", "load session failed", "user_id", actor.UserID, "error", err)
	}
	if !ok || !st.Active() {
		return false
	}
	if _, adminOnly := adminKinds[st.Kind]; adminOnly && !actor.IsAdmin {
		d.clearSession(ctx, actor.UserID)
		return false
	}
	d.continueFlow(ctx, actor, msg, st)
	return true
}

func (d *Dispatcher) continueFlow(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message, st session.State) {
	switch st.Kind {
	case session.KindSearch:
		d.searchStep(ctx, actor, msg)
	case session.KindContact:
		d.contactStep(ctx, actor, msg)
	case session.KindAdminReply:
		d.adminReplyStep(ctx, actor, msg, st)
	case session.KindAddTitle:
		d.addTitleStep(ctx, actor, msg, st)
	case session.KindEditTitle:
		d.editTitleStep(ctx, actor, msg, st)
	case session.KindDeleteTitle:
		d.deleteTitleStep(ctx, actor, msg)
	case session.KindCodeStats:
		d.codeStatsStep(ctx, actor, msg)
	case session.KindChannel:
		d.channelStep(ctx, actor, msg, st)
	case session.KindAdminAdd, session.KindAdminRemove:
		d.adminIDStep(ctx, actor, msg, st)
	case session.KindBroadcast:
		d.broadcastStep(ctx, actor, msg, st)
	case session.KindPostTitle:
		d.postTitleStep(ctx, actor, msg)
	case session.KindPostPart:
		d.postPartStep(ctx, actor, msg, st)
	default:
		d.clearSession(ctx, actor.UserID)
	}
}

// cancelFlow 清空会话并回到调用者的顶层菜单。编辑向导中暂存的新集在退出前保存。
func (d *Dispatcher) cancelFlow(ctx context.Context, actor metadata.Actor) {
	if st, ok, _ := d.sessions.Get(ctx, actor.UserID); ok && st.Kind == session.KindEditTitle &&
		st.Step == stepEditAddParts && st.Edit != nil && len(st.Edit.NewParts) > 0 && actor.IsAdmin {
		d.flushEditParts(ctx, actor, st)
		return
	}
	d.clearSession(ctx, actor.UserID)
	d.showHome(ctx, actor)
}

func (d *Dispatcher) showHome(ctx context.Context, actor metadata.Actor) {
	if actor.IsAdmin {
		d.say(ctx, actor.ChatID, views.MsgAdminPanel, views.AdminMenu())
		return
	}
	d.say(ctx, actor.ChatID, views.MsgUserPanel, views.UserMenu())
}

func (d *Dispatcher) setSession(ctx context.Context, userID int64, st session.State) {
	if err := d.sessions.Set(ctx, userID, st); err != nil {
		d.log.WithContext(ctx).Warnw("msg", "save session failed", "user_id", userID, "kind", string(st.Kind), "error", err)
	}
}

func (d *Dispatcher) clearSession(ctx context.Context, userID int64) {
	if err := d.sessions.Clear(ctx, userID); err != nil {
		d.log.WithContext(ctx).Warnw("msg", "clear session failed", "user_id", userID, "error", err)
	}
}

// say 发送 HTML 文本消息，markup 可为 nil。
func (d *Dispatcher) say(ctx context.Context, chatID int64, text string, markup any) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := d.bot.Send(ctx, msg)
	if err != nil {
		d.log.WithContext(ctx).Warnw("msg", "send message failed", "chat_id", chatID, "error", err)
	}
	return sent, err
}

// edit 编辑回调所在消息的文本与内联键盘，"未修改"等错误忽略。
func (d *Dispatcher) edit(ctx context.Context, msg *tgbotapi.Message, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	if msg == nil || msg.Chat == nil {
		return
	}
	cfg := tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, text)
	cfg.ParseMode = tgbotapi.ModeHTML
	cfg.ReplyMarkup = markup
	if err := d.bot.Request(ctx, cfg); err != nil {
		d.log.WithContext(ctx).Debugw("msg", "edit message failed", "chat_id", msg.Chat.ID, "error", err)
	}
}

func (d *Dispatcher) remove(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}
	if err := d.bot.Request(ctx, tgbotapi.NewDeleteMessage(msg.Chat.ID, msg.MessageID)); err != nil {
		d.log.WithContext(ctx).Debugw("msg", "delete message failed", "chat_id", msg.Chat.ID, "error", err)
	}
}

func (d *Dispatcher) answer(ctx context.Context, cq *tgbotapi.CallbackQuery, text string, alert bool) {
	cfg := tgbotapi.NewCallback(cq.ID, text)
	cfg.ShowAlert = alert
	if err := d.bot.Request(ctx, cfg); err != nil {
		d.log.WithContext(ctx).Debugw("msg", "answer callback failed", "error", err)
	}
}

// fail 记录内部错误并给出通用提示；管理员额外看到错误信息。
func (d *Dispatcher) fail(ctx context.Context, actor metadata.Actor, op string, err error) {
	d.log.WithContext(ctx).Errorw("msg", op+" failed", "user_id", actor.UserID, "error", err)
	if actor.IsAdmin {
		d.say(ctx, actor.ChatID, views.ErrorText(err), nil)
		return
	}
	d.say(ctx, actor.ChatID, views.MsgGenericError, nil)
}

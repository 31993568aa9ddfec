package controllers

import (
	"context"
	"strconv"
	"strings"

	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/session"
	"github.com/bionicotaku/lingo-services-animebot/internal/metadata"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/vo"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"
	"github.com/bionicotaku/lingo-services-animebot/internal/tasks/broadcast"
	"github.com/bionicotaku/lingo-services-animebot/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// 群发与单集发帖步骤
const (
	stepBroadcastType    session.Step = "type"
	stepBroadcastForward session.Step = "forward"
	stepBroadcastCopy    session.Step = "copy"

	stepPostCode    session.Step = "code"
	stepPostNumber  session.Step = "number"
	stepPostChannel session.Step = "channel"
)

func (d *Dispatcher) broadcastStep(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message, st session.State) {
	text := strings.TrimSpace(msg.Text)
	switch st.Step {
	case stepBroadcastType:
		switch text {
		case views.BtnBroadcastForward:
			st.Step = stepBroadcastForward
			d.setSession(ctx, actor.UserID, st)
			d.say(ctx, actor.ChatID, views.MsgForwardFormat, views.ControlKeyboard())
		case views.BtnBroadcastCopy:
			st.Step = stepBroadcastCopy
			d.setSession(ctx, actor.UserID, st)
			d.say(ctx, actor.ChatID, views.MsgCopyPrompt, views.ControlKeyboard())
		default:
			d.say(ctx, actor.ChatID, views.MsgBroadcastBadType, views.BroadcastTypeKeyboard())
		}

	case stepBroadcastForward:
		fields := strings.Fields(text)
		if len(fields) != 2 || !strings.HasPrefix(fields[0], "@") || len(fields[0]) < 2 {
			d.say(ctx, actor.ChatID, views.MsgForwardBadFormat, nil)
			return
		}
		messageID, err := strconv.Atoi(fields[1])
		if err != nil || messageID <= 0 {
			d.say(ctx, actor.ChatID, views.MsgForwardBadMsgID, nil)
			return
		}
		d.launchBroadcast(ctx, actor, broadcast.Forward{
			ChannelUsername: strings.TrimPrefix(fields[0], "@"),
			MessageID:       messageID,
		})

	case stepBroadcastCopy:
		d.launchBroadcast(ctx, actor, broadcast.Copy{FromChatID: msg.Chat.ID, MessageID: msg.MessageID})

	default:
		d.clearSession(ctx, actor.UserID)
	}
}

func (d *Dispatcher) launchBroadcast(ctx context.Context, actor metadata.Actor, src broadcast.Source) {
	recipients, err := d.users.Recipients(ctx)
	if err != nil {
		d.clearSession(ctx, actor.UserID)
		d.fail(ctx, actor, "load recipients", err)
		return
	}
	d.clearSession(ctx, actor.UserID)
	d.say(ctx, actor.ChatID, views.MsgAdminPanel, views.AdminMenu())
	id := d.broadcasts.Launch(broadcast.Job{
		AdminChatID: actor.ChatID,
		Recipients:  recipients,
		Source:      src,
	})
	d.log.WithContext(ctx).Infow("msg", "broadcast launched", "broadcast_id", id.String(),
		"admin_id", actor.UserID, "recipients", len(recipients))
}

func (d *Dispatcher) postTitleStep(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message) {
	code := strings.TrimSpace(msg.Text)
	if !services.IsCode(code) {
		d.say(ctx, actor.ChatID, views.MsgPostDigitsOnly, nil)
		return
	}
	title, err := d.catalog.GetTitle(ctx, code)
	switch {
	case errors.Is(err, services.ErrTitleNotFound):
		d.say(ctx, actor.ChatID, views.MsgCodeNotFound, nil)
		return
	case err != nil:
		d.fail(ctx, actor, "load title", err)
		return
	}
	targets, err := d.channels.List(ctx, po.ChannelMain)
	if err != nil {
		d.fail(ctx, actor, "list main channels", err)
		return
	}
	if len(targets) == 0 {
		d.finishFlow(ctx, actor, views.MsgNoMainChannels)
		return
	}

	caption := views.ChannelPostCaption(vo.NewTitleCard(title, nil))
	markup := views.DownloadKeyboard(views.DeepLink(d.bot.Username(), title.Code))
	var ok, failed int
	for _, ch := range targets {
		post := posterMessage(ch.ChannelID, title.PosterFileID, title.PosterType, caption, markup)
		if _, err := d.bot.Send(ctx, post); err != nil {
			failed++
			d.log.WithContext(ctx).Warnw("msg", "post title failed", "code", code, "channel_id", ch.ChannelID, "error", err)
			continue
		}
		ok++
	}
	d.finishFlow(ctx, actor, views.PostTitleResultText(ok, failed))
}

func (d *Dispatcher) postPartStep(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message, st session.State) {
	text := strings.TrimSpace(msg.Text)
	switch st.Step {
	case stepPostCode:
		title, err := d.catalog.GetTitle(ctx, text)
		switch {
		case errors.Is(err, services.ErrTitleNotFound), errors.Is(err, services.ErrInvalidCode):
			d.say(ctx, actor.ChatID, views.MsgCodeNotFound, nil)
			return
		case err != nil:
			d.fail(ctx, actor, "load title", err)
			return
		}
		if title.PartCount() == 0 {
			d.finishFlow(ctx, actor, views.MsgPartMissing)
			return
		}
		st.Step = stepPostNumber
		st.Post = &session.PostDraft{Code: title.Code, Title: title.Title, Parts: title.PartCount()}
		d.setSession(ctx, actor.UserID, st)
		d.say(ctx, actor.ChatID, views.PartPostIntroText(title.Title, title.PartCount()), nil)

	case stepPostNumber:
		n, err := services.ParsePartNumber(text)
		if err != nil || st.Post == nil || n > st.Post.Parts {
			d.say(ctx, actor.ChatID, views.MsgBadPartNumber, nil)
			return
		}
		st.Step = stepPostChannel
		st.Post.Part = n
		d.setSession(ctx, actor.UserID, st)
		d.say(ctx, actor.ChatID, views.MsgPartPostAskChan, nil)

	case stepPostChannel:
		if st.Post == nil {
			d.clearSession(ctx, actor.UserID)
			return
		}
		if !strings.HasPrefix(text, "@") || len(text) < 2 || strings.ContainsAny(text, " \n") {
			d.say(ctx, actor.ChatID, views.MsgPartPostAskChan, nil)
			return
		}
		post := tgbotapi.NewMessageToChannel(text, views.PartPostText(st.Post.Title, st.Post.Part))
		post.ParseMode = tgbotapi.ModeHTML
		post.ReplyMarkup = views.DownloadKeyboard(
			views.DeepLink(d.bot.Username(), views.PartPayload(st.Post.Code, st.Post.Part)))
		if _, err := d.bot.Send(ctx, post); err != nil {
			d.finishFlow(ctx, actor, views.ErrorText(err))
			return
		}
		d.finishFlow(ctx, actor, views.MsgPartPostSent)

	default:
		d.clearSession(ctx, actor.UserID)
	}
}

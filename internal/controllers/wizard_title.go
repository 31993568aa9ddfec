package controllers

import (
	"context"
	"strings"

	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/session"
	"github.com/bionicotaku/lingo-services-animebot/internal/metadata"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"
	"github.com/bionicotaku/lingo-services-animebot/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// 录入向导步骤
const (
	stepAddCode        session.Step = "code"
	stepAddTitle       session.Step = "title"
	stepAddGenre       session.Step = "genre"
	stepAddSeason      session.Step = "season"
	stepAddQuality     session.Step = "quality"
	stepAddChannelName session.Step = "channel_name"
	stepAddDubbedBy    session.Step = "dubbed_by"
	stepAddTotalParts  session.Step = "total_parts"
	stepAddPoster      session.Step = "poster"
	stepAddParts       session.Step = "parts"
)

// 编辑向导步骤
const (
	stepEditCode       session.Step = "code"
	stepEditMenu       session.Step = "menu"
	stepEditAddParts   session.Step = "add_parts"
	stepEditDeletePart session.Step = "delete_part"
	stepEditFieldValue session.Step = "field_value"
)

// textStep 描述录入向导中的纯文本字段。
type textStep struct {
	set  func(d *session.TitleDraft, v string)
	next session.Step
	ask  string
}

var addTextSteps = map[session.Step]textStep{
	stepAddTitle:       {func(d *session.TitleDraft, v string) { d.Title = v }, stepAddGenre, views.MsgAskGenre},
	stepAddGenre:       {func(d *session.TitleDraft, v string) { d.Genre = v }, stepAddSeason, views.MsgAskSeason},
	stepAddSeason:      {func(d *session.TitleDraft, v string) { d.Season = v }, stepAddQuality, views.MsgAskQuality},
	stepAddQuality:     {func(d *session.TitleDraft, v string) { d.Quality = v }, stepAddChannelName, views.MsgAskChannelName},
	stepAddChannelName: {func(d *session.TitleDraft, v string) { d.ChannelName = v }, stepAddDubbedBy, views.MsgAskDubbedBy},
	stepAddDubbedBy:    {func(d *session.TitleDraft, v string) { d.DubbedBy = v }, stepAddTotalParts, views.MsgAskTotalParts},
}

var addPrompts = map[session.Step]string{
	stepAddCode:       views.MsgAskCode,
	stepAddTitle:      views.MsgAskTitle,
	stepAddTotalParts: views.MsgAskTotalParts,
	stepAddPoster:     views.MsgAskPoster,
	stepAddParts:      views.MsgAskParts,
}

func (d *Dispatcher) addTitleStep(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message, st session.State) {
	if st.Title == nil {
		st.Title = &session.TitleDraft{}
	}
	draft := st.Title
	text := strings.TrimSpace(msg.Text)

	if ts, ok := addTextSteps[st.Step]; ok {
		if text == "" {
			d.say(ctx, actor.ChatID, addPromptFor(st.Step), nil)
			return
		}
		ts.set(draft, text)
		st.Step = ts.next
		d.setSession(ctx, actor.UserID, st)
		d.say(ctx, actor.ChatID, ts.ask, nil)
		return
	}

	switch st.Step {
	case stepAddCode:
		if !services.IsCode(text) {
			d.say(ctx, actor.ChatID, views.MsgCodeDigitsOnly, nil)
			return
		}
		draft.Code = text
		st.Step = stepAddTitle
		d.setSession(ctx, actor.UserID, st)
		d.say(ctx, actor.ChatID, views.MsgAskTitle, nil)

	case stepAddTotalParts:
		n, ok := services.ParsePositiveInt(text)
		if !ok {
			d.say(ctx, actor.ChatID, views.MsgPositiveOnly, nil)
			return
		}
		draft.TotalParts = n
		st.Step = stepAddPoster
		d.setSession(ctx, actor.UserID, st)
		d.say(ctx, actor.ChatID, views.MsgAskPoster, nil)

	case stepAddPoster:
		fileID, kind := posterOf(msg)
		if kind == po.PosterNone {
			d.say(ctx, actor.ChatID, views.MsgPosterExpected, nil)
			return
		}
		draft.PosterFileID, draft.PosterType, draft.Caption = fileID, kind, msg.Caption
		st.Step = stepAddParts
		d.setSession(ctx, actor.UserID, st)
		d.say(ctx, actor.ChatID, views.MsgAskParts, nil)

	case stepAddParts:
		if text == views.CommandDone {
			d.saveTitle(ctx, actor, draft)
			return
		}
		fileID, ok := partOf(msg)
		if !ok {
			d.say(ctx, actor.ChatID, views.MsgPartExpected, nil)
			return
		}
		draft.Parts = append(draft.Parts, fileID)
		d.setSession(ctx, actor.UserID, st)
		d.say(ctx, actor.ChatID, views.PartSavedText(len(draft.Parts)), nil)

	default:
		d.clearSession(ctx, actor.UserID)
	}
}

func (d *Dispatcher) saveTitle(ctx context.Context, actor metadata.Actor, draft *session.TitleDraft) {
	if len(draft.Parts) == 0 {
		d.say(ctx, actor.ChatID, views.MsgNoPartsSent, nil)
		return
	}
	if err := d.catalog.CreateTitle(ctx, draft.ToTitle()); err != nil {
		d.fail(ctx, actor, "create title", err)
		return
	}
	d.finishFlow(ctx, actor, views.TitleSavedText(draft.Code))
}

func addPromptFor(step session.Step) string {
	if p, ok := addPrompts[step]; ok {
		return p
	}
	for _, ts := range addTextSteps {
		if ts.next == step {
			return ts.ask
		}
	}
	return views.MsgAskTitle
}

// posterOf 取消息中的图片（最大尺寸）、视频或文件。
func posterOf(msg *tgbotapi.Message) (string, po.PosterKind) {
	switch {
	case len(msg.Photo) > 0:
		return msg.Photo[len(msg.Photo)-1].FileID, po.PosterPhoto
	case msg.Video != nil:
		return msg.Video.FileID, po.PosterVideo
	case msg.Document != nil:
		return msg.Document.FileID, po.PosterDocument
	default:
		return "", po.PosterNone
	}
}

// partOf 取消息中的视频或文件引用。
func partOf(msg *tgbotapi.Message) (string, bool) {
	switch {
	case msg.Video != nil:
		return msg.Video.FileID, true
	case msg.Document != nil:
		return msg.Document.FileID, true
	default:
		return "", false
	}
}

func (d *Dispatcher) editTitleStep(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message, st session.State) {
	text := strings.TrimSpace(msg.Text)
	if st.Step != stepEditCode && st.Edit == nil {
		d.finishFlow(ctx, actor, views.MsgEditSessionLost)
		return
	}
	switch st.Step {
	case stepEditCode:
		title, err := d.catalog.GetTitle(ctx, text)
		switch {
		case errors.Is(err, services.ErrTitleNotFound), errors.Is(err, services.ErrInvalidCode):
			d.say(ctx, actor.ChatID, views.MsgCodeNotFound, nil)
			return
		case err != nil:
			d.fail(ctx, actor, "load title", err)
			return
		}
		st.Step = stepEditMenu
		st.Edit = &session.EditDraft{Code: title.Code}
		d.setSession(ctx, actor.UserID, st)
		d.say(ctx, actor.ChatID, views.EditSummaryText(title.Code, title.Title), views.EditMainKeyboard())

	case stepEditAddParts:
		if text == views.CommandDone {
			if len(st.Edit.NewParts) == 0 {
				d.finishFlow(ctx, actor, views.MsgEditNoNewParts)
				return
			}
			d.flushEditParts(ctx, actor, st)
			return
		}
		fileID, ok := partOf(msg)
		if !ok {
			d.say(ctx, actor.ChatID, views.MsgPartExpected, nil)
			return
		}
		st.Edit.NewParts = append(st.Edit.NewParts, fileID)
		d.setSession(ctx, actor.UserID, st)
		d.say(ctx, actor.ChatID, views.PartQueuedText(len(st.Edit.NewParts)), nil)

	case stepEditDeletePart:
		n, err := services.ParsePartNumber(text)
		if err != nil {
			d.say(ctx, actor.ChatID, views.MsgBadPartNumber, nil)
			return
		}
		_, err = d.catalog.DeletePart(ctx, st.Edit.Code, n)
		switch {
		case err == nil:
			d.finishFlow(ctx, actor, views.PartDeletedText(n))
		case errors.Is(err, services.ErrPartNotFound):
			d.say(ctx, actor.ChatID, views.MsgBadPartNumber, nil)
		case errors.Is(err, services.ErrTitleNotFound):
			d.finishFlow(ctx, actor, views.MsgCodeNotFound)
		default:
			d.fail(ctx, actor, "delete part", err)
		}

	case stepEditFieldValue:
		err := d.catalog.UpdateField(ctx, st.Edit.Code, st.Edit.Field, text)
		switch {
		case err == nil:
			d.finishFlow(ctx, actor, views.MsgFieldSaved)
		case errors.Is(err, services.ErrInvalidField):
			d.say(ctx, actor.ChatID, views.MsgPositiveIntOnly, nil)
		case errors.Is(err, services.ErrTitleNotFound):
			d.finishFlow(ctx, actor, views.MsgCodeNotFound)
		default:
			d.fail(ctx, actor, "update field", err)
		}

	default:
		// 菜单步骤只接受内联按钮
		d.say(ctx, actor.ChatID, views.MsgEditFieldsMenu, nil)
	}
}

func (d *Dispatcher) flushEditParts(ctx context.Context, actor metadata.Actor, st session.State) {
	if _, err := d.catalog.AppendParts(ctx, st.Edit.Code, st.Edit.NewParts); err != nil {
		d.clearSession(ctx, actor.UserID)
		d.fail(ctx, actor, "append parts", err)
		return
	}
	d.finishFlow(ctx, actor, views.PartsAppendedText(len(st.Edit.NewParts)))
}

// editSession 读取编辑向导会话，缺失时提示会话过期。
func (d *Dispatcher) editSession(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery) (session.State, bool) {
	st, ok, err := d.sessions.Get(ctx, actor.UserID)
	if err != nil || !ok || st.Kind != session.KindEditTitle || st.Edit == nil {
		d.answer(ctx, cq, views.MsgEditSessionLost, true)
		return session.State{}, false
	}
	return st, true
}

func (d *Dispatcher) onEditMenu(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, arg string) {
	st, ok := d.editSession(ctx, actor, cq)
	if !ok {
		return
	}
	d.answer(ctx, cq, "", false)
	switch arg {
	case views.EditParts:
		kb := views.EditPartsKeyboard()
		d.edit(ctx, cq.Message, views.MsgEditPartsMenu, &kb)
	case views.EditInfo:
		kb := views.EditFieldsKeyboard()
		d.edit(ctx, cq.Message, views.MsgEditFieldsMenu, &kb)
	case views.EditBackToMain:
		title, err := d.catalog.GetTitle(ctx, st.Edit.Code)
		if err != nil {
			d.fail(ctx, actor, "load title", err)
			return
		}
		st.Step = stepEditMenu
		d.setSession(ctx, actor.UserID, st)
		kb := views.EditMainKeyboard()
		d.edit(ctx, cq.Message, views.EditSummaryText(title.Code, title.Title), &kb)
	}
}

func (d *Dispatcher) onEditParts(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, arg string) {
	st, ok := d.editSession(ctx, actor, cq)
	if !ok {
		return
	}
	d.answer(ctx, cq, "", false)
	switch arg {
	case views.EditPartsAdd:
		st.Step = stepEditAddParts
		st.Edit.NewParts = nil
		d.setSession(ctx, actor.UserID, st)
		d.say(ctx, actor.ChatID, views.MsgEditAddParts, views.ControlKeyboard())
	case views.EditPartsDel:
		st.Step = stepEditDeletePart
		d.setSession(ctx, actor.UserID, st)
		d.say(ctx, actor.ChatID, views.MsgEditAskPartNum, views.ControlKeyboard())
	}
}

func (d *Dispatcher) onEditField(ctx context.Context, actor metadata.Actor, cq *tgbotapi.CallbackQuery, arg string) {
	st, ok := d.editSession(ctx, actor, cq)
	if !ok {
		return
	}
	field := po.TitleField(arg)
	if !field.Valid() {
		d.answer(ctx, cq, views.MsgBadPayload, true)
		return
	}
	d.answer(ctx, cq, "", false)
	st.Step = stepEditFieldValue
	st.Edit.Field = field
	d.setSession(ctx, actor.UserID, st)
	d.say(ctx, actor.ChatID, views.FieldPromptText(field), views.ControlKeyboard())
}

func (d *Dispatcher) deleteTitleStep(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message) {
	code := strings.TrimSpace(msg.Text)
	if !services.IsCode(code) {
		d.say(ctx, actor.ChatID, views.MsgDeleteBadFormat, nil)
		return
	}
	removed, err := d.catalog.DeleteTitle(ctx, code)
	if err != nil {
		d.fail(ctx, actor, "delete title", err)
		return
	}
	d.finishFlow(ctx, actor, views.TitleDeletedText(code, removed))
}

func (d *Dispatcher) codeStatsStep(ctx context.Context, actor metadata.Actor, msg *tgbotapi.Message) {
	stats, err := d.catalog.CodeStats(ctx, msg.Text)
	switch {
	case errors.Is(err, services.ErrStatsNotFound):
		d.say(ctx, actor.ChatID, views.MsgStatsNotFound, nil)
	case err != nil:
		d.fail(ctx, actor, "code stats", err)
	default:
		d.finishFlow(ctx, actor, views.CodeStatsText(stats))
	}
}

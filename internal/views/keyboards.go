package views

import (
	"fmt"
	"net/url"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
)

// 回调数据前缀
const (
	CbCheckSub      = "checksub:"
	CbCheckPartSub  = "check_part_sub:"
	CbShowAnime     = "show_anime:"
	CbPartDownload  = "part_download:"
	CbBotToggle     = "bot_toggle:"
	CbBotStatusBack = "bot_status_back"
	CbReplyUser     = "reply_user:"
	CbChannelType   = "channel_type:"
	CbChannelAction = "action:"
	CbChannelMode   = "chan_mode:"
	CbDeleteChannel = "del_ch:"
	CbEdit          = "edit:"
	CbEditParts     = "edit_parts:"
	CbEditField     = "edit_field:"
)

// 频道管理动作
const (
	ActionAdd    = "add"
	ActionList   = "list"
	ActionDelete = "delete"
	ActionBack   = "back"
)

// 编辑向导动作
const (
	EditParts      = "parts"
	EditInfo       = "info"
	EditBackToMain = "back_to_main"
	EditPartsAdd   = "add"
	EditPartsDel   = "delete"
)

// PartButtonsPerRow 是单集按钮每行数量。
const PartButtonsPerRow = 5

// UserMenu 是普通用户的常驻键盘。
func UserMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnSearch)),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnAllTitles),
			tgbotapi.NewKeyboardButton(BtnContactAdmin),
		),
	)
}

// AdminMenu 是管理员面板键盘。
func AdminMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnChannels),
			tgbotapi.NewKeyboardButton(BtnDeleteCode),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnAddTitle),
			tgbotapi.NewKeyboardButton(BtnEditCode),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnCodeList),
			tgbotapi.NewKeyboardButton(BtnCodeStats),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnStats),
			tgbotapi.NewKeyboardButton(BtnAdmins),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnBroadcast),
			tgbotapi.NewKeyboardButton(BtnPost),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnPartPost),
			tgbotapi.NewKeyboardButton(BtnBotStatus),
		),
	)
}

// AdminsMenu 是管理员管理子菜单。
func AdminsMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnAddAdmin),
			tgbotapi.NewKeyboardButton(BtnRemoveAdmin),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnListAdmins),
			tgbotapi.NewKeyboardButton(BtnBack),
		),
	)
}

// ControlKeyboard 在管理员向导中提供退出入口。
func ControlKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnControl)))
}

// CancelKeyboard 在用户输入流程中提供退出入口。
func CancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnCancel)))
}

// BroadcastTypeKeyboard 选择群发来源。
func BroadcastTypeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnBroadcastForward),
			tgbotapi.NewKeyboardButton(BtnBroadcastCopy),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnControl)),
	)
}

// SubscribeKeyboard 为每个未满足的频道生成链接按钮，末行是复查按钮。
func SubscribeKeyboard(channels []po.Channel, checkLabel, checkData string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(channels)+1)
	for _, ch := range channels {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("➕ "+ch.Title, ch.Link),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(checkLabel, checkData),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// CheckSubData 构造标题闸门的复查回调。
func CheckSubData(code string) string { return CbCheckSub + code }

// CheckPartSubData 构造单集闸门的复查回调。
func CheckPartSubData(code string, n int) string {
	return fmt.Sprintf("%s%s_%d", CbCheckPartSub, code, n)
}

// PartDownloadData 构造单集下载回调。
func PartDownloadData(code string, n int) string {
	return fmt.Sprintf("%s%s:%d", CbPartDownload, code, n)
}

// PartButtons 生成 1..count 的单集按钮，count 为 0 时返回 false。
func PartButtons(code string, count int) (tgbotapi.InlineKeyboardMarkup, bool) {
	if count <= 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for n := 1; n <= count; n++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(n), PartDownloadData(code, n)))
		if len(row) == PartButtonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

// SearchResultsKeyboard 每个结果一行。
func SearchResultsKeyboard(items []po.TitleSummary) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, it := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(it.Title, CbShowAnime+it.Code),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// BotStatusKeyboard 提供开关按钮与返回。
func BotStatusKeyboard(enabled bool) tgbotapi.InlineKeyboardMarkup {
	toggle := tgbotapi.NewInlineKeyboardButtonData("🟢 Yoqish", CbBotToggle+"on")
	if enabled {
		toggle = tgbotapi.NewInlineKeyboardButtonData("🔴 O'chirish", CbBotToggle+"off")
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(toggle),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Orqaga", CbBotStatusBack)),
	)
}

// ReplyUserKeyboard 附在转发给管理员的留言下。
func ReplyUserKeyboard(userID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(BtnReply, CbReplyUser+strconv.FormatInt(userID, 10)),
	))
}

// ChannelKindKeyboard 选择频道类型。
func ChannelKindKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔗 Majburiy obuna", CbChannelType+string(po.ChannelSub))),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📌 Asosiy kanallar", CbChannelType+string(po.ChannelMain))),
	)
}

// ChannelActionKeyboard 是某类型频道的操作菜单。
func ChannelActionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Kanal qo‘shish", CbChannelAction+ActionAdd)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📋 Kanal ro‘yxati", CbChannelAction+ActionList)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Kanal o‘chirish", CbChannelAction+ActionDelete)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Orqaga", CbChannelAction+ActionBack)),
	)
}

// ChannelModeKeyboard 选择访问模式。
func ChannelModeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(ModeLabel(po.ModeOpen), CbChannelMode+string(po.ModeOpen)),
		tgbotapi.NewInlineKeyboardButtonData(ModeLabel(po.ModeRequest), CbChannelMode+string(po.ModeRequest)),
	))
}

// ChannelDeleteKeyboard 每个频道一个删除按钮。
func ChannelDeleteKeyboard(channels []po.Channel) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(channels)+1)
	for _, ch := range channels {
		label := fmt.Sprintf("❌ %s (%d)", ch.Title, ch.ChannelID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, CbDeleteChannel+strconv.FormatInt(ch.ChannelID, 10)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Orqaga", CbChannelAction+ActionBack)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// EditMainKeyboard 是编辑向导入口菜单。
func EditMainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎞 Qismlarni tahrirlash", CbEdit+EditParts)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📝 Ma'lumotlarni tahrirlash", CbEdit+EditInfo)),
	)
}

// EditPartsKeyboard 选择追加或删除集。
func EditPartsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Qism qo‘shish", CbEditParts+EditPartsAdd),
			tgbotapi.NewInlineKeyboardButtonData("❌ Qism o‘chirish", CbEditParts+EditPartsDel),
		),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Orqaga", CbEdit+EditBackToMain)),
	)
}

// EditFieldsKeyboard 每个可编辑字段一行。
func EditFieldsKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(po.EditableFields)+1)
	for _, f := range po.EditableFields {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ "+FieldLabel(f), CbEditField+string(f)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Orqaga", CbEdit+EditBackToMain)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// DownloadKeyboard 是频道帖的深链按钮。
func DownloadKeyboard(link string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonURL(BtnDownload, link),
	))
}

// DeepLink 构造 https://t.me/<bot>?start=<payload>。
func DeepLink(botUsername, payload string) string {
	u := url.URL{Scheme: "https", Host: "t.me", Path: "/" + botUsername}
	u.RawQuery = url.Values{"start": {payload}}.Encode()
	return u.String()
}

// PartPayload 构造单集深链参数。
func PartPayload(code string, n int) string {
	return fmt.Sprintf("part_%s_%d", code, n)
}

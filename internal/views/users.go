package views

import (
	"fmt"
	"html"
	"strings"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
)

// ContactText 是转发给管理员的用户留言。
func ContactText(fullName string, userID int64, text string) string {
	return fmt.Sprintf("📩 <b>Yangi xabar:</b>\n\n<b>👤 Foydalanuvchi:</b> %s | <code>%d</code>\n<b>💬 Xabar:</b> %s",
		html.EscapeString(fullName), userID, html.EscapeString(text))
}

// AdminReplyText 是管理员回复用户的文本。
func AdminReplyText(text string) string {
	return "✉️ Admindan javob:\n\n" + html.EscapeString(text)
}

// AdminListText 渲染管理员列表。
func AdminListText(ids []int64) string {
	var b strings.Builder
	b.WriteString("👥 Adminlar:\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "\n• <code>%d</code>", id)
	}
	return b.String()
}

// AdminAddedText 确认新增管理员。
func AdminAddedText(id int64) string {
	return fmt.Sprintf("✅ %d admin qilindi.", id)
}

// AdminRemovedText 确认移除管理员。
func AdminRemovedText(id int64) string {
	return fmt.Sprintf("✅ %d o'chirildi.", id)
}

// BotStatusText 渲染机器人开关状态。
func BotStatusText(enabled bool) string {
	state := "🔴 O'chirilgan"
	if enabled {
		state = "🟢 Yoqilgan"
	}
	return "🤖 Bot holati: <b>" + state + "</b>"
}

// ModeLabel 是频道访问模式的显示名。
func ModeLabel(mode po.AccessMode) string {
	if mode == po.ModeRequest {
		return "So'rovli 🔵"
	}
	return "Ochiq 🟢"
}

// ChannelKindMenuText 返回类型子菜单标题。
func ChannelKindMenuText(kind po.ChannelKind) string {
	if kind == po.ChannelMain {
		return MsgMainChannelsMenu
	}
	return MsgSubChannelsMenu
}

// ChannelIDPromptText 在选择模式后询问频道 ID。
func ChannelIDPromptText(mode po.AccessMode) string {
	return fmt.Sprintf("Kanal rejimi: %s\n🆔 Kanal ID yuboring (masalan: -1001234567890):", ModeLabel(mode))
}

// ChannelLinkPromptText 询问频道链接，username 为空时使用占位。
func ChannelLinkPromptText(username string) string {
	if username == "" {
		username = "kanal_nomi"
	}
	return fmt.Sprintf("🔗 Kanal linkini yuboring (masalan: https://t.me/%s):", html.EscapeString(username))
}

// ChannelSavedText 确认频道保存。
func ChannelSavedText(mode po.AccessMode) string {
	return fmt.Sprintf("✅ Kanal (%s) muvaffaqiyatli saqlandi!", ModeLabel(mode))
}

// ChannelListText 渲染某类型下的频道列表。
func ChannelListText(kind po.ChannelKind, channels []po.Channel) string {
	if len(channels) == 0 {
		return MsgNoChannels
	}
	var b strings.Builder
	if kind == po.ChannelMain {
		b.WriteString("📌 Asosiy kanallar:\n\n")
	} else {
		b.WriteString("📋 Majburiy obuna kanallari:\n\n")
	}
	for i, ch := range channels {
		fmt.Fprintf(&b, "%d. %s (%s)\n   🆔 %d\n   🔗 %s\n", i+1,
			html.EscapeString(ch.Title), ModeLabel(ch.Mode), ch.ChannelID, html.EscapeString(ch.Link))
	}
	return strings.TrimRight(b.String(), "\n")
}

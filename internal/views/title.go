package views

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf16"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/vo"
)

const (
	captionRule = "──────────────────────"
	emptyValue  = "—"

	// UserListChunk 与 AdminListChunk 是代码列表每条消息的最大行数。
	UserListChunk  = 100
	AdminListChunk = 50

	// MaxMessageLen 是单条文本消息的长度上限。
	MaxMessageLen = 4096
)

// PromoCaption 渲染宣传帖文本（含浏览次数），HTML 格式。
func PromoCaption(card *vo.TitleCard) string {
	var b strings.Builder
	writeCardBody(&b, card)
	b.WriteString(captionRule + "\n")
	fmt.Fprintf(&b, "🔍 Ko'rishlar soni: %d", card.Views)
	return b.String()
}

// ChannelPostCaption 渲染发往主频道的宣传帖，不含浏览次数。
func ChannelPostCaption(card *vo.TitleCard) string {
	var b strings.Builder
	writeCardBody(&b, card)
	b.WriteString(captionRule)
	return b.String()
}

func writeCardBody(b *strings.Builder, card *vo.TitleCard) {
	fmt.Fprintf(b, "<b>%s</b>\n", html.EscapeString(card.Title))
	b.WriteString(captionRule + "\n")
	fmt.Fprintf(b, "➤ Mavsum: %s\n", orDash(card.Season))
	fmt.Fprintf(b, "➤ Qismlar: %d\n", card.PartCount)
	fmt.Fprintf(b, "➤ Sifati: %s\n", orDash(card.Quality))
	fmt.Fprintf(b, "➤ Ovoz berdi: %s\n", orDash(card.DubbedBy))
	fmt.Fprintf(b, "➤ Kanal: %s\n", orDash(card.ChannelName))
	fmt.Fprintf(b, "➤ Janri: %s\n", orDash(strings.Join(strings.Fields(card.Genre), ", ")))
}

func orDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return emptyValue
	}
	return html.EscapeString(v)
}

// CodeListChunks 把目录按块渲染为多条消息，空目录返回 nil。
// 每块同时受行数与 MaxMessageLen 约束。
func CodeListChunks(items []po.TitleSummary, admin bool) []string {
	if len(items) == 0 {
		return nil
	}
	size, header, line := UserListChunk, "📄 <b>Barcha animelar:</b>\n\n", "<code>%s</code> – <b>%s</b>\n"
	if admin {
		size, header, line = AdminListChunk, "", "<code>%s</code> – <i>%s</i>\n"
	}
	var (
		out   []string
		b     strings.Builder
		rows  int
		width int
	)
	flush := func() {
		if rows == 0 {
			return
		}
		out = append(out, strings.TrimRight(b.String(), "\n"))
		b.Reset()
		rows, width = 0, 0
	}
	b.WriteString(header)
	width = messageLen(header)
	for _, it := range items {
		row := fmt.Sprintf(line, html.EscapeString(it.Code), html.EscapeString(it.Title))
		n := messageLen(row)
		if rows == size || (rows > 0 && width+n > MaxMessageLen) {
			flush()
		}
		b.WriteString(row)
		rows++
		width += n
	}
	flush()
	return out
}

// messageLen 按 Telegram 的计数方式（UTF-16 码元）返回文本长度。
func messageLen(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// PartLoadingText 是按钮下载时的进度提示。
func PartLoadingText(n int) string {
	return fmt.Sprintf("⏳ %d-qism yuborilmoqda...", n)
}

// TitleSavedText 确认新作品入库。
func TitleSavedText(code string) string {
	return fmt.Sprintf("✅ Anime saqlandi!\n📌 Kod: <b>%s</b>", html.EscapeString(code))
}

// PartSavedText 确认收到一集。
func PartSavedText(total int) string {
	return fmt.Sprintf("✅ Qism saqlandi. Jami: %d ta.", total)
}

// PartQueuedText 确认编辑向导暂存了一集。
func PartQueuedText(total int) string {
	return fmt.Sprintf("✅ Qism qo‘shildi. Jami: %d ta.", total)
}

// PartsAppendedText 确认编辑向导追加的集数。
func PartsAppendedText(n int) string {
	return fmt.Sprintf("✅ %d ta qism qo‘shildi.", n)
}

// PartDeletedText 确认删除第 n 集。
func PartDeletedText(n int) string {
	return fmt.Sprintf("✅ %d-qism o‘chirildi.", n)
}

// EditSummaryText 是编辑向导入口。
func EditSummaryText(code, title string) string {
	return fmt.Sprintf("🔎 Kod: %s\n📌 Nomi: %s\nNima qilmoqchisiz?", html.EscapeString(code), html.EscapeString(title))
}

// FieldPromptText 提示输入新值。
func FieldPromptText(field po.TitleField) string {
	return fmt.Sprintf("📝 %s uchun yangi qiymat kiriting:", FieldLabel(field))
}

// FieldLabel 返回可编辑字段的显示名。
func FieldLabel(field po.TitleField) string {
	switch field {
	case po.FieldTitle:
		return "Nomi"
	case po.FieldGenre:
		return "Janr"
	case po.FieldSeason:
		return "Mavsum"
	case po.FieldQuality:
		return "Sifati"
	case po.FieldChannelName:
		return "Kanal nomi"
	case po.FieldDubbedBy:
		return "Ovoz bergan"
	case po.FieldTotalParts:
		return "Qismlar soni"
	default:
		return string(field)
	}
}

// TitleDeletedText 报告删除结果。
func TitleDeletedText(code string, removed bool) string {
	if !removed {
		return MsgTitleNotFound
	}
	return fmt.Sprintf("✅ Kod %s o‘chirildi.", html.EscapeString(code))
}

// CodeStatsText 渲染单个代码的计数。
func CodeStatsText(s *vo.CodeStats) string {
	return fmt.Sprintf("📊 <b>%s statistikasi:</b>\n🔍 Qidirilgan: <b>%d</b>\n👁 Ko‘rilgan: <b>%d</b>",
		html.EscapeString(s.Code), s.Searched, s.Viewed)
}

// GlobalStatsText 渲染管理员统计面板。
func GlobalStatsText(s *vo.GlobalStats) string {
	return fmt.Sprintf("⚡️ <b>Ulanish tezligi:</b> %.2f ms\n👥 <b>Jami foydalanuvchilar:</b> %d ta\n📅 <b>Bugun qo'shilganlar:</b> %d ta\n📂 <b>Baza hajmi:</b> %d ta anime",
		s.PingMillis, s.TotalUsers, s.TodayUsers, s.CatalogSize)
}

// PostTitleResultText 汇总发帖结果。
func PostTitleResultText(ok, failed int) string {
	return fmt.Sprintf("✅ Post yuborildi.\n✅ Muvaffaqiyatli: %d\n❌ Xatolik: %d", ok, failed)
}

// PartPostIntroText 询问要发布的集数。
func PartPostIntroText(title string, total int) string {
	return fmt.Sprintf("✅ %s (jami %d qism).\nNechinchi qismni post qilmoqchisiz?", html.EscapeString(title), total)
}

// PartPostText 是发往频道的单集帖文本。
func PartPostText(title string, n int) string {
	return fmt.Sprintf("🎬 Anime: %s\n✨ Qism: %d-qism", html.EscapeString(title), n)
}

// ErrorText 把底层错误渲染给管理员。
func ErrorText(err error) string {
	return "❌ Xatolik: " + html.EscapeString(err.Error())
}

// Package views 把业务视图对象渲染为 Telegram 消息文本与键盘（乌兹别克语界面）。
package views

// 用户菜单按钮
const (
	BtnSearch       = "🔍 Anime qidirish"
	BtnAllTitles    = "🎞 Barcha animelar"
	BtnContactAdmin = "✉️ Admin bilan bog‘lanish"
)

// 管理员菜单按钮
const (
	BtnChannels   = "📡 Kanal boshqaruvi"
	BtnDeleteCode = "❌ Kodni o‘chirish"
	BtnAddTitle   = "➕ Anime qo‘shish"
	BtnEditCode   = "✏️ Kodni tahrirlash"
	BtnCodeList   = "📄 Kodlar ro‘yxati"
	BtnCodeStats  = "📈 Kod statistikasi"
	BtnStats      = "📊 Statistika"
	BtnAdmins     = "👥 Adminlar"
	BtnBroadcast  = "📢 Habar yuborish"
	BtnPost       = "📤 Post qilish"
	BtnPartPost   = "🎞 Qism post qilish"
	BtnBotStatus  = "🤖 Bot holati"

	BtnAddAdmin    = "➕ Admin qo‘shish"
	BtnRemoveAdmin = "➖ Admin o‘chirish"
	BtnListAdmins  = "👥 Adminlar ro‘yxati"

	BtnBroadcastForward = "📣 Kanaldan yuborish"
	BtnBroadcastCopy    = "📰 Oddiy xabar"
)

// 取消类输入：任意状态下都会清空会话并回到顶层菜单。
const (
	BtnControl = "📡 Boshqarish"
	BtnBack    = "⬅️ Ortga"
	BtnCancel  = "❌ Bekor qilish"
)

// CommandDone 结束多文件上传。
const CommandDone = "/done"

// IsCancel 报告文本是否为取消类输入。
func IsCancel(text string) bool {
	return text == BtnControl || text == BtnBack || text == BtnCancel
}

var userMenuButtons = map[string]struct{}{
	BtnSearch: {}, BtnAllTitles: {}, BtnContactAdmin: {},
}

var adminMenuButtons = map[string]struct{}{
	BtnChannels: {}, BtnDeleteCode: {}, BtnAddTitle: {}, BtnEditCode: {},
	BtnCodeList: {}, BtnCodeStats: {}, BtnStats: {}, BtnAdmins: {},
	BtnBroadcast: {}, BtnPost: {}, BtnPartPost: {}, BtnBotStatus: {},
	BtnAddAdmin: {}, BtnRemoveAdmin: {}, BtnListAdmins: {},
}

// IsMenuButton 报告文本是否为调用者可见的顶层菜单按钮。菜单按钮不会作为向导输入。
func IsMenuButton(text string, admin bool) bool {
	if _, ok := userMenuButtons[text]; ok {
		return true
	}
	if !admin {
		return false
	}
	_, ok := adminMenuButtons[text]
	return ok
}

// 通用提示
const (
	MsgStart          = "✨"
	MsgAdminPanel     = "👮 Admin panel:"
	MsgUserPanel      = "🏠 Asosiy menyuga qaytdingiz."
	MsgBotDisabled    = "📴 Bot hozircha o'chirilgan."
	MsgGenericError   = "❌ Xatolik yuz berdi. Keyinroq urinib ko‘ring."
	MsgTitleNotFound  = "❌ Kod topilmadi."
	MsgAnimeNotFound  = "❌ Anime topilmadi."
	MsgPartNotFound   = "❌ So‘ralgan qism mavjud emas."
	MsgBadPayload     = "❌ Ma'lumotda xatolik."
	MsgBadLink        = "❌ Havola noto'g'ri."
	MsgPartLoading    = "⏳ Qism yuklanmoqda, iltimos kuting..."
	MsgPartMissing    = "❌ Bu qism mavjud emas."
	MsgFileSendFailed = "❌ Fayl yuborishda xatolik."
	MsgYourPanel      = "Sizning panelingiz:"
	MsgPartSendFailed = "❌ Faylni yuborishda xatolik. Botni bloklamaganingizga ishonch hosil qiling."
	MsgPostSendFailed = "❌ Post yuborishda xatolik yuz berdi. Adminlarga xabar bering."
	MsgNoPermission   = "🚫 Sizga ruxsat yo‘q."
)

// 订阅闸门
const (
	MsgSubscribeForTitle = "❗ Anime olishdan oldin quyidagi kanal(lar)ga obuna bo‘ling:"
	MsgSubscribeForPart  = "🛑 Davom etish uchun quyidagi kanallarga obuna bo‘lishingiz shart:"
	MsgStillMissing      = "❗ Hali ham obuna bo‘lmagan kanal(lar):"
	MsgNotSubscribed     = "Obuna bo'lmagansiz!"
	MsgNotSubscribedPart = "❌ Hali obuna bo‘lmadingiz. Kanallarga a’zo bo‘lib, qayta urinib ko‘ring."
	MsgSubscribed        = "Obuna tasdiqlandi! Anime Kodini yuboring!"
	MsgSubscribedPart    = "✅ Obuna muvaffaqiyatli tekshirildi."
	BtnCheck             = "✅ Tekshirish"
	BtnCheckAgain        = "✅ Yana tekshirish"
)

// 搜索与列表
const (
	MsgSearchPrompt  = "🔍 Qidirish uchun anime nomini yozing:"
	MsgSearchEmpty   = "❗ Iltimos, qidiruv so‘rovini kiriting."
	MsgSearchNothing = "❌ Hech narsa topilmadi."
	MsgSearchResults = "🔎 <b>Topilgan animelar:</b>"
	MsgNoTitlesUser  = "⛔️ Hozircha animelar yoʻq."
	MsgNoTitlesAdmin = "Ba'zada hech qanday kodlar yo'q!"
)

// 联系管理员
const (
	MsgContactPrompt = "✍️ Adminlarga yubormoqchi bo‘lgan xabaringizni yozing.\n\n❌ Bekor qilish tugmasini bosing agar ortga qaytmoqchi bo‘lsangiz."
	MsgContactSent   = "✅ Xabaringiz yuborildi. Tez orada admin siz bilan bog‘lanadi."
	MsgReplyPrompt   = "✍️ Endi foydalanuvchiga yubormoqchi bo‘lgan xabaringizni yozing."
	MsgReplySent     = "✅ Javob foydalanuvchiga yuborildi."
	BtnReply         = "✉️ Javob yozish"
)

// 录入向导
const (
	MsgAskCode        = "📝 Kodni kiriting (faqat raqam):"
	MsgCodeDigitsOnly = "❗ Faqat raqam kiriting (masalan: 12345)."
	MsgAskTitle       = "📝 Anime nomini kiriting:"
	MsgAskGenre       = "🎭 Janrini kiriting:"
	MsgAskSeason      = "📺 Sezonni kiriting:"
	MsgAskQuality     = "🎬 Sifatini kiriting:"
	MsgAskChannelName = "📡 Kanal nomini kiriting:"
	MsgAskDubbedBy    = "🎙 Ovoz berganini kiriting:"
	MsgAskTotalParts  = "🔢 Umumiy qismlar sonini kiriting:"
	MsgPositiveOnly   = "❗ Faqat musbat son kiriting."
	MsgAskPoster      = "📸 Reklama postini yuboring (rasm/video/file):"
	MsgPosterExpected = "❗ Rasm, video yoki fayl yuboring."
	MsgAskParts       = "📥 Endi qismlarni yuboring. Oxirida /done yuboring."
	MsgPartExpected   = "❗ Video yoki fayl yuboring, tugatganda /done yozing."
	MsgNoPartsSent    = "❗ Hech qanday qism yuborilmadi!"
)

// 编辑向导
const (
	MsgEditAskCode     = "📝 Qaysi anime KODini tahrirlamoqchisiz?"
	MsgCodeNotFound    = "❌ Bunday kod topilmadi."
	MsgEditPartsMenu   = "🎞 Qaysi amalni bajarmoqchisiz?"
	MsgEditFieldsMenu  = "📝 Qaysi maydonni tahrirlamoqchisiz?"
	MsgEditAddParts    = "🎞 Yangi qism(lar)ni yuboring. Bir yoki bir nechta fayl yuborishingiz mumkin:\n\n⚠️ Tugatganda /done yozing yoki '📡 Boshqarish' tugmasini bosing."
	MsgEditNoNewParts  = "❗ Hech qanday qism qo‘shilmadi."
	MsgEditAskPartNum  = "🔢 O‘chirmoqchi bo‘lgan qism raqamini yozing:"
	MsgBadPartNumber   = "❌ Noto‘g‘ri qism raqami."
	MsgFieldSaved      = "✅ Ma’lumot muvaffaqiyatli yangilandi."
	MsgPositiveIntOnly = "❗ Faqat musbat butun son kiriting."
	MsgEditSessionLost = "❗ Sessiya tugadi. Qaytadan boshlang."
)

// 删除与统计
const (
	MsgDeleteAskCode   = "🗑 Qaysi kodni o‘chirmoqchisiz? Kodni yuboring."
	MsgDeleteBadFormat = "❗ Noto‘g‘ri format. Kod raqamini yuboring."
	MsgStatsAskCode    = "📥 Kod raqamini yuboring:"
	MsgStatsNotFound   = "❗ Bunday kod statistikasi topilmadi."
)

// 频道管理
const (
	MsgChannelKindMenu   = "📡 Qaysi kanal turini boshqarasiz?"
	MsgSubChannelsMenu   = "📡 Majburiy obuna kanallari menyusi:"
	MsgMainChannelsMenu  = "📌 Asosiy kanallar menyusi:"
	MsgChooseKindFirst   = "❗ Xatolik: Avval kanal turini tanlang."
	MsgChannelModeMenu   = "Kanal ish rejimini tanlang:"
	MsgNoChannels        = "📭 Hali kanal yo‘q."
	MsgChannelDeleteMenu = "❌ Qaysi kanalni o‘chirmoqchisiz?"
	MsgChannelDeleted    = "✅ Kanal o‘chirildi!"
	MsgBadChannelID      = "❗ Noto‘g‘ri ID. Faqat raqam yuboring."
	MsgBotNotAdmin       = "❗ Bot ushbu kanalda admin emas!"
	MsgChatUnavailable   = "❗ Kanal topilmadi yoki bot unga qo‘shilmagan."
	MsgFullLink          = "❗ To‘liq link yuboring."
)

// 管理员管理
const (
	MsgAdminsMenu      = "👥 Adminlarni boshqarish menyusi:"
	MsgAskNewAdmin     = "Yangi adminning Telegram ID raqamini yuboring:"
	MsgAskRemoveAdmin  = "O'chirish uchun admin ID raqamini yuboring:"
	MsgIDDigitsOnly    = "❗ Faqat raqam (ID) yuboring."
	MsgAdminIDNotFound = "❌ ID topilmadi."
	MsgLastAdmin       = "❗ Oxirgi adminni o‘chirib bo‘lmaydi."
)

// 群发与发帖
const (
	MsgBroadcastType    = "Qanday turdagi xabar yubormoqchisiz?"
	MsgBroadcastBadType = "❗ Noto'g'ri tanlov."
	MsgForwardFormat    = "📨 <b>Kanaldan yuborish</b> uchun format:\n<code>@kanal_username xabar_id</code>\n\nMasalan: <code>@kanalim 123</code>"
	MsgForwardBadFormat = "❗ Format noto'g'ri. Masalan: <code>@kanalim 123</code>"
	MsgForwardBadMsgID  = "❗ Xabar ID raqam bo'lishi kerak."
	MsgCopyPrompt       = "📨 <b>Oddiy xabar</b> (rasm, matn, video,...) yuboring.\nBu xabar foydalanuvchilarga nusxa sifatida yuboriladi."
	MsgPostAskCode      = "📌 Qaysi animeni post qilmoqchisiz? Kodni yuboring:"
	MsgPostDigitsOnly   = "❌ Kod faqat raqamlardan iborat bo‘lishi kerak."
	MsgNoMainChannels   = "❌ Hech qanday asosiy kanal topilmadi."
	MsgPartPostAskCode  = "📌 Qaysi animeni qismini post qilmoqchisiz? Kodni yuboring:"
	MsgPartPostAskChan  = "📌 Kanal username yuboring (@username):"
	MsgPartPostSent     = "✅ Post kanalga yuborildi."
	BtnDownload         = "✨Yuklab olish✨"
	MsgBotEnabledToast  = "✅ Bot yoqildi!"
	MsgBotDisabledToast = "📴 Bot o'chirildi!"
)

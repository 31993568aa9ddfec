package views

import "fmt"

// BroadcastStartedText 是群发开始时发给管理员的进度消息。
func BroadcastStartedText(total int) string {
	return fmt.Sprintf("⏳ <b>Boshlandi!</b> Jami %d ta foydalanuvchiga yuborish.", total)
}

// BroadcastProgressText 在每批结束后更新进度。
func BroadcastProgressText(total, success, failed, remaining int) string {
	return fmt.Sprintf("📤 Yuborilmoqda...\n\n👥 Jami: %d\n✅ Yuborildi: %d\n❌ Xatolik: %d\n⏳ Kutilmoqda: %d",
		total, success, failed, remaining)
}

// BroadcastDoneText 是最终汇总。
func BroadcastDoneText(total, success, failed int) string {
	return fmt.Sprintf("✅ <b>Yuborish tugadi!</b>\nJami foydalanuvchilar: %d\nMuvaffaqiyatli: %d\nXato: %d",
		total, success, failed)
}

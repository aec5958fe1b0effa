package tgbot

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cutspace_v1_202509/internal/config"
	"cutspace_v1_202509/internal/model"
	"cutspace_v1_202509/internal/repository"
	"cutspace_v1_202509/internal/service"
)

// ==================== Bot Telegram 机器人 ====================

// Bot Telegram 机器人
// 两个职责：响应用户命令、推送预约事件通知
type Bot struct {
	cfg         *config.Config
	api         *tgbotapi.BotAPI
	userRepo    repository.UserRepository
	shopRepo    repository.BarbershopRepository
	bookingRepo repository.BookingRepository

	cancel context.CancelFunc
}

// New 创建机器人，token 未配置时返回 nil（通知与命令静默关闭）
func New(cfg *config.Config,
	userRepo repository.UserRepository,
	shopRepo repository.BarbershopRepository,
	bookingRepo repository.BookingRepository) (*Bot, error) {
	if cfg.BotToken == "" {
		log.Println("[Bot] 未配置 BOT_TOKEN，机器人已禁用")
		return nil, nil
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("初始化 Telegram Bot 失败: %w", err)
	}
	api.Debug = false

	return &Bot{
		cfg:         cfg,
		api:         api,
		userRepo:    userRepo,
		shopRepo:    shopRepo,
		bookingRepo: bookingRepo,
	}, nil
}

// ==================== 生命周期管理 ====================

// Start 启动长轮询
func (b *Bot) Start() {
	if b == nil || b.api == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				b.handleUpdate(ctx, upd)
			}
		}
	}()

	log.Printf("[Bot] @%s 已启动", b.api.Self.UserName)
}

// Stop 停止长轮询
func (b *Bot) Stop() {
	if b == nil || b.api == nil {
		return
	}
	if b.cancel != nil {
		b.cancel()
	}
	b.api.StopReceivingUpdates()
	log.Println("[Bot] 已停止")
}

// ==================== 命令处理 ====================

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil || !msg.IsCommand() {
		return
	}

	switch msg.Command() {
	case "start":
		b.onStart(msg)
	case "help":
		b.onHelp(msg)
	case "shops":
		b.onShops(ctx, msg)
	case "mybookings":
		b.onMyBookings(ctx, msg)
	default:
		// 未知命令不响应
	}
}

func (b *Bot) onStart(msg *tgbotapi.Message) {
	text := fmt.Sprintf(
		"Salom, %s! 💈\n\nCutSpace — sartaroshxonaga onlayn yozilish xizmati.\nQuyidagi tugma orqali ilovani oching.",
		msg.From.FirstName,
	)

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	if b.cfg.WebAppURL != "" {
		reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.InlineKeyboardButton{
					Text:   "💈 Ilovani ochish",
					WebApp: &tgbotapi.WebAppInfo{URL: b.cfg.WebAppURL},
				},
			),
		)
	}
	b.send(reply)
}

func (b *Bot) onHelp(msg *tgbotapi.Message) {
	text := "Buyruqlar:\n" +
		"/start — ilovani ochish\n" +
		"/shops — sartaroshxonalar ro'yxati\n" +
		"/mybookings — mening yozilishlarim\n" +
		"/help — yordam"
	b.send(tgbotapi.NewMessage(msg.Chat.ID, text))
}

func (b *Bot) onShops(ctx context.Context, msg *tgbotapi.Message) {
	shops, _, err := b.shopRepo.List(ctx, repository.BarbershopFilter{Page: 1, PageSize: 10})
	if err != nil {
		log.Printf("[Bot] 店铺列表查询失败: %v", err)
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Xatolik yuz berdi, keyinroq urinib ko'ring."))
		return
	}
	if len(shops) == 0 {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Hozircha sartaroshxonalar yo'q."))
		return
	}

	var sb strings.Builder
	sb.WriteString("💈 Sartaroshxonalar:\n\n")
	for _, shop := range shops {
		sb.WriteString(fmt.Sprintf("• %s — ⭐ %.1f (%d ta sharh)\n", shop.Name, shop.Rating, shop.ReviewCount))
		if shop.Address != "" {
			sb.WriteString(fmt.Sprintf("  📍 %s\n", shop.Address))
		}
	}
	b.send(tgbotapi.NewMessage(msg.Chat.ID, sb.String()))
}

func (b *Bot) onMyBookings(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.userRepo.GetByTelegramID(ctx, int64(msg.From.ID))
	if err != nil || user == nil {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Avval ilova orqali kiring: /start"))
		return
	}

	bookings, _, err := b.bookingRepo.ListByUser(ctx, user.ID, 1, 10)
	if err != nil {
		log.Printf("[Bot] 预约列表查询失败: %v", err)
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Xatolik yuz berdi, keyinroq urinib ko'ring."))
		return
	}
	if len(bookings) == 0 {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Sizda hali yozilishlar yo'q."))
		return
	}

	var sb strings.Builder
	sb.WriteString("📅 Mening yozilishlarim:\n\n")
	for _, booking := range bookings {
		sb.WriteString(fmt.Sprintf("• %s — %s\n  %s %s\n",
			shopName(&booking),
			booking.Service,
			booking.BookingAt.Format("02.01.2006 15:04"),
			statusLabel(booking.Status),
		))
	}
	b.send(tgbotapi.NewMessage(msg.Chat.ID, sb.String()))
}

// ==================== 预约事件通知 ====================

// NotifyNewBooking 新预约推送到管理群
func (b *Bot) NotifyNewBooking(booking *model.Booking) {
	if b == nil || b.api == nil || b.cfg.AdminChatID == 0 {
		return
	}

	text := fmt.Sprintf(
		"🆕 Yangi yozilish!\n\n💈 %s\n✂️ %s\n🕐 %s\n👤 %s\n📞 %s",
		shopName(booking),
		booking.Service,
		booking.BookingAt.Format("02.01.2006 15:04"),
		booking.CustomerName,
		booking.CustomerPhone,
	)
	b.send(tgbotapi.NewMessage(b.cfg.AdminChatID, text))
}

// NotifyStatusChange 状态变更推送给预约顾客
func (b *Bot) NotifyStatusChange(booking *model.Booking) {
	if b == nil || b.api == nil || booking.User == nil || booking.User.TelegramID == 0 {
		return
	}

	var text string
	switch booking.Status {
	case model.BookingStatusAccepted:
		text = fmt.Sprintf("✅ Yozilishingiz qabul qilindi!\n\n💈 %s\n✂️ %s\n🕐 %s",
			shopName(booking), booking.Service, booking.BookingAt.Format("02.01.2006 15:04"))
	case model.BookingStatusRejected:
		text = fmt.Sprintf("❌ Afsuski, yozilishingiz rad etildi.\n\n💈 %s\n🕐 %s\nBoshqa vaqtni tanlab ko'ring.",
			shopName(booking), booking.BookingAt.Format("02.01.2006 15:04"))
	default:
		return
	}
	b.send(tgbotapi.NewMessage(booking.User.TelegramID, text))
}

func shopName(booking *model.Booking) string {
	if booking.Barbershop != nil {
		return booking.Barbershop.Name
	}
	return "Sartaroshxona"
}

// statusLabel 预约状态的用户可读标签
func statusLabel(status string) string {
	switch status {
	case model.BookingStatusPending:
		return "⏳ kutilmoqda"
	case model.BookingStatusAccepted:
		return "✅ qabul qilindi"
	case model.BookingStatusRejected:
		return "❌ rad etildi"
	case model.BookingStatusExpired:
		return "⌛ muddati o'tdi"
	default:
		return status
	}
}

// send 发送消息，失败只记日志
func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("[Bot] 发送消息失败 chat=%d: %v", msg.ChatID, err)
	}
}

var _ service.BookingNotifier = (*Bot)(nil)

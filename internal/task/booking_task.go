package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"cutspace_v1_202509/internal/service"
)

// ==================== BookingExpiryTask 预约过期清理任务 ====================

// BookingExpiryTask 定时把超时未处理的 pending 预约置为 expired
type BookingExpiryTask struct {
	BookingService *service.BookingService
	Cron           *cron.Cron

	// 超过该时长仍为 pending 的预约视为过期
	expireAfter time.Duration
}

// NewBookingExpiryTask 创建预约过期清理任务
func NewBookingExpiryTask(bookingService *service.BookingService, expireAfter time.Duration) *BookingExpiryTask {
	if expireAfter <= 0 {
		expireAfter = 48 * time.Hour
	}
	return &BookingExpiryTask{
		BookingService: bookingService,
		Cron:           cron.New(cron.WithSeconds()), // 支持秒级控制
		expireAfter:    expireAfter,
	}
}

// Start 启动定时任务
func (t *BookingExpiryTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		log.Println("[Task] 服务启动，正在执行首次预约过期检查...")
		t.expireJob(ctx)
	}()

	// 定时策略：每 10 分钟扫一次
	_, err := t.Cron.AddFunc("0 0/10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		t.expireJob(ctx)
	})

	if err != nil {
		log.Fatalf("无法启动预约过期定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("预约过期清理任务已启动 (每10分钟检查一次)")
}

// Stop 停止定时任务
func (t *BookingExpiryTask) Stop() {
	if t.Cron != nil {
		t.Cron.Stop()
	}
	log.Println("预约过期清理任务已停止")
}

// ExpireNow 手动触发一次过期清理
func (t *BookingExpiryTask) ExpireNow(ctx context.Context) (int64, error) {
	if t.BookingService == nil {
		return 0, ErrTaskDisabled
	}
	return t.BookingService.ExpireStaleBookings(ctx, t.expireAfter)
}

// 过期清理逻辑
func (t *BookingExpiryTask) expireJob(ctx context.Context) {
	affected, err := t.BookingService.ExpireStaleBookings(ctx, t.expireAfter)
	if err != nil {
		log.Printf("[Cron] 预约过期清理失败: %v", err)
		return
	}
	if affected > 0 {
		log.Printf("[Cron] 预约过期清理完成，共处理 %d 条", affected)
	}
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
)

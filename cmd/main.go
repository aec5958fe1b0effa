package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cutspace_v1_202509/internal/config"
	"cutspace_v1_202509/internal/controller"
	"cutspace_v1_202509/internal/model"
	"cutspace_v1_202509/internal/repository"
	"cutspace_v1_202509/internal/router"
	"cutspace_v1_202509/internal/service"
	"cutspace_v1_202509/internal/task"
	"cutspace_v1_202509/internal/tgbot"
	"cutspace_v1_202509/pkg/database"
)

// @title CutSpace API
// @version 1.0
// @description Telegram Mini App 理发店预约服务端
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db)

	// 4. 启动机器人与定时任务
	deps.Bot.Start()
	deps.ExpiryTask.Start()

	// 5. 初始化路由
	r := gin.Default()
	router.InitRoutes(r, cfg,
		deps.Services.Auth,
		deps.Controllers.Auth,
		deps.Controllers.Barbershop,
		deps.Controllers.Booking,
		deps.Controllers.Review,
		deps.Controllers.Upload,
	)

	// 6. 启动服务
	startServer(cfg, r, deps)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
	Bot         *tgbot.Bot
	ExpiryTask  *task.BookingExpiryTask
}

// Repositories 仓库集合
type Repositories struct {
	User       repository.UserRepository
	Barbershop repository.BarbershopRepository
	Review     repository.ReviewRepository
	Booking    repository.BookingRepository
}

// Services 服务集合
type Services struct {
	Auth       *service.AuthService
	Barbershop *service.BarbershopService
	Review     *service.ReviewService
	Booking    *service.BookingService
	Storage    service.StorageProvider
}

// Controllers 控制器集合
type Controllers struct {
	Auth       *controller.AuthController
	Barbershop *controller.BarbershopController
	Booking    *controller.BookingController
	Review     *controller.ReviewController
	Upload     *controller.UploadController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.DatabaseDSN, cfg.DevMode,
		&model.User{},
		&model.Barbershop{},
		&model.Review{},
		&model.Booking{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		User:       repository.NewUserRepository(db),
		Barbershop: repository.NewBarbershopRepository(db),
		Review:     repository.NewReviewRepository(db),
		Booking:    repository.NewBookingRepository(db),
	}

	// -------- 机器人（预约通知的实现方） --------
	bot, err := tgbot.New(cfg, repos.User, repos.Barbershop, repos.Booking)
	if err != nil {
		log.Printf("警告: Telegram Bot 初始化失败，通知功能关闭: %v", err)
	}

	// -------- 存储 --------
	storage := initStorage(cfg)

	// -------- 业务服务 --------
	services := &Services{
		Auth:       service.NewAuthService(repos.User, cfg),
		Barbershop: service.NewBarbershopService(repos.Barbershop, repos.User),
		Review:     service.NewReviewService(repos.Review, repos.Barbershop),
		Booking:    service.NewBookingService(repos.Booking, repos.Barbershop, bot),
		Storage:    storage,
	}

	// -------- Controller 层 --------
	controllers := &Controllers{
		Auth:       controller.NewAuthController(services.Auth),
		Barbershop: controller.NewBarbershopController(services.Barbershop),
		Booking:    controller.NewBookingController(services.Booking),
		Review:     controller.NewReviewController(services.Review),
		Upload:     controller.NewUploadController(services.Storage),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
		Bot:         bot,
		ExpiryTask:  task.NewBookingExpiryTask(services.Booking, cfg.BookingExpireAfter),
	}
}

// initStorage 初始化存储提供者
func initStorage(cfg *config.Config) service.StorageProvider {
	storage, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:  cfg.StorageProvider,
		Bucket:    cfg.StorageBucket,
		Region:    cfg.StorageRegion,
		AccessKey: cfg.StorageAccess,
		SecretKey: cfg.StorageSecret,
		CDNDomain: cfg.StorageCDN,
		BasePath:  cfg.StorageBasePath,
		BaseURL:   cfg.StorageBaseURL,
	})
	if err != nil {
		log.Fatalf("存储初始化失败: %v", err)
	}
	return storage
}

// ==================== 服务启动 ====================

// startServer 启动服务并处理优雅退出
func startServer(cfg *config.Config, r *gin.Engine, deps *Dependencies) {
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	deps.ExpiryTask.Stop()
	deps.Bot.Stop()

	// 优雅关闭，最多等待 10 秒
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

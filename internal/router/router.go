package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cutspace_v1_202509/internal/config"
	"cutspace_v1_202509/internal/controller"
	"cutspace_v1_202509/internal/middleware"
	"cutspace_v1_202509/internal/model"
	"cutspace_v1_202509/internal/service"

	_ "cutspace_v1_202509/docs"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	cfg *config.Config,
	authSvc *service.AuthService,
	authCtl *controller.AuthController,
	shopCtl *controller.BarbershopController,
	bookingCtl *controller.BookingController,
	reviewCtl *controller.ReviewController,
	uploadCtl *controller.UploadController) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. 健康检查
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 3. 本地存储模式下的静态文件
	if cfg.StorageProvider == "local" {
		r.Static("/uploads", cfg.StorageBasePath)
	}

	// 4. API 路由组
	api := r.Group("/api")
	{
		// auth 登录
		auth := api.Group("/auth")
		{
			// POST /api/auth/telegram
			auth.POST("/telegram", authCtl.TelegramLogin)
		}

		// 公开浏览：店铺和评价无需登录
		public := api.Group("")
		{
			public.GET("/barbershops", shopCtl.List)
			public.GET("/barbershops/:id", shopCtl.Get)
			public.GET("/barbershops/:id/reviews", reviewCtl.ListByShop)
		}

		// 需认证的路由
		authed := api.Group("", middleware.TelegramAuth(authSvc, cfg))
		{
			authed.GET("/users/me", authCtl.GetMe)
			// 老客户端用的路径，和 /users/me 等价
			authed.GET("/auth/profile", authCtl.GetMe)

			// 预约
			authed.POST("/bookings", middleware.ThrottleAction(middleware.ActionBooking), bookingCtl.Create)
			authed.GET("/bookings/my", bookingCtl.ListMine)
			authed.GET("/bookings/:id", bookingCtl.Get)
			authed.POST("/bookings/:id/accept", bookingCtl.Accept)
			authed.POST("/bookings/:id/reject", bookingCtl.Reject)
			authed.GET("/barbershops/:id/bookings", bookingCtl.ListByShop)

			// 评价
			authed.POST("/reviews", middleware.ThrottleAction(middleware.ActionReview), reviewCtl.Create)

			// 店铺维护（owner/barber 权限在服务层判）
			authed.PUT("/barbershops/:id", shopCtl.Update)

			// 图片上传
			authed.POST("/uploads", middleware.ThrottleAction(middleware.ActionUpload), uploadCtl.Upload)
			authed.POST("/uploads/url", middleware.ThrottleAction(middleware.ActionUpload), uploadCtl.UploadFromURL)
		}

		// 管理员路由
		admin := api.Group("", middleware.TelegramAuth(authSvc, cfg), middleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("/barbershops", shopCtl.Create)
			admin.DELETE("/barbershops/:id", shopCtl.Delete)
			admin.GET("/bookings", bookingCtl.ListAll)
			admin.GET("/users", authCtl.ListUsers)
			admin.POST("/users/:id/role", authCtl.SetRole)
		}
	}
}

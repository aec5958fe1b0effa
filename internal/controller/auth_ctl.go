package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cutspace_v1_202509/internal/api/dto"
	"cutspace_v1_202509/internal/middleware"
	"cutspace_v1_202509/internal/service"
	"cutspace_v1_202509/pkg/telegram"
)

// ==================== AuthController 认证控制器 ====================

// AuthController 认证控制器
type AuthController struct {
	authService *service.AuthService
}

// NewAuthController 创建认证控制器
func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// ==================== 登录 ====================

// TelegramLogin Mini App 登录
// @Summary Telegram Mini App 登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.TelegramAuthRequest true "initData"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/telegram [post]
func (c *AuthController) TelegramLogin(ctx *gin.Context) {
	var req dto.TelegramAuthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	resp, err := c.authService.LoginWithInitData(ctx.Request.Context(), req.InitData)
	if err != nil {
		status := http.StatusUnauthorized
		message := "登录失败"
		switch {
		case errors.Is(err, telegram.ErrStaleAuthDate):
			message = "登录数据已过期，请重新打开小程序"
		case errors.Is(err, telegram.ErrMissingHash), errors.Is(err, telegram.ErrBadSignature), errors.Is(err, telegram.ErrMissingUser):
			message = "登录数据校验失败"
		case errors.Is(err, service.ErrInvalidIdentity):
			message = err.Error()
		default:
			status = http.StatusInternalServerError
			message = err.Error()
		}
		ctx.JSON(status, gin.H{
			"code":    status,
			"message": message,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "登录成功",
		"data":    resp,
	})
}

// ==================== 用户接口 ====================

// GetMe 当前用户信息
// @Summary 当前用户信息
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserInfo
// @Failure 401 {object} map[string]interface{}
// @Router /users/me [get]
func (c *AuthController) GetMe(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "未登录",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": service.ToUserInfo(user),
	})
}

// ListUsers 用户列表（管理员）
// @Summary 用户列表
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param role query string false "角色筛选"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.UserListResponse
// @Router /users [get]
func (c *AuthController) ListUsers(ctx *gin.Context) {
	var req dto.UserListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	resp, err := c.authService.ListUsers(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": resp,
	})
}

// SetRole 修改用户角色（管理员）
// @Summary 修改用户角色
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Param request body dto.SetRoleRequest true "角色信息"
// @Success 200 {object} dto.UserInfo
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /users/{id}/role [post]
func (c *AuthController) SetRole(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "用户 ID 无效",
		})
		return
	}

	var req dto.SetRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	user, err := c.authService.SetRole(ctx.Request.Context(), userID, req.Role, req.BarbershopID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrBarberNeedsShop):
			status = http.StatusBadRequest
		}
		ctx.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "角色已更新",
		"data":    service.ToUserInfo(user),
	})
}

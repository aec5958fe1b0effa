package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cutspace_v1_202509/internal/api/dto"
	"cutspace_v1_202509/internal/middleware"
	"cutspace_v1_202509/internal/model"
	"cutspace_v1_202509/internal/service"
)

// ==================== BookingController 预约控制器 ====================

// BookingController 预约控制器
type BookingController struct {
	bookingService *service.BookingService
}

// NewBookingController 创建预约控制器
func NewBookingController(bookingService *service.BookingService) *BookingController {
	return &BookingController{bookingService: bookingService}
}

// bookingError 预约服务错误到 HTTP 的映射
func bookingError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrBookingNotFound), errors.Is(err, service.ErrShopNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidStatusChange):
		status = http.StatusConflict
	case errors.Is(err, service.ErrBookingInPast):
		status = http.StatusBadRequest
	}
	ctx.JSON(status, gin.H{
		"code":    status,
		"message": err.Error(),
	})
}

// Create 创建预约
// @Summary 创建预约
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookingRequest true "预约信息"
// @Success 200 {object} dto.BookingInfo
// @Failure 400 {object} map[string]interface{}
// @Router /bookings [post]
func (c *BookingController) Create(ctx *gin.Context) {
	var req dto.CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	info, err := c.bookingService.CreateBooking(ctx.Request.Context(), middleware.CurrentUser(ctx), &req)
	if err != nil {
		bookingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "预约已提交",
		"data":    info,
	})
}

// Get 预约详情
// @Summary 预约详情
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "预约 ID"
// @Success 200 {object} dto.BookingInfo
// @Failure 404 {object} map[string]interface{}
// @Router /bookings/{id} [get]
func (c *BookingController) Get(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "预约 ID 无效",
		})
		return
	}

	info, err := c.bookingService.GetBooking(ctx.Request.Context(), middleware.CurrentUser(ctx), id)
	if err != nil {
		bookingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": info,
	})
}

// ListMine 我的预约
// @Summary 我的预约列表
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.BookingListResponse
// @Router /bookings/my [get]
func (c *BookingController) ListMine(ctx *gin.Context) {
	var req dto.BookingListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	resp, err := c.bookingService.ListMyBookings(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		bookingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": resp,
	})
}

// ListByShop 店铺预约列表
// @Summary 店铺预约列表
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "店铺 ID"
// @Param status query string false "状态筛选"
// @Param page query int false "页码"
// @Success 200 {object} dto.BookingListResponse
// @Failure 403 {object} map[string]interface{}
// @Router /barbershops/{id}/bookings [get]
func (c *BookingController) ListByShop(ctx *gin.Context) {
	shopID, ok := shopIDParam(ctx)
	if !ok {
		return
	}

	var req dto.BookingListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	resp, err := c.bookingService.ListShopBookings(ctx.Request.Context(), middleware.CurrentUser(ctx), shopID, &req)
	if err != nil {
		bookingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": resp,
	})
}

// ListAll 全量预约列表（管理员）
// @Summary 全量预约列表
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态筛选"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.BookingListResponse
// @Router /bookings [get]
func (c *BookingController) ListAll(ctx *gin.Context) {
	var req dto.BookingListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	resp, err := c.bookingService.ListAllBookings(ctx.Request.Context(), &req)
	if err != nil {
		bookingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": resp,
	})
}

// Accept 接受预约
// @Summary 接受预约
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "预约 ID"
// @Success 200 {object} dto.BookingInfo
// @Failure 409 {object} map[string]interface{}
// @Router /bookings/{id}/accept [post]
func (c *BookingController) Accept(ctx *gin.Context) {
	c.transition(ctx, c.bookingService.AcceptBooking, "预约已接受")
}

// Reject 拒绝预约
// @Summary 拒绝预约
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "预约 ID"
// @Success 200 {object} dto.BookingInfo
// @Failure 409 {object} map[string]interface{}
// @Router /bookings/{id}/reject [post]
func (c *BookingController) Reject(ctx *gin.Context) {
	c.transition(ctx, c.bookingService.RejectBooking, "预约已拒绝")
}

type transitionFunc func(ctx context.Context, actor *model.User, id int64) (*dto.BookingInfo, error)

func (c *BookingController) transition(ctx *gin.Context, fn transitionFunc, message string) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "预约 ID 无效",
		})
		return
	}

	info, err := fn(ctx.Request.Context(), middleware.CurrentUser(ctx), id)
	if err != nil {
		bookingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": message,
		"data":    info,
	})
}

package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cutspace_v1_202509/internal/api/dto"
	"cutspace_v1_202509/internal/middleware"
	"cutspace_v1_202509/internal/service"
)

// ==================== BarbershopController 店铺控制器 ====================

// BarbershopController 店铺控制器
type BarbershopController struct {
	shopService *service.BarbershopService
}

// NewBarbershopController 创建店铺控制器
func NewBarbershopController(shopService *service.BarbershopService) *BarbershopController {
	return &BarbershopController{shopService: shopService}
}

// shopIDParam 解析路径里的店铺 ID
func shopIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "店铺 ID 无效",
		})
		return 0, false
	}
	return id, true
}

// List 店铺列表
// @Summary 店铺列表
// @Tags Barbershops
// @Produce json
// @Param keyword query string false "名称/地址搜索"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.BarbershopListResponse
// @Router /barbershops [get]
func (c *BarbershopController) List(ctx *gin.Context) {
	var req dto.BarbershopListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	resp, err := c.shopService.ListShops(ctx.Request.Context(), &req)
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

// Get 店铺详情
// @Summary 店铺详情
// @Tags Barbershops
// @Produce json
// @Param id path int true "店铺 ID"
// @Success 200 {object} dto.BarbershopInfo
// @Failure 404 {object} map[string]interface{}
// @Router /barbershops/{id} [get]
func (c *BarbershopController) Get(ctx *gin.Context) {
	id, ok := shopIDParam(ctx)
	if !ok {
		return
	}

	info, err := c.shopService.GetShop(ctx.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrShopNotFound) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": info,
	})
}

// Create 创建店铺（管理员）
// @Summary 创建店铺
// @Tags Barbershops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBarbershopRequest true "店铺信息"
// @Success 200 {object} dto.BarbershopInfo
// @Failure 400 {object} map[string]interface{}
// @Router /barbershops [post]
func (c *BarbershopController) Create(ctx *gin.Context) {
	var req dto.CreateBarbershopRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	info, err := c.shopService.CreateShop(ctx.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrUserNotFound) {
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
		"message": "店铺已创建",
		"data":    info,
	})
}

// Update 更新店铺
// @Summary 更新店铺
// @Tags Barbershops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "店铺 ID"
// @Param request body dto.UpdateBarbershopRequest true "店铺信息"
// @Success 200 {object} dto.BarbershopInfo
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /barbershops/{id} [put]
func (c *BarbershopController) Update(ctx *gin.Context) {
	id, ok := shopIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateBarbershopRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	info, err := c.shopService.UpdateShop(ctx.Request.Context(), middleware.CurrentUser(ctx), id, &req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrShopNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrForbidden):
			status = http.StatusForbidden
		}
		ctx.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "店铺已更新",
		"data":    info,
	})
}

// Delete 删除店铺（管理员）
// @Summary 删除店铺
// @Tags Barbershops
// @Produce json
// @Security BearerAuth
// @Param id path int true "店铺 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /barbershops/{id} [delete]
func (c *BarbershopController) Delete(ctx *gin.Context) {
	id, ok := shopIDParam(ctx)
	if !ok {
		return
	}

	if err := c.shopService.DeleteShop(ctx.Request.Context(), id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrShopNotFound) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "店铺已删除",
	})
}

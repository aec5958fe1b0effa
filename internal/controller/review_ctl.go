package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cutspace_v1_202509/internal/api/dto"
	"cutspace_v1_202509/internal/middleware"
	"cutspace_v1_202509/internal/service"
)

// ==================== ReviewController 评价控制器 ====================

// ReviewController 评价控制器
type ReviewController struct {
	reviewService *service.ReviewService
}

// NewReviewController 创建评价控制器
func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// Create 创建评价
// @Summary 创建评价
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateReviewRequest true "评价信息"
// @Success 200 {object} dto.ReviewInfo
// @Failure 400 {object} map[string]interface{}
// @Router /reviews [post]
func (c *ReviewController) Create(ctx *gin.Context) {
	var req dto.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	info, err := c.reviewService.CreateReview(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrShopNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrInvalidRating):
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
		"message": "评价已提交",
		"data":    info,
	})
}

// ListByShop 店铺评价列表
// @Summary 店铺评价列表
// @Tags Reviews
// @Produce json
// @Param id path int true "店铺 ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.ReviewListResponse
// @Failure 404 {object} map[string]interface{}
// @Router /barbershops/{id}/reviews [get]
func (c *ReviewController) ListByShop(ctx *gin.Context) {
	shopID, ok := shopIDParam(ctx)
	if !ok {
		return
	}

	var req dto.ReviewListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	resp, err := c.reviewService.ListReviews(ctx.Request.Context(), shopID, &req)
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
		"data": resp,
	})
}

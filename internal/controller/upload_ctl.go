package controller

import (
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cutspace_v1_202509/internal/service"
)

// ==================== UploadController 上传控制器 ====================

// 单文件大小上限 5MB
const maxUploadSize = 5 << 20

// UploadController 图片上传控制器
type UploadController struct {
	storage service.StorageProvider
	fetcher *http.Client
}

// NewUploadController 创建上传控制器
func NewUploadController(storage service.StorageProvider) *UploadController {
	return &UploadController{
		storage: storage,
		fetcher: &http.Client{Timeout: 10 * time.Second},
	}
}

// Upload 上传店铺图片
// @Summary 上传图片
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "图片文件，最大 5MB"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /uploads [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "未找到上传文件",
		})
		return
	}

	if fileHeader.Size > maxUploadSize {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "文件大小超过 5MB 限制",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "读取文件失败: " + err.Error(),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "读取文件失败: " + err.Error(),
		})
		return
	}
	if len(data) > maxUploadSize {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "文件大小超过 5MB 限制",
		})
		return
	}

	// 仅允许图片
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "仅支持图片文件",
		})
		return
	}

	url, err := c.storage.Upload(ctx.Request.Context(), data, fileHeader.Filename, contentType)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "上传失败: " + err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "上传成功",
		"data":    gin.H{"url": url},
	})
}

// UploadFromURL 按 URL 抓取图片转存
// @Summary 按 URL 上传图片
// @Tags Uploads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{\"url\": \"https://...\"}"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /uploads/url [post]
func (c *UploadController) UploadFromURL(ctx *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required,url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	resp, err := c.fetcher.Get(req.URL)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "图片下载失败: " + err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "图片下载失败",
		})
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUploadSize+1))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "读取图片失败: " + err.Error(),
		})
		return
	}
	if len(data) > maxUploadSize {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "文件大小超过 5MB 限制",
		})
		return
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "仅支持图片文件",
		})
		return
	}

	url, err := c.storage.Upload(ctx.Request.Context(), data, path.Base(req.URL), contentType)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "上传失败: " + err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "上传成功",
		"data":    gin.H{"url": url},
	})
}

package receipt

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipeai/internal/api/handlers"
	"recipeai/internal/core/ingredient"
	"recipeai/internal/core/ocr"
	"recipeai/internal/core/receipt"
	"recipeai/internal/pkg/common"
)

const (
	// 單檔與多檔上傳的表單欄位
	singleField = "receipt"
	multiField  = "receipts"
)

// UploadOptions 上傳限制
type UploadOptions struct {
	Dir          string
	MaxSizeBytes int64
	MaxFiles     int
}

// BatchItem 批次上傳中單一檔案的結果
type BatchItem struct {
	Filename            string                  `json:"filename"`
	Receipt             *receipt.Receipt        `json:"receipt,omitempty"`
	ImportedIngredients []ingredient.Ingredient `json:"imported_ingredients,omitempty"`
	Error               string                  `json:"error,omitempty"`
	Code                string                  `json:"code,omitempty"`
}

// BatchResponse 批次上傳響應
type BatchResponse struct {
	Results   []BatchItem `json:"results"`
	Processed int         `json:"processed"`
	Failed    int         `json:"failed"`
}

// Handler 收據處理程序
type Handler struct {
	service *receipt.Service
	opts    UploadOptions
	debug   bool
}

// NewHandler 創建新的收據處理程序
func NewHandler(service *receipt.Service, opts UploadOptions, debug bool) *Handler {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = 1
	}
	return &Handler{service: service, opts: opts, debug: debug}
}

// List 列出使用者收據
func (h *Handler) List(c *gin.Context) {
	receipts, err := h.service.List(c.Request.Context(), handlers.UserID(c))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, receipts)
}

// Upload 上傳收據並同步處理；欄位 receipt 為單檔，receipts 為多檔
func (h *Handler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		handlers.BadRequest(c, "multipart form is required")
		return
	}

	single := form.File[singleField]
	multi := form.File[multiField]
	files := append(append([]*multipart.FileHeader{}, single...), multi...)
	if len(files) == 0 {
		handlers.BadRequest(c, "No file uploaded")
		return
	}
	if len(files) > h.opts.MaxFiles {
		handlers.BadRequest(c, fmt.Sprintf("at most %d files per upload", h.opts.MaxFiles))
		return
	}

	uploads := make([]receipt.Upload, 0, len(files))
	for _, fh := range files {
		up, err := h.save(c, fh)
		if err != nil {
			cleanup(uploads)
			handlers.RespondError(c, err, h.debug)
			return
		}
		uploads = append(uploads, up)
	}

	userID := handlers.UserID(c)
	common.LogInfo("Receipts uploaded",
		zap.String("user_id", userID),
		zap.Int("files", len(uploads)),
	)

	// 單檔沿用單筆響應格式
	if len(single) == 1 && len(multi) == 0 {
		result, err := h.service.Process(c.Request.Context(), userID, uploads[0])
		if err != nil {
			handlers.RespondError(c, err, h.debug)
			return
		}
		c.JSON(http.StatusCreated, result)
		return
	}

	results := h.service.ProcessBatch(c.Request.Context(), userID, uploads)
	resp := BatchResponse{Results: make([]BatchItem, 0, len(results))}
	for _, r := range results {
		item := BatchItem{Filename: r.Filename}
		if r.Result != nil {
			item.Receipt = r.Result.Receipt
			item.ImportedIngredients = r.Result.Imported
		}
		if r.Err != nil {
			_, errResp := common.ToResponse(r.Err, h.debug)
			item.Error = errResp.Message
			item.Code = errResp.Code
			resp.Failed++
		} else {
			resp.Processed++
		}
		resp.Results = append(resp.Results, item)
	}

	status := http.StatusCreated
	if resp.Processed == 0 {
		status = http.StatusUnprocessableEntity
	} else if resp.Failed > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, resp)
}

// save 檢查副檔名與大小後以 UUID 檔名存放
func (h *Handler) save(c *gin.Context, fh *multipart.FileHeader) (receipt.Upload, error) {
	name := filepath.Base(fh.Filename)
	if !ocr.SupportedExtension(name) {
		return receipt.Upload{}, common.ErrUnsupportedReceipt.Wrap(fmt.Errorf("unsupported file %q", name))
	}
	if h.opts.MaxSizeBytes > 0 && fh.Size > h.opts.MaxSizeBytes {
		return receipt.Upload{}, common.NewError(common.ErrCodeTooLarge, "檔案過大", http.StatusRequestEntityTooLarge,
			fmt.Errorf("%q is %d bytes, limit %d", name, fh.Size, h.opts.MaxSizeBytes))
	}

	dst := filepath.Join(h.opts.Dir, common.GenerateUUID()+strings.ToLower(filepath.Ext(name)))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return receipt.Upload{}, fmt.Errorf("failed to save upload: %w", err)
	}
	return receipt.Upload{Filename: name, Path: dst}, nil
}

func cleanup(uploads []receipt.Upload) {
	for _, up := range uploads {
		if err := os.Remove(up.Path); err != nil && !os.IsNotExist(err) {
			common.LogWarn("Failed to remove upload", zap.String("path", up.Path), zap.Error(err))
		}
	}
}

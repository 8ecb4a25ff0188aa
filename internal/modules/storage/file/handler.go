package file

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	appcfg "github.com/inkpress/core/internal/config"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler accepts uploads and serves locally stored files.
type Handler struct {
	db       *gorm.DB
	store    Storage
	allowed  map[string]struct{}
	maxBytes int64
	log      *zap.Logger
}

func NewHandler(db *gorm.DB, store Storage, opts appcfg.UploadConfig, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		db:       db,
		store:    store,
		allowed:  parseFormats(opts.AllowedFormats),
		maxBytes: int64(opts.MaxSizeMB) * 1024 * 1024,
		log:      log,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	if _, ok := h.store.(*LocalStorage); ok {
		rg.GET("/"+uploadDir+"/:name", h.get)
	}
}

func (h *Handler) get(c *gin.Context) {
	local, ok := h.store.(*LocalStorage)
	name := safeName(c.Param("name"))
	if !ok || name == "" {
		response.NotFound(c)
		return
	}

	path := filepath.Join(local.Dir(), name)
	if _, err := os.Stat(path); err != nil {
		response.NotFound(c)
		return
	}

	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}

func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if err := validateUpload(fileHeader.Filename, fileHeader.Size, h.allowed, h.maxBytes); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer file.Close()
	payload, err := io.ReadAll(file)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if err := validateUpload(fileHeader.Filename, int64(len(payload)), h.allowed, h.maxBytes); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	filename := buildFileName(fileHeader.Filename)
	contentType := detectContentType(fileHeader.Filename, payload, fileHeader.Header.Get("Content-Type"))
	fileURL, err := h.store.Put(c.Request.Context(), filename, payload, contentType)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	ref := models.FileReferenceModel{
		FileURL:  fileURL,
		FileName: filename,
		Storage:  h.store.Name(),
		Size:     int64(len(payload)),
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&ref).Error; err != nil {
		h.log.Warn("record file reference failed", zap.String("url", fileURL), zap.Error(err))
	}

	response.OK(c, gin.H{"url": fileURL})
}

package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/kinopitch/trailers-backend/internal/http/handlers/common"
	"github.com/kinopitch/trailers-backend/internal/models"
	repo "github.com/kinopitch/trailers-backend/internal/repository"
	repocommon "github.com/kinopitch/trailers-backend/internal/repository/common"
	"github.com/kinopitch/trailers-backend/internal/storage"
	"github.com/kinopitch/trailers-backend/internal/validation"
)

// Разрешённые типы постеров
var allowedPosterMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var allowedPosterExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// TrailerHandler управляет метаданными трейлеров и загрузкой постеров.
type TrailerHandler struct {
	trailers *repo.TrailerRepository
	media    *repo.MediaRepository
	storage  *storage.PosterStorage
}

func NewTrailerHandler(trailers *repo.TrailerRepository, media *repo.MediaRepository, storage *storage.PosterStorage) *TrailerHandler {
	return &TrailerHandler{trailers: trailers, media: media, storage: storage}
}

// CreateTrailer POST /trailers
func (h *TrailerHandler) CreateTrailer(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Title       string  `json:"title" binding:"required"`
		Description *string `json:"description"`
		VideoURL    string  `json:"video_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if res := validation.ValidateCreateTrailer(validation.CreateTrailerInput{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
	}); !res.OK() {
		common.RespondBadRequest(c, res.Error())
		return
	}

	trailer := &models.Trailer{
		CreatorID:   userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		VideoURL:    req.VideoURL,
	}
	if err := h.trailers.Create(c.Request.Context(), trailer); err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trailer)
}

// GetTrailer GET /trailers/:id
func (h *TrailerHandler) GetTrailer(c *gin.Context) {
	trailerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	trailer, err := h.trailers.GetByID(c.Request.Context(), trailerID)
	if err != nil {
		if errors.Is(err, repocommon.ErrNotFound) {
			common.RespondError(c, http.StatusNotFound, "трейлер не найден")
			return
		}
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, trailer)
}

// ListTrailers GET /trailers
func (h *TrailerHandler) ListTrailers(c *gin.Context) {
	limit := common.ParseIntQuery(c, "limit", 20)
	offset := common.ParseIntQuery(c, "offset", 0)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	trailers, err := h.trailers.List(c.Request.Context(), limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, trailers)
}

// UploadPoster POST /trailers/:id/poster
// Тип файла проверяется по магическим байтам, а не только по расширению.
func (h *TrailerHandler) UploadPoster(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	trailerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	trailer, err := h.trailers.GetByID(c.Request.Context(), trailerID)
	if err != nil {
		if errors.Is(err, repocommon.ErrNotFound) {
			common.RespondError(c, http.StatusNotFound, "трейлер не найден")
			return
		}
		common.RespondAppError(c, err)
		return
	}
	if trailer.CreatorID != userID {
		common.RespondError(c, http.StatusForbidden, "постер может загрузить только автор трейлера")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "поле file обязательно")
		return
	}
	if file.Size == 0 {
		common.RespondBadRequest(c, "файл не может быть пустым")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPosterExtensions[ext] {
		common.RespondBadRequest(c, "неподдерживаемый формат файла, разрешены jpg, png, webp")
		return
	}

	src, err := file.Open()
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	defer src.Close()

	// Первые 512 байт достаточно для определения типа по магическим байтам.
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		common.RespondBadRequest(c, "не удалось прочитать файл")
		return
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown || !allowedPosterMimeTypes[kind.MIME.Value] {
		common.RespondBadRequest(c, "файл не является поддерживаемым изображением")
		return
	}

	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			common.RespondAppError(c, fmt.Errorf("seek poster file: %w", err))
			return
		}
	}

	relativePath, size, err := h.storage.Save(c.Request.Context(), trailerID, file.Filename, src)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	mediaFile := &models.MediaFile{
		UserID:   &userID,
		FilePath: filepath.ToSlash(relativePath),
		FileType: kind.MIME.Value,
		FileSize: size,
	}
	if err := h.media.Create(c.Request.Context(), mediaFile); err != nil {
		common.RespondAppError(c, err)
		return
	}

	if err := h.trailers.SetPoster(c.Request.Context(), trailerID, mediaFile.ID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mediaFile)
}

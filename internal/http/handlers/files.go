package handlers

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"eventboard/internal/files"

	"github.com/gin-gonic/gin"
)

type FilesHandler struct {
	storage *files.DiskStorage
}

func NewFilesHandler(storage *files.DiskStorage) *FilesHandler {
	return &FilesHandler{storage: storage}
}

func (h *FilesHandler) Upload(ctx *gin.Context) {
	header, err := ctx.FormFile("file")

	if err != nil {
		RespondBadRequest(ctx, "A file form field is required", nil)
		return
	}

	src, err := header.Open()
	if err != nil {
		RespondInternal(ctx, "Could not read upload")
		return
	}
	defer src.Close()

	id, err := h.storage.Save(header.Filename, src)

	if err != nil {
		RespondInternal(ctx, "Could not store file")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *FilesHandler) Download(ctx *gin.Context) {
	id := ctx.Param("id")

	f, err := h.storage.Open(id)

	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			RespondNotFound(ctx, "File not found")
			return
		}

		RespondInternal(ctx, "Could not read file")
		return
	}

	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(id))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := f.Stat()
	if err != nil {
		RespondInternal(ctx, "Could not read file")
		return
	}

	ctx.DataFromReader(http.StatusOK, info.Size(), contentType, f, nil)
}

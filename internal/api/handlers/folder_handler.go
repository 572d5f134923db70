package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-mailarchive/internal/api/response"
	"github.com/welldanyogia/webrana-mailarchive/internal/repository"
)

// FolderHandler handles folder-related HTTP requests
type FolderHandler struct {
	folderRepo repository.FolderRepository
}

// NewFolderHandler creates a new FolderHandler
func NewFolderHandler(folderRepo repository.FolderRepository) *FolderHandler {
	return &FolderHandler{folderRepo: folderRepo}
}

// List handles GET /api/folders
func (h *FolderHandler) List(c echo.Context) error {
	folders, err := h.folderRepo.List(c.Request().Context())
	if err != nil {
		return response.InternalError(c, "failed to list folders")
	}
	return response.Success(c, folders)
}

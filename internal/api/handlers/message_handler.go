package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-mailarchive/internal/api/response"
	"github.com/welldanyogia/webrana-mailarchive/internal/body"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/repository"
	"github.com/welldanyogia/webrana-mailarchive/internal/validator"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messageRepo repository.MessageRepository
	bodies      body.Service
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repository.MessageRepository, bodies body.Service) *MessageHandler {
	return &MessageHandler{
		messageRepo: messageRepo,
		bodies:      bodies,
	}
}

// PartURL is the API path serving one part's raw bytes
func PartURL(vendorID, folderID, messageID, partID uint) string {
	return fmt.Sprintf("/api/vendors/%d/folders/%d/messages/%d/parts/%d", vendorID, folderID, messageID, partID)
}

// List handles GET /api/vendors/:vendor_id/folders/:folder_id/messages
func (h *MessageHandler) List(c echo.Context) error {
	vendorID, folderID, err := scopeParams(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = validator.Page(limit, offset)

	headers, total, err := h.messageRepo.List(c.Request().Context(), vendorID, folderID, limit, offset)
	if err != nil {
		return response.Error(c, err)
	}
	if headers == nil {
		headers = []models.MessageHeader{}
	}

	return response.Paginated(c, headers, total, limit, offset)
}

// Body handles GET /api/vendors/:vendor_id/folders/:folder_id/messages/:message_id/body
func (h *MessageHandler) Body(c echo.Context) error {
	vendorID, folderID, err := scopeParams(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	messageID, err := idParam(c, "message_id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	build := func(partID uint) string {
		return PartURL(vendorID, folderID, messageID, partID)
	}
	result, err := h.bodies.GetMessageBody(c.Request().Context(), messageID, build,
		&body.Owner{VendorID: vendorID, FolderID: folderID})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

// Part handles GET /api/vendors/:vendor_id/folders/:folder_id/messages/:message_id/parts/:part_id
func (h *MessageHandler) Part(c echo.Context) error {
	vendorID, folderID, err := scopeParams(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	messageID, err := idParam(c, "message_id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	partID, err := idParam(c, "part_id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	content, err := h.bodies.GetMessagePartContent(c.Request().Context(), vendorID, folderID, messageID, partID)
	if err != nil {
		return response.Error(c, err)
	}

	for k, v := range content.Headers {
		c.Response().Header().Set(k, v)
	}
	return c.Blob(http.StatusOK, content.MediaType, content.Content)
}

// UpdateStatus handles PATCH /api/messages/:id/status
func (h *MessageHandler) UpdateStatus(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var update models.MessageStatusUpdate
	if err := c.Bind(&update); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if update.Empty() {
		return response.BadRequest(c, "no status fields to update")
	}

	ctx := c.Request().Context()
	if err := h.messageRepo.UpdateStatus(ctx, id, update); err != nil {
		return response.Error(c, err)
	}

	message, err := h.messageRepo.GetByID(ctx, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.SuccessWithMessage(c, message, "message status updated")
}

// Delete handles DELETE /api/messages/:id
func (h *MessageHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.messageRepo.Delete(c.Request().Context(), id); err != nil {
		return response.Error(c, err)
	}

	return response.NoContent(c)
}

func scopeParams(c echo.Context) (vendorID, folderID uint, err error) {
	if vendorID, err = idParam(c, "vendor_id"); err != nil {
		return 0, 0, err
	}
	// folder 0 lists the messages whose mailbox matched no folder
	folder, err := strconv.ParseUint(c.Param("folder_id"), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid folder_id")
	}
	return vendorID, uint(folder), nil
}

func idParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(id), nil
}

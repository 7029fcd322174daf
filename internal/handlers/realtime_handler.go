package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiremind/internal/interview"
	"alfredoptarigan/hiremind/internal/logger"
	"alfredoptarigan/hiremind/internal/models"
	"alfredoptarigan/hiremind/internal/services"
)

type RealtimeHandler struct {
	realtimeService services.RealtimeService
	manager         *interview.Manager
}

func NewRealtimeHandler(realtimeService services.RealtimeService, manager *interview.Manager) *RealtimeHandler {
	return &RealtimeHandler{
		realtimeService: realtimeService,
		manager:         manager,
	}
}

// HandleCreate handles POST /interview/realtime/create
func (h *RealtimeHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.RealtimeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	resp, err := h.realtimeService.Create(c.UserContext(), currentUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// RequireUpgrade rejects plain HTTP requests to the WebSocket route.
func (h *RealtimeHandler) RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket handles GET /interview/realtime/ws/:token
func (h *RealtimeHandler) HandleWebSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		token := conn.Params("token")
		err := h.manager.Serve(context.Background(), token, conn)
		if err != nil && !errors.Is(err, interview.ErrSessionNotFound) {
			logger.Logger.WithField("token", token).Warnf("⚠️  Interview connection ended: %v", err)
		}
	})
}

// HandleStatus handles GET /interview/realtime/session/:token
func (h *RealtimeHandler) HandleStatus(c *fiber.Ctx) error {
	status, err := h.realtimeService.Status(c.UserContext(), currentUserID(c), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

// HandleEnd handles POST /interview/realtime/end/:token
func (h *RealtimeHandler) HandleEnd(c *fiber.Ctx) error {
	if _, err := h.realtimeService.End(c.UserContext(), currentUserID(c), c.Params("token")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Interview session ended successfully",
		"success": true,
	})
}

// HandleDelete handles DELETE /interview/realtime/session/:token
func (h *RealtimeHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.realtimeService.Delete(c.UserContext(), currentUserID(c), c.Params("token")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Interview session cleaned up",
		"success": true,
	})
}

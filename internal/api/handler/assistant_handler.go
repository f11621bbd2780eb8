package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kvision/portal-api/internal/core/ports"
)

type AssistantHandler struct {
	assistantService ports.AssistantService
}

func NewAssistantHandler(assistantService ports.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

type askRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// Ask forwards a question to the study assistant. The reply is always a
// 200 with text: upstream failure degrades to an apology rather than an
// error status.
//
// @Summary      Ask the study assistant
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Param        body  body      askRequest  true  "Question"
// @Success      200   {object}  askResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /assistant [post]
func (h *AssistantHandler) Ask(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req askRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	answer := h.assistantService.Ask(c.Request().Context(), session.Role, req.Prompt)
	return c.JSON(http.StatusOK, askResponse{Answer: answer})
}

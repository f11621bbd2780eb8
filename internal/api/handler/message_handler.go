package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kvision/portal-api/internal/core/ports"
	"github.com/kvision/portal-api/internal/metrics"
)

type MessageHandler struct {
	messengerService ports.MessengerService
}

func NewMessageHandler(messengerService ports.MessengerService) *MessageHandler {
	return &MessageHandler{messengerService: messengerService}
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Content    string `json:"content"     validate:"required"`
}

// Contacts lists everyone the caller can message.
//
// @Summary      List messaging contacts
// @Tags         messages
// @Produce      json
// @Success      200  {array}  domain.Contact
// @Failure      401  {object}  map[string]string
// @Router       /contacts [get]
func (h *MessageHandler) Contacts(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	contacts, err := h.messengerService.Contacts(c.Request().Context(), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contacts)
}

// History returns the conversation with one contact, oldest first.
//
// @Summary      Fetch conversation history
// @Tags         messages
// @Produce      json
// @Param        contactID  path      string  true  "Contact user ID"
// @Success      200        {array}   domain.Message
// @Failure      401        {object}  map[string]string
// @Router       /messages/{contactID} [get]
func (h *MessageHandler) History(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	history, err := h.messengerService.History(c.Request().Context(), session.UserID, c.Param("contactID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}

// Send persists a message and returns the store-confirmed row.
//
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      201   {object}  domain.Message
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sent, err := h.messengerService.Send(c.Request().Context(), session.UserID, req.ReceiverID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sent)
}

// Stream pushes the caller's incoming messages as server-sent events.
// Rows from the contact named in the query arrive as "message" events;
// rows from anyone else arrive as "notification" events so the client can
// badge the sender without rerendering the open conversation.
//
// @Summary      Stream incoming messages
// @Tags         messages
// @Produce      text/event-stream
// @Param        contact  query  string  false  "Currently open contact ID"
// @Success      200  "event stream"
// @Failure      401  {object}  map[string]string
// @Router       /messages/stream [get]
func (h *MessageHandler) Stream(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	contact := c.QueryParam("contact")

	sub, err := h.messengerService.Subscribe(c.Request().Context(), session.UserID)
	if err != nil {
		return err
	}
	defer sub.Close()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	metrics.ActiveStreams.Inc()
	defer metrics.ActiveStreams.Dec()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-sub.Messages():
			if !ok {
				return nil
			}
			payload, err := json.Marshal(m)
			if err != nil {
				continue
			}
			event := "notification"
			if contact != "" && m.SenderID == contact {
				event = "message"
			}
			fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event, payload)
			res.Flush()
		}
	}
}

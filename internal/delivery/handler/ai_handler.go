package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sqlpractice-service/internal/application/command"
	"sqlpractice-service/internal/domain"
)

// QueryStream streams an explanation as server-sent events: a series of
// {"content":...} events then {"done":true}, or {"error":...} on failure.
func (h *Handler) QueryStream(c echo.Context) error {
	var explainCommand command.ExplainCommand
	if err := bindBody(c, &explainCommand); err != nil {
		return err
	}

	content, errs, err := h.tutor.ExplainStream(c.Request().Context(), &explainCommand)
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	for chunk := range content {
		if err := writeEvent(res, map[string]string{"content": chunk}); err != nil {
			h.logger.Debug("client went away mid-stream", zap.Error(err))
			return nil
		}
	}

	if err := <-errs; err != nil {
		h.logger.Error("ai stream failed", zap.Error(err))
		return writeEvent(res, map[string]string{"error": domain.Message(err, "Failed to get AI response")})
	}
	return writeEvent(res, map[string]bool{"done": true})
}

func writeEvent(res *echo.Response, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
		return err
	}
	res.Flush()
	return nil
}

func (h *Handler) Explain(c echo.Context) error {
	var explainCommand command.ExplainCommand
	if err := bindBody(c, &explainCommand); err != nil {
		return err
	}

	explanation, err := h.tutor.Explain(c.Request().Context(), &explainCommand)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]string{"explanation": explanation}, http.StatusOK)
}

func (h *Handler) CheckSQL(c echo.Context) error {
	var checkCommand command.CheckSQLCommand
	if err := bindBody(c, &checkCommand); err != nil {
		return err
	}

	feedback, err := h.tutor.CheckSQL(c.Request().Context(), &checkCommand)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]string{"feedback": feedback}, http.StatusOK)
}

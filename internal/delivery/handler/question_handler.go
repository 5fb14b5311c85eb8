package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sqlpractice-service/internal/application/command"
)

func (h *Handler) ListQuestions(c echo.Context) error {
	questions, err := h.questions.List(c.Request().Context())
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]interface{}{"questions": questions}, http.StatusOK)
}

func (h *Handler) TopSaved(c echo.Context) error {
	questions, err := h.questions.TopSaved(c.Request().Context())
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]interface{}{"questions": questions}, http.StatusOK)
}

func (h *Handler) SearchQuestions(c echo.Context) error {
	hits, err := h.questions.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]interface{}{"questions": hits}, http.StatusOK)
}

func (h *Handler) GetQuestion(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	question, err := h.questions.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]interface{}{"question": question}, http.StatusOK)
}

func (h *Handler) SaveQuestion(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, _ := currentUserID(c)
	if _, err := h.questions.Save(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]bool{"saved": true}, http.StatusOK)
}

func (h *Handler) UnsaveQuestion(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, _ := currentUserID(c)
	if _, err := h.questions.Unsave(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]bool{"saved": false}, http.StatusOK)
}

func (h *Handler) SavedQuestions(c echo.Context) error {
	userID, _ := currentUserID(c)
	questions, err := h.questions.SavedQuestions(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]interface{}{"items": questions}, http.StatusOK)
}

func (h *Handler) SavedIDs(c echo.Context) error {
	userID, _ := currentUserID(c)
	ids, err := h.questions.SavedIDs(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]interface{}{"ids": ids}, http.StatusOK)
}

func (h *Handler) CreateQuestion(c echo.Context) error {
	var createCommand command.CreateQuestionCommand
	if err := bindBody(c, &createCommand); err != nil {
		return err
	}
	createCommand.UserId, _ = currentUserID(c)

	question, err := h.questions.CreateQuestion(c.Request().Context(), &createCommand)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]interface{}{"question": question}, http.StatusCreated)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sqlpractice-service/internal/application/command"
	"sqlpractice-service/internal/domain"
)

func (h *Handler) ListBanks(c echo.Context) error {
	var (
		limit   int
		topic   string
		grouped bool
	)
	err := echo.QueryParamsBinder(c).
		Int("limit", &limit).
		String("topic", &topic).
		Bool("grouped", &grouped).
		BindError()
	if err != nil || limit < 0 {
		return domain.NewError(domain.ErrInvalidInput, "Invalid query parameters")
	}

	ctx := c.Request().Context()
	switch {
	case topic != "":
		banks, err := h.banks.ListByTopic(ctx, topic, limit)
		if err != nil {
			return err
		}
		return sendJSONResponse(c, map[string]interface{}{"banks": banks}, http.StatusOK)
	case grouped:
		groups, err := h.banks.ListGroupedByTopic(ctx, limit)
		if err != nil {
			return err
		}
		return sendJSONResponse(c, map[string]interface{}{"groups": groups}, http.StatusOK)
	default:
		banks, err := h.banks.List(ctx, limit)
		if err != nil {
			return err
		}
		return sendJSONResponse(c, map[string]interface{}{"banks": banks}, http.StatusOK)
	}
}

func (h *Handler) GetBank(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.banks.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, detail, http.StatusOK)
}

func (h *Handler) IsFavorited(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, _ := currentUserID(c)
	ok, err := h.banks.IsFavorited(c.Request().Context(), userID, id)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]bool{"isFavorited": ok}, http.StatusOK)
}

func (h *Handler) FavoriteBank(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, _ := currentUserID(c)
	if _, err := h.banks.Favorite(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]bool{"isFavorited": true}, http.StatusOK)
}

func (h *Handler) UnfavoriteBank(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, _ := currentUserID(c)
	if _, err := h.banks.Unfavorite(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]bool{"isFavorited": false}, http.StatusOK)
}

func (h *Handler) FavoriteBanks(c echo.Context) error {
	userID, _ := currentUserID(c)
	banks, err := h.banks.Favorites(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]interface{}{"banks": banks}, http.StatusOK)
}

func (h *Handler) BatchUnfavorite(c echo.Context) error {
	var batchCommand command.BatchUnfavoriteCommand
	if err := bindBody(c, &batchCommand); err != nil {
		return err
	}
	userID, _ := currentUserID(c)

	deleted, err := h.banks.BatchUnfavorite(c.Request().Context(), userID, &batchCommand)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]int64{"deleted": deleted}, http.StatusOK)
}

func (h *Handler) CreateBank(c echo.Context) error {
	var createCommand command.CreateBankCommand
	if err := bindBody(c, &createCommand); err != nil {
		return err
	}
	createCommand.UserId, _ = currentUserID(c)

	bank, err := h.banks.CreateBank(c.Request().Context(), &createCommand)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]interface{}{"bank": bank}, http.StatusCreated)
}

func (h *Handler) AddBankQuestion(c echo.Context) error {
	bankID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	questionID, err := pathID(c, "qid")
	if err != nil {
		return err
	}
	added, err := h.banks.AddQuestion(c.Request().Context(), bankID, questionID)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]bool{"added": added}, http.StatusOK)
}

func (h *Handler) RemoveBankQuestion(c echo.Context) error {
	bankID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	questionID, err := pathID(c, "qid")
	if err != nil {
		return err
	}
	removed, err := h.banks.RemoveQuestion(c.Request().Context(), bankID, questionID)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, map[string]bool{"removed": removed}, http.StatusOK)
}

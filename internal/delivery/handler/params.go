package handler

import (
	"github.com/labstack/echo/v4"

	"sqlpractice-service/internal/domain"
)

func pathID(c echo.Context, name string) (int64, error) {
	var id int64
	if err := echo.PathParamsBinder(c).MustInt64(name, &id).BindError(); err != nil || id <= 0 {
		return 0, domain.NewError(domain.ErrInvalidInput, "Invalid %s", name)
	}
	return id, nil
}

func bindBody(c echo.Context, dst interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return domain.NewError(domain.ErrInvalidInput, "Invalid request body")
	}
	return nil
}

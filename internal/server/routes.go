package server

import (
	"storefront/internal/config"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Product.RegisterRoutes(e, cfg)
	h.Category.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
}

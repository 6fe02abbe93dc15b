package server

import (
	"storefront/internal/config"
	"storefront/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
}

func Start(cfg config.Config, h Handlers) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	//フロントからのアクセスを許可
	cors := echomw.DefaultCORSConfig
	if cfg.FEURL != "" {
		cors.AllowOrigins = []string{cfg.FEURL}
	}
	e.Use(echomw.CORSWithConfig(cors))

	RegisterRoutes(e, cfg, h)

	return e.Start(":" + cfg.Port)
}

package middleware

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"multirag/internal/config"
	"multirag/pkg/ai"
	"multirag/pkg/graphstore"
	"multirag/pkg/vectorstore"
)

// App bundles the shared dependencies every request handler needs.
type App struct {
	DBConn      *pgxpool.Pool
	Queue       *amqp091.Channel
	AiClient    ai.RAGAIClient
	VectorStore vectorstore.VectorStore
	GraphStore  graphstore.GraphStore
	Config      *config.Config
}

// AppContext wraps the echo context with the application dependencies.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware attaches the shared App to every request.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}

// APIKeyMiddleware rejects requests whose X-API-Key header does not match
// the configured master key. An empty configured key disables the check.
func APIKeyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		app := c.(*AppContext).App
		if app.Config.MasterAPIKey == "" {
			return next(c)
		}

		if c.Request().Header.Get("X-API-Key") != app.Config.MasterAPIKey {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"message": "Unauthorized",
			})
		}

		return next(c)
	}
}

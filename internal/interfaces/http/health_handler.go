package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger lo cumplen *pgxpool.Pool y el almacén en memoria.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health responde 200 si el almacenamiento responde en 2s, 503 si no.
// @Summary  Health check
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  map[string]string
// @Router   /health [get]
func Health(storage Pinger, storageDriver string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := storage.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "degraded",
				"storage": storageDriver,
				"error":   err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok", "storage": storageDriver})
	}
}

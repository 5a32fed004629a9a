package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Agent-cat/Chaitra/internal/http/middleware"
	"github.com/Agent-cat/Chaitra/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Mutating
// property routes sit behind the admin role guard; browsing is public.
func RegisterRoutes(app *fiber.App, db *sql.DB, propSvc service.PropertyService, guard *middleware.Auth) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/properties", ListProperties(propSvc))
	app.Get("/properties/:id", GetProperty(propSvc))

	admin := guard.RequireRole(middleware.RoleAdmin)
	app.Post("/properties", admin, CreateProperty(propSvc))
	app.Patch("/properties/:id", admin, UpdateProperty(propSvc))
	app.Delete("/properties/:id", admin, DeleteProperty(propSvc))
}

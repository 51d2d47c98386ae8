package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sin docs/swagger.json presente el arranque no debe caerse: el middleware
// de Swagger entra en pánico dentro de New si el archivo falta, así que solo
// se monta cuando existe.
func TestRegisterSwagger_SinArchivoNoMontaNiEntraEnPanico(t *testing.T) {
	app := fiber.New()

	assert.NotPanics(t, func() { registerSwagger(app, "Farmacia") })

	// El resto de la app sigue funcionando.
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

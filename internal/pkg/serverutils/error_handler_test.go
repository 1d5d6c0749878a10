package serverutils

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"mariia-hub-be/pkg/rag"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func newErrorApp(err error) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

func TestErrorHandlerMapsEngineSentinels(t *testing.T) {
	cases := []struct {
		err      error
		expected int
	}{
		{fmt.Errorf("%w: document x", rag.ErrNotFound), fiber.StatusNotFound},
		{rag.ErrEmptyQuery, fiber.StatusBadRequest},
		{fmt.Errorf("%w: dial tcp", rag.ErrStoreUnavailable), fiber.StatusServiceUnavailable},
		{fmt.Errorf("%w: quota", rag.ErrEmbeddingFailure), fiber.StatusBadGateway},
		{fmt.Errorf("%w: timeout", rag.ErrGenerationFailure), fiber.StatusBadGateway},
	}

	for _, tc := range cases {
		app := newErrorApp(tc.err)
		res, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
		assert.NoError(t, err)
		assert.Equal(t, tc.expected, res.StatusCode, "for error %v", tc.err)
	}
}

func TestErrorHandlerValidationErrors(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}
	app := newErrorApp(ValidateRequest(payload{}))

	res, err := app.Test(httptest.NewRequest("GET", "/boom", nil))

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestErrorHandlerUnknownErrorIs500(t *testing.T) {
	app := newErrorApp(fmt.Errorf("something odd"))

	res, err := app.Test(httptest.NewRequest("GET", "/boom", nil))

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, res.StatusCode)
}

func TestErrorHandlerPassesThroughSuccess(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(SuccessResponse("ok", fiber.Map{"ready": true}))
	})

	res, err := app.Test(httptest.NewRequest("GET", "/ok", nil))

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

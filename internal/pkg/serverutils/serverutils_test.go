package serverutils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiology-consult-be/pkg/deliberation"
)

func TestValidateRequest(t *testing.T) {
	type intake struct {
		Symptoms string `validate:"required"`
	}

	err := ValidateRequest(intake{Symptoms: "cough"})
	assert.NoError(t, err)

	err = ValidateRequest(intake{})
	require.Error(t, err)
	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
	assert.Contains(t, fiberErr.Message, "symptoms")
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())

	app.Get("/not-found", func(c *fiber.Ctx) error {
		return deliberation.ErrSessionNotFound
	})
	app.Get("/cancelled", func(c *fiber.Ctx) error {
		return deliberation.ErrSessionCancelled
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return &deliberation.ValidationFailure{Field: "symptoms", Reason: "must not be empty"}
	})
	app.Get("/deliberation", func(c *fiber.Ctx) error {
		return &deliberation.DeliberationFailure{Round: 2, Role: deliberation.RoleDoctor, Err: errors.New("timeout")}
	})
	app.Get("/unavailable", func(c *fiber.Ctx) error {
		return deliberation.ErrCollaboratorUnavailable
	})
	app.Get("/unknown", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	cases := []struct {
		path string
		code int
	}{
		{"/not-found", http.StatusNotFound},
		{"/cancelled", http.StatusConflict},
		{"/validation", http.StatusBadRequest},
		{"/deliberation", http.StatusBadGateway},
		{"/unavailable", http.StatusServiceUnavailable},
		{"/unknown", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.code, resp.StatusCode)

			var body Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

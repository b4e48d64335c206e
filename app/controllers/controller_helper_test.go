package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenFormsApp/OpenForms/app/repository"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/apperror"
)

func TestParseListOptions(t *testing.T) {
	app := fiber.New()
	app.Get("/list", func(c *fiber.Ctx) error {
		opts, page := parseListOptions(c, "createdAt")
		return c.JSON(fiber.Map{"opts": opts, "page": page})
	})

	tests := []struct {
		name     string
		query    string
		wantOpts repository.ListOptions
		wantPage int
	}{
		{
			name:     "defaults",
			query:    "",
			wantOpts: repository.ListOptions{Offset: 0, Limit: 10, SortBy: "createdAt", SortOrder: "DESC"},
			wantPage: 1,
		},
		{
			name:     "explicit page and limit",
			query:    "?page=3&limit=25&sortBy=title&sortOrder=ASC",
			wantOpts: repository.ListOptions{Offset: 50, Limit: 25, SortBy: "title", SortOrder: "ASC"},
			wantPage: 3,
		},
		{
			name:     "limit out of range falls back",
			query:    "?page=0&limit=1000",
			wantOpts: repository.ListOptions{Offset: 0, Limit: 10, SortBy: "createdAt", SortOrder: "DESC"},
			wantPage: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", "/list"+tt.query, nil), -1)
			require.NoError(t, err)

			var body struct {
				Opts repository.ListOptions `json:"opts"`
				Page int                    `json:"page"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantOpts, body.Opts)
			assert.Equal(t, tt.wantPage, body.Page)
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := newPagination(2, repository.ListOptions{Limit: 10}, 25)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(25), p.TotalItems)
	assert.Equal(t, 10, p.ItemsPerPage)

	p = newPagination(1, repository.ListOptions{Limit: 10}, 0)
	assert.Equal(t, 0, p.TotalPages)
}

func TestSuccessEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return success(c, fiber.StatusCreated, "Created", fiber.Map{"id": 1})
	})
	app.Get("/bare", func(c *fiber.Ctx) error {
		return success(c, fiber.StatusOK, "", nil)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Created", body["message"])
	require.Contains(t, body, "data")

	resp, err = app.Test(httptest.NewRequest("GET", "/bare", nil), -1)
	require.NoError(t, err)

	body = map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "message")
	assert.NotContains(t, body, "data")
}

func TestParseBody_Validation(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperror.ErrorHandler})
	app.Post("/register", func(c *fiber.Ctx) error {
		var req registerRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		return success(c, fiber.StatusOK, "", nil)
	})

	req := httptest.NewRequest("POST", "/register", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Errors  []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Errors)
}

func TestParamID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperror.ErrorHandler})
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/items/12", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/items/abc", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/items/0", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/OpenFormsApp/OpenForms/app/repository"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/apperror"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/docstore"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/payment"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/submission"
)

// Shared service instances, wired once at process start.
var (
	submissionService *submission.Service
	paymentService    *payment.Service
	documentStore     *docstore.Client
)

var validate = validator.New()

// SetupControllers injects the service singletons the handlers delegate to.
// The document store may be nil when document storage is disabled.
func SetupControllers(sub *submission.Service, pay *payment.Service, docs *docstore.Client) {
	submissionService = sub
	paymentService = pay
	documentStore = docs
}

// Pagination is the shared pagination response block.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// parseListOptions reads page/limit/sort query parameters into repository
// list options plus the current page number.
func parseListOptions(c *fiber.Ctx, defaultSort string) (repository.ListOptions, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return repository.ListOptions{
		Offset:    (page - 1) * limit,
		Limit:     limit,
		SortBy:    c.Query("sortBy", defaultSort),
		SortOrder: c.Query("sortOrder", "DESC"),
	}, page
}

// newPagination derives the pagination block from a total count.
func newPagination(page int, opts repository.ListOptions, total int64) Pagination {
	totalPages := int((total + int64(opts.Limit) - 1) / int64(opts.Limit))
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: opts.Limit,
	}
}

// parseBody binds and validates a JSON request body.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.NewBadRequest("Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return apperror.FromValidationErrors(err)
	}
	return nil
}

// success writes the shared response envelope.
func success(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// paramID reads a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id < 1 {
		return 0, apperror.NewBadRequest("Invalid id parameter")
	}
	return uint(id), nil
}

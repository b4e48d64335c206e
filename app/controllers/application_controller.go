package controllers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/OpenFormsApp/OpenForms/app/repository"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/apperror"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/cache"
)

const (
	categoriesCacheKey = "applications:categories"
	categoriesCacheTTL = 10 * time.Minute
)

// HandleListApplications returns the active catalog, optionally filtered by category.
func HandleListApplications(c *fiber.Ctx) error {
	opts, page := parseListOptions(c, "createdAt")
	category := c.Query("category")

	repo := repository.GetGlobalFactory().GetApplicationRepository()
	applications, total, err := repo.ListActive(category, opts)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"applications": applications,
		"pagination":   newPagination(page, opts, total),
	})
}

// HandleSearchApplications searches active catalog entries by title, description or tags.
func HandleSearchApplications(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return apperror.NewBadRequest("Search query is required")
	}
	opts, page := parseListOptions(c, "createdAt")
	category := c.Query("category")

	repo := repository.GetGlobalFactory().GetApplicationRepository()
	applications, total, err := repo.Search(query, category, opts)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"applications": applications,
		"pagination":   newPagination(page, opts, total),
	})
}

// HandleGetApplication returns one active catalog entry with its form fields.
func HandleGetApplication(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetApplicationRepository()
	application, err := repo.GetActiveByID(id)
	if err != nil {
		return apperror.NewNotFound("Application not found")
	}

	return success(c, fiber.StatusOK, "", fiber.Map{"application": application})
}

// HandleGetCategories returns the distinct categories of active catalog entries.
// The list changes rarely, so it is served from redis when possible.
func HandleGetCategories(c *fiber.Ctx) error {
	if cached, err := cache.Get(categoriesCacheKey); err == nil && cached != "" {
		var categories []string
		if err := json.Unmarshal([]byte(cached), &categories); err == nil {
			return success(c, fiber.StatusOK, "", fiber.Map{"categories": categories})
		}
	}

	repo := repository.GetGlobalFactory().GetApplicationRepository()
	categories, err := repo.Categories()
	if err != nil {
		return err
	}

	if encoded, err := json.Marshal(categories); err == nil {
		if err := cache.Set(categoriesCacheKey, string(encoded), categoriesCacheTTL); err != nil {
			log.Printf("failed to cache categories: %v", err)
		}
	}

	return success(c, fiber.StatusOK, "", fiber.Map{"categories": categories})
}

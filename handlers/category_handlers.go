package handlers

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// maxUploadSize bounds category logos and product photos.
const maxUploadSize = 5 * 1024 * 1024

// HandleListCategories returns the category list, served from cache inside
// the freshness window. On a failed refetch any stale copy is still shown,
// flagged as such.
// GET /categories
func (h *Handlers) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.Store.Categories(c.Context(), h.token(c))
	if err != nil {
		if categories == nil || !canServeStale(err) {
			return err
		}
		return c.JSON(fiber.Map{"status": "success", "stale": true, "data": categories})
	}
	return c.JSON(fiber.Map{"status": "success", "data": categories})
}

// HandleListCompanies returns company names grouped by category for the
// product form.
// GET /api/v1/category/companies
func (h *Handlers) HandleListCompanies(c *fiber.Ctx) error {
	companies, err := h.Store.Companies(c.Context(), h.token(c))
	if err != nil {
		if companies == nil || !canServeStale(err) {
			return err
		}
		return c.JSON(fiber.Map{"status": "success", "stale": true, "data": companies})
	}
	return c.JSON(fiber.Map{"status": "success", "data": companies})
}

// HandleCreateCategory validates and forwards a new category (name + logo).
// POST /api/v1/category
func (h *Handlers) HandleCreateCategory(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Expected multipart form data"})
	}
	if formValue(form, "name") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Category name is required"})
	}
	if msg := checkUpload(form, "file", true); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msg})
	}

	if err := h.Store.CreateCategory(c.Context(), h.token(c), form); err != nil {
		return err
	}
	h.Audit.Record(c.Context(), "category.create", "category", formValue(form, "name"), nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success"})
}

// HandleUpdateCategory forwards a category edit; the photo is optional here.
// PATCH /api/v1/category/:id
func (h *Handlers) HandleUpdateCategory(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Expected multipart form data"})
	}
	if formValue(form, "name") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Category name is required"})
	}
	if msg := checkUpload(form, "file", false); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msg})
	}

	id := c.Params("id")
	if err := h.Store.UpdateCategory(c.Context(), h.token(c), id, form); err != nil {
		return err
	}
	h.Audit.Record(c.Context(), "category.update", "category", id, nil)
	return c.JSON(fiber.Map{"status": "success"})
}

// HandleDeleteCategory removes a category. The caller confirmed; whether
// products cascade is decided upstream and surfaced as-is.
// DELETE /api/v1/category/:id
func (h *Handlers) HandleDeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Store.DeleteCategory(c.Context(), h.token(c), id); err != nil {
		return err
	}
	h.Audit.Record(c.Context(), "category.delete", "category", id, nil)
	return c.JSON(fiber.Map{"status": "success"})
}

func formValue(form *multipart.Form, name string) string {
	values := form.Value[name]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// checkUpload validates a form file field. Returns a user-facing message, or
// "" when the field is acceptable.
func checkUpload(form *multipart.Form, field string, required bool) string {
	files := form.File[field]
	if len(files) == 0 {
		if required {
			return "Photo is required"
		}
		return ""
	}

	file := files[0]
	if file.Size > maxUploadSize {
		return "Image size must be less than 5MB"
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "Only image files are allowed"
	}
	return ""
}

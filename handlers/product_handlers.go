package handlers

import (
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"guevara/pricing"
)

// HandleListProducts returns the catalog, optionally filtered to one
// category via ?category=<id>.
// GET /products
func (h *Handlers) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.Store.Products(c.Context(), h.token(c), c.Query("category"))
	if err != nil {
		if products == nil || !canServeStale(err) {
			return err
		}
		return c.JSON(fiber.Map{"status": "success", "stale": true, "data": products})
	}
	return c.JSON(fiber.Map{"status": "success", "data": products})
}

// HandleCreateProduct validates the product form, normalizes its pricing
// variant and forwards it with the photo.
// POST /api/v1/product
func (h *Handlers) HandleCreateProduct(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Expected multipart form data"})
	}
	if msg := checkProductForm(form, true); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msg})
	}

	p, err := pricingFromForm(form)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	applyPricing(form, p)

	if err := h.Store.CreateProduct(c.Context(), h.token(c), form); err != nil {
		return err
	}
	h.Audit.Record(c.Context(), "product.create", "product", formValue(form, "productEnglishName"), nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success"})
}

// HandleUpdateProduct forwards a product edit; the photo is optional here.
// PATCH /api/v1/product/:id
func (h *Handlers) HandleUpdateProduct(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Expected multipart form data"})
	}
	if msg := checkProductForm(form, false); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msg})
	}

	p, err := pricingFromForm(form)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	applyPricing(form, p)

	id := c.Params("id")
	if err := h.Store.UpdateProduct(c.Context(), h.token(c), id, form); err != nil {
		return err
	}
	h.Audit.Record(c.Context(), "product.update", "product", id, nil)
	return c.JSON(fiber.Map{"status": "success"})
}

// HandleDeleteProduct removes a product.
// DELETE /api/v1/product/:id
func (h *Handlers) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Store.DeleteProduct(c.Context(), h.token(c), id); err != nil {
		return err
	}
	h.Audit.Record(c.Context(), "product.delete", "product", id, nil)
	return c.JSON(fiber.Map{"status": "success"})
}

// checkProductForm validates the non-pricing fields. The photo is required
// on create only.
func checkProductForm(form *multipart.Form, create bool) string {
	if formValue(form, "productEnglishName") == "" {
		return "Product name is required"
	}
	if formValue(form, "categoryId") == "" {
		return "Category is required"
	}
	if msg := checkUpload(form, "image", create); msg != "" {
		return msg
	}

	stock, err := strconv.Atoi(formValue(form, "stock"))
	if err != nil {
		return "Product count must be a whole number"
	}
	if stock < 0 {
		return "Product count cannot be negative"
	}
	return ""
}

// pricingFromForm builds and validates the pricing variant picked by the
// isSale flag. The discount is always derived, never read from the form.
func pricingFromForm(form *multipart.Form) (pricing.Pricing, error) {
	onSale := formValue(form, "isSale") == "true" || formValue(form, "isSale") == "1"

	var p pricing.Pricing
	if onSale {
		original, _ := strconv.ParseFloat(formValue(form, "originalPrice"), 64)
		final, _ := strconv.ParseFloat(formValue(form, "finalPrice"), 64)
		p = pricing.Discounted(original, final)
	} else {
		price, _ := strconv.ParseFloat(formValue(form, "price"), 64)
		p = pricing.Flat(price)
	}

	if err := p.Validate(); err != nil {
		return pricing.Pricing{}, err
	}
	return p.Normalize(), nil
}

// applyPricing rewrites the form's pricing fields to the normalized variant
// before the form is forwarded upstream.
func applyPricing(form *multipart.Form, p pricing.Pricing) {
	delete(form.Value, "price")
	delete(form.Value, "originalPrice")
	delete(form.Value, "finalPrice")
	delete(form.Value, "discountPercent")

	if p.OnSale {
		form.Value["onSale"] = []string{"true"}
		form.Value["originalPrice"] = []string{strconv.FormatFloat(p.OriginalPrice, 'f', -1, 64)}
		form.Value["finalPrice"] = []string{strconv.FormatFloat(p.FinalPrice, 'f', -1, 64)}
		form.Value["discountPercent"] = []string{strconv.Itoa(p.DiscountPercent)}
		return
	}
	form.Value["onSale"] = []string{"false"}
	form.Value["price"] = []string{strconv.FormatFloat(p.Price, 'f', -1, 64)}
}

package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/app"
	"storefront/internal/audit"
	"storefront/internal/domain/money"
	"storefront/internal/domain/product"
	apperrors "storefront/pkg/errors"
)

type ProductHandler struct {
	catalog CatalogService
	audit   AuditRecorder
}

func NewProductHandler(catalog CatalogService, auditLogger AuditRecorder) *ProductHandler {
	return &ProductHandler{catalog: catalog, audit: auditLogger}
}

type CreateProductRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       money.Cents `json:"price"`
	Available   *bool       `json:"available"`
}

type UpdateProductRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Price       *money.Cents `json:"price"`
	Available   *bool        `json:"available"`
}

// ListProducts is the public catalog: available products only.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	limit, offset, err := parsePage(c, defaultPageLimit, maxPageLimit)
	if err != nil {
		return err
	}

	products, err := h.catalog.ListProducts(c.Request().Context(), product.ListFilter{
		AvailableOnly: true,
		Search:        strings.TrimSpace(c.QueryParam(querySearch)),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return err
	}

	return respondItems(c, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseIDParam(c, "product id")
	if err != nil {
		return err
	}

	p, err := h.catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	p, err := h.catalog.CreateProduct(c.Request().Context(), product.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Available:   available,
	})

	var productID *int64
	if p != nil {
		productID = &p.ID
	}
	recordOutcome(h.audit, c, audit.ResourceProduct, productID, audit.ActionCreate, nil, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "product id")
	if err != nil {
		return err
	}

	var req UpdateProductRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	p, err := h.catalog.UpdateProduct(c.Request().Context(), id, product.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Available:   req.Available,
	})
	recordOutcome(h.audit, c, audit.ResourceProduct, &id, audit.ActionUpdate, nil, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "product id")
	if err != nil {
		return err
	}

	err = h.catalog.DeleteProduct(c.Request().Context(), id)
	recordOutcome(h.audit, c, audit.ResourceProduct, &id, audit.ActionDelete, nil, err)
	if err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, msgProductDeleted)
}

// UploadImages accepts a multipart form with one or more "images" files.
func (h *ProductHandler) UploadImages(c echo.Context) error {
	id, err := parseIDParam(c, "product id")
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.InvalidInput(msgInvalidMultipart)
	}
	defer form.RemoveAll()

	files := form.File[formFieldImages]
	uploads := make([]app.ImageUpload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, app.ImageUpload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Open: func() (io.ReadSeekCloser, error) {
				return fh.Open()
			},
		})
	}

	images, err := h.catalog.UploadImages(c.Request().Context(), id, uploads)
	recordOutcome(h.audit, c, audit.ResourceProduct, &id, audit.ActionUpload,
		map[string]any{"files": len(uploads)}, err)
	if err != nil {
		return err
	}

	return respondItems(c, http.StatusCreated, images)
}

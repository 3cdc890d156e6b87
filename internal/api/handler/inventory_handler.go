package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/recordkeep/records-system/internal/api/metrics"
	"github.com/recordkeep/records-system/internal/core/ports"
)

// InventoryHandler serves stock records and low-stock reports.
type InventoryHandler struct {
	inventory ports.InventoryService
	alerts    ports.AlertService
}

func NewInventoryHandler(inventory ports.InventoryService, alerts ports.AlertService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, alerts: alerts}
}

func observeInventory(op string, err error) {
	metrics.InventoryOperationsTotal.WithLabelValues(op, outcome(err)).Inc()
}

func productID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	return id, nil
}

func (h *InventoryHandler) bindProduct(c echo.Context) (productRequest, error) {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return req, nil
}

// List handles GET /v1/inventory/products.
//
// @Summary      List all products
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  productListResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/inventory/products [get]
func (h *InventoryHandler) List(c echo.Context) error {
	products, err := h.inventory.List(c.Request().Context())
	observeInventory("list", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{Data: toProductResponses(products), Total: len(products)})
}

// Add handles POST /v1/inventory/products.
//
// @Summary      Add a product
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Name, quantity and price"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/inventory/products [post]
func (h *InventoryHandler) Add(c echo.Context) error {
	req, err := h.bindProduct(c)
	if err != nil {
		return err
	}

	product, err := h.inventory.Add(c.Request().Context(), toProductInput(req))
	observeInventory("add", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProductResponse(product))
}

// Get handles GET /v1/inventory/products/:id.
//
// @Summary      Get a product
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/inventory/products/{id} [get]
func (h *InventoryHandler) Get(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.inventory.Get(c.Request().Context(), id)
	observeInventory("get", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Update handles PUT /v1/inventory/products/:id. All fields are replaced.
//
// @Summary      Replace a product's fields
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Product id"
// @Param        body  body      productRequest  true  "Name, quantity and price"
// @Success      200   {object}  productResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/inventory/products/{id} [put]
func (h *InventoryHandler) Update(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	req, err := h.bindProduct(c)
	if err != nil {
		return err
	}

	product, err := h.inventory.Update(c.Request().Context(), id, toProductInput(req))
	observeInventory("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /v1/inventory/products/:id.
//
// @Summary      Delete a product
// @Tags         inventory
// @Security     BearerAuth
// @Param        id   path  int  true  "Product id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/inventory/products/{id} [delete]
func (h *InventoryHandler) Delete(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	err = h.inventory.Delete(c.Request().Context(), id)
	observeInventory("delete", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// LowStock handles GET /v1/inventory/products/low-stock?threshold=N.
//
// @Summary      Products at or below a stock threshold
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        threshold  query     int  false  "Inclusive limit; server default when omitted"
// @Success      200        {object}  lowStockResponse
// @Failure      400        {object}  errorResponse
// @Failure      422        {object}  errorResponse
// @Router       /v1/inventory/products/low-stock [get]
func (h *InventoryHandler) LowStock(c echo.Context) error {
	var threshold *int
	if raw := c.QueryParam("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "threshold must be an integer")
		}
		threshold = &n
	}

	products, err := h.alerts.LowStock(c.Request().Context(), threshold)
	observeInventory("low_stock", err)
	if err != nil {
		return err
	}
	// the gauge tracks the configured threshold only
	if threshold == nil {
		metrics.LowStockProducts.Set(float64(len(products)))
	}

	return c.JSON(http.StatusOK, lowStockResponse{
		Threshold: threshold,
		Data:      toProductResponses(products),
		Total:     len(products),
	})
}

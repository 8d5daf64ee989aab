package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain"
)

// BomHandler maneja la lista de materiales: aristas, expansión y producible (protegido).
type BomHandler struct {
	bomUC        *inventory.BomUseCase
	producibleUC *inventory.ProducibleUseCase
}

// NewBomHandler construye el handler.
func NewBomHandler(bomUC *inventory.BomUseCase, producibleUC *inventory.ProducibleUseCase) *BomHandler {
	return &BomHandler{bomUC: bomUC, producibleUC: producibleUC}
}

// AddEdge godoc
// @Summary      Agregar arista padre→componente a la BOM
// @Tags         bom
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBomEdgeRequest  true  "parent_product_id, component_product_id, quantity, scrap_percentage"
// @Success      201   {object}  entity.BomEdge
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bom/edges [post]
func (h *BomHandler) AddEdge(c *fiber.Ctx) error {
	var in dto.CreateBomEdgeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	edge, err := h.bomUC.AddEdge(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cantidad positiva y merma en [0,100] requeridas"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto padre o componente no existe"})
		}
		if errors.Is(err, domain.ErrCycleDetected) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CYCLE_DETECTED", Message: "la arista cerraría un ciclo en la BOM"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "la arista ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(edge)
}

// Explode godoc
// @Summary      Expandir la BOM de un producto
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto raíz"
// @Param        quantity   query  string  false  "Cantidad a producir"  default(1)
// @Success      200  {array}   dto.ExplosionItemDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/bom/{productId}/explosion [get]
func (h *BomHandler) Explode(c *fiber.Ctx) error {
	productID := c.Params("productId")
	quantity, err := decimal.NewFromString(c.Query("quantity", "1"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity inválida"})
	}
	items, err := h.bomUC.Explode(c.Context(), productID, quantity)
	if err != nil {
		return h.explosionError(c, err)
	}
	return c.JSON(items)
}

// AggregateLeaves godoc
// @Summary      Totales por componente hoja a través de todas las rutas
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto raíz"
// @Param        quantity   query  string  false  "Cantidad a producir"  default(1)
// @Success      200  {object}  map[string]string
// @Router       /api/bom/{productId}/leaves [get]
func (h *BomHandler) AggregateLeaves(c *fiber.Ctx) error {
	productID := c.Params("productId")
	quantity, err := decimal.NewFromString(c.Query("quantity", "1"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity inválida"})
	}
	totals, err := h.bomUC.AggregateLeaves(c.Context(), productID, quantity)
	if err != nil {
		return h.explosionError(c, err)
	}
	return c.JSON(totals)
}

// ValidateEdge godoc
// @Summary      Verificar si una arista propuesta mantendría la BOM acíclica
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        parent_id     query  string  true  "Producto padre"
// @Param        component_id  query  string  true  "Producto componente"
// @Success      200  {object}  map[string]bool
// @Router       /api/bom/validate [get]
func (h *BomHandler) ValidateEdge(c *fiber.Ctx) error {
	parentID := c.Query("parent_id")
	componentID := c.Query("component_id")
	ok, err := h.bomUC.ValidateNoCycle(c.Context(), parentID, componentID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parent_id y component_id son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"acyclic": ok})
}

// Producible godoc
// @Summary      Cantidad máxima producible con la existencia actual
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        productId     path   string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "Bodega a evaluar"
// @Success      200  {object}  dto.ProducibleResultDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bom/{productId}/producible [get]
func (h *BomHandler) Producible(c *fiber.Ctx) error {
	productID := c.Params("productId")
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	out, err := h.producibleUC.CalculateProducible(c.Context(), productID, warehouseID)
	if err != nil {
		return h.explosionError(c, err)
	}
	return c.JSON(out)
}

// ProducibleBatch godoc
// @Summary      Producible de varios productos (aislamiento por ID)
// @Tags         bom
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProducibleBatchRequest  true  "product_ids, warehouse_id"
// @Success      200   {object}  map[string]dto.ProducibleResultDTO
// @Router       /api/bom/producible/batch [post]
func (h *BomHandler) ProducibleBatch(c *fiber.Ctx) error {
	var in dto.ProducibleBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.ProductIDs) == 0 || in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_ids y warehouse_id son requeridos"})
	}
	results := h.producibleUC.CalculateProducibleBatch(c.Context(), in.ProductIDs, in.WarehouseID)
	return c.JSON(results)
}

func (h *BomHandler) explosionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cantidad debe ser positiva"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	if errors.Is(err, domain.ErrCycleDetected) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "CYCLE_DETECTED", Message: "la BOM contiene un ciclo"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

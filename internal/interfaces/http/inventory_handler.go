package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// InventoryHandler maneja descuentos, reservas, entradas y consulta de existencias.
type InventoryHandler struct {
	deductionUC   *inventory.DeductionUseCase
	reservationUC *inventory.ReservationUseCase
	intakeUC      *inventory.IntakeUseCase
	stockRepo     repository.StockRepository
	movementRepo  repository.StockMovementRepository
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	deductionUC *inventory.DeductionUseCase,
	reservationUC *inventory.ReservationUseCase,
	intakeUC *inventory.IntakeUseCase,
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
) *InventoryHandler {
	return &InventoryHandler{
		deductionUC:   deductionUC,
		reservationUC: reservationUC,
		intakeUC:      intakeUC,
		stockRepo:     stockRepo,
		movementRepo:  movementRepo,
	}
}

// Deduct godoc
// @Summary      Descuento recursivo de existencia vía BOM
// @Description  Valida todo el árbol antes de mutar; si falta existencia devuelve la lista completa de faltantes sin tocar nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeductRequest  true  "product_id, warehouse_id, quantity, reference_id"
// @Success      200   {object}  dto.DeductionResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.DeductionResultDTO  "success=false con faltantes"
// @Router       /api/inventory/deduct [post]
func (h *InventoryHandler) Deduct(c *fiber.Ctx) error {
	var in dto.DeductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.deductionUC.DeductRecursive(c.Context(), inventory.DeductInput{
		ProductID:   in.ProductID,
		VariantID:   in.VariantID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		ReferenceID: in.ReferenceID,
		ActorID:     GetUserID(c),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, warehouse_id y cantidad positiva son requeridos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		if errors.Is(err, domain.ErrCycleDetected) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "CYCLE_DETECTED", Message: "la BOM contiene un ciclo"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if !result.Success {
		return c.Status(fiber.StatusConflict).JSON(result)
	}
	return c.JSON(result)
}

// Reserve godoc
// @Summary      Reserva suave de existencia
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "product_id, warehouse_id, quantity"
// @Success      200   {object}  dto.ReservationResultDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/reserve [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.reservationUC.Reserve(c.Context(), in)
	if err != nil {
		return h.reservationError(c, err)
	}
	return c.JSON(result)
}

// Release godoc
// @Summary      Liberar una reserva (recortada a cero)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "product_id, warehouse_id, quantity"
// @Success      200   {object}  dto.ReservationResultDTO
// @Router       /api/inventory/release [post]
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.reservationUC.Release(c.Context(), in)
	if err != nil {
		return h.reservationError(c, err)
	}
	return c.JSON(result)
}

// ReserveBatch godoc
// @Summary      Reservar varias líneas (cada línea es independiente)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveBatchRequest  true  "lines"
// @Success      200   {object}  dto.ReserveBatchResultDTO
// @Router       /api/inventory/reserve/batch [post]
func (h *InventoryHandler) ReserveBatch(c *fiber.Ctx) error {
	var in dto.ReserveBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return c.JSON(h.reservationUC.ReserveBatch(c.Context(), in))
}

// ReleaseBatch godoc
// @Summary      Liberar varias líneas (cada línea es independiente)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveBatchRequest  true  "lines"
// @Success      200   {object}  dto.ReserveBatchResultDTO
// @Router       /api/inventory/release/batch [post]
func (h *InventoryHandler) ReleaseBatch(c *fiber.Ctx) error {
	var in dto.ReserveBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return c.JSON(h.reservationUC.ReleaseBatch(c.Context(), in))
}

// RegisterIntake godoc
// @Summary      Registrar entrada o ajuste de existencia
// @Description  Las entradas con costo recalculan el costo promedio ponderado del producto.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterIntakeRequest  true  "product_id, warehouse_id, type, quantity, unit_cost"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/intake [post]
func (h *InventoryHandler) RegisterIntake(c *fiber.Ctx) error {
	var in dto.RegisterIntakeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.intakeUC.RegisterIntake(c.Context(), GetUserID(c), in); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo, cantidad y costo unitario inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		if errors.Is(err, domain.ErrInsufficientStock) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "el ajuste dejaría la existencia en negativo"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "registered"})
}

// ListStock godoc
// @Summary      Existencias por bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true   "Bodega"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.StockRecordDTO
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	records, err := h.stockRepo.ListByWarehouse(warehouseID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockRecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, dto.StockRecordDTO{
			ProductID:        r.ProductID,
			VariantID:        r.VariantID,
			WarehouseID:      r.WarehouseID,
			Quantity:         r.Quantity,
			ReservedQuantity: r.ReservedQuantity,
			Available:        r.Available(),
		})
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Kardex de movimientos
// @Description  Filtra por bodega, producto o referencia; from/to en RFC3339.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        product_id    query  string  false  "Producto"
// @Param        reference     query  string  false  "Referencia (ej. ID de orden)"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {array}  entity.StockMovement
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	if ref := c.Query("reference"); ref != "" {
		movements, err := h.movementRepo.ListByReference(ref)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		return c.JSON(movements)
	}

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido, use RFC3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido, use RFC3339"})
	}

	if productID := c.Query("product_id"); productID != "" {
		movements, err := h.movementRepo.ListByProduct(productID, from, to, limit, offset)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		return c.JSON(movements)
	}
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id, product_id o reference es requerido"})
	}
	movements, err := h.movementRepo.ListByWarehouse(warehouseID, from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(movements)
}

func (h *InventoryHandler) reservationError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, warehouse_id y cantidad positiva son requeridos"})
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "disponibilidad insuficiente para reservar"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

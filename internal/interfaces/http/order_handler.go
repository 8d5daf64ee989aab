package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain"
)

// OrderHandler maneja la asignación atómica de existencia a órdenes completas.
type OrderHandler struct {
	allocationUC *inventory.AllocationUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(allocationUC *inventory.AllocationUseCase) *OrderHandler {
	return &OrderHandler{allocationUC: allocationUC}
}

// Allocate godoc
// @Summary      Asignar existencia a todas las líneas de una orden
// @Description  Todo o nada: si una sola línea falta, ninguna línea se descuenta.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.AllocationResultDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.AllocationResultDTO  "success=false con faltantes"
// @Router       /api/orders/{id}/allocate [post]
func (h *OrderHandler) Allocate(c *fiber.Ctx) error {
	result, err := h.allocationUC.AllocateForOrder(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return h.allocationError(c, err, "la orden ya está asignada")
	}
	if !result.Success {
		return c.Status(fiber.StatusConflict).JSON(result)
	}
	return c.JSON(result)
}

// Release godoc
// @Summary      Revertir la asignación de una orden
// @Description  Reincrementa la existencia de cada línea y marca la orden como cancelada.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.AllocationResultDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/release [post]
func (h *OrderHandler) Release(c *fiber.Ctx) error {
	result, err := h.allocationUC.ReleaseForOrder(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return h.allocationError(c, err, "solo se pueden liberar órdenes asignadas")
	}
	return c.JSON(result)
}

func (h *OrderHandler) allocationError(c *fiber.Ctx, err error, conflictMsg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
	}
	if errors.Is(err, domain.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: conflictMsg})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de orden es requerido"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

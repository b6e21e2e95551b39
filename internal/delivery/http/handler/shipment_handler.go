package handler

import (
	"errors"
	"net/http"

	domainShipment "freight-operations/internal/domain/shipment"
	"freight-operations/internal/usecase/shipment"
	"freight-operations/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ShipmentHandler struct {
	service *shipment.Service
}

func NewShipmentHandler(service *shipment.Service) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

func (h *ShipmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	shipments := router.Group("/shipments")
	{
		shipments.GET("", h.ListShipments)
		shipments.GET("/:id", h.GetShipment)
		shipments.GET("/:id/status", h.GetStatus)
		shipments.POST("/:id/validate", h.ValidateShipment)
		shipments.POST("/validate", h.ValidateDraft)
	}
}

// RegisterOperationsRoutes mounts the routes that change shipments. The
// router guards them with the operations role.
func (h *ShipmentHandler) RegisterOperationsRoutes(router *gin.RouterGroup) {
	shipments := router.Group("/shipments")
	{
		shipments.POST("", h.CreateShipment)
		shipments.PUT("/:id", h.UpdateShipment)
		shipments.DELETE("/:id", h.DeleteShipment)
		shipments.POST("/:id/status-override", h.OverrideStatus)
		shipments.DELETE("/:id/status-override", h.ClearOverride)
	}
}

func (h *ShipmentHandler) CreateShipment(c *gin.Context) {
	var req shipment.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid user ID format")
		return
	}

	outcome, err := h.service.Create(c.Request.Context(), userUUID, &req)
	if err != nil {
		if errors.Is(err, domainShipment.ErrValidationBlocked) {
			c.JSON(http.StatusUnprocessableEntity, utils.APIResponse{
				Success: false,
				Message: "Shipment has blocking validation errors",
				Data:    outcome,
			})
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Shipment created successfully", outcome)
}

func (h *ShipmentHandler) UpdateShipment(c *gin.Context) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shipment ID")
		return
	}

	var req shipment.UpdateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome, err := h.service.Update(c.Request.Context(), shipmentID, &req)
	if err != nil {
		if errors.Is(err, domainShipment.ErrValidationBlocked) {
			c.JSON(http.StatusUnprocessableEntity, utils.APIResponse{
				Success: false,
				Message: "Shipment has blocking validation errors",
				Data:    outcome,
			})
			return
		}
		if errors.Is(err, domainShipment.ErrShipmentNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Shipment not found")
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shipment updated successfully", outcome)
}

func (h *ShipmentHandler) GetShipment(c *gin.Context) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shipment ID")
		return
	}

	resp, err := h.service.Get(c.Request.Context(), shipmentID)
	if err != nil {
		if errors.Is(err, domainShipment.ErrShipmentNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Shipment not found")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get shipment")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shipment retrieved successfully", resp)
}

func (h *ShipmentHandler) ListShipments(c *gin.Context) {
	var req shipment.ListShipmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list shipments")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shipments retrieved successfully", resp)
}

func (h *ShipmentHandler) DeleteShipment(c *gin.Context) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shipment ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), shipmentID); err != nil {
		if errors.Is(err, domainShipment.ErrShipmentNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Shipment not found")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete shipment")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shipment deleted successfully", nil)
}

// ValidateShipment runs validation against a stored shipment. The optional
// section query parameter scopes the run to one wizard step.
func (h *ShipmentHandler) ValidateShipment(c *gin.Context) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shipment ID")
		return
	}

	result, err := h.service.Validate(c.Request.Context(), shipmentID, c.Query("section"))
	if err != nil {
		if errors.Is(err, domainShipment.ErrShipmentNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Shipment not found")
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Validation completed", result)
}

// ValidateDraft validates an unsaved wizard payload
func (h *ShipmentHandler) ValidateDraft(c *gin.Context) {
	var payload shipment.ShipmentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.ValidateDraft(&payload, c.Query("section"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Validation completed", result)
}

func (h *ShipmentHandler) GetStatus(c *gin.Context) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shipment ID")
		return
	}

	resp, err := h.service.Status(c.Request.Context(), shipmentID)
	if err != nil {
		if errors.Is(err, domainShipment.ErrShipmentNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Shipment not found")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to derive status")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Status derived successfully", resp)
}

func (h *ShipmentHandler) OverrideStatus(c *gin.Context) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shipment ID")
		return
	}

	var req shipment.OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	email, exists := c.Get("email")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Email not found in context")
		return
	}

	resp, err := h.service.OverrideStatus(c.Request.Context(), shipmentID, email.(string), &req)
	if err != nil {
		if errors.Is(err, domainShipment.ErrShipmentNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Shipment not found")
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Status override set", resp)
}

func (h *ShipmentHandler) ClearOverride(c *gin.Context) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shipment ID")
		return
	}

	resp, err := h.service.ClearOverride(c.Request.Context(), shipmentID)
	if err != nil {
		if errors.Is(err, domainShipment.ErrShipmentNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Shipment not found")
			return
		}
		if errors.Is(err, domainShipment.ErrNoOverride) {
			utils.ErrorResponse(c, http.StatusConflict, "Shipment has no status override")
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Status override cleared", resp)
}

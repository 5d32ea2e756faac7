package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/subtrack/internal/application/assignment/usecases"
	"github.com/orris-inc/subtrack/internal/interfaces/http/handlers/common"
	"github.com/orris-inc/subtrack/internal/shared/id"
	"github.com/orris-inc/subtrack/internal/shared/logger"
	"github.com/orris-inc/subtrack/internal/shared/utils"
)

// MappingHandler serves customer-product mappings and their subscription
// ledgers.
type MappingHandler struct {
	uc     MappingUseCases
	logger logger.Interface
}

func NewMappingHandler(uc MappingUseCases, logger logger.Interface) *MappingHandler {
	return &MappingHandler{uc: uc, logger: logger}
}

type CreateMappingRequest struct {
	CustomerID   string `json:"customerId" binding:"required"`
	ProductID    string `json:"productId" binding:"required"`
	Remarks      string `json:"remarks"`
	DateAssigned string `json:"dateAssigned"`
}

type UpdateMappingRequest struct {
	Remarks      *string `json:"remarks"`
	DateAssigned *string `json:"dateAssigned"`
}

type PaymentRequest struct {
	Amount   float64 `json:"amount"`
	Units    *int    `json:"units"`
	UnitType string  `json:"unitType"`
	DatePaid string  `json:"datePaid"`
}

type EditSubscriptionRequest struct {
	Amount   *float64 `json:"amount"`
	Units    *int     `json:"units"`
	UnitType *string  `json:"unitType"`
}

func (h *MappingHandler) CreateMapping(c *gin.Context) {
	var req CreateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create mapping", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "customerId and productId are required")
		return
	}

	assigned, err := common.ParseDate(req.DateAssigned, "dateAssigned")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Create.Execute(c.Request.Context(), usecases.CreateAssignmentCommand{
		CustomerSID:  req.CustomerID,
		ProductSID:   req.ProductID,
		Remarks:      req.Remarks,
		DateAssigned: assigned,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Mapping created successfully")
}

func (h *MappingHandler) ListMappings(c *gin.Context) {
	p := utils.ParsePagination(c)
	sortBy := c.Query("sort_by")
	if sortBy == "" {
		sortBy = c.Query("sortBy")
	}

	result, err := h.uc.List.Execute(c.Request.Context(), usecases.ListAssignmentsQuery{
		Search:      common.Search(c),
		Bucket:      c.Query("bucket"),
		CustomerSID: c.Query("customerId"),
		ProductSID:  c.Query("productId"),
		SortBy:      sortBy,
		SortDesc:    common.SortDesc(c),
		Page:        p.Page,
		PageSize:    p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Mappings, result.Total, result.Page, result.PageSize)
}

func (h *MappingHandler) GetMapping(c *gin.Context) {
	sid, err := parseMappingSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Get.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *MappingHandler) UpdateMapping(c *gin.Context) {
	sid, err := parseMappingSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	assigned, clearDate, err := common.ParseDatePatch(req.DateAssigned, "dateAssigned")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Update.Execute(c.Request.Context(), usecases.UpdateAssignmentCommand{
		SID:          sid,
		Remarks:      req.Remarks,
		DateAssigned: assigned,
		ClearDate:    clearDate,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Mapping updated successfully", result)
}

func (h *MappingHandler) UpdateDetails(c *gin.Context) {
	sid, err := parseMappingSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req TermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.uc.UpdateDetails.Execute(c.Request.Context(), usecases.UpdateDetailsCommand{
		SID:         sid,
		Amount:      req.Amount,
		BillingType: req.BillingType,
		Source:      req.Source,
		Count:       req.Count,
		Period:      req.Period,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Mapping details updated", result)
}

func (h *MappingHandler) DeleteMapping(c *gin.Context) {
	sid, err := parseMappingSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Delete.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *MappingHandler) RecordPayment(c *gin.Context) {
	sid, err := parseMappingSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	paid, err := common.ParseDate(req.DatePaid, "datePaid")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.RecordPayment.Execute(c.Request.Context(), usecases.RecordPaymentCommand{
		SID:      sid,
		Amount:   req.Amount,
		Units:    req.Units,
		UnitType: req.UnitType,
		DatePaid: paid,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Payment recorded", result)
}

func (h *MappingHandler) EditSubscription(c *gin.Context) {
	sid, idx, err := parseSubscriptionParams(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req EditSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.uc.EditEntry.Execute(c.Request.Context(), usecases.EditEntryCommand{
		SID:      sid,
		Index:    idx,
		Amount:   req.Amount,
		Units:    req.Units,
		UnitType: req.UnitType,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription updated", result)
}

func (h *MappingHandler) DeleteSubscription(c *gin.Context) {
	sid, idx, err := parseSubscriptionParams(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.DeleteEntry.Execute(c.Request.Context(), usecases.DeleteEntryCommand{
		SID:   sid,
		Index: idx,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription deleted", result)
}

func parseMappingSID(c *gin.Context) (string, error) {
	return utils.ParseSIDParam(c, "id", id.PrefixAssignment, "mapping")
}

func parseSubscriptionParams(c *gin.Context) (string, int, error) {
	sid, err := parseMappingSID(c)
	if err != nil {
		return "", 0, err
	}
	idx, err := utils.ParseIndexParam(c, "subIdx")
	if err != nil {
		return "", 0, err
	}
	return sid, idx, nil
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/subtrack/internal/application/product/usecases"
	"github.com/orris-inc/subtrack/internal/interfaces/http/handlers/common"
	"github.com/orris-inc/subtrack/internal/shared/id"
	"github.com/orris-inc/subtrack/internal/shared/logger"
	"github.com/orris-inc/subtrack/internal/shared/utils"
)

type ProductHandler struct {
	createUC createProductUseCase
	updateUC updateProductUseCase
	getUC    getProductUseCase
	listUC   listProductsUseCase
	deleteUC deleteProductUseCase
	logger   logger.Interface
}

func NewProductHandler(
	createUC createProductUseCase,
	updateUC updateProductUseCase,
	getUC getProductUseCase,
	listUC listProductsUseCase,
	deleteUC deleteProductUseCase,
	logger logger.Interface,
) *ProductHandler {
	return &ProductHandler{
		createUC: createUC,
		updateUC: updateUC,
		getUC:    getUC,
		listUC:   listUC,
		deleteUC: deleteUC,
		logger:   logger,
	}
}

// TermsRequest is shared by create and update. Omitted fields keep their
// default or current value.
type TermsRequest struct {
	Amount      *float64 `json:"amount" binding:"omitempty,gte=0"`
	BillingType *string  `json:"type"`
	Source      *string  `json:"source"`
	Count       *int     `json:"count" binding:"omitempty,min=1"`
	Period      *string  `json:"period"`
}

func (r TermsRequest) toInput() usecases.TermsInput {
	return usecases.TermsInput{
		Amount:      r.Amount,
		BillingType: r.BillingType,
		Source:      r.Source,
		Count:       r.Count,
		Period:      r.Period,
	}
}

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	TermsRequest
	DatePurchased    string `json:"datePurchased"`
	ReminderLeadDays *int   `json:"reminderLeadDays" binding:"omitempty,min=0"`
	CustomerID       string `json:"customerId"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	TermsRequest
	DatePurchased    *string `json:"datePurchased"`
	ReminderLeadDays *int    `json:"reminderLeadDays" binding:"omitempty,min=0"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create product", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	purchased, err := common.ParseDate(req.DatePurchased, "datePurchased")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateProductCommand{
		Name:             req.Name,
		Description:      req.Description,
		Terms:            req.toInput(),
		DatePurchased:    purchased,
		ReminderLeadDays: req.ReminderLeadDays,
		CustomerSID:      req.CustomerID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Product created successfully")
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	p := utils.ParsePagination(c)
	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListProductsQuery{
		Search:      common.Search(c),
		BillingType: c.Query("type"),
		Source:      c.Query("source"),
		Page:        p.Page,
		PageSize:    p.PageSize,
		SortBy:      c.Query("sort_by"),
		SortDesc:    common.SortDesc(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Products, result.Total, result.Page, result.PageSize)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixProduct, "product")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixProduct, "product")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update product", "sid", sid, "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	purchased, clearPurchased, err := common.ParseDatePatch(req.DatePurchased, "datePurchased")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateUC.Execute(c.Request.Context(), usecases.UpdateProductCommand{
		SID:              sid,
		Name:             req.Name,
		Description:      req.Description,
		Terms:            req.toInput(),
		DatePurchased:    purchased,
		ClearPurchased:   clearPurchased,
		ReminderLeadDays: req.ReminderLeadDays,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Product updated successfully", result)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixProduct, "product")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), sid); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

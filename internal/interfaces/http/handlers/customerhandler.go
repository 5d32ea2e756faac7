package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/subtrack/internal/application/customer/usecases"
	"github.com/orris-inc/subtrack/internal/interfaces/http/handlers/common"
	"github.com/orris-inc/subtrack/internal/shared/id"
	"github.com/orris-inc/subtrack/internal/shared/logger"
	"github.com/orris-inc/subtrack/internal/shared/utils"
)

type CustomerHandler struct {
	createUC createCustomerUseCase
	updateUC updateCustomerUseCase
	getUC    getCustomerUseCase
	listUC   listCustomersUseCase
	deleteUC deleteCustomerUseCase
	linkUC   linkProductUseCase
	logger   logger.Interface
}

func NewCustomerHandler(
	createUC createCustomerUseCase,
	updateUC updateCustomerUseCase,
	getUC getCustomerUseCase,
	listUC listCustomersUseCase,
	deleteUC deleteCustomerUseCase,
	linkUC linkProductUseCase,
	logger logger.Interface,
) *CustomerHandler {
	return &CustomerHandler{
		createUC: createUC,
		updateUC: updateUC,
		getUC:    getUC,
		listUC:   listUC,
		deleteUC: deleteUC,
		linkUC:   linkUC,
		logger:   logger,
	}
}

type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,numeric,max=10"`
}

type UpdateCustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,numeric,max=10"`
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create customer", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateCustomerCommand{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Customer created successfully")
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	p := utils.ParsePagination(c)
	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListCustomersQuery{
		Search:   common.Search(c),
		Page:     p.Page,
		PageSize: p.PageSize,
		SortBy:   c.Query("sort_by"),
		SortDesc: common.SortDesc(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Customers, result.Total, result.Page, result.PageSize)
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixCustomer, "customer")
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

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixCustomer, "customer")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update customer", "sid", sid, "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.updateUC.Execute(c.Request.Context(), usecases.UpdateCustomerCommand{
		SID:   sid,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Customer updated successfully", result)
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixCustomer, "customer")
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

func (h *CustomerHandler) LinkProduct(c *gin.Context) {
	cmd, err := parseLinkParams(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.linkUC.Link(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Product linked", result)
}

func (h *CustomerHandler) UnlinkProduct(c *gin.Context) {
	cmd, err := parseLinkParams(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.linkUC.Unlink(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Product unlinked", result)
}

func parseLinkParams(c *gin.Context) (usecases.LinkProductCommand, error) {
	customerSID, err := utils.ParseSIDParam(c, "id", id.PrefixCustomer, "customer")
	if err != nil {
		return usecases.LinkProductCommand{}, err
	}
	productSID, err := utils.ParseSIDParam(c, "productId", id.PrefixProduct, "product")
	if err != nil {
		return usecases.LinkProductCommand{}, err
	}
	return usecases.LinkProductCommand{CustomerSID: customerSID, ProductSID: productSID}, nil
}

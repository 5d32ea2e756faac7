package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/subtrack/internal/application/reminder/usecases"
	"github.com/orris-inc/subtrack/internal/interfaces/http/handlers/common"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/id"
	"github.com/orris-inc/subtrack/internal/shared/logger"
	"github.com/orris-inc/subtrack/internal/shared/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReminderHandler struct {
	listUC          listRemindersUseCase
	adminProductsUC listAdminProductsUseCase
	sendUC          sendReminderUseCase
	exportUC        exportRenewalsUseCase
	stream          reminderStream
	logger          logger.Interface
}

func NewReminderHandler(
	listUC listRemindersUseCase,
	adminProductsUC listAdminProductsUseCase,
	sendUC sendReminderUseCase,
	exportUC exportRenewalsUseCase,
	stream reminderStream,
	logger logger.Interface,
) *ReminderHandler {
	return &ReminderHandler{
		listUC:          listUC,
		adminProductsUC: adminProductsUC,
		sendUC:          sendUC,
		exportUC:        exportUC,
		stream:          stream,
		logger:          logger,
	}
}

// ListReminders returns the mappings expiring within ?days (default 30).
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	query := usecases.ListRemindersQuery{
		CustomerSID: c.Query("customerId"),
		BillingType: c.Query("type"),
		Source:      c.Query("source"),
	}
	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		query.Days = &days
	}

	result, err := h.listUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *ReminderHandler) ListAdminProducts(c *gin.Context) {
	result, err := h.adminProductsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *ReminderHandler) SendReminder(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixAssignment, "mapping")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.sendUC.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("manual reminder sent", "sid", sid, "to", result.To)
	utils.SuccessResponse(c, http.StatusOK, "Reminder sent", result)
}

// ExportRenewals renders the workbook into memory first so a failure can
// still be reported as JSON.
func (h *ReminderHandler) ExportRenewals(c *gin.Context) {
	var buf bytes.Buffer
	n, err := h.exportUC.Execute(c.Request.Context(), &buf)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	filename := fmt.Sprintf("renewals-%s.xlsx", biztime.FormatDate(biztime.Today()))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("X-Total-Count", strconv.Itoa(n))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Stream serves the /ws reminder feed.
func (h *ReminderHandler) Stream(c *gin.Context) {
	identity, ok := common.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
		return
	}
	key := identity.UserSID
	if key == "" {
		key = identity.Email
	}
	h.stream.ServeWS(c.Writer, c.Request, key)
}

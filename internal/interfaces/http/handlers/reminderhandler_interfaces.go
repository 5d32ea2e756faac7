package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/orris-inc/subtrack/internal/application/reminder/dto"
	"github.com/orris-inc/subtrack/internal/application/reminder/usecases"
)

// Use case interfaces for ReminderHandler

type listRemindersUseCase interface {
	Execute(ctx context.Context, query usecases.ListRemindersQuery) (*dto.WindowDTO, error)
}

type listAdminProductsUseCase interface {
	Execute(ctx context.Context) ([]*dto.AdminProductDTO, error)
}

type sendReminderUseCase interface {
	Execute(ctx context.Context, sid string) (*dto.SendResultDTO, error)
}

type exportRenewalsUseCase interface {
	Execute(ctx context.Context, w io.Writer) (int, error)
}

// reminderStream upgrades a request to a websocket that receives reminder
// events until the client disconnects.
type reminderStream interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userSID string)
}

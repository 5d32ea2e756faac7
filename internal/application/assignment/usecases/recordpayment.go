package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/subtrack/internal/application/assignment/dto"
	"github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/infrastructure/metrics"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/db"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type RecordPaymentCommand struct {
	SID    string
	Amount float64
	// Units defaults to 1 when nil and UnitType to Months.
	Units    *int
	UnitType string
	DatePaid *time.Time
}

type RecordPaymentUseCase struct {
	writer *ledgerWriter
}

func NewRecordPaymentUseCase(
	assignmentRepo assignment.Repository,
	catalog *services.Catalog,
	locker LedgerLocker,
	txMgr db.Transactor,
	m *metrics.Metrics,
	logger logger.Interface,
) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{writer: newLedgerWriter(assignmentRepo, catalog, locker, txMgr, m, logger)}
}

func (uc *RecordPaymentUseCase) Execute(ctx context.Context, cmd RecordPaymentCommand) (*dto.MappingDTO, error) {
	units := 1
	if cmd.Units != nil {
		units = *cmd.Units
	}
	unit, err := vo.ParsePeriodUnit(cmd.UnitType)
	if err != nil {
		return nil, toAppError(err)
	}
	payment := assignment.Payment{
		Amount:   cmd.Amount,
		Units:    units,
		Unit:     unit,
		PaidDate: cmd.DatePaid,
	}

	var entry assignment.LedgerEntry
	out, err := uc.writer.mutate(ctx, "pay", cmd.SID, func(a *assignment.Assignment) error {
		e, err := a.RecordPayment(payment, biztime.Now())
		entry = e
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.writer.logger.Infow("payment recorded",
		"sid", cmd.SID,
		"ordinal", entry.Ordinal(),
		"amount", entry.Amount(),
		"start", biztime.FormatDate(entry.Start()),
		"end", biztime.FormatDate(entry.End()),
	)
	return out, nil
}

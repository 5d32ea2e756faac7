package usecases

import (
	"context"
	"io"
	"sort"

	assignmentdto "github.com/orris-inc/subtrack/internal/application/assignment/dto"
	"github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/infrastructure/export"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// ExportRenewalsUseCase writes every mapping with its resolved expiry as an
// xlsx workbook, soonest expiry first.
type ExportRenewalsUseCase struct {
	assignmentRepo assignment.Repository
	catalog        *services.Catalog
	logger         logger.Interface
}

func NewExportRenewalsUseCase(assignmentRepo assignment.Repository, catalog *services.Catalog, logger logger.Interface) *ExportRenewalsUseCase {
	return &ExportRenewalsUseCase{assignmentRepo: assignmentRepo, catalog: catalog, logger: logger}
}

func (uc *ExportRenewalsUseCase) Execute(ctx context.Context, w io.Writer) (int, error) {
	list, err := uc.assignmentRepo.List(ctx, assignment.Filter{})
	if err != nil {
		uc.logger.Errorw("failed to list mappings for export", "error", err)
		return 0, err
	}
	refs, err := uc.catalog.Load(ctx, list)
	if err != nil {
		return 0, err
	}

	today := biztime.Today()
	rows := make([]export.RenewalRow, 0, len(list))
	for _, a := range list {
		m := assignmentdto.ToMappingDTO(a, refs.Customer(a), refs.Product(a), today)
		row := export.RenewalRow{
			AssignmentSID: m.ID,
			BillingType:   m.Terms.BillingType,
			Source:        m.Terms.Source,
			Amount:        m.Terms.Amount,
			Bucket:        m.Bucket,
			Remaining:     m.Remaining,
			Payments:      len(m.Subscriptions),
			Remarks:       m.Remarks,
		}
		if m.Customer != nil {
			row.Customer = m.Customer.Name
			row.CustomerEmail = m.Customer.Email
		}
		if m.Product != nil {
			row.Product = m.Product.Name
		}
		if m.DateAssigned != nil {
			row.DateAssigned = *m.DateAssigned
		}
		if m.Expiry != nil {
			row.Expiry = *m.Expiry
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ei, ej := rows[i].Expiry, rows[j].Expiry
		if (ei == "") != (ej == "") {
			return ej == ""
		}
		return ei < ej
	})

	if err := export.WriteRenewals(w, rows, biztime.NowUTC()); err != nil {
		uc.logger.Errorw("failed to write renewals workbook", "error", err)
		return 0, err
	}
	uc.logger.Infow("renewals exported", "rows", len(rows))
	return len(rows), nil
}

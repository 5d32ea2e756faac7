package usecases

import (
	"context"
	"sort"
	"strings"

	"github.com/orris-inc/subtrack/internal/application/assignment/dto"
	"github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/domain/renewal"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/constants"
	apperrors "github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
	"github.com/orris-inc/subtrack/internal/shared/utils"
)

const (
	SortByCustomer     = "customer"
	SortByProduct      = "product"
	SortByRemarks      = "remarks"
	SortByExpiry       = "expiry"
	SortByDateAssigned = "dateAssigned"
)

var validSorts = map[string]bool{
	SortByCustomer:     true,
	SortByProduct:      true,
	SortByRemarks:      true,
	SortByExpiry:       true,
	SortByDateAssigned: true,
}

type ListAssignmentsQuery struct {
	Search      string
	Bucket      string
	CustomerSID string
	ProductSID  string
	SortBy      string
	SortDesc    bool
	Page        int
	PageSize    int
}

type ListAssignmentsResult struct {
	Mappings []*dto.MappingDTO
	Total    int64
	Page     int
	PageSize int
}

// ListAssignmentsUseCase lists mappings with their resolved expiry. Expiry is
// derived, so filtering, sorting and paging happen here rather than in SQL.
type ListAssignmentsUseCase struct {
	assignmentRepo assignment.Repository
	customerRepo   customer.Repository
	productRepo    product.Repository
	catalog        *services.Catalog
	logger         logger.Interface
}

func NewListAssignmentsUseCase(
	assignmentRepo assignment.Repository,
	customerRepo customer.Repository,
	productRepo product.Repository,
	catalog *services.Catalog,
	logger logger.Interface,
) *ListAssignmentsUseCase {
	return &ListAssignmentsUseCase{
		assignmentRepo: assignmentRepo,
		customerRepo:   customerRepo,
		productRepo:    productRepo,
		catalog:        catalog,
		logger:         logger,
	}
}

func (uc *ListAssignmentsUseCase) Execute(ctx context.Context, query ListAssignmentsQuery) (*ListAssignmentsResult, error) {
	if query.Page < 1 {
		query.Page = constants.DefaultPage
	}
	if query.PageSize < 1 {
		query.PageSize = constants.DefaultPageSize
	}
	if query.SortBy != "" && !validSorts[query.SortBy] {
		return nil, apperrors.NewValidationError("invalid sort field", query.SortBy)
	}
	bucket := renewal.Bucket(query.Bucket)
	if bucket != renewal.BucketNone && !renewal.ValidBuckets[bucket] {
		return nil, apperrors.NewValidationError("invalid bucket", query.Bucket)
	}

	filter, empty, err := uc.resolveFilter(ctx, query)
	if err != nil {
		return nil, err
	}
	if empty {
		return &ListAssignmentsResult{Mappings: []*dto.MappingDTO{}, Page: query.Page, PageSize: query.PageSize}, nil
	}

	list, err := uc.assignmentRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list mappings", "error", err)
		return nil, err
	}
	refs, err := uc.catalog.Load(ctx, list)
	if err != nil {
		uc.logger.Errorw("failed to load mapping references", "error", err)
		return nil, err
	}

	today := biztime.Today()
	search := strings.ToLower(strings.TrimSpace(query.Search))
	rows := make([]*dto.MappingDTO, 0, len(list))
	for _, a := range list {
		row := dto.ToMappingDTO(a, refs.Customer(a), refs.Product(a), today)
		if search != "" && !matches(row, search) {
			continue
		}
		if bucket != renewal.BucketNone && !bucketMatches(row.Bucket, bucket) {
			continue
		}
		rows = append(rows, row)
	}

	sortMappings(rows, query.SortBy, query.SortDesc)

	start, end := utils.ApplyPagination(len(rows), query.Page, query.PageSize)
	return &ListAssignmentsResult{
		Mappings: rows[start:end],
		Total:    int64(len(rows)),
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

// resolveFilter turns SID filters into IDs. empty is true when a filter
// names a row that does not exist.
func (uc *ListAssignmentsUseCase) resolveFilter(ctx context.Context, query ListAssignmentsQuery) (assignment.Filter, bool, error) {
	var filter assignment.Filter
	if query.CustomerSID != "" {
		c, err := uc.customerRepo.GetBySID(ctx, query.CustomerSID)
		if err != nil {
			return filter, false, err
		}
		if c == nil {
			return filter, true, nil
		}
		id := c.ID()
		filter.CustomerID = &id
	}
	if query.ProductSID != "" {
		p, err := uc.productRepo.GetBySID(ctx, query.ProductSID)
		if err != nil {
			return filter, false, err
		}
		if p == nil {
			return filter, true, nil
		}
		id := p.ID()
		filter.ProductID = &id
	}
	return filter, false, nil
}

// bucketMatches treats Expired and Over-Due as the same filter value.
func bucketMatches(got string, want renewal.Bucket) bool {
	b := renewal.Bucket(got)
	if want.IsPast() {
		return b.IsPast()
	}
	return b == want
}

func matches(row *dto.MappingDTO, search string) bool {
	if strings.Contains(strings.ToLower(row.Remarks), search) {
		return true
	}
	if row.Customer != nil && strings.Contains(strings.ToLower(row.Customer.Name), search) {
		return true
	}
	if row.Product != nil && strings.Contains(strings.ToLower(row.Product.Name), search) {
		return true
	}
	return false
}

// sortMappings orders rows by key. Rows without a value for the key sort
// last in both directions.
func sortMappings(rows []*dto.MappingDTO, key string, desc bool) {
	if key == "" {
		return
	}
	value := func(r *dto.MappingDTO) (string, bool) {
		switch key {
		case SortByCustomer:
			if r.Customer == nil {
				return "", false
			}
			return strings.ToLower(r.Customer.Name), true
		case SortByProduct:
			if r.Product == nil {
				return "", false
			}
			return strings.ToLower(r.Product.Name), true
		case SortByRemarks:
			return strings.ToLower(r.Remarks), r.Remarks != ""
		case SortByExpiry:
			if r.Expiry == nil {
				return "", false
			}
			return *r.Expiry, true
		case SortByDateAssigned:
			if r.DateAssigned == nil {
				return "", false
			}
			return *r.DateAssigned, true
		}
		return "", false
	}

	sort.SliceStable(rows, func(i, j int) bool {
		vi, oki := value(rows[i])
		vj, okj := value(rows[j])
		if oki != okj {
			return oki
		}
		if desc {
			return vi > vj
		}
		return vi < vj
	})
}

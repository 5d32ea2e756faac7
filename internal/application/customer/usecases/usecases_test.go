package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/subtrack/internal/application/testutil"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/product"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

func strPtr(s string) *string { return &s }

func createCustomer(t *testing.T, repo *testutil.MockCustomerRepository, name, email, phone string) string {
	t.Helper()
	uc := NewCreateCustomerUseCase(repo, logger.NewNopLogger())
	out, err := uc.Execute(context.Background(), CreateCustomerCommand{Name: name, Email: email, Phone: phone})
	require.NoError(t, err)
	return out.ID
}

func TestCreateCustomerUseCase(t *testing.T) {
	repo := testutil.NewMockCustomerRepository()
	uc := NewCreateCustomerUseCase(repo, logger.NewNopLogger())
	ctx := context.Background()

	out, err := uc.Execute(ctx, CreateCustomerCommand{Name: " Acme ", Email: "OPS@acme.io", Phone: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", out.Name)
	assert.Equal(t, "ops@acme.io", out.Email)
	assert.NotEmpty(t, out.ID)

	tests := []struct {
		name     string
		cmd      CreateCustomerCommand
		wantCode int
	}{
		{"missing name", CreateCustomerCommand{Email: "a@b.io", Phone: "1234567890"}, 400},
		{"bad email", CreateCustomerCommand{Name: "B", Email: "nope", Phone: "1234567890"}, 400},
		{"bad phone", CreateCustomerCommand{Name: "B", Email: "b@b.io", Phone: "12345678901"}, 400},
		{"duplicate email", CreateCustomerCommand{Name: "B", Email: "ops@acme.io", Phone: "1234567890"}, 400},
		{"duplicate phone", CreateCustomerCommand{Name: "B", Email: "b@b.io", Phone: "9876543210"}, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.cmd)
			require.Error(t, err)
			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestUpdateCustomerUseCase(t *testing.T) {
	repo := testutil.NewMockCustomerRepository()
	ctx := context.Background()
	sid := createCustomer(t, repo, "Acme", "ops@acme.io", "9876543210")
	createCustomer(t, repo, "Beta", "hi@beta.io", "1234567890")

	uc := NewUpdateCustomerUseCase(repo, logger.NewNopLogger())

	out, err := uc.Execute(ctx, UpdateCustomerCommand{SID: sid, Name: strPtr("Acme Corp")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", out.Name)

	// No change is not a write.
	_, err = uc.Execute(ctx, UpdateCustomerCommand{SID: sid, Name: strPtr("Acme Corp")})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, UpdateCustomerCommand{SID: sid, Email: strPtr("hi@beta.io")})
	require.Error(t, err)
	assert.Equal(t, 400, errors.GetAppError(err).Code)

	_, err = uc.Execute(ctx, UpdateCustomerCommand{SID: "cus_missing", Name: strPtr("x")})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestListCustomersUseCase(t *testing.T) {
	repo := testutil.NewMockCustomerRepository()
	createCustomer(t, repo, "Acme", "ops@acme.io", "9876543210")
	createCustomer(t, repo, "Beta", "hi@beta.io", "1234567890")

	uc := NewListCustomersUseCase(repo, logger.NewNopLogger())
	res, err := uc.Execute(context.Background(), ListCustomersQuery{Search: "beta"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, "Beta", res.Customers[0].Name)
	assert.Equal(t, 1, res.Page)
}

type fixture struct {
	customers   *testutil.MockCustomerRepository
	products    *testutil.MockProductRepository
	assignments *testutil.MockAssignmentRepository
}

func newFixture(t *testing.T) (*fixture, string, string) {
	t.Helper()
	f := &fixture{
		customers:   testutil.NewMockCustomerRepository(),
		products:    testutil.NewMockProductRepository(),
		assignments: testutil.NewMockAssignmentRepository(),
	}
	cid := createCustomer(t, f.customers, "Acme", "ops@acme.io", "9876543210")

	p, err := product.NewProduct("Hosting", "", vo.DefaultTerms(100), nil, 15, biztime.Today())
	require.NoError(t, err)
	require.NoError(t, f.products.Create(context.Background(), p))
	return f, cid, p.SID()
}

func TestLinkAndUnlinkProduct(t *testing.T) {
	f, cid, pid := newFixture(t)
	ctx := context.Background()
	uc := NewLinkProductUseCase(f.customers, f.products, f.assignments, logger.NewNopLogger())

	linked, err := uc.Link(ctx, LinkProductCommand{CustomerSID: cid, ProductSID: pid})
	require.NoError(t, err)
	assert.NotEmpty(t, linked.MappingID)
	assert.Equal(t, 1, f.assignments.Count())

	again, err := uc.Link(ctx, LinkProductCommand{CustomerSID: cid, ProductSID: pid})
	require.NoError(t, err)
	assert.Equal(t, linked.MappingID, again.MappingID)
	assert.Equal(t, 1, f.assignments.Count())

	get := NewGetCustomerUseCase(f.customers, f.assignments, f.products, logger.NewNopLogger())
	detail, err := get.Execute(ctx, cid)
	require.NoError(t, err)
	require.Len(t, detail.Products, 1)
	assert.Equal(t, pid, detail.Products[0].ID)

	_, err = uc.Unlink(ctx, LinkProductCommand{CustomerSID: cid, ProductSID: pid})
	require.NoError(t, err)
	assert.Equal(t, 0, f.assignments.Count())

	_, err = uc.Link(ctx, LinkProductCommand{CustomerSID: cid, ProductSID: "prd_missing"})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDeleteCustomerRemovesMappings(t *testing.T) {
	f, cid, pid := newFixture(t)
	ctx := context.Background()

	link := NewLinkProductUseCase(f.customers, f.products, f.assignments, logger.NewNopLogger())
	_, err := link.Link(ctx, LinkProductCommand{CustomerSID: cid, ProductSID: pid})
	require.NoError(t, err)

	tx := &testutil.MockTransactor{}
	uc := NewDeleteCustomerUseCase(f.customers, f.assignments, tx, logger.NewNopLogger())
	require.NoError(t, uc.Execute(ctx, cid))
	assert.Equal(t, 1, tx.Calls)
	assert.Equal(t, 0, f.assignments.Count())

	list, err := f.assignments.List(ctx, assignment.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	err = uc.Execute(ctx, cid)
	assert.True(t, errors.IsNotFoundError(err))
}

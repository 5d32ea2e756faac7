package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/subtrack/internal/application/customer/dto"
	"github.com/orris-inc/subtrack/internal/application/customer/usecases"
	"github.com/orris-inc/subtrack/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/subtrack/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockCreateCustomerUC struct {
	got    usecases.CreateCustomerCommand
	result *dto.CustomerDTO
	err    error
}

func (m *mockCreateCustomerUC) Execute(ctx context.Context, cmd usecases.CreateCustomerCommand) (*dto.CustomerDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockUpdateCustomerUC struct {
	got    usecases.UpdateCustomerCommand
	result *dto.CustomerDTO
	err    error
}

func (m *mockUpdateCustomerUC) Execute(ctx context.Context, cmd usecases.UpdateCustomerCommand) (*dto.CustomerDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockGetCustomerUC struct {
	result *dto.CustomerDTO
	err    error
}

func (m *mockGetCustomerUC) Execute(ctx context.Context, sid string) (*dto.CustomerDTO, error) {
	return m.result, m.err
}

type mockListCustomersUC struct {
	got    usecases.ListCustomersQuery
	result *usecases.ListCustomersResult
	err    error
}

func (m *mockListCustomersUC) Execute(ctx context.Context, query usecases.ListCustomersQuery) (*usecases.ListCustomersResult, error) {
	m.got = query
	return m.result, m.err
}

type mockDeleteCustomerUC struct {
	called bool
	err    error
}

func (m *mockDeleteCustomerUC) Execute(ctx context.Context, sid string) error {
	m.called = true
	return m.err
}

type mockLinkProductUC struct {
	linked   bool
	unlinked bool
	result   *dto.LinkDTO
	err      error
}

func (m *mockLinkProductUC) Link(ctx context.Context, cmd usecases.LinkProductCommand) (*dto.LinkDTO, error) {
	m.linked = true
	return m.result, m.err
}

func (m *mockLinkProductUC) Unlink(ctx context.Context, cmd usecases.LinkProductCommand) (*dto.LinkDTO, error) {
	m.unlinked = true
	return m.result, m.err
}

// =====================================================================
// Test helpers
// =====================================================================

type customerHandlerMocks struct {
	create *mockCreateCustomerUC
	update *mockUpdateCustomerUC
	get    *mockGetCustomerUC
	list   *mockListCustomersUC
	delete *mockDeleteCustomerUC
	link   *mockLinkProductUC
}

func newTestCustomerHandler() (*CustomerHandler, *customerHandlerMocks) {
	m := &customerHandlerMocks{
		create: &mockCreateCustomerUC{},
		update: &mockUpdateCustomerUC{},
		get:    &mockGetCustomerUC{},
		list:   &mockListCustomersUC{},
		delete: &mockDeleteCustomerUC{},
		link:   &mockLinkProductUC{},
	}
	h := NewCustomerHandler(m.create, m.update, m.get, m.list, m.delete, m.link, testutil.NewMockLogger())
	return h, m
}

func testCustomerDTO() *dto.CustomerDTO {
	return &dto.CustomerDTO{ID: "cus_abc123", Name: "Acme", Email: "ops@acme.test", Phone: "9876543210"}
}

// =====================================================================
// Tests
// =====================================================================

func TestCustomerHandler_CreateCustomer_Success(t *testing.T) {
	h, m := newTestCustomerHandler()
	m.create.result = testCustomerDTO()

	c, w := testutil.NewTestContext(http.MethodPost, "/api/customers", CreateCustomerRequest{
		Name:  "Acme",
		Email: "ops@acme.test",
		Phone: "9876543210",
	})
	h.CreateCustomer(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Acme", m.create.got.Name)

	var got dto.CustomerDTO
	require.NoError(t, testutil.ParseData(w, &got))
	assert.Equal(t, "cus_abc123", got.ID)
}

func TestCustomerHandler_CreateCustomer_InvalidPhone(t *testing.T) {
	h, _ := newTestCustomerHandler()

	c, w := testutil.NewTestContext(http.MethodPost, "/api/customers", CreateCustomerRequest{
		Name:  "Acme",
		Email: "ops@acme.test",
		Phone: "98765432101",
	})
	h.CreateCustomer(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomerHandler_CreateCustomer_Duplicate(t *testing.T) {
	h, m := newTestCustomerHandler()
	m.create.err = errors.NewDuplicateError("Email already exists")

	c, w := testutil.NewTestContext(http.MethodPost, "/api/customers", CreateCustomerRequest{
		Name:  "Acme",
		Email: "ops@acme.test",
		Phone: "9876543210",
	})
	h.CreateCustomer(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, "Email already exists", resp.Error.Message)
}

func TestCustomerHandler_ListCustomers(t *testing.T) {
	h, m := newTestCustomerHandler()
	m.list.result = &usecases.ListCustomersResult{
		Customers: []*dto.CustomerDTO{testCustomerDTO()},
		Total:     1,
		Page:      2,
		PageSize:  5,
	}

	c, w := testutil.NewTestContext(http.MethodGet, "/api/customers", nil)
	testutil.SetQueryParams(c, map[string]string{"page": "2", "page_size": "5", "search": "acme", "order": "desc"})
	h.ListCustomers(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", m.list.got.Search)
	assert.Equal(t, 2, m.list.got.Page)
	assert.Equal(t, 5, m.list.got.PageSize)
	assert.True(t, m.list.got.SortDesc)

	var list testutil.ListData
	require.NoError(t, testutil.ParseData(w, &list))
	assert.Equal(t, int64(1), list.Total)
}

func TestCustomerHandler_GetCustomer_InvalidID(t *testing.T) {
	h, _ := newTestCustomerHandler()

	c, w := testutil.NewTestContext(http.MethodGet, "/api/customers/prd_abc", nil)
	testutil.SetURLParam(c, "id", "prd_abc")
	h.GetCustomer(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomerHandler_GetCustomer_NotFound(t *testing.T) {
	h, m := newTestCustomerHandler()
	m.get.err = errors.NewNotFoundError("Customer not found")

	c, w := testutil.NewTestContext(http.MethodGet, "/api/customers/cus_abc", nil)
	testutil.SetURLParam(c, "id", "cus_abc")
	h.GetCustomer(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerHandler_UpdateCustomer_PartialBody(t *testing.T) {
	h, m := newTestCustomerHandler()
	m.update.result = testCustomerDTO()

	c, w := testutil.NewRawTestContext(http.MethodPut, "/api/customers/cus_abc", `{"name":"Acme Ltd"}`)
	testutil.SetURLParam(c, "id", "cus_abc")
	h.UpdateCustomer(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, m.update.got.Name)
	assert.Equal(t, "Acme Ltd", *m.update.got.Name)
	assert.Nil(t, m.update.got.Email)
	assert.Nil(t, m.update.got.Phone)
}

func TestCustomerHandler_DeleteCustomer(t *testing.T) {
	h, m := newTestCustomerHandler()

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/customers/cus_abc", nil)
	testutil.SetURLParam(c, "id", "cus_abc")
	h.DeleteCustomer(c)

	assert.True(t, m.delete.called)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Empty(t, w.Body.String())
}

func TestCustomerHandler_LinkAndUnlinkProduct(t *testing.T) {
	h, m := newTestCustomerHandler()
	m.link.result = &dto.LinkDTO{Customer: testCustomerDTO(), MappingID: "asg_abc"}

	c, w := testutil.NewTestContext(http.MethodPost, "/api/customers/cus_abc/products/prd_abc", nil)
	testutil.SetURLParam(c, "id", "cus_abc")
	testutil.SetURLParam(c, "productId", "prd_abc")
	h.LinkProduct(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, m.link.linked)

	c, w = testutil.NewTestContext(http.MethodDelete, "/api/customers/cus_abc/products/prd_abc", nil)
	testutil.SetURLParam(c, "id", "cus_abc")
	testutil.SetURLParam(c, "productId", "prd_abc")
	h.UnlinkProduct(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, m.link.unlinked)
}

func TestCustomerHandler_LinkProduct_BadProductID(t *testing.T) {
	h, m := newTestCustomerHandler()

	c, w := testutil.NewTestContext(http.MethodPost, "/api/customers/cus_abc/products/42", nil)
	testutil.SetURLParam(c, "id", "cus_abc")
	testutil.SetURLParam(c, "productId", "42")
	h.LinkProduct(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, m.link.linked)
}

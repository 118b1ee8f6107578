package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	payrollerrors "go-hrms/internal/payroll/errors"
	"go-hrms/internal/shared/response"
)

type fakePayrollService struct {
	Service

	payIndividualFn   func(ctx context.Context, salaryID string) (SalaryResponse, error)
	downloadInvoiceFn func(ctx context.Context, salaryID string) (*InvoiceFile, error)
}

func (f *fakePayrollService) PayIndividual(ctx context.Context, salaryID string) (SalaryResponse, error) {
	return f.payIndividualFn(ctx, salaryID)
}

func (f *fakePayrollService) DownloadInvoice(ctx context.Context, salaryID string) (*InvoiceFile, error) {
	return f.downloadInvoiceFn(ctx, salaryID)
}

func performRequest(t *testing.T, handler gin.HandlerFunc, method, route, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	_, router := gin.CreateTestContext(recorder)
	router.Handle(method, route, handler)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)

	return recorder
}

func TestPaySalaryHandlerSuccess(t *testing.T) {
	invoiceNo := "INV-202603-0007"
	svc := &fakePayrollService{
		payIndividualFn: func(ctx context.Context, salaryID string) (SalaryResponse, error) {
			return SalaryResponse{ID: salaryID, Status: StatusPaid, InvoiceNo: &invoiceNo}, nil
		},
	}
	handler := NewHandler(svc)

	recorder := performRequest(t, handler.PaySalary, http.MethodPost, "/salaries/:id/pay", "/salaries/abc/pay", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var envelope response.ApiEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.True(t, envelope.Ok)

	data := envelope.Data.(map[string]any)
	assert.Equal(t, StatusPaid, data["status"])
	assert.Equal(t, invoiceNo, data["invoice_no"])
}

func TestPaySalaryHandlerMapsDomainError(t *testing.T) {
	svc := &fakePayrollService{
		payIndividualFn: func(ctx context.Context, salaryID string) (SalaryResponse, error) {
			return SalaryResponse{}, payrollerrors.ErrAlreadyPaid
		},
	}
	handler := NewHandler(svc)

	recorder := performRequest(t, handler.PaySalary, http.MethodPost, "/salaries/:id/pay", "/salaries/abc/pay", nil)

	assert.Equal(t, http.StatusConflict, recorder.Code)

	var envelope response.ApiEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.False(t, envelope.Ok)

	errBody := envelope.Error.(map[string]any)
	assert.Equal(t, "INVALID_STATE", errBody["code"])
}

func TestDownloadInvoiceHandlerStreamsFile(t *testing.T) {
	svc := &fakePayrollService{
		downloadInvoiceFn: func(ctx context.Context, salaryID string) (*InvoiceFile, error) {
			return &InvoiceFile{
				FileName:    "INV-202603-0001.pdf",
				ContentType: "application/pdf",
				Data:        []byte("%PDF-1.4"),
			}, nil
		},
	}
	handler := NewHandler(svc)

	recorder := performRequest(t, handler.DownloadInvoice, http.MethodGet, "/salaries/:id/invoice", "/salaries/abc/invoice", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/pdf", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), "INV-202603-0001.pdf")
	assert.Equal(t, "%PDF-1.4", recorder.Body.String())
}

func TestDownloadInvoiceHandlerMissingInvoice(t *testing.T) {
	svc := &fakePayrollService{
		downloadInvoiceFn: func(ctx context.Context, salaryID string) (*InvoiceFile, error) {
			return nil, payrollerrors.ErrInvoiceMissing
		},
	}
	handler := NewHandler(svc)

	recorder := performRequest(t, handler.DownloadInvoice, http.MethodGet, "/salaries/:id/invoice", "/salaries/abc/invoice", nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

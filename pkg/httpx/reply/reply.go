package reply

import (
	"context"
	"errors"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"students-erp/pkg/contextx"
	"students-erp/pkg/errcodes"
	"students-erp/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func (e *errorResponse) WithDefaultCode(code failure.ErrorCode) {
	if e.Code == "" {
		e.Code = code.String()
	}
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// coder реализуется доменной ошибкой (domain.AppError).
type coder interface {
	error
	ErrorCode() failure.ErrorCode
}

//nolint:gochecknoglobals
var statusByCode = map[failure.ErrorCode]int{
	errcodes.ValidationError:      http.StatusBadRequest,
	errcodes.InvalidUserID:        http.StatusBadRequest,
	errcodes.InvalidPaging:        http.StatusBadRequest,
	errcodes.InvalidCurrencyCode:  http.StatusBadRequest,
	errcodes.InvalidExchangeRate:  http.StatusBadRequest,
	errcodes.InvalidDealID:        http.StatusBadRequest,
	errcodes.InvalidDealKind:      http.StatusBadRequest,
	errcodes.InvalidDealPrice:     http.StatusBadRequest,
	errcodes.InvalidPaymentID:     http.StatusBadRequest,
	errcodes.InvalidPaymentAmount: http.StatusBadRequest,
	errcodes.InvalidPaymentMethod: http.StatusBadRequest,
	errcodes.InvalidPeriodID:      http.StatusBadRequest,

	errcodes.Forbidden: http.StatusForbidden,

	errcodes.NotFound:         http.StatusNotFound,
	errcodes.ManagerNotFound:  http.StatusNotFound,
	errcodes.WalletNotFound:   http.StatusNotFound,
	errcodes.CurrencyNotFound: http.StatusNotFound,
	errcodes.DealNotFound:     http.StatusNotFound,
	errcodes.ProgramNotFound:  http.StatusNotFound,
	errcodes.ServiceNotFound:  http.StatusNotFound,
	errcodes.PaymentNotFound:  http.StatusNotFound,
	errcodes.ExpenseNotFound:  http.StatusNotFound,
	errcodes.PeriodNotFound:   http.StatusNotFound,

	errcodes.Conflict:     http.StatusConflict,
	errcodes.PeriodClosed: http.StatusConflict,

	errcodes.TimeoutExceeded:   http.StatusServiceUnavailable,
	errcodes.WalletLockTimeout: http.StatusServiceUnavailable,
}

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func Created(w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

func Error(ctx context.Context, w http.ResponseWriter, err error) {
	logger(ctx).Error("error", logx.Error(err))

	response := errorResponse{
		Code:      failure.Code(err).String(),
		Message:   failure.Description(err),
		SupportID: supportID(ctx),
	}

	var domainErr coder
	if errors.As(err, &domainErr) {
		response.Code = domainErr.ErrorCode().String()

		if response.Message == "" {
			response.Message = domainErr.Error()
		}

		if status, ok := statusByCode[domainErr.ErrorCode()]; ok {
			JSON(ctx, w, status, response)
			return
		}

		response.WithDefaultCode(errcodes.InternalServerError)
		JSON(ctx, w, http.StatusInternalServerError, response)

		return
	}

	switch {
	case failure.IsInvalidArgumentError(err):
		response.WithDefaultCode(errcodes.ValidationError)
		JSON(ctx, w, http.StatusBadRequest, response)
	case failure.IsNotFoundError(err):
		response.WithDefaultCode(errcodes.NotFound)
		JSON(ctx, w, http.StatusNotFound, response)
	case failure.IsUnauthorizedError(err):
		JSON(ctx, w, http.StatusUnauthorized, response)
	case failure.IsForbiddenError(err):
		response.WithDefaultCode(errcodes.Forbidden)
		JSON(ctx, w, http.StatusForbidden, response)
	case failure.IsConflictError(err):
		JSON(ctx, w, http.StatusConflict, response)
	case failure.IsUnprocessableEntityError(err):
		JSON(ctx, w, http.StatusUnprocessableEntity, response)
	default:
		response.WithDefaultCode(errcodes.InternalServerError)
		JSON(ctx, w, http.StatusInternalServerError, response)
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}

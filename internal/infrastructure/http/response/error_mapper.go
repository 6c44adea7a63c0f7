package response

import (
	"errors"
	"net/http"

	domainErrors "github.com/sawa-shop/storefront-service/internal/domain/errors"
)

type ErrorMapping struct {
	HTTPStatus int
	Status     Status
	Message    string
}

var errorMappings = map[error]ErrorMapping{
	domainErrors.ErrEmptySelection: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusValidationError,
		Message:    "Please select items to checkout",
	},
	domainErrors.ErrCheckoutInProgress: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "A checkout attempt is already in progress",
	},
	domainErrors.ErrNoPendingChoice: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "No checkout attempt is awaiting a choice",
	},
	domainErrors.ErrUnknownChoice: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusValidationError,
		Message:    "Unknown checkout choice",
	},
	domainErrors.ErrOrderLookupFailed: {
		HTTPStatus: http.StatusBadGateway,
		Status:     StatusError,
		Message:    "Failed to check existing orders",
	},
	domainErrors.ErrOrderCreateFailed: {
		HTTPStatus: http.StatusBadGateway,
		Status:     StatusError,
		Message:    "Failed to create order",
	},
	domainErrors.ErrOrderAppendFailed: {
		HTTPStatus: http.StatusBadGateway,
		Status:     StatusError,
		Message:    "Failed to add items to order",
	},
	domainErrors.ErrOrderNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Order not found",
	},
	domainErrors.ErrMysteryBoxContentsRequired: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusValidationError,
		Message:    "Mystery box contents cannot be empty",
	},
	domainErrors.ErrTagLookupFailed: {
		HTTPStatus: http.StatusBadGateway,
		Status:     StatusError,
		Message:    "Failed to resolve tags",
	},
	domainErrors.ErrBackendUnavailable: {
		HTTPStatus: http.StatusServiceUnavailable,
		Status:     StatusServiceUnavailable,
		Message:    "Order backend unavailable",
	},
}

func MapDomainError(err error) (int, *ErrorResponse) {
	for domainErr, mapping := range errorMappings {
		if errors.Is(err, domainErr) {
			return mapping.HTTPStatus, Error(mapping.Status, mapping.Message, err.Error())
		}
	}

	return http.StatusInternalServerError, Error(StatusInternalError, "Internal server error", err.Error())
}

func WriteDomainError(w http.ResponseWriter, err error) {
	statusCode, errorResponse := MapDomainError(err)
	WriteJSON(w, statusCode, errorResponse)
}

package restapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gohornet/verdict/pkg/model/address"
)

const (
	// ParameterPollAddress is used to identify a poll by its derived address.
	ParameterPollAddress = "pollAddress"

	// ParameterVoter is used to identify a voter by its identity key.
	ParameterVoter = "voter"

	// ParameterCreator is used to identify a poll creator by its identity key.
	ParameterCreator = "creator"

	// QueryParameterPageSize is used to define the page size for the results.
	QueryParameterPageSize = "pageSize"

	// QueryParameterCursor is used to pass the cursor of the previous page.
	QueryParameterCursor = "cursor"
)

var (
	// ErrInvalidParameter defines the invalid parameter error.
	ErrInvalidParameter = echo.NewHTTPError(http.StatusBadRequest, "invalid parameter")

	// ErrConflict defines the error for requests conflicting with the stored state.
	ErrConflict = echo.NewHTTPError(http.StatusConflict, "conflict")

	// ErrForbidden defines the error for requests acting on behalf of another identity.
	ErrForbidden = echo.NewHTTPError(http.StatusForbidden, "forbidden")
)

// JSONResponse sends the JSON response with status code.
func JSONResponse(c echo.Context, statusCode int, result interface{}) error {
	return c.JSON(statusCode, result)
}

// HTTPErrorResponse defines the error struct for the HTTPErrorResponseEnvelope.
type HTTPErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HTTPErrorResponseEnvelope defines the error response schema for API responses.
type HTTPErrorResponseEnvelope struct {
	Error HTTPErrorResponse `json:"error"`
}

// ErrorHandler renders all errors in the HTTPErrorResponseEnvelope.
func ErrorHandler() func(error, echo.Context) {
	return func(err error, c echo.Context) {

		var statusCode int
		var message string

		var e *echo.HTTPError
		if errors.As(err, &e) {
			statusCode = e.Code
			if err == e {
				message = fmt.Sprintf("%s", e.Message)
			} else {
				message = fmt.Sprintf("%s, error: %s", e.Message, err)
			}
		} else {
			statusCode = http.StatusInternalServerError
			message = fmt.Sprintf("internal server error. error: %s", err)
		}

		_ = c.JSON(statusCode, HTTPErrorResponseEnvelope{Error: HTTPErrorResponse{Code: strconv.Itoa(statusCode), Message: message}})
	}
}

// GetRequestContentType returns the first supported content type of the request.
func GetRequestContentType(c echo.Context, supportedContentTypes ...string) (string, error) {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	for _, supportedContentType := range supportedContentTypes {
		if strings.HasPrefix(ctype, supportedContentType) {
			return supportedContentType, nil
		}
	}
	return "", echo.ErrUnsupportedMediaType
}

// ParseAddressParam parses a base58 address from the path parameter paramName.
func ParseAddressParam(c echo.Context, paramName string) (address.Address, error) {
	addressParam := c.Param(paramName)

	addr, err := address.Parse(addressParam)
	if err != nil {
		return address.NullAddress, errors.WithMessagef(ErrInvalidParameter, "invalid %s: %s, error: %s", paramName, addressParam, err)
	}
	return addr, nil
}

// ParseAddressQueryParam parses a base58 address from the query parameter paramName.
func ParseAddressQueryParam(c echo.Context, paramName string) (address.Address, error) {
	addressParam := c.QueryParam(paramName)

	addr, err := address.Parse(addressParam)
	if err != nil {
		return address.NullAddress, errors.WithMessagef(ErrInvalidParameter, "invalid %s: %s, error: %s", paramName, addressParam, err)
	}
	return addr, nil
}

// ParseUint64QueryParam parses an unsigned integer from the query parameter paramName.
func ParseUint64QueryParam(c echo.Context, paramName string) (uint64, error) {
	value := c.QueryParam(paramName)

	result, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.WithMessagef(ErrInvalidParameter, "invalid %s: %s, error: %s", paramName, value, err)
	}
	return result, nil
}

// PageSizeFromContext returns the requested page size, capped at maxPageSize.
func PageSizeFromContext(c echo.Context, maxPageSize int) int {
	pageSize := maxPageSize
	if len(c.QueryParam(QueryParameterPageSize)) > 0 {
		i, err := strconv.Atoi(c.QueryParam(QueryParameterPageSize))
		if err != nil {
			return pageSize
		}
		if i > 0 && i < pageSize {
			pageSize = i
		}
	}
	return pageSize
}

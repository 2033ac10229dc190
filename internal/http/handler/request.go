package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "storefront/pkg/errors"
)

const (
	contentTypeJSON          = "application/json"
	maxStrictBodyBytes int64 = 1 << 20 // Keep parser bound aligned with global body limit.
)

// bindStrictJSON decodes exactly one JSON document and rejects unknown fields.
func bindStrictJSON(c echo.Context, dst interface{}) error {
	if !strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	body := io.LimitReader(c.Request().Body, maxStrictBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return apperrors.InvalidInput(msgInvalidRequestBody)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return apperrors.InvalidInput(msgInvalidRequestBody)
	}

	return nil
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(paramID), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput(fmt.Sprintf(msgInvalidIDFmt, name))
	}
	return id, nil
}

func parseOptionalInt64(c echo.Context, key string) (*int64, error) {
	raw := c.QueryParam(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf(msgInvalidQueryFmt, key))
	}
	return &v, nil
}

// parsePage reads limit/offset, clamping limit to [1, max].
func parsePage(c echo.Context, def, max int) (int, int, error) {
	limit, offset := def, 0

	if raw := c.QueryParam(queryLimit); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return 0, 0, apperrors.InvalidInput(fmt.Sprintf(msgInvalidQueryFmt, queryLimit))
		}
		limit = v
	}
	if limit > max {
		limit = max
	}

	if raw := c.QueryParam(queryOffset); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, apperrors.InvalidInput(fmt.Sprintf(msgInvalidQueryFmt, queryOffset))
		}
		offset = v
	}

	return limit, offset, nil
}

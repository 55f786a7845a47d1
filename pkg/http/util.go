package http

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	xutil "SignalLab/pkg/util"
)

// QueryInt reads an integer query param, falling back to def when empty/invalid.
func QueryInt(c echo.Context, name string, def int) int {
	return xutil.ParseIntDefault(c.QueryParam(name), def)
}

// QueryTime reads a date, RFC3339 or unix-seconds query param.
func QueryTime(c echo.Context, name string) (time.Time, bool) {
	return xutil.ParseTime(c.QueryParam(name))
}

// QueryList splits a comma separated query param, dropping empty items.
func QueryList(c echo.Context, name string) []string {
	return xutil.SplitNonEmpty(c.QueryParam(name), ",")
}

// QueryBool reads "true"/"false" query params; ok is false when absent or invalid.
func QueryBool(c echo.Context, name string) (v bool, ok bool) {
	switch strings.ToLower(c.QueryParam(name)) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

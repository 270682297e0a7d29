package gateway

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	pErrors "github.com/zhubert/agentdeck/internal/errors"
)

// httpError turns a non-2xx response into a structured error. The message
// is pulled from the body the way FastAPI shapes it: a detail array of field
// errors, a detail scalar, or a message field.
func httpError(op pErrors.Op, status int, body []byte) error {
	message, details := errorMessage(status, body)
	return pErrors.HTTPFailure(op, status, message, details)
}

func errorMessage(status int, body []byte) (string, any) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && gjson.ValidBytes(trimmed) {
		parsed := gjson.ParseBytes(trimmed)
		if parsed.Type != gjson.Null {
			return jsonErrorMessage(status, parsed), parsed.Value()
		}
	}

	if len(body) > 0 {
		return string(body), nil
	}
	return fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status)), nil
}

func jsonErrorMessage(status int, parsed gjson.Result) string {
	detail := parsed.Get("detail")
	switch {
	case detail.IsArray():
		var parts []string
		for _, item := range detail.Array() {
			loc := "undefined"
			if l := item.Get("loc"); l.IsArray() {
				segs := make([]string, 0, len(l.Array()))
				for _, seg := range l.Array() {
					segs = append(segs, jsString(seg))
				}
				loc = strings.Join(segs, ".")
			}
			msg := "undefined"
			if m := item.Get("msg"); m.Exists() {
				msg = jsString(m)
			}
			parts = append(parts, loc+": "+msg)
		}
		return strings.Join(parts, ", ")
	case truthy(detail):
		return jsString(detail)
	case truthy(parsed.Get("message")):
		return jsString(parsed.Get("message"))
	default:
		return fmt.Sprintf("Server error (%d). Check backend logs.", status)
	}
}

// truthy follows browser truthiness for a JSON value.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True:
		return true
	case gjson.JSON:
		return true
	default:
		return false
	}
}

// jsString converts a JSON value to the string a browser would print.
func jsString(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Null:
		return "null"
	case gjson.JSON:
		if r.IsArray() {
			items := r.Array()
			parts := make([]string, len(items))
			for i, item := range items {
				if item.Type != gjson.Null {
					parts[i] = jsString(item)
				}
			}
			return strings.Join(parts, ",")
		}
		return "[object Object]"
	default:
		return r.Raw
	}
}

package internal

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"esports-stats/internal/logging"
)

const (
	errText = "Error al obtener los datos"
	errJSON = "Error al obtener los datos."
)

//nolint:gochecknoinits // gin's validator is global; tags must exist before the first bind
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("dbid", validID)
	}
}

// validID accepts unsigned base-10 integers that fit in int64.
func validID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// parseID converts a value already accepted by validID.
func parseID(s string) int64 {
	id, _ := strconv.ParseInt(s, 10, 64)
	return id
}

// bindParams binds the query string into req. On failure it answers 400 with
// a message naming the offending parameters and returns false.
func bindParams(c *gin.Context, req any) bool {
	err := c.ShouldBindQuery(req)
	if err == nil {
		return true
	}
	c.String(http.StatusBadRequest, paramsMessage(req, err))
	return false
}

func paramsMessage(req any, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Parametros invalidos."
	}

	t := reflect.TypeOf(req)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var missing, malformed []string
	for _, fe := range verrs {
		name := fe.Field()
		if f, ok := t.FieldByName(fe.StructField()); ok {
			name = f.Tag.Get("form")
		}
		if fe.Tag() == "required" {
			missing = append(missing, name)
		} else {
			malformed = append(malformed, name)
		}
	}

	switch {
	case len(missing) == 1:
		return fmt.Sprintf("El parametro %q es requerido.", missing[0])
	case len(missing) > 1:
		return fmt.Sprintf("Parametros %s son requeridos.", quoteList(missing))
	case len(malformed) > 0:
		return fmt.Sprintf("El parametro %q debe ser numerico.", malformed[0])
	}
	return "Parametros invalidos."
}

// quoteList renders ["a","b","c"] as `"a", "b" y "c"`.
func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " y " + quoted[len(quoted)-1]
}

// renderJSON writes v with goccy/go-json.
func renderJSON(c *gin.Context, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("encode response")
		c.Data(http.StatusInternalServerError, "application/json; charset=utf-8", []byte(`{"message":"`+errJSON+`"}`))
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

func notFound(c *gin.Context, msg string) {
	renderJSON(c, http.StatusNotFound, message{Message: msg})
}

// failText and failJSON log the store error server side and answer a
// generic 500 that never carries the error or the query.
func failText(c *gin.Context, op string, err error) {
	logFailure(c, op, err)
	c.String(http.StatusInternalServerError, errText)
}

func failJSON(c *gin.Context, op string, err error) {
	logFailure(c, op, err)
	renderJSON(c, http.StatusInternalServerError, message{Message: errJSON})
}

func logFailure(c *gin.Context, op string, err error) {
	logging.Ctx(c.Request.Context()).Error().
		Err(err).
		Str("operation", op).
		Str("path", c.Request.URL.Path).
		Msg("reporting query failed")
}

// formatRatio renders a K/D ratio with two decimals, or N/A when undefined.
func formatRatio(r *float64) string {
	if r == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*r, 'f', 2, 64)
}

package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/lvillar/reportes"
	"github.com/lvillar/reportes/ingest"
)

// APIError is the JSON error response of every endpoint.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(status int, msg string) *APIError {
	return &APIError{StatusCode: status, Message: msg}
}

// Upload errors, worded as the upload page shows them.
var (
	errNoFilePart   = newAPIError(http.StatusBadRequest, "No se envió ningún archivo")
	errNoFileChosen = newAPIError(http.StatusBadRequest, "No se seleccionó ningún archivo")
	errNotCSV       = newAPIError(http.StatusBadRequest, "El archivo debe ser CSV")
	errNoData       = newAPIError(http.StatusBadRequest, "El archivo no contiene datos")
	errUnreadable   = newAPIError(http.StatusBadRequest, "No se pudo leer el archivo")
	errTooLarge     = newAPIError(http.StatusRequestEntityTooLarge, "El archivo es demasiado grande")
	errUnknownKind  = newAPIError(http.StatusNotFound, "Tipo de reporte desconocido")
	errRateLimited  = newAPIError(http.StatusTooManyRequests, "Demasiadas solicitudes, intente más tarde")
	errRender       = newAPIError(http.StatusInternalServerError, "Error al generar el reporte")
)

// columnsError reports the required columns in the list notation the upload
// page has always shown, e.g. ['ANIVERSARIO', 'NOMBRE'].
func columnsError(required []string) *APIError {
	quoted := make([]string, len(required))
	for i, c := range required {
		quoted[i] = "'" + c + "'"
	}
	return newAPIError(http.StatusBadRequest,
		fmt.Sprintf("El CSV debe contener las columnas: [%s]", strings.Join(quoted, ", ")))
}

// toAPIError maps a render or ingest failure to its response.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	var schemaErr *reportes.SchemaError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &schemaErr):
		return columnsError(schemaErr.Required)
	case errors.Is(err, reportes.ErrMissingInput), errors.Is(err, ingest.ErrEmpty):
		return errNoData
	case errors.Is(err, ingest.ErrFormat):
		return errNotCSV
	case errors.Is(err, reportes.ErrUnknownKind):
		return errUnknownKind
	default:
		return errRender
	}
}

// outcome labels a request result for metrics.
func outcome(e *APIError) string {
	switch {
	case e == nil:
		return "ok"
	case e.StatusCode >= 500:
		return "error"
	default:
		return "rejected"
	}
}

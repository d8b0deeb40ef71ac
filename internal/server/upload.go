package server

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/lvillar/reportes"
	"github.com/lvillar/reportes/ingest"
)

// formField is the multipart field holding the uploaded spreadsheet.
const formField = "file"

func (s *Server) handleGenerate(kind reportes.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		res, err := s.generate(w, r, kind)
		if err != nil {
			apiErr := toAPIError(err)
			s.metrics.observe(kind, start, nil, apiErr)
			if apiErr.StatusCode >= http.StatusInternalServerError {
				s.log.ErrorContext(ctx, "render failed", slog.String("kind", string(kind)), slog.Any("error", err))
			} else {
				s.log.InfoContext(ctx, "upload rejected", slog.String("kind", string(kind)), slog.String("reason", apiErr.Message))
			}
			render.Render(w, r, apiErr)
			return
		}

		s.metrics.observe(kind, start, res, nil)
		s.writePDF(w, res)
	}
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request, kind reportes.Kind) (*reportes.Result, error) {
	tbl, err := s.readUpload(w, r)
	if err != nil {
		return nil, err
	}
	return s.gen.Generate(r.Context(), kind, tbl)
}

// readUpload reads the spreadsheet posted in the file field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*ingest.Table, error) {
	limit := s.cfg.Server.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errTooLarge
		}
		return nil, errNoFilePart
	}

	file, hdr, err := r.FormFile(formField)
	if errors.Is(err, http.ErrMissingFile) {
		// A browser that submits the form with no file chosen still sends the
		// part, with an empty filename, which arrives as a plain value.
		if _, ok := r.MultipartForm.Value[formField]; ok {
			return nil, errNoFileChosen
		}
		return nil, errNoFilePart
	}
	if err != nil {
		return nil, errUnreadable
	}
	defer file.Close()

	return readFile(file, hdr)
}

func readFile(file multipart.File, hdr *multipart.FileHeader) (*ingest.Table, error) {
	if hdr.Filename == "" {
		return nil, errNoFileChosen
	}
	format, err := ingest.FormatOf(hdr.Filename)
	if err != nil {
		return nil, errNotCSV
	}
	tbl, err := ingest.Read(file, format)
	switch {
	case errors.Is(err, ingest.ErrEmpty):
		return nil, errNoData
	case err != nil:
		return nil, errUnreadable
	}
	return tbl, nil
}

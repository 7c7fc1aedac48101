package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerocr/ledgerocr"
	"github.com/ledgerocr/ledgerocr/cache"
	"github.com/ledgerocr/ledgerocr/internal/config"
	"github.com/ledgerocr/ledgerocr/model"
	"github.com/ledgerocr/ledgerocr/ocr"
	"github.com/ledgerocr/ledgerocr/version"
)

// allowedExtensions lists the upload types the parse endpoint accepts.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// parseResponse is the success payload for POST /api/ocr/parse.
type parseResponse struct {
	Result   *model.DocumentResult `json:"result"`
	Cache    string                `json:"cache,omitempty"`
	Warnings []string              `json:"warnings,omitempty"`
}

// errorResponse is a standard error payload. RetryAfter is set on
// rate-limited responses, in seconds.
type errorResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// healthResponse is the payload for GET /api/ocr/health.
type healthResponse struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	Features  featuresInfo  `json:"features"`
	RateLimit rateLimitInfo `json:"rateLimit"`
	Cache     cacheInfo     `json:"cache"`
}

type featuresInfo struct {
	Tesseract tesseractInfo `json:"tesseract"`
}

type tesseractInfo struct {
	Available bool   `json:"available"`
	Language  string `json:"language"`
}

type rateLimitInfo struct {
	PerMinute   int `json:"perMinute"`
	MaxTokens   int `json:"maxTokens"`
	CostPerPage int `json:"costPerPage"`
}

type cacheInfo struct {
	Enabled        bool    `json:"enabled"`
	ExpiredRemoved int     `json:"expiredRemoved"`
	Files          int     `json:"files"`
	SizeMB         float64 `json:"sizeMB"`
}

// handleParse accepts a multipart document upload, runs it through the
// OCR parsing pipeline and answers with the per-page results.
//
// Cached results are served before any rate-limit charge, so repeat
// uploads of the same document stay free and work even in builds
// without OCR support.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	appCfg := s.configMgr.Get()

	r.Body = http.MaxBytesReader(w, r.Body, appCfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(appCfg.Server.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large (max %dMB)", appCfg.Server.MaxUploadBytes>>20))
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file content")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		writeError(w, http.StatusBadRequest, "Unsupported file type")
		return
	}

	// "statement" is accepted for backward compatibility and runs the
	// same ledger pipeline; the value still namespaces cache entries.
	parserType := r.FormValue("parserType")
	if parserType == "" {
		parserType = "ledger"
	}

	key := cache.Key(content, cacheVariant(parserType, appCfg))

	if s.cache != nil {
		var doc model.DocumentResult
		if hit, err := s.cache.Get(key, &doc); err == nil && hit {
			s.logger.Info("cache hit", "file", header.Filename)
			writeJSON(w, http.StatusOK, parseResponse{Result: &doc, Cache: "hit"})
			return
		}
	}

	ip := clientIP(r)
	if ok, retryAfter := s.limiter.Allow(ip); !ok {
		s.logger.Warn("rate limit exceeded", "client", ip)
		writeRateLimited(w, "Too many requests", retryAfter)
		return
	}

	if !ocr.Enabled() {
		writeError(w, http.StatusServiceUnavailable,
			"OCR support not built in; rebuild the server with -tags ocr")
		return
	}

	ex := newExtractor(content, header.Filename, appCfg)

	pages, err := ex.PageCount()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing file: %v", err))
		return
	}
	if pages == 0 {
		writeError(w, http.StatusBadRequest, "No images extracted from file")
		return
	}

	// Second charge now that the page count is known, so a many-page
	// scan costs more than a single image.
	if ok, retryAfter := s.limiter.AllowPages(ip, pages); !ok {
		s.logger.Warn("rate limit exceeded", "client", ip, "pages", pages)
		writeRateLimited(w, "Too many pages, rate limit exceeded", retryAfter)
		return
	}

	doc, warns, err := ex.Parse()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing file: %v", err))
		return
	}

	if s.cache != nil {
		if err := s.cache.Put(key, doc); err != nil {
			s.logger.Warn("failed to cache parse result", "error", err)
		}
	}

	s.logger.Info("parsed upload",
		"file", header.Filename,
		"pages", len(doc.Pages),
		"transactions", len(doc.Transactions()),
		"duration", time.Since(start),
	)

	resp := parseResponse{Result: doc}
	for _, warn := range warns {
		resp.Warnings = append(resp.Warnings, warn.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports service status. It doubles as the cache
// janitor: every probe sweeps expired entries.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	appCfg := s.configMgr.Get()

	resp := healthResponse{Status: "ok", Version: version.GitRelease}
	resp.Features.Tesseract = tesseractInfo{
		Available: ocr.Enabled(),
		Language:  appCfg.OCR.Language,
	}

	limitCfg := s.limiter.Config()
	resp.RateLimit = rateLimitInfo{
		PerMinute:   limitCfg.PerMinute,
		MaxTokens:   limitCfg.Burst,
		CostPerPage: limitCfg.PageCost,
	}

	if s.cache != nil {
		resp.Cache.Enabled = true
		if removed, err := s.cache.Cleanup(); err == nil {
			resp.Cache.ExpiredRemoved = removed
		}
		if files, size, err := s.cache.Stats(); err == nil {
			resp.Cache.Files = files
			resp.Cache.SizeMB = math.Round(float64(size)/(1<<20)*100) / 100
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleTesseract reports whether the binary can run OCR at all.
func (s *Server) handleTesseract(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tesseractInfo{
		Available: ocr.Enabled(),
		Language:  s.configMgr.Get().OCR.Language,
	})
}

// newExtractor configures the parsing pipeline from the current config.
func newExtractor(content []byte, filename string, appCfg *config.Config) *ledgerocr.Extractor {
	ex := ledgerocr.FromBytes(content, filename).
		Language(appCfg.OCR.Language).
		HeaderLines(appCfg.Parse.HeaderLines).
		FooterLines(appCfg.Parse.FooterLines)
	if appCfg.Parse.TextOnly {
		ex = ex.TextOnly()
	}
	if !appCfg.Parse.Preprocess {
		ex = ex.NoPreprocess()
	}
	return ex
}

// cacheVariant namespaces cache entries by the settings that shape a
// result, so a config change cannot serve stale output.
func cacheVariant(parserType string, appCfg *config.Config) string {
	return fmt.Sprintf("server|parser=%s|lang=%s|text=%t|pre=%t|h=%d|f=%d",
		parserType, appCfg.OCR.Language, appCfg.Parse.TextOnly,
		appCfg.Parse.Preprocess, appCfg.Parse.HeaderLines, appCfg.Parse.FooterLines)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeRateLimited answers 429 with both the Retry-After header and a
// retryAfter JSON field, rounded up to whole seconds.
func writeRateLimited(w http.ResponseWriter, msg string, retryAfter time.Duration) {
	secs := int(math.Ceil(retryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: msg, RetryAfter: secs})
}

package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	dombatch "github.com/kailas-cloud/assetdex/internal/domain/batch"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/logger"
	"github.com/kailas-cloud/assetdex/internal/querylang"
	"github.com/kailas-cloud/assetdex/internal/usecase/assetquery"
	batchuc "github.com/kailas-cloud/assetdex/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/assetdex/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Ingester writes assets into the catalog.
type Ingester interface {
	Upsert(ctx context.Context, appID, id uuid.UUID, d asset.Draft) (asset.Asset, bool, error)
}

// BatchUpserter writes several assets with per-item results.
type BatchUpserter interface {
	Upsert(ctx context.Context, appID uuid.UUID, items []batchuc.Item) []dombatch.Result
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server implements ServerInterface.
type Server struct {
	assets        assetquery.Querier
	ingest        Ingester
	batch         BatchUpserter
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	assets assetquery.Querier,
	ingest Ingester,
	batch BatchUpserter,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		assets: assets,
		ingest: ingest,
		batch:  batch,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		queryValidationHandler,
		messageHandler(domain.ErrInvalidAsset, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrHashRequired, http.StatusBadRequest, ErrorResponseCodeBadRequest),
		sentinelHandler(domain.ErrAssetNotFound, http.StatusNotFound, ErrorResponseCodeAssetNotFound),
	}
	return s
}

// ListAssets handles GET /apps/{app}/assets.
func (s *Server) ListAssets(w http.ResponseWriter, r *http.Request, app uuid.UUID, params ListAssetsParams) {
	page, ok := s.list(w, r, app, params, 0)
	if !ok {
		return
	}

	items := make([]AssetResponse, len(page.Items))
	for i := range page.Items {
		items[i] = assetToResponse(&page.Items[i])
	}
	writeJSON(w, http.StatusOK, AssetListResponse[AssetResponse]{Total: page.Total, Items: items})
}

// ListAssetsCompact handles GET /apps/{app}/assets/compact.
func (s *Server) ListAssetsCompact(w http.ResponseWriter, r *http.Request, app uuid.UUID, params ListAssetsParams) {
	page, ok := s.list(w, r, app, params, s.assets.DefaultPageSizeGraph())
	if !ok {
		return
	}

	items := make([]CompactAsset, len(page.Items))
	for i := range page.Items {
		items[i] = assetToCompact(&page.Items[i])
	}
	writeJSON(w, http.StatusOK, AssetListResponse[CompactAsset]{Total: page.Total, Items: items})
}

// list runs the id path when ids are given and the text path otherwise.
// defaultTop > 0 is applied when the query text carries no $top.
func (s *Server) list(
	w http.ResponseWriter, r *http.Request, app uuid.UUID, params ListAssetsParams, defaultTop int,
) (query.Page[asset.Enriched], bool) {
	var req query.Request
	if params.Ids != nil {
		ids, err := parseIDs(*params.Ids)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
			return query.Page[asset.Enriched]{}, false
		}
		req = query.ByIDs(ids...)
	} else {
		text := queryText(r.URL.Query(), params)
		if defaultTop > 0 {
			text = withDefaultTop(text, defaultTop)
		}
		req = query.ByText(text)
	}

	page, err := s.assets.Query(r.Context(), query.Scope{AppID: app}, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return query.Page[asset.Enriched]{}, false
	}
	return page, true
}

// ListAssetsByHash handles GET /apps/{app}/assets/by-hash/{hash}.
func (s *Server) ListAssetsByHash(w http.ResponseWriter, r *http.Request, app uuid.UUID, hash string) {
	found, err := s.assets.FindByHash(r.Context(), app, hash)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]AssetResponse, len(found))
	for i := range found {
		items[i] = assetToResponse(&found[i])
	}
	writeJSON(w, http.StatusOK, AssetListResponse[AssetResponse]{Total: int64(len(items)), Items: items})
}

// GetAsset handles GET /assets/{id}.
func (s *Server) GetAsset(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	e, ok, err := s.assets.FindByID(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, ErrorResponseCodeAssetNotFound, domain.ErrAssetNotFound.Error())
		return
	}

	w.Header().Set("ETag", e.ETag())
	writeJSON(w, http.StatusOK, assetToResponse(&e))
}

// UpsertAsset handles PUT /apps/{app}/assets/{id}.
func (s *Server) UpsertAsset(w http.ResponseWriter, r *http.Request, app, id uuid.UUID) {
	var req UpsertAssetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	_, created, err := s.ingest.Upsert(r.Context(), app, id, req.draft())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	e, ok, err := s.assets.FindByID(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !ok {
		s.handleDomainError(w, r, errors.New("asset vanished after upsert"))
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	w.Header().Set("ETag", e.ETag())
	writeJSON(w, status, assetToResponse(&e))
}

// BatchUpsertAssets handles POST /apps/{app}/assets/batch.
func (s *Server) BatchUpsertAssets(w http.ResponseWriter, r *http.Request, app uuid.UUID) {
	var req BatchUpsertRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	items := make([]batchuc.Item, len(req.Items))
	for i := range req.Items {
		items[i] = batchuc.Item{ID: req.Items[i].ID, Draft: req.Items[i].draft()}
	}

	results := s.batch.Upsert(r.Context(), app, items)

	out := make([]BatchResultItem, len(results))
	for i, res := range results {
		out[i] = s.batchResultToResponse(r, res)
	}
	succeeded, failed := dombatch.Count(results)
	writeJSON(w, http.StatusOK, BatchUpsertResponse{
		Items:     out,
		Succeeded: succeeded,
		Failed:    failed,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ParamErrorHandler renders parameter binding failures.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "invalid parameter "+pe.ParamName)
		return
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "invalid request")
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, errors.New("invalid asset id " + strconv.Quote(s))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// queryText returns the query text of a listing request: the q parameter if
// present, else every other parameter re-encoded so the grammar sees them.
func queryText(values url.Values, params ListAssetsParams) string {
	if params.Q != nil {
		return *params.Q
	}
	rest := make(url.Values, len(values))
	for k, v := range values {
		if k == "ids" || k == "q" {
			continue
		}
		rest[k] = v
	}
	return rest.Encode()
}

// withDefaultTop appends $top unless the text already sets it. Text that does
// not parse is returned unchanged so the grammar reports the error.
func withDefaultTop(text string, top int) string {
	values, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(text), "?"))
	if err != nil || values.Has(querylang.OptTop) {
		return text
	}
	opt := url.QueryEscape(querylang.OptTop) + "=" + strconv.Itoa(top)
	if strings.TrimSpace(text) == "" {
		return opt
	}
	return text + "&" + opt
}

func (req *UpsertAssetRequest) draft() asset.Draft {
	return asset.Draft{
		FileName:    req.FileName,
		FileHash:    req.FileHash,
		MimeType:    req.MimeType,
		FileSize:    req.FileSize,
		Slug:        req.Slug,
		Tags:        req.Tags,
		PixelWidth:  req.PixelWidth,
		PixelHeight: req.PixelHeight,
		CreatedBy:   req.CreatedBy,
	}
}

func (s *Server) batchResultToResponse(r *http.Request, res dombatch.Result) BatchResultItem {
	item := BatchResultItem{
		ID:      res.ID(),
		Status:  BatchResultItemStatus(res.Status()),
		Created: res.Created(),
	}
	if err := res.Err(); err != nil {
		item.Error = s.batchError(r, err)
	}
	return item
}

// batchError maps an item failure the way handleDomainError maps a request
// failure, without writing a response.
func (s *Server) batchError(r *http.Request, err error) *ErrorResponse {
	switch {
	case errors.Is(err, domain.ErrInvalidAsset):
		return &ErrorResponse{Code: ErrorResponseCodeValidationFailed, Message: err.Error()}
	case errors.Is(err, domain.ErrAssetNotFound):
		return &ErrorResponse{Code: ErrorResponseCodeAssetNotFound, Message: domain.ErrAssetNotFound.Error()}
	default:
		logger.FromContextOr(r.Context(), s.logger).Error("batch item failed", zap.Error(err))
		return &ErrorResponse{Code: ErrorResponseCodeInternalError, Message: "internal error"}
	}
}

func assetToResponse(e *asset.Enriched) AssetResponse {
	return AssetResponse{
		ID:           e.ID(),
		AppID:        e.AppID(),
		FileName:     e.FileName(),
		FileHash:     e.FileHash(),
		FileType:     e.FileType(),
		MimeType:     e.MimeType(),
		FileSize:     e.FileSize(),
		FileVersion:  e.FileVersion(),
		Slug:         e.Slug(),
		Tags:         nonNil(e.TagNames()),
		IsImage:      e.IsImage(),
		PixelWidth:   positive(e.PixelWidth()),
		PixelHeight:  positive(e.PixelHeight()),
		CreatedBy:    e.CreatedBy(),
		Created:      e.Created(),
		LastModified: e.LastModified(),
		Version:      e.Version(),
		ContentURL:   e.ContentURL(),
		ThumbnailURL: e.ThumbnailURL(),
	}
}

func assetToCompact(e *asset.Enriched) CompactAsset {
	return CompactAsset{
		ID:           e.ID(),
		FileName:     e.FileName(),
		FileType:     e.FileType(),
		MimeType:     e.MimeType(),
		ContentURL:   e.ContentURL(),
		ThumbnailURL: e.ThumbnailURL(),
		Version:      e.Version(),
	}
}

func positive(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// queryValidationHandler exposes the validation message as is; it is written
// for API callers.
func queryValidationHandler(w http.ResponseWriter, err error) bool {
	var qve *domain.QueryValidationError
	if !errors.As(err, &qve) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, qve.Message)
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error
// and reports the sentinel's own message.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// messageHandler is like sentinelHandler but reports the full error chain,
// for errors built from client input only.
func messageHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	logger.FromContextOr(r.Context(), s.logger).Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

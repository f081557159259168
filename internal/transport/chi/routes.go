package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists every API operation.
type ServerInterface interface {
	// (GET /apps/{app}/assets)
	ListAssets(w http.ResponseWriter, r *http.Request, app uuid.UUID, params ListAssetsParams)
	// (GET /apps/{app}/assets/compact)
	ListAssetsCompact(w http.ResponseWriter, r *http.Request, app uuid.UUID, params ListAssetsParams)
	// (GET /apps/{app}/assets/by-hash/{hash})
	ListAssetsByHash(w http.ResponseWriter, r *http.Request, app uuid.UUID, hash string)
	// (PUT /apps/{app}/assets/{id})
	UpsertAsset(w http.ResponseWriter, r *http.Request, app uuid.UUID, id uuid.UUID)
	// (POST /apps/{app}/assets/batch)
	BatchUpsertAssets(w http.ResponseWriter, r *http.Request, app uuid.UUID)
	// (GET /assets/{id})
	GetAsset(w http.ResponseWriter, r *http.Request, id uuid.UUID)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError reports a path or query parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// ServerInterfaceWrapper binds parameters and dispatches to the handler.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	var v uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return uuid.UUID{}, false
	}
	return v, true
}

func (siw *ServerInterfaceWrapper) listParams(w http.ResponseWriter, r *http.Request) (ListAssetsParams, bool) {
	var params ListAssetsParams
	if err := runtime.BindQueryParameter("form", false, false, "ids", r.URL.Query(), &params.Ids); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "ids", Err: err})
		return params, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &params.Q); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return params, false
	}
	return params, true
}

// ListAssets operation middleware
func (siw *ServerInterfaceWrapper) ListAssets(w http.ResponseWriter, r *http.Request) {
	app, ok := siw.pathUUID(w, r, "app")
	if !ok {
		return
	}
	params, ok := siw.listParams(w, r)
	if !ok {
		return
	}
	siw.Handler.ListAssets(w, r, app, params)
}

// ListAssetsCompact operation middleware
func (siw *ServerInterfaceWrapper) ListAssetsCompact(w http.ResponseWriter, r *http.Request) {
	app, ok := siw.pathUUID(w, r, "app")
	if !ok {
		return
	}
	params, ok := siw.listParams(w, r)
	if !ok {
		return
	}
	siw.Handler.ListAssetsCompact(w, r, app, params)
}

// ListAssetsByHash operation middleware
func (siw *ServerInterfaceWrapper) ListAssetsByHash(w http.ResponseWriter, r *http.Request) {
	app, ok := siw.pathUUID(w, r, "app")
	if !ok {
		return
	}
	var hash string
	err := runtime.BindStyledParameterWithOptions("simple", "hash", chi.URLParam(r, "hash"), &hash,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "hash", Err: err})
		return
	}
	siw.Handler.ListAssetsByHash(w, r, app, hash)
}

// UpsertAsset operation middleware
func (siw *ServerInterfaceWrapper) UpsertAsset(w http.ResponseWriter, r *http.Request) {
	app, ok := siw.pathUUID(w, r, "app")
	if !ok {
		return
	}
	id, ok := siw.pathUUID(w, r, "id")
	if !ok {
		return
	}
	siw.Handler.UpsertAsset(w, r, app, id)
}

// BatchUpsertAssets operation middleware
func (siw *ServerInterfaceWrapper) BatchUpsertAssets(w http.ResponseWriter, r *http.Request) {
	app, ok := siw.pathUUID(w, r, "app")
	if !ok {
		return
	}
	siw.Handler.BatchUpsertAssets(w, r, app)
}

// GetAsset operation middleware
func (siw *ServerInterfaceWrapper) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.pathUUID(w, r, "id")
	if !ok {
		return
	}
	siw.Handler.GetAsset(w, r, id)
}

// HandlerWithOptions mounts every operation on the base router.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/apps/{app}/assets", wrapper.ListAssets)
		r.Get(options.BaseURL+"/apps/{app}/assets/compact", wrapper.ListAssetsCompact)
		r.Get(options.BaseURL+"/apps/{app}/assets/by-hash/{hash}", wrapper.ListAssetsByHash)
		r.Put(options.BaseURL+"/apps/{app}/assets/{id}", wrapper.UpsertAsset)
		r.Post(options.BaseURL+"/apps/{app}/assets/batch", wrapper.BatchUpsertAssets)
		r.Get(options.BaseURL+"/assets/{id}", wrapper.GetAsset)
		r.Get(options.BaseURL+"/health", si.HealthCheck)
		r.Get(options.BaseURL+"/metrics", si.Metrics)
	})

	return r
}

package oauth

import (
	"errors"
	"net/http"

	"github.com/getmockd/echoidp/pkg/httputil"
)

// Handler provides OAuth endpoint handlers
type Handler struct {
	provider *Provider
}

// NewHandler creates OAuth HTTP handlers
func NewHandler(provider *Provider) *Handler {
	return &Handler{provider: provider}
}

// HandleDiscovery handles GET /.well-known/openid-configuration
func (h *Handler) HandleDiscovery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}
	httputil.WriteOK(w, h.provider.Discovery())
}

// HandleAuthorize handles POST /authorize and POST /token
func (h *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}

	body, err := httputil.DecodeBody(w, r)
	if err != nil {
		h.badBody(w, err)
		return
	}

	resp, err := h.provider.Authorize(body, r.URL.Query().Get(ParamResponseType))
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, ErrServerError, "failed to encode token")
		return
	}
	httputil.WriteNoStore(w, http.StatusOK, resp)
}

// HandleIntrospect handles POST /introspect
func (h *Handler) HandleIntrospect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}

	body, err := httputil.DecodeBody(w, r)
	if err != nil {
		h.badBody(w, err)
		return
	}

	httputil.WriteNoStore(w, http.StatusOK, h.provider.Introspect(body))
}

// Helper methods

func (h *Handler) methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	httputil.WriteError(w, http.StatusMethodNotAllowed, ErrInvalidRequest, "method not allowed")
}

func (h *Handler) badBody(w http.ResponseWriter, err error) {
	if errors.Is(err, httputil.ErrBodyTooLarge) {
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, ErrInvalidRequest, err.Error())
		return
	}
	desc := "failed to parse request body"
	if errors.Is(err, httputil.ErrInvalidBody) {
		desc = err.Error()
	}
	httputil.WriteError(w, http.StatusBadRequest, ErrInvalidRequest, desc)
}

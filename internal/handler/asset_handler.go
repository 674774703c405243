package handler

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/dandantas/keepwarm/pkg/middleware"
)

// AssetHandler forwards unmatched requests to the external static asset host
type AssetHandler struct {
	proxy *httputil.ReverseProxy
}

// NewAssetHandler creates an asset handler for assetsURL.
// An empty assetsURL disables proxying and every request gets a 404.
func NewAssetHandler(assetsURL string) (*AssetHandler, error) {
	if assetsURL == "" {
		return &AssetHandler{}, nil
	}

	target, err := url.Parse(assetsURL)
	if err != nil {
		return nil, err
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("Asset proxy error",
				"path", r.URL.Path,
				"assets_url", target.String(),
				"correlation_id", middleware.GetCorrelationID(r.Context()),
				"error", err,
			)
			writeError(w, http.StatusBadGateway, "Asset host unavailable")
		},
	}

	return &AssetHandler{proxy: proxy}, nil
}

// ServeHTTP handles GET /*
func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	if h.proxy == nil {
		writeError(w, http.StatusNotFound, "Endpoint not found")
		return
	}

	h.proxy.ServeHTTP(w, r)
}

package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /matches", handler.ListMatches)
	mux.HandleFunc("GET /matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /matches/{matchID}/live", handler.GetMatchLive)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /internal/jobs/refresh-live", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshLiveJob)))
	mux.Handle("POST /internal/jobs/reload-fixtures", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReloadFixturesJob)))
}

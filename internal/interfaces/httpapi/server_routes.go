package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competitions/{competitionID}/seasons/{seasonID}/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/seasons/{seasonID}/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/seasons/{seasonID}/squads", handler.ListSquads)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/seasons/{seasonID}/teams/{teamID}/stats", handler.GetTeamSeasonStats)
	mux.HandleFunc("GET /v1/matches/{matchID}/live", handler.GetLiveMatchState)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/refresh", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshJob)))
	mux.Handle("GET /v1/internal/snapshots", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListSnapshots)))
}

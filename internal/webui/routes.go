package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Vonter/bmrcl-station-app/internal/app"
)

// WebUI serves the debug pages.
type WebUI struct {
	*app.Application
}

func SetWebUIRoutes(router *httprouter.Router, webUI *WebUI) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}

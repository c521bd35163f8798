package server

// Route path constants
// The connect routes keep the paths the frontend already links to
const (
	RouteTwitterConnect  = "/api/connect/twitter/connect"
	RouteTwitterCallback = "/api/connect/twitter/callback"
	RouteTwitterFetch    = "/api/connect/twitter/fetch"

	RouteHealthz = "/healthz"
)

package server

func (s *Server) initRoutes() {
	// Twitter connection
	s.RegisterRouteHandler("GET "+RouteTwitterConnect, ChainMiddleware(s.TwitterConnectHandler(), s.StandardMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteTwitterCallback, ChainMiddleware(s.TwitterCallbackHandler(), s.StandardMiddleware(NoReferrerMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteTwitterFetch, ChainMiddleware(s.TwitterFetchHandler(), s.StandardMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthHandler())
}

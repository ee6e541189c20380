package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - System
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/shutdown", s.ShutdownHandler)

	// API routes - Reports
	mux.HandleFunc("/api/reports", s.handleReportsRoute) // GET (list), POST (create)
	mux.HandleFunc("/api/reports/", s.handleReportRoutes) // GET/PUT/DELETE /{id}, POST /{id}/export, POST /{id}/layout

	// API routes - Ad-hoc export
	mux.HandleFunc("/api/export", s.app.ExportLimiter.Wrap(s.app.ReportHandler.ExportHandler))

	// API routes - Export history
	mux.HandleFunc("/api/exports", s.app.ExportHistoryHandler.ListExportsHandler)
	mux.HandleFunc("/api/exports/prune", s.app.ExportHistoryHandler.PruneExportsHandler)
	mux.HandleFunc("/api/exports/", s.app.ExportHistoryHandler.GetExportHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleReportsRoute routes /api/reports by method
func (s *Server) handleReportsRoute(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r,
		s.app.ReportHandler.ListReportsHandler,
		s.app.ReportHandler.CreateReportHandler,
	)
}

// handleReportRoutes routes /api/reports/{id} and its actions
func (s *Server) handleReportRoutes(w http.ResponseWriter, r *http.Request) {
	if RouteByPathSuffix(w, r, "/api/reports/", []PathSuffixRouter{
		{Suffix: "/export", Handler: RouteHandler(s.app.ExportLimiter.Wrap(s.app.ReportHandler.ExportReportHandler))},
		{Suffix: "/layout", Handler: s.app.ReportHandler.LayoutReportHandler},
	}) {
		return
	}

	// Reject deeper paths that matched no action
	if strings.Contains(strings.TrimPrefix(r.URL.Path, "/api/reports/"), "/") {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}

	RouteResourceItem(w, r,
		s.app.ReportHandler.GetReportHandler,
		s.app.ReportHandler.UpdateReportHandler,
		s.app.ReportHandler.DeleteReportHandler,
	)
}

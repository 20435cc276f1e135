// ABOUTME: Web UI server with embedded templates
// ABOUTME: Provides a read-only dashboard over the open CRM document at localhost:8080
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/models"
	"github.com/harperreed/yongu/viz"
)

//go:embed templates/*.html templates/partials/*.html
var templatesFS embed.FS

type Server struct {
	ctrl      *app.Controller
	templates *template.Template
	now       func() time.Time
	logger    *log.Logger
}

func NewServer(ctrl *app.Controller, logger *log.Logger) (*Server, error) {
	// Helper functions for templates
	funcMap := template.FuncMap{
		"date": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return "never"
			}
			return t.Local().Format("2006-01-02")
		},
		"bar": func(n, total int) int {
			if total == 0 {
				return 0
			}
			return n * 100 / total
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	if logger == nil {
		logger = log.Default()
	}
	return &Server{ctrl: ctrl, templates: tmpl, now: time.Now, logger: logger}, nil
}

// Handler routes every page.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/contacts", s.handleContacts)
	mux.HandleFunc("/followups", s.handleFollowups)
	mux.HandleFunc("/graphs", s.handleGraphs)

	// Partials for HTMX
	mux.HandleFunc("/partials/contact-detail", s.handleContactDetail)
	mux.HandleFunc("/partials/graph", s.handleGraphPartial)
	return mux
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context, port int) error {
	server := &http.Server{
		Addr:              fmt.Sprintf("localhost:%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdown)
	}()

	s.logger.Info("starting web server", "url", "http://"+server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRow struct {
	Label string
	Count int
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	stats := viz.GenerateDashboardStats(s.ctrl.Document(), s.now())

	var pipeline []statusRow
	for _, st := range models.Statuses {
		pipeline = append(pipeline, statusRow{Label: string(st), Count: stats.ByStatus[st]})
	}

	data := map[string]interface{}{
		"Stats":           stats,
		"Pipeline":        pipeline,
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	// Execute the specified template (usually layout.html)
	// The data map includes ContentTemplate to specify which content block to render
	err := s.templates.ExecuteTemplate(w, name, data)
	if err != nil {
		s.logger.Error("template error", "template", name, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	filter := app.Filter{Query: query}
	if st, ok := models.ParseStatus(r.URL.Query().Get("status")); ok {
		filter.Status = st
	}

	data := map[string]interface{}{
		"Contacts":        s.ctrl.Contacts(filter),
		"Query":           query,
		"Status":          string(filter.Status),
		"Statuses":        models.Statuses,
		"Title":           "Contacts",
		"ContentTemplate": "contacts-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleFollowups(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Followups":       s.ctrl.FollowUps(s.now()),
		"Title":           "Follow-ups",
		"ContentTemplate": "followups-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleContactDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	contact, err := s.ctrl.Contact(id)
	if errors.Is(err, app.ErrContactNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Contact":   contact,
		"DaysSince": contact.DaysSinceContact(s.now()),
	}

	s.renderTemplate(w, "contact-detail.html", data)
}

func (s *Server) handleGraphs(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title":           "Graphs",
		"ContentTemplate": "graphs-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleGraphPartial(w http.ResponseWriter, r *http.Request) {
	generator := viz.NewGraphGenerator(s.ctrl.Document())

	var (
		dot string
		err error
	)
	switch r.URL.Query().Get("type") {
	case "", "pipeline":
		dot, err = generator.GeneratePipelineGraph()
	case "geo", "geography":
		dot, err = generator.GenerateGeographyGraph()
	default:
		http.Error(w, "Invalid graph type", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"DOT": dot,
	}

	s.renderTemplate(w, "graph.html", data)
}

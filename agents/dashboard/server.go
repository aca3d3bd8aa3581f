package dashboard

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"youtube-trends/internal/models"
	"youtube-trends/shared/config"
	"youtube-trends/shared/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yuin/goldmark"
)

//go:embed templates/*.html
var templateFS embed.FS

// Load reads the processed dataset once. The dashboard never refreshes it.
func Load(ctx context.Context, store storage.ObjectStore, prefix string) (*Dataset, error) {
	records, err := storage.ReadDataset(ctx, store, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to load processed dataset: %w", err)
	}
	log.Printf("Loaded %d processed records from %s", len(records), store.Location(prefix))
	return NewDataset(records), nil
}

// Server serves the dashboard page and its JSON API.
type Server struct {
	config      *config.DashboardConfig
	dataset     *Dataset
	description template.HTML
	router      *gin.Engine
}

func NewServer(cfg *config.DashboardConfig, dataset *Dataset) (*Server, error) {
	var md bytes.Buffer
	if err := goldmark.Convert([]byte(cfg.Description), &md); err != nil {
		return nil, fmt.Errorf("failed to render description: %w", err)
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		config:      cfg,
		dataset:     dataset,
		description: template.HTML(md.String()),
		router:      gin.Default(),
	}
	s.router.SetHTMLTemplate(tmpl)
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.GET("/", s.page)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	api := s.router.Group("/api")
	api.GET("/summary", s.summary)
	api.GET("/records", s.records)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured port until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(s.config.Port),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Dashboard listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dashboard server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down dashboard: %w", err)
	}
	log.Println("Dashboard stopped")
	return nil
}

// parseFilter reads category (repeated), start and end from the query.
// Sending filtered=1 without any category selects no category at all.
func (s *Server) parseFilter(c *gin.Context) (Filter, error) {
	f := s.dataset.DefaultFilter()

	values := c.QueryArray("category")
	if len(values) > 0 || c.Query("filtered") != "" {
		f.Categories = []models.Category{}
		for _, v := range values {
			if v != "" {
				f.Categories = append(f.Categories, models.Category(v))
			}
		}
	}

	for _, bound := range []struct {
		param  string
		target **time.Time
	}{
		{"start", &f.Start},
		{"end", &f.End},
	} {
		raw := c.Query(bound.param)
		if raw == "" {
			continue
		}
		d, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid %s date %q, expected YYYY-MM-DD", bound.param, raw)
		}
		*bound.target = &d
	}
	return f, nil
}

func (s *Server) options() SummaryOptions {
	return SummaryOptions{
		HistogramMaxBins: s.config.HistogramMaxBins,
		TopChannels:      s.config.TopChannels,
	}
}

func (s *Server) summary(c *gin.Context) {
	f, err := s.parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filtered := s.dataset.Apply(f)
	resp := gin.H{
		"filter":  filterJSON(f),
		"summary": Summarize(filtered, s.options()),
	}
	if q := c.Query("q"); q != "" {
		resp["search"] = Search(filtered, ParseTerms(q), s.config.SearchLimit)
	}
	c.JSON(http.StatusOK, resp)
}

// records is the unfiltered processed-data preview.
func (s *Server) records(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"total": len(s.dataset.Records),
		"items": s.dataset.Records,
	})
}

func (s *Server) page(c *gin.Context) {
	f, err := s.parseFilter(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	filtered := s.dataset.Apply(f)
	view := pageView{
		Title:       s.config.Title,
		Description: s.description,
		Options:     categoryOptions(s.dataset.Categories, f.Categories),
		Start:       formatDate(f.Start),
		End:         formatDate(f.End),
		MinDate:     formatDate(s.dataset.MinDate),
		MaxDate:     formatDate(s.dataset.MaxDate),
		Query:       c.Query("q"),
		Summary:     Summarize(filtered, s.options()),
		Records:     s.dataset.Records,
	}
	if terms := ParseTerms(view.Query); len(terms) > 0 {
		res := Search(filtered, terms, s.config.SearchLimit)
		view.Search = &res
	}
	c.HTML(http.StatusOK, "dashboard.html", view)
}

func filterJSON(f Filter) gin.H {
	categories := f.Categories
	if categories == nil {
		categories = []models.Category{}
	}
	return gin.H{
		"all_categories": f.Categories == nil,
		"categories":     categories,
		"start":          formatDate(f.Start),
		"end":            formatDate(f.End),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(models.DateLayout)
}

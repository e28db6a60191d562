// Package web serves the TubeArchitect pages, the JSON API and the agent
// endpoints on one gin engine.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/tubearchitect/internal/a2a"
	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/export"
	"github.com/BerylCAtieno/tubearchitect/internal/identity"
	"github.com/BerylCAtieno/tubearchitect/internal/session"
	"github.com/BerylCAtieno/tubearchitect/internal/workflow"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Server struct {
	workflow  *workflow.Workflow
	auth      *identity.Authenticator
	agent     *a2a.A2AHandler
	templates *template.Template
	logger    *zap.Logger
}

func NewServer(wf *workflow.Workflow, auth *identity.Authenticator, agent *a2a.A2AHandler, logger *zap.Logger) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Server{
		workflow:  wf,
		auth:      auth,
		agent:     agent,
		templates: tmpl,
		logger:    logger,
	}, nil
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"comma": func(n uint64) string { return humanize.Comma(int64(n)) },
		"icon":  func(i Icon) template.HTML { return i.SVG() },
		"inc":   func(i int) int { return i + 1 },
		// Icons for templates that do not get them from view data.
		"glyph": func(name string) template.HTML {
			if i, ok := glyphs[name]; ok {
				return i.SVG()
			}
			return ""
		},
	}
	return template.New("web").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
}

var glyphs = map[string]Icon{
	"alert":    IconAlert,
	"download": IconDownload,
	"logout":   IconLogout,
	"sparkles": IconSparkles,
	"trend":    IconTrendUp,
	"youtube":  IconYouTube,
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(Recovery(s.logger), RequestLogging(s.logger))
	r.SetHTMLTemplate(s.templates)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/.well-known/agent.json", s.agent.ServeAgentCard)
	r.POST(a2a.Path, s.agent.HandleStrategist)

	pages := r.Group("/", s.auth.Middleware())
	pages.GET("", s.landing)
	pages.GET("app", s.app)
	pages.POST("app/start", s.navigate(session.Start))
	pages.POST("app/resume", s.navigate(session.Resume))
	pages.POST("app/onboarding", s.onboarding)
	pages.POST("app/connect/advanced", s.navigate(session.Advanced))
	pages.POST("app/connect/back", s.navigate(session.Back))
	pages.POST("app/connect/demo", s.connectDemo)
	pages.POST("app/connect/live", s.connectLive)
	pages.POST("app/tab/:tab", s.selectTab)
	pages.POST("app/new-analysis", s.navigate(session.NewAnalysis))
	pages.POST("app/signout", s.navigate(session.SignOut))
	pages.GET("app/export", s.exportPage)

	api := r.Group("/api/v1", s.auth.Middleware())
	api.GET("/session", s.getSession)
	api.GET("/profile", s.getProfile)
	api.PUT("/profile", s.putProfile)
	api.GET("/demo-channels", s.getDemoChannels)
	api.POST("/analysis", s.postAnalysis)
	api.GET("/analysis", s.getAnalysis)
	api.GET("/analysis/export", s.exportAPI)

	return r
}

// session resolves the caller's session. It writes the error reply itself
// and reports false when there is none.
func (s *Server) session(c *gin.Context) (*session.Session, bool) {
	id, ok := identity.FromContext(c)
	if !ok {
		s.writeError(c, apperr.NewUnauthorized("Sign in to continue."))
		return nil, false
	}
	sess, err := s.workflow.Session(c.Request.Context(), id.UserID)
	if err != nil {
		s.logger.Error("Failed to load session", zap.String("user_id", id.UserID), zap.Error(err))
		s.writeError(c, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(apperr.HTTPStatus(err), apperr.ToResponse(err))
}

func (s *Server) sendFile(c *gin.Context, file *export.File) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": file.Name})
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// renderPartial executes a named template to HTML for embedding in a page.
func (s *Server) renderPartial(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

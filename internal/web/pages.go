package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/models"
	"github.com/BerylCAtieno/tubearchitect/internal/session"
)

const appPath = "/app"

func (s *Server) landing(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	snap := sess.Snapshot()
	c.HTML(http.StatusOK, "landing.tmpl", page{Title: screenFor(session.StageWelcome).title, Snapshot: snap})
}

func (s *Server) app(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	s.renderApp(c, sess, nil)
}

// renderApp draws the screen for the session's current stage. A non-nil err
// is shown on the page and sets the status code.
func (s *Server) renderApp(c *gin.Context, sess *session.Session, err error) {
	snap := sess.Snapshot()
	scr := screenFor(snap.State.Stage)
	p := page{Title: scr.title, Snapshot: snap}

	status := http.StatusOK
	if err != nil {
		_ = c.Error(err)
		status = apperr.HTTPStatus(err)
		p.Error = apperr.UserMessage(err)
	}

	var renderErr error
	switch snap.State.Stage {
	case session.StageOnboarding:
		p.Step = stepInfoFor(snap.State.Step)
		p.Options = optionsFor(snap.Profile)
		p.Body, renderErr = s.renderPartial(stepTemplates[snap.State.Step], p)
	case session.StageConnecting:
		p.Channels = s.workflow.DemoChannels()
		if p.Error == "" {
			p.Error = snap.Error
		}
	case session.StageConnectingAdvanced:
		if p.Error == "" {
			p.Error = snap.Error
		}
	case session.StageDashboard:
		p.Tabs = tabLinks(snap.State.Tab)
		view := viewFor(snap.State.Tab, snap)
		p.Body, renderErr = s.renderPartial(view.template(), view)
	}
	if renderErr != nil {
		s.logger.Error("Failed to render screen",
			zap.String("stage", snap.State.Stage.String()),
			zap.Error(renderErr))
		s.writeError(c, renderErr)
		return
	}

	c.HTML(status, scr.template, p)
}

func (s *Server) redirectToApp(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, appPath)
}

// navigate applies a navigation event and sends the browser back to /app.
func (s *Server) navigate(event func() session.Event) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := s.session(c)
		if !ok {
			return
		}
		if _, err := s.workflow.Advance(c.Request.Context(), sess, event()); err != nil {
			s.renderApp(c, sess, err)
			return
		}
		s.redirectToApp(c)
	}
}

// onboarding records the answers on the current step, then moves by action.
// A toggle submission flips one set member and stays on the step.
func (s *Server) onboarding(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	st := sess.State()
	if st.Stage != session.StageOnboarding {
		s.renderApp(c, sess, apperr.NewInvalidTransition(st.String(), "answer"))
		return
	}

	toggle := c.PostForm("toggle")
	sess.UpdateProfile(func(p *models.ProfileInput) {
		applyStepForm(c, p, st.Step, toggle)
	})
	if toggle != "" {
		s.redirectToApp(c)
		return
	}

	ev := session.Next()
	if c.PostForm("action") == "back" {
		ev = session.Back()
	}
	if _, err := s.workflow.Advance(c.Request.Context(), sess, ev); err != nil {
		s.renderApp(c, sess, err)
		return
	}
	s.redirectToApp(c)
}

// applyStepForm copies the fields a step's form submits. Set-valued answers
// change only through toggles.
func applyStepForm(c *gin.Context, p *models.ProfileInput, step session.Step, toggle string) {
	scalar := func(dst *string, field string) {
		if v, ok := c.GetPostForm(field); ok {
			*dst = v
		}
	}

	switch step {
	case session.StepIdentity:
		scalar(&p.Name, "name")
		scalar(&p.Niche, "niche")
	case session.StepPassion:
		scalar(&p.PassionBio, "passionBio")
	case session.StepStyle:
		if toggle != "" && models.IsContentStyle(toggle) {
			p.ContentStyles = models.Toggle(p.ContentStyles, toggle)
		}
	case session.StepExperience:
		if v, ok := c.GetPostForm("experienceLevel"); ok {
			p.ExperienceLevel = models.ExperienceLevel(v)
		}
	case session.StepGoals:
		if v, ok := c.GetPostForm("primaryGoal"); ok {
			p.PrimaryGoal = models.PrimaryGoal(v)
		}
	case session.StepReality:
		scalar(&p.TimeCommitment, "timeCommitment")
		if v := c.PostForm("modelCredential"); v != "" {
			p.ModelCredential = v
		}
		if toggle != "" && models.IsProductionConstraint(toggle) {
			p.ProductionConstraints = models.Toggle(p.ProductionConstraints, toggle)
		}
	}
	p.Normalize()
}

func (s *Server) connectDemo(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.DefaultPostForm("demoIndex", "0"))
	if err != nil {
		s.renderApp(c, sess, apperr.NewInvalidInput("demoIndex", "Unknown demonstration channel"))
		return
	}
	if err := s.workflow.StartDemo(sess, index); err != nil {
		s.renderApp(c, sess, err)
		return
	}
	s.redirectToApp(c)
}

func (s *Server) connectLive(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := s.workflow.StartLive(sess, c.PostForm("channelId"), c.PostForm("apiKey")); err != nil {
		s.renderApp(c, sess, err)
		return
	}
	s.redirectToApp(c)
}

func (s *Server) selectTab(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	tab := session.Tab(c.Param("tab"))
	if _, err := s.workflow.Advance(c.Request.Context(), sess, session.SelectTab(tab)); err != nil {
		s.renderApp(c, sess, err)
		return
	}
	s.redirectToApp(c)
}

func (s *Server) exportPage(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	file, err := s.workflow.Export(sess)
	if err != nil {
		s.renderApp(c, sess, err)
		return
	}
	s.sendFile(c, file)
}

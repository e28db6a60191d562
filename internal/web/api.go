package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/models"
	"github.com/BerylCAtieno/tubearchitect/internal/session"
)

// analysisRequest selects a demo channel by index, or a live channel when
// ChannelID is set.
type analysisRequest struct {
	DemoIndex *int   `json:"demoIndex"`
	ChannelID string `json:"channelId"`
	APIKey    string `json:"apiKey"`
}

type analysisResponse struct {
	Channel  *models.ChannelStats    `json:"channel"`
	Analysis *models.ChannelAnalysis `json:"analysis"`
}

func (s *Server) getSession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) getProfile(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot().Profile)
}

func (s *Server) putProfile(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var profile models.ProfileInput
	if err := c.ShouldBindJSON(&profile); err != nil {
		s.writeError(c, apperr.NewInvalidInput("body", "Request body must be a JSON profile").WithCause(err))
		return
	}
	if err := s.workflow.SaveProfile(c.Request.Context(), sess, profile); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot().Profile)
}

func (s *Server) getDemoChannels(c *gin.Context) {
	c.JSON(http.StatusOK, s.workflow.DemoChannels())
}

// postAnalysis runs an analysis to completion within the request. The
// session is first moved to the connect screen the request needs.
func (s *Server) postAnalysis(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, apperr.NewInvalidInput("body", "Request body must be a JSON analysis request").WithCause(err))
		return
	}

	ctx := c.Request.Context()
	live := strings.TrimSpace(req.ChannelID) != ""
	if !live && req.DemoIndex == nil {
		s.writeError(c, apperr.NewInvalidInput("demoIndex", "Provide demoIndex, or channelId and apiKey"))
		return
	}

	target := session.StageConnecting
	if live {
		target = session.StageConnectingAdvanced
	}
	if err := s.moveTo(ctx, sess, target); err != nil {
		s.writeError(c, err)
		return
	}

	var err error
	if live {
		err = s.workflow.AnalyzeLive(ctx, sess, req.ChannelID, req.APIKey)
	} else {
		err = s.workflow.AnalyzeDemo(ctx, sess, *req.DemoIndex)
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.writeResult(c, sess)
}

// moveTo walks the session from where it is to a connect screen. Stages it
// cannot leave are left alone for the analysis to refuse.
func (s *Server) moveTo(ctx context.Context, sess *session.Session, target session.Stage) error {
	for range 3 {
		var ev session.Event
		switch st := sess.State(); {
		case st.Stage == target:
			return nil
		case st.Stage == session.StageWelcome:
			ev = session.Resume()
		case st.Stage == session.StageDashboard:
			ev = session.NewAnalysis()
		case st.Stage == session.StageConnecting:
			ev = session.Advanced()
		case st.Stage == session.StageConnectingAdvanced:
			ev = session.Back()
		default:
			return nil
		}
		if _, err := s.workflow.Advance(ctx, sess, ev); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) getAnalysis(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	s.writeResult(c, sess)
}

func (s *Server) writeResult(c *gin.Context, sess *session.Session) {
	stats, analysis, ok := sess.Result()
	if !ok {
		s.writeError(c, apperr.NewNotFound("There is no strategy yet"))
		return
	}
	c.JSON(http.StatusOK, analysisResponse{Channel: stats, Analysis: analysis})
}

func (s *Server) exportAPI(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	file, err := s.workflow.Export(sess)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.sendFile(c, file)
}

package a2a

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/metrics"
	"github.com/BerylCAtieno/tubearchitect/internal/models"
	"github.com/BerylCAtieno/tubearchitect/internal/validation"
	"github.com/BerylCAtieno/tubearchitect/internal/workflow"
)

const (
	Path    = "/a2a/strategist"
	Version = "1.0.0"
)

type A2AHandler struct {
	generator workflow.Generator
	stats     workflow.StatsProvider
	logger    *zap.Logger
}

func NewA2AHandler(generator workflow.Generator, stats workflow.StatsProvider, logger *zap.Logger) *A2AHandler {
	return &A2AHandler{
		generator: generator,
		stats:     stats,
		logger:    logger,
	}
}

// strategistInput is the data part accepted by message/send. Profile may
// also be sent as the data part itself.
type strategistInput struct {
	Profile   *models.ProfileInput `json:"profile,omitempty"`
	ChannelID string               `json:"channelId,omitempty"`
	APIKey    string               `json:"apiKey,omitempty"`
}

// HandleStrategist processes A2A messages
func (h *A2AHandler) HandleStrategist(c *gin.Context) {
	var rpcReq JSONRPCRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&rpcReq); err != nil {
		h.logger.Warn("Failed to decode JSON-RPC request", zap.Error(err))
		h.sendErrorResponse(c, nil, "Parse error", CodeParseError)
		return
	}

	if rpcReq.JSONRPC != "2.0" {
		h.sendErrorResponse(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "message/send", "agent/task":
		h.handleTask(c, rpcReq)
	default:
		metrics.RecordAgentRequest("unknown", apperr.NewInvalidInput("method", rpcReq.Method))
		h.sendErrorResponse(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

func (h *A2AHandler) handleTask(c *gin.Context, rpcReq JSONRPCRequest) {
	var msgParams MessageParams
	if err := json.Unmarshal(rpcReq.Params, &msgParams); err != nil {
		h.logger.Warn("Invalid message/send params", zap.Error(err))
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}

	taskID := msgParams.Message.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}

	result, err := h.runTask(c.Request.Context(), taskID, msgParams.Message)
	metrics.RecordAgentRequest(rpcReq.Method, err)
	if err != nil {
		h.logger.Warn("Strategist task failed",
			zap.String("task_id", taskID),
			zap.String("kind", string(apperr.KindOf(err))),
			zap.Error(err))
	}
	h.sendSuccessResponse(c, rpcReq.ID, result)
}

func (h *A2AHandler) runTask(ctx context.Context, taskID string, msg A2AMessage) (TaskResult, error) {
	profile, input, err := extractInput(msg)
	if err != nil {
		return h.createErrorTaskResult(taskID, msg.ContextID, apperr.UserMessage(err)), err
	}

	if err := validation.Struct(profile); err != nil {
		inErr := apperr.NewInvalidInput("profile", err.Error()).WithCause(err)
		return h.createErrorTaskResult(taskID, msg.ContextID, inErr.Message), inErr
	}

	stats := models.DemoChannels()[0]
	if input.ChannelID != "" {
		found, err := h.stats.Lookup(ctx, input.ChannelID, input.APIKey)
		metrics.RecordStatsLookup(err)
		if err != nil {
			return h.createErrorTaskResult(taskID, msg.ContextID, apperr.UserMessage(err)), err
		}
		stats = *found
	}

	h.logger.Info("Generating strategy for agent task",
		zap.String("task_id", taskID),
		zap.String("channel", stats.Name),
		zap.String("mode", string(h.generator.ModeFor(profile))))

	analysis, err := h.generator.Generate(ctx, profile, stats)
	if err != nil {
		return h.createErrorTaskResult(taskID, msg.ContextID, apperr.UserMessage(err)), err
	}

	result, err := h.createSuccessTaskResult(taskID, msg.ContextID, stats, analysis)
	if err != nil {
		return h.createErrorTaskResult(taskID, msg.ContextID, "Failed to encode strategy"), err
	}
	return result, nil
}

// extractInput reads the profile from data parts and uses any text as the
// passion bio. A text-only message gets defaults for the other answers.
func extractInput(msg A2AMessage) (models.ProfileInput, strategistInput, error) {
	var (
		texts   []string
		input   strategistInput
		profile *models.ProfileInput
	)

	for _, part := range msg.Parts {
		switch part.Kind {
		case "text":
			text := strings.TrimSpace(part.Text)
			text = strings.TrimSpace(strings.NewReplacer("<p>", "", "</p>", "").Replace(text))
			if text != "" {
				texts = append(texts, text)
			}
		case "data":
			if len(part.Data) == 0 {
				continue
			}
			var in strategistInput
			if err := json.Unmarshal(part.Data, &in); err != nil {
				return models.ProfileInput{}, input, apperr.NewInvalidInput("data", "The data part is not a valid strategist request").WithCause(err)
			}
			if in.ChannelID != "" {
				input.ChannelID, input.APIKey = in.ChannelID, in.APIKey
			}
			if in.Profile != nil {
				profile = in.Profile
				continue
			}
			var direct models.ProfileInput
			if err := json.Unmarshal(part.Data, &direct); err == nil && direct.Name != "" {
				profile = &direct
			}
		}
	}

	text := strings.Join(texts, " ")
	if profile == nil && text == "" {
		return models.ProfileInput{}, input, apperr.NewInvalidInput("message",
			"Please describe your channel, or send a creator profile as a data part.")
	}

	p := defaultProfile()
	if profile != nil {
		p = *profile
	}
	if p.PassionBio == "" {
		p.PassionBio = text
	}
	p.Normalize()
	return p, input, nil
}

func defaultProfile() models.ProfileInput {
	return models.ProfileInput{
		Name:            "Creator",
		Niche:           "Other",
		ContentStyles:   []string{"Hybrid"},
		ExperienceLevel: models.ExperienceBeginner,
		PrimaryGoal:     models.GoalAudienceGrowth,
		TimeCommitment:  models.TimeCommitments[1],
	}
}

// ServeAgentCard serves the agent card using Gin
func (h *A2AHandler) ServeAgentCard(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}

	c.JSON(http.StatusOK, AgentCard{
		Name:        "TubeArchitect Strategist",
		Description: "Builds a YouTube growth strategy from a creator profile and channel statistics.",
		URL:         scheme + "://" + c.Request.Host + Path,
		Version:     Version,
		Capabilities: AgentCapabilities{
			Streaming:         false,
			PushNotifications: false,
		},
		DefaultInputModes:  []string{"text/plain", "application/json"},
		DefaultOutputModes: []string{"application/json", "text/plain"},
		Skills: []AgentSkill{
			{
				ID:          "channel-strategy",
				Name:        "Channel strategy",
				Description: "Strengths, weaknesses, ten video ideas, action items, a weekly schedule and SEO tips.",
				Tags:        []string{"youtube", "strategy", "content"},
				Examples: []string{
					"I review budget mechanical keyboards and want to grow past 10k subscribers.",
				},
			},
		},
	})
}

func (h *A2AHandler) createSuccessTaskResult(taskID, contextID string, stats models.ChannelStats, analysis *models.ChannelAnalysis) (TaskResult, error) {
	data, err := DataPart(analysis)
	if err != nil {
		return TaskResult{}, err
	}
	summary := formatAnalysis(stats, analysis)

	return TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     StateCompleted,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    taskID,
				Parts:     []MessagePart{TextPart(summary)},
			},
		},
		Artifacts: []Artifact{
			{
				ArtifactID: uuid.NewString(),
				Name:       "Channel Strategy",
				Parts:      []MessagePart{data, TextPart(summary)},
			},
		},
	}, nil
}

func (h *A2AHandler) createErrorTaskResult(taskID, contextID, errorMsg string) TaskResult {
	return TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     StateFailed,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    taskID,
				Parts:     []MessagePart{TextPart(errorMsg)},
			},
		},
	}
}

func formatAnalysis(stats models.ChannelStats, analysis *models.ChannelAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Strategy for: %s\n\n", stats.Name)
	fmt.Fprintf(&b, "%s\n", analysis.SuccessfulConcept.Description)

	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n**%s:**\n", title)
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(item))
		}
	}
	section("Strengths", analysis.Strengths)
	section("Weaknesses", analysis.Weaknesses)

	ideas := make([]string, 0, len(analysis.VideoIdeas))
	for _, idea := range analysis.VideoIdeas {
		ideas = append(ideas, idea.Title)
	}
	section("Video Ideas", ideas)

	tasks := make([]string, 0, len(analysis.ActionItems))
	for _, item := range analysis.ActionItems {
		tasks = append(tasks, fmt.Sprintf("[%s] %s", item.Priority, item.Task))
	}
	section("Action Items", tasks)

	return b.String()
}

func (h *A2AHandler) sendSuccessResponse(c *gin.Context, id json.RawMessage, result any) {
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

func (h *A2AHandler) sendErrorResponse(c *gin.Context, id json.RawMessage, message string, code int) {
	h.logger.Debug("Sending JSON-RPC error", zap.Int("code", code), zap.String("message", message))
	// JSON-RPC errors are sent with 200 OK
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	})
}

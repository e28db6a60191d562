package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
)

const sampleProfile = `{
  "name": "Smoke Test Creator",
  "niche": "Tech & Coding",
  "passionBio": "I take apart old electronics and explain how they work",
  "contentStyles": ["Education", "Shorts"],
  "experienceLevel": "Beginner",
  "primaryGoal": "Audience Growth",
  "timeCommitment": "10-20 Hours (Part-Time)",
  "productionConstraints": ["Editing Speed"]
}`

type TestClient struct {
	baseURL string
	client  *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	// The jar keeps the guest cookie so API calls share one session.
	jar, _ := cookiejar.New(nil)
	return &TestClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
			Jar:     jar,
		},
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the server")
	testType := flag.String("test", "all", "Test type: all, health, agent-card, strategist, api, custom")
	bio := flag.String("bio", "", "Channel description for the strategist (for custom test)")
	flag.Parse()

	client := NewTestClient(*baseURL)

	printHeader("TubeArchitect - Smoke Tests")
	fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, *baseURL, colorReset)

	switch *testType {
	case "all":
		client.runAllTests()
	case "health":
		client.testHealthCheck()
	case "agent-card":
		client.testAgentCard()
	case "strategist":
		client.testStrategist()
	case "api":
		client.testAPIFlow()
	case "custom":
		if *bio == "" {
			printError("A channel description is required for custom test. Use -bio flag")
			os.Exit(1)
		}
		client.testCustomStrategy(*bio)
	default:
		printError(fmt.Sprintf("Unknown test type: %s", *testType))
		fmt.Println("\nAvailable tests: all, health, agent-card, strategist, api, custom")
		os.Exit(1)
	}
}

func (tc *TestClient) runAllTests() {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Agent Card", tc.testAgentCard},
		{"Strategist Agent", tc.testStrategist},
		{"JSON API Flow", tc.testAPIFlow},
	}

	passed := 0
	failed := 0

	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		os.Exit(1)
	}
}

// send performs a request and returns the body when the status matches.
func (tc *TestClient) send(method, path, contentType string, body []byte, wantStatus int) ([]byte, http.Header, bool) {
	url := tc.baseURL + path
	fmt.Printf("%s %s\n", method, url)

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		printError(fmt.Sprintf("Failed to build request: %v", err))
		return nil, nil, false
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return nil, nil, false
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		printError(fmt.Sprintf("Expected status %d, got %d", wantStatus, resp.StatusCode))
		fmt.Printf("Response: %s\n", string(data))
		return nil, nil, false
	}
	return data, resp.Header, true
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	body, _, ok := tc.send(http.MethodGet, "/health", "", nil, http.StatusOK)
	if !ok {
		return false
	}
	if string(body) != "OK" {
		printError(fmt.Sprintf("Expected body 'OK', got '%s'", string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

func (tc *TestClient) testAgentCard() bool {
	printTestHeader("Testing Agent Card Endpoint")

	body, _, ok := tc.send(http.MethodGet, "/.well-known/agent.json", "", nil, http.StatusOK)
	if !ok {
		return false
	}

	var agentCard map[string]any
	if err := json.Unmarshal(body, &agentCard); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	requiredFields := []string{"name", "description", "url", "version", "capabilities", "skills"}
	for _, field := range requiredFields {
		if _, ok := agentCard[field]; !ok {
			printError(fmt.Sprintf("Missing required field: %s", field))
			return false
		}
	}

	printSuccess("Agent card is valid")
	printJSON(body)
	return true
}

func (tc *TestClient) testStrategist() bool {
	return tc.testCustomStrategy("I review budget mechanical keyboards and want to reach 10k subscribers")
}

func (tc *TestClient) testCustomStrategy(bio string) bool {
	printTestHeader("Testing Strategist Agent")
	fmt.Printf("%sChannel:%s %s\n\n", colorCyan, colorReset, bio)

	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      fmt.Sprintf("test-%d", time.Now().Unix()),
		"method":  "message/send",
		"params": map[string]any{
			"message": map[string]any{
				"kind": "message",
				"role": "user",
				"parts": []map[string]any{
					{"kind": "text", "text": bio},
				},
			},
			"configuration": map[string]any{
				"blocking":            true,
				"acceptedOutputModes": []string{"text", "data"},
			},
		},
	}

	jsonData, _ := json.MarshalIndent(request, "", "  ")
	fmt.Printf("%sRequest:%s\n", colorYellow, colorReset)
	fmt.Println(string(jsonData))
	fmt.Println()

	body, _, ok := tc.send(http.MethodPost, "/a2a/strategist", "application/json", jsonData, http.StatusOK)
	if !ok {
		return false
	}

	var response struct {
		Error  json.RawMessage `json:"error"`
		Result struct {
			Status struct {
				State   string `json:"state"`
				Message struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"message"`
			} `json:"status"`
			Artifacts []json.RawMessage `json:"artifacts"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if len(response.Error) > 0 {
		printError("Request returned an error")
		printJSON(response.Error)
		return false
	}
	if state := response.Result.Status.State; state != "completed" {
		printError(fmt.Sprintf("Expected state 'completed', got '%s'", state))
		return false
	}

	printSuccess("Strategy generated successfully")
	fmt.Printf("\n%sStrategy:%s\n", colorGreen, colorReset)
	fmt.Println(strings.Repeat("=", 80))
	for _, part := range response.Result.Status.Message.Parts {
		fmt.Println(part.Text)
	}
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("\n%sArtifacts:%s %d\n", colorPurple, colorReset, len(response.Result.Artifacts))
	return true
}

// testAPIFlow saves a profile, runs a demo analysis and downloads the
// exported document.
func (tc *TestClient) testAPIFlow() bool {
	printTestHeader("Testing JSON API Flow")

	if _, _, ok := tc.send(http.MethodPut, "/api/v1/profile", "application/json", []byte(sampleProfile), http.StatusOK); !ok {
		return false
	}
	printSuccess("Profile saved")

	body, _, ok := tc.send(http.MethodPost, "/api/v1/analysis", "application/json", []byte(`{"demoIndex":0}`), http.StatusOK)
	if !ok {
		return false
	}
	var result struct {
		Channel struct {
			Name string `json:"name"`
		} `json:"channel"`
		Analysis struct {
			VideoIdeas []struct {
				Title string `json:"title"`
			} `json:"videoIdeas"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	printSuccess(fmt.Sprintf("Analysis for %s with %d video ideas", result.Channel.Name, len(result.Analysis.VideoIdeas)))

	doc, header, ok := tc.send(http.MethodGet, "/api/v1/analysis/export", "", nil, http.StatusOK)
	if !ok {
		return false
	}
	if !bytes.HasPrefix(doc, []byte("PK")) {
		printError("Export is not a zip container")
		return false
	}
	printSuccess(fmt.Sprintf("Exported %d bytes (%s)", len(doc), header.Get("Content-Disposition")))
	return true
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}

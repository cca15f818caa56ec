//go:build ignore

// Smoke test for the consultation API. Run against a live server:
//
//	go run scripts/consult_smoke.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout, deliberation can take a while
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Consultation API Smoke Test\n")

	// 1. Health + capabilities
	color.Yellow("\n1. Check Health & Capabilities")
	resp, body, err := sendRequest("GET", "/health", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var health map[string]interface{}
	json.Unmarshal(body, &health)
	prettyPrint(health)

	resp, body, err = sendRequest("GET", "/api/consult/v1/capabilities", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	// 2. Start a consultation
	color.Yellow("\n2. Start Consultation")
	startReq := map[string]interface{}{
		"demographics": "58-year-old male, former smoker",
		"history":      "Hypertension, 30 pack-year smoking history, quit 5 years ago",
		"symptoms":     "Productive cough for 2 weeks, low-grade fever, pleuritic chest pain on the right side",
		"medications":  "Lisinopril 10mg daily",
		"vitals": map[string]string{
			"temperature": "38.1C",
			"spo2":        "94%",
		},
	}
	resp, body, err = sendRequest("POST", "/api/consult/v1", startReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	var startResp struct {
		Data struct {
			SessionId string `json:"session_id"`
			Status    string `json:"status"`
		} `json:"data"`
	}
	json.Unmarshal(body, &startResp)
	sessionID := startResp.Data.SessionId
	if sessionID == "" {
		color.Red("No session id in response: %s", string(body))
		os.Exit(1)
	}
	color.Green("Session: %s", sessionID)

	// 3. Poll until the deliberation finishes
	color.Yellow("\n3. Poll Session Until Completion")
	var final map[string]interface{}
	for i := 0; i < 120; i++ {
		resp, body, err = sendRequest("GET", "/api/consult/v1/"+sessionID, nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		var getResp struct {
			Data map[string]interface{} `json:"data"`
		}
		json.Unmarshal(body, &getResp)
		status, _ := getResp.Data["status"].(string)
		rounds := getResp.Data["rounds_completed"]
		fmt.Printf("  status=%s rounds=%v\n", status, rounds)
		if status != "running" {
			final = getResp.Data
			break
		}
		time.Sleep(2 * time.Second)
	}

	if final == nil {
		color.Red("Session did not finish in time")
		os.Exit(1)
	}
	color.Green("Final state:")
	prettyPrint(final)

	// 4. Validation error path
	color.Yellow("\n4. Reject Empty Symptoms")
	resp, body, err = sendRequest("POST", "/api/consult/v1", map[string]interface{}{"history": "none"})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusBadRequest {
		color.Red("Expected 400, got %s: %s", resp.Status, string(body))
		os.Exit(1)
	}
	color.Green("Status: %s (as expected)", resp.Status)

	// 5. Unknown session path
	color.Yellow("\n5. Unknown Session Returns 404")
	resp, _, err = sendRequest("GET", "/api/consult/v1/00000000-0000-0000-0000-000000000000", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusNotFound {
		color.Red("Expected 404, got %s", resp.Status)
		os.Exit(1)
	}
	color.Green("Status: %s (as expected)", resp.Status)

	color.Cyan("\n✅ Smoke test passed")
}

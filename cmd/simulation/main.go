package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"forensichub-be/pkg/capture"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Simplified DTOs for the script
type createSessionResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type streamEvent struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	Code string `json:"code,omitempty"`
}

// syntheticScope plays the role of a bench microscope so the capture flow
// can run without real hardware.
type syntheticScope struct{}

func (syntheticScope) Open(ctx context.Context) error { return nil }

func (syntheticScope) Grab(ctx context.Context) (*capture.Frame, error) {
	return &capture.Frame{Data: []byte("synthetic-micrograph"), MimeType: "image/jpeg"}, nil
}

func (syntheticScope) ZoomCapability() (capture.ZoomCapability, bool) {
	return capture.ZoomCapability{Min: 1, Max: 8, Step: 0.5}, true
}

func (syntheticScope) SetZoom(level float64) error { return nil }
func (syntheticScope) Close() error                { return nil }

func main() {
	color.Cyan("🔬 ForensicHub Lab Terminal Simulation\n")

	token := os.Getenv("SIM_ACCESS_TOKEN")
	if token == "" {
		color.Red("SIM_ACCESS_TOKEN is not set. Log in first and export the access token.")
		os.Exit(1)
	}

	// 1. Local capture flow against a synthetic device
	color.Yellow("\n[CAPTURE] Acquiring specimen still")
	cam := capture.NewCamera(syntheticScope{})
	if err := cam.Open(context.Background()); err != nil {
		color.Red("Open failed: %v", err)
		os.Exit(1)
	}
	if caps, ok := cam.ZoomCapability(); ok {
		_ = cam.SetZoom(caps.Max / 2)
		color.Green("Zoom range %.1fx-%.1fx, set to %.1fx", caps.Min, caps.Max, cam.Zoom())
	}
	img, err := cam.Capture(context.Background(), 0)
	if err != nil {
		color.Red("Capture failed: %v", err)
		os.Exit(1)
	}
	color.Green("Captured %s still (%d bytes base64)", img.MimeType, len(img.Data))

	// 2. Create a lab session
	color.Yellow("\n[LAB] Creating session")
	sessionID, err := createSession(token)
	if err != nil {
		color.Red("Failed to create session: %v", err)
		os.Exit(1)
	}
	color.Green("Session: %s", sessionID)

	// 3. Stage the captured image, then submit for analysis
	color.Yellow("\n[LAB] Attaching captured image")
	attach := map[string]string{
		"data":      img.Data,
		"mime_type": img.MimeType,
		"file_name": "micrograph.jpg",
	}
	if _, err := post(token, "/lab/sessions/"+sessionID+"/image", attach); err != nil {
		color.Red("Attach failed: %v", err)
		os.Exit(1)
	}

	color.Yellow("\n[LAB] Submitting for analysis")
	if err := streamSubmit(token, sessionID, "Identify the striation pattern in this sample."); err != nil {
		color.Red("Stream failed: %v", err)
	}

	// 4. Switch to ballistics mode and probe again
	color.Yellow("\n[LAB] Switching to ballistics mode")
	if _, err := post(token, "/lab/sessions/"+sessionID+"/mode", map[string]string{"mode": "ballistics"}); err != nil {
		color.Red("Mode switch failed: %v", err)
		os.Exit(1)
	}
	if err := streamSubmit(token, sessionID, "Estimate caliber from land-and-groove count of 6 right."); err != nil {
		color.Red("Stream failed: %v", err)
	}

	color.Cyan("\n✅ Simulation complete")
}

func createSession(token string) (string, error) {
	body, err := post(token, "/lab/sessions", nil)
	if err != nil {
		return "", err
	}
	var parsed createSessionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	return parsed.Data.ID, nil
}

func post(token, path string, payload interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		jsonBody, _ := json.Marshal(payload)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest("POST", baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: %s", resp.Status, string(body))
	}
	return body, nil
}

// streamSubmit posts a prompt and prints the SSE stream chunk by chunk.
func streamSubmit(token, sessionID, prompt string) error {
	jsonBody, _ := json.Marshal(map[string]string{"prompt": prompt})
	req, err := http.NewRequest("POST", baseURL+"/lab/sessions/"+sessionID+"/submit", bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{} // streaming, no timeout
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: %s", resp.Status, string(body))
	}

	start := time.Now()
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev streamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			continue
		}
		switch ev.Kind {
		case "chunk":
			fmt.Print(ev.Text)
		case "image":
			color.Magenta("\n[image payload received]")
		case "error":
			color.Red("\n[error %s] %s", ev.Code, ev.Text)
		case "done":
			fmt.Println()
			color.Green("(completed in %v)", time.Since(start).Round(time.Millisecond))
		}
	}
	return scanner.Err()
}

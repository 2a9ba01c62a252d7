package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	baseURL = "http://localhost:8080"
)

// Manual smoke test against a running server: drives one campaign from
// creation through a session boundary and prints every response.
func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Smoke Test...")

	// 1. Create Campaign
	fmt.Println("1. Creating Campaign...")
	if !sendRequest("POST", "/campaigns", map[string]any{"name": "Smoke Test Campaign"}) {
		fmt.Println("FAILED: Create campaign")
		os.Exit(1)
	}
	fmt.Println("PASSED: Create campaign")

	// 2. Add NPC
	fmt.Println("2. Adding NPC...")
	npc := map[string]any{
		"name":        "Vex",
		"faction":     "combine",
		"disposition": "neutral",
		"wants":       "leverage",
		"fears":       "exposure",
		"triggers": []map[string]any{
			{"condition": "betrayed_combine", "effect": "never forgets", "disposition_delta": -1, "one_shot": true},
		},
	}
	if !sendRequest("POST", "/campaign/npcs", npc) {
		fmt.Println("FAILED: Add NPC")
		os.Exit(1)
	}
	fmt.Println("PASSED: Add NPC")

	// 3. Shift Faction
	fmt.Println("3. Shifting Faction Standing...")
	shift := map[string]any{"delta": -1, "reason": "sold out the convoy"}
	if !sendRequest("POST", "/campaign/factions/combine/shift", shift) {
		fmt.Println("FAILED: Shift faction")
		os.Exit(1)
	}
	fmt.Println("PASSED: Shift faction")

	// 4. Log Hinge Moment
	fmt.Println("4. Logging Hinge Moment...")
	hinge := map[string]any{
		"situation": "The informant begged.",
		"choice":    "Let him run.",
		"reasoning": "Debts matter.",
	}
	if !sendRequest("POST", "/campaign/hinges", hinge) {
		fmt.Println("FAILED: Log hinge")
		os.Exit(1)
	}
	fmt.Println("PASSED: Log hinge")

	// 5. End Session
	fmt.Println("5. Ending Session...")
	end := map[string]any{
		"summary":       "Extraction went loud.",
		"mission_title": "The Glasshouse Job",
	}
	if !sendRequest("POST", "/campaign/session/end", end) {
		fmt.Println("FAILED: End session")
		os.Exit(1)
	}
	fmt.Println("PASSED: End session")

	// 6. Session Changes (should be empty right after session end)
	fmt.Println("6. Fetching Session Changes...")
	if !sendRequest("GET", "/campaign/changes", nil) {
		fmt.Println("FAILED: Session changes")
		os.Exit(1)
	}
	fmt.Println("PASSED: Session changes")
}

func sendRequest(method, endpoint string, payload interface{}) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Response: %s\n", string(respBody))

	return true
}

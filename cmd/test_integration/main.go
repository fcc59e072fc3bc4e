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

func main() {
	baseURL := os.Getenv("SYLLABUS_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting smoke test against", baseURL)

	fmt.Println("1. Health check...")
	if _, ok := sendRequest(baseURL, "GET", "/healthz", nil); !ok {
		fmt.Println("FAILED: health check")
		os.Exit(1)
	}
	fmt.Println("PASSED: health check")

	fmt.Println("2. Reconciling topics...")
	payload := map[string]interface{}{
		"course_topics": []string{
			"1. Limites",
			"2. Derivadas",
			"3. Integrais definidas",
			"4. Termodinâmica Avançada",
		},
		"document_topics": []string{
			"Limites e Continuidade",
			"Regras de derivação",
			"Integral de Riemann",
			"Álgebra Básica",
		},
	}
	body, ok := sendRequest(baseURL, "POST", "/reconcile", payload)
	if !ok {
		fmt.Println("FAILED: reconcile")
		os.Exit(1)
	}
	var report struct {
		Matches []struct {
			MatchType       string   `json:"match_type"`
			SimilarityScore float64  `json:"similarity_score"`
			Gaps            []string `json:"gaps"`
		} `json:"matches"`
		NewTopicSuggestions []json.RawMessage `json:"new_topic_suggestions"`
	}
	if err := json.Unmarshal(body, &report); err != nil || len(report.Matches) != 4 {
		fmt.Printf("FAILED: reconcile returned %d matches (%v)\n", len(report.Matches), err)
		os.Exit(1)
	}
	for i, m := range report.Matches {
		fmt.Printf("   course topic %d: %s (%.2f) gaps=%v\n", i, m.MatchType, m.SimilarityScore, m.Gaps)
	}
	fmt.Printf("   %d new topic suggestions\n", len(report.NewTopicSuggestions))
	fmt.Println("PASSED: reconcile")

	fmt.Println("3. Clustering topics...")
	var topics []string
	for _, subject := range []string{"Limites", "Derivadas", "Integrais", "Séries", "Vetores", "Matrizes", "Probabilidade"} {
		for _, aspect := range []string{"definição de", "exercícios de", "aplicações de", "história de", "propriedades de"} {
			topics = append(topics, aspect+" "+subject)
		}
	}
	body, ok = sendRequest(baseURL, "POST", "/cluster", map[string]interface{}{"topics": topics})
	if !ok {
		fmt.Println("FAILED: cluster")
		os.Exit(1)
	}
	fmt.Printf("   %s\n", truncate(string(body), 300))
	fmt.Println("PASSED: cluster")
}

func sendRequest(baseURL, method, endpoint string, payload interface{}) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}
	return respBody, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Command mock-detector posts a synthetic anomaly batch to a running
// sentinel-rca instance, standing in for the upstream anomaly detector
// during local development.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

type anomalyRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Service      string    `json:"service"`
	Message      string    `json:"message"`
	AnomalyScore float64   `json:"anomaly_score"`
	IsAnomaly    bool      `json:"is_anomaly"`
}

func main() {
	var target string
	flag.StringVar(&target, "target", "http://localhost:8085/api/v1/analyze", "analyze endpoint URL")
	flag.Parse()

	base := time.Now().UTC().Add(-10 * time.Minute).Truncate(time.Second)
	records := []anomalyRecord{
		{base, "database", "connection pool exhausted", 0.91, true},
		{base.Add(20 * time.Second), "database", "connection pool exhausted - retry", 0.85, true},
		{base.Add(45 * time.Second), "database", "connection pool exhausted - giving up", 0.95, true},
		{base.Add(70 * time.Second), "api-gateway", "upstream request timed out after 30000ms", 0.82, true},
		{base.Add(90 * time.Second), "api-gateway", "upstream request timed out after 30000ms", 0.79, true},
		{base.Add(6 * time.Minute), "web-service", "template render failed: nil user session", 0.66, true},
		{base.Add(7 * time.Minute), "web-service", "request served", 0.12, false},
	}

	body, err := json.Marshal(map[string]any{"records": records})
	if err != nil {
		log.Fatalf("encode batch: %v", err)
	}

	resp, err := http.Post(target, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("post batch: %v", err)
	}
	defer resp.Body.Close()

	fmt.Printf("posted %d records, status %s\n", len(records), resp.Status)

	var report map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		log.Fatalf("decode report: %v", err)
	}
	pretty, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(pretty))
}

// Package main provides a CLI tool for validating advisory server endpoints.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type endpoint struct {
	path        string
	method      string
	body        string
	contentType string
	contains    []string
}

var endpoints = []endpoint{
	// Service
	{path: "/", method: "GET", contentType: "application/json", contains: []string{"covalence"}},
	{path: "/api/health", method: "GET", contentType: "application/json", contains: []string{`"status":"ok"`}},
	{path: "/api/version", method: "GET", contentType: "application/json", contains: []string{`"version"`}},

	// Reference data
	{path: "/api/v1/sectors", method: "GET", contentType: "application/json", contains: []string{"steel", "aluminium"}},
	{path: "/api/v1/sectors/steel", method: "GET", contentType: "application/json", contains: []string{"reference", "defaults", "advisory"}},
	{path: "/api/v1/sectors/aluminium", method: "GET", contentType: "application/json", contains: []string{"reference"}},

	// Analysis
	{path: "/api/v1/analysis", method: "POST", body: `{"sector":"steel"}`,
		contentType: "application/json", contains: []string{"total_cbam_bill_eur", "readiness_score", "dscr"}},
	{path: "/api/v1/analysis", method: "POST", body: `{"sector":"aluminium","reduction_pct":25}`,
		contentType: "application/json", contains: []string{"cbam_savings_eur"}},
	{path: "/api/v1/analysis/chart/reduction?sector=steel", method: "GET",
		contentType: "application/json", contains: []string{"reduction_pct"}},

	// Reports
	{path: "/api/v1/reports/exporter", method: "POST", body: `{"sector":"steel"}`,
		contentType: "text/markdown", contains: []string{"CBAM Exposure & Finance Advisory"}},
	{path: "/api/v1/reports/banker", method: "POST", body: `{"sector":"steel"}`,
		contentType: "text/markdown", contains: []string{"Deal Structuring"}},
	{path: "/api/v1/reports/banker?format=html", method: "POST", body: `{"sector":"aluminium"}`,
		contentType: "text/html", contains: []string{"<h1"}},
}

type result struct {
	endpoint endpoint
	status   int
	duration time.Duration
	err      error
	body     string
}

func main() {
	url := flag.String("url", "http://localhost:8080", "Base URL of the server to validate")
	verbose := flag.Bool("v", false, "Verbose output")
	timeout := flag.Int("timeout", 10, "Request timeout in seconds")
	flag.Parse()

	client := &http.Client{
		Timeout: time.Duration(*timeout) * time.Second,
	}

	fmt.Printf("Validating server at %s\n", *url)
	fmt.Printf("Testing %d endpoints...\n\n", len(endpoints))

	var passed, failed int

	for _, ep := range endpoints {
		r := validateEndpoint(client, *url, ep)

		if r.err != nil {
			failed++
			fmt.Printf("FAIL %s %s\n", ep.method, ep.path)
			fmt.Printf("     Error: %v\n", r.err)
		} else if r.status != http.StatusOK {
			failed++
			fmt.Printf("FAIL %s %s\n", ep.method, ep.path)
			fmt.Printf("     Status: %d (expected 200)\n", r.status)
		} else {
			passed++
			if *verbose {
				fmt.Printf("PASS %s %s (%v)\n", ep.method, ep.path, r.duration)
			}
		}
	}

	fmt.Printf("\n========================================\n")
	fmt.Printf("Results: %d passed, %d failed\n", passed, failed)

	if failed > 0 {
		os.Exit(1)
	}
}

func validateEndpoint(client *http.Client, baseURL string, ep endpoint) result {
	start := time.Now()

	var bodyReader io.Reader
	if ep.body != "" {
		bodyReader = strings.NewReader(ep.body)
	}

	req, err := http.NewRequest(ep.method, baseURL+ep.path, bodyReader)
	if err != nil {
		return result{endpoint: ep, err: fmt.Errorf("failed to create request: %w", err)}
	}
	if ep.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return result{endpoint: ep, err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result{endpoint: ep, err: fmt.Errorf("failed to read body: %w", err)}
	}

	duration := time.Since(start)

	r := result{
		endpoint: ep,
		status:   resp.StatusCode,
		duration: duration,
		body:     string(body),
	}

	// Validate content type
	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, ep.contentType) {
		r.err = fmt.Errorf("wrong content type: got %q, expected %q", ct, ep.contentType)
		return r
	}

	// Validate JSON if expected
	if ep.contentType == "application/json" {
		var js interface{}
		if err := json.Unmarshal(body, &js); err != nil {
			r.err = fmt.Errorf("invalid JSON: %w", err)
			return r
		}
	}

	// Validate required content
	for _, needle := range ep.contains {
		if !strings.Contains(string(body), needle) {
			r.err = fmt.Errorf("missing expected content: %q", needle)
			return r
		}
	}

	return r
}

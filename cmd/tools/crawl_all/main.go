package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

func main() {
	adminSecret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
	if adminSecret == "" {
		fmt.Println("Missing ADMIN_SECRET environment variable")
		os.Exit(1)
	}

	base := os.Getenv("SERVICE_URL")
	if base == "" {
		base = "http://localhost:8081"
	}

	client := &http.Client{Timeout: 30 * time.Second}
	var started struct {
		JobID string `json:"job_id"`
		Error string `json:"error"`
	}
	status, err := call(client, http.MethodPost, base+"/api/v1/admin/sources/crawl-all", adminSecret, &started)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		os.Exit(1)
	}
	if status != http.StatusAccepted && status != http.StatusConflict {
		fmt.Printf("Unexpected status %d: %s\n", status, started.Error)
		os.Exit(1)
	}
	fmt.Printf("Crawl job %s started\n", started.JobID)

	for {
		time.Sleep(2 * time.Second)
		var job map[string]any
		if _, err := call(client, http.MethodGet, base+"/api/v1/admin/job/"+started.JobID, adminSecret, &job); err != nil {
			fmt.Printf("Error polling job: %v\n", err)
			os.Exit(1)
		}
		if job["status"] != "running" {
			out, _ := json.MarshalIndent(job, "", "  ")
			fmt.Println(string(out))
			if job["status"] != "completed" {
				os.Exit(1)
			}
			return
		}
	}
}

func call(client *http.Client, method, url, secret string, out any) (int, error) {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("X-Admin-Secret", secret)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
}

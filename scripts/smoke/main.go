package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Drives a running planner instance through the core scheduling flow:
// login, create a plan, place appointments, query gaps and availability,
// then clean up. Exits non-zero on the first failed step.

type client struct {
	base  string
	token string
	http  *http.Client
}

type step struct {
	Name     string
	Duration time.Duration
	Err      error
}

func main() {
	var (
		base     string
		email    string
		password string
		date     string
		timeout  time.Duration
		keep     bool
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "planner API base URL")
	flag.StringVar(&email, "email", "admin@example.com", "login email")
	flag.StringVar(&password, "password", "admin123", "login password")
	flag.StringVar(&date, "date", time.Now().Format("2006-01-02"), "plan date (YYYY-MM-DD)")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.BoolVar(&keep, "keep", false, "keep the smoke plan instead of deleting it")
	flag.Parse()

	c := &client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}

	var (
		steps  []step
		planID string
	)

	run := func(name string, fn func() error) {
		start := time.Now()
		err := fn()
		steps = append(steps, step{Name: name, Duration: time.Since(start), Err: err})
		if err != nil {
			printReport(steps)
			os.Exit(1)
		}
	}

	run("login", func() error {
		var data struct {
			AccessToken string `json:"access_token"`
		}
		payload := map[string]string{"email": email, "password": password}
		if err := c.call(http.MethodPost, "/api/v1/auth/login", payload, http.StatusOK, &data); err != nil {
			return err
		}
		if data.AccessToken == "" {
			return fmt.Errorf("login returned empty access token")
		}
		c.token = data.AccessToken
		return nil
	})

	run("create plan", func() error {
		var data struct {
			ID string `json:"id"`
		}
		payload := map[string]string{"date": date}
		if err := c.call(http.MethodPost, "/api/v1/plans", payload, http.StatusCreated, &data); err != nil {
			return err
		}
		if data.ID == "" {
			return fmt.Errorf("plan created without id")
		}
		planID = data.ID
		return nil
	})

	run("place earliest appointment", func() error {
		payload := map[string]interface{}{
			"description":     "smoke earliest",
			"durationMinutes": 30,
		}
		return c.call(http.MethodPost, "/api/v1/plans/"+planID+"/appointments", payload, http.StatusCreated, nil)
	})

	run("place pinned appointment", func() error {
		payload := map[string]interface{}{
			"description":     "smoke pinned",
			"durationMinutes": 45,
			"start":           "11:00",
			"priority":        "HIGH",
		}
		return c.call(http.MethodPost, "/api/v1/plans/"+planID+"/appointments", payload, http.StatusCreated, nil)
	})

	run("fetch plan detail", func() error {
		var data struct {
			NrOfAppointments int `json:"nrOfAppointments"`
			NrOfGaps         int `json:"nrOfGaps"`
		}
		if err := c.call(http.MethodGet, "/api/v1/plans/"+planID, nil, http.StatusOK, &data); err != nil {
			return err
		}
		if data.NrOfAppointments != 2 {
			return fmt.Errorf("expected 2 appointments, got %d", data.NrOfAppointments)
		}
		if data.NrOfGaps == 0 {
			return fmt.Errorf("expected at least one gap")
		}
		return nil
	})

	run("query fitting gaps", func() error {
		var data []struct {
			DurationMinutes int `json:"durationMinutes"`
		}
		path := "/api/v1/plans/" + planID + "/gaps?fit=60&order=largest"
		if err := c.call(http.MethodGet, path, nil, http.StatusOK, &data); err != nil {
			return err
		}
		for _, gap := range data {
			if gap.DurationMinutes < 60 {
				return fmt.Errorf("gap of %d minutes below requested fit", gap.DurationMinutes)
			}
		}
		return nil
	})

	run("query availability", func() error {
		path := "/api/v1/availability?planIds=" + url.QueryEscape(planID) + "&duration=30"
		return c.call(http.MethodGet, path, nil, http.StatusOK, nil)
	})

	if !keep {
		run("delete plan", func() error {
			return c.call(http.MethodDelete, "/api/v1/plans/"+planID, nil, http.StatusNoContent, nil)
		})
	}

	printReport(steps)
	fmt.Println("smoke passed")
}

// call performs a request, checks the status and decodes the envelope's
// data field into out when out is non-nil.
func (c *client) call(method, path string, payload interface{}, wantStatus int, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.base+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s %s: got status %d, want %d: %s", method, path, resp.StatusCode, wantStatus, truncate(raw))
	}
	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func truncate(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

func printReport(steps []step) {
	for _, s := range steps {
		status := "ok"
		if s.Err != nil {
			status = "FAIL: " + s.Err.Error()
		}
		log.Printf("%-28s %8s  %s", s.Name, s.Duration.Round(time.Millisecond), status)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukydev/workshop-maintenance/internal/models"
)

// apiClient posts JSON to a running server.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// post sends body to path and decodes the response into out. want is the
// expected status code.
func (c *apiClient) post(path string, body interface{}, want int, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("POST %s failed with status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *apiClient) login(username, password string) error {
	var resp models.LoginResponse
	if err := c.post("/api/auth/login", models.LoginRequest{Username: username, Password: password}, http.StatusOK, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var server, token, username, password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the snapshot's workshops, equipment and tasks on a running server",
		Long:  "Seed posts every workshop, equipment and task in the snapshot to the server API. History is not sent; the server records completions itself.",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(opts.file)
			if err != nil {
				return err
			}

			client := newAPIClient(server, token)
			if client.token == "" {
				if username == "" {
					return fmt.Errorf("either --token or --username is required")
				}
				if err := client.login(username, password); err != nil {
					return err
				}
			}

			var tasks int
			for _, w := range snap.Workshops {
				var created models.Workshop
				if err := client.post("/api/workshops", map[string]string{"name": w.Name}, http.StatusCreated, &created); err != nil {
					return err
				}
				log.WithFields(log.Fields{"workshop_id": created.ID, "name": created.Name}).Info("Workshop created")

				for _, eq := range w.Equipment {
					var createdEq models.Equipment
					path := "/api/workshops/" + created.ID + "/equipment"
					if err := client.post(path, map[string]string{"name": eq.Name}, http.StatusCreated, &createdEq); err != nil {
						return err
					}
					for _, t := range eq.Tasks {
						body := map[string]interface{}{
							"name":                  t.Name,
							"maintenance_interval":  t.MaintenanceInterval,
							"interval_unit":         t.IntervalUnit,
							"last_maintenance_date": t.LastMaintenanceDate.Format(time.DateOnly),
						}
						if err := client.post(path+"/"+createdEq.ID+"/tasks", body, http.StatusCreated, nil); err != nil {
							return err
						}
						tasks++
					}
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d workshops and %d tasks\n", len(snap.Workshops), tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", envOr("MAINT_API_URL", "http://localhost:8080"), "server base URL")
	cmd.Flags().StringVar(&token, "token", os.Getenv("MAINT_AUTH_TOKEN"), "bearer token")
	cmd.Flags().StringVar(&username, "username", "", "log in with this user when no token is given")
	cmd.Flags().StringVar(&password, "password", "", "password for --username")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package ebay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Staninbui/wood/internal/models"
)

// feedHeaders applies the fixed header set every Feed API call carries.
func (c *Client) feedHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.cfg.Ebay.MarketplaceID)
}

// CreateInventoryTask asks the Feed API to start generating an active
// inventory report. The task id comes back as the final path segment of
// the Location header on a 202.
func (c *Client) CreateInventoryTask(ctx context.Context, accessToken string) (*models.InventoryTask, error) {
	payload, _ := json.Marshal(map[string]string{
		"feedType":      feedType,
		"schemaVersion": schemaVersion,
	})

	endpoint := c.cfg.Ebay.FeedAPIBaseURL + "/inventory_task"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	c.feedHeaders(req, accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory task creation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("inventory task creation failed: unexpected status %d", resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return nil, fmt.Errorf("inventory task creation failed: no Location header")
	}
	segments := strings.Split(strings.TrimRight(location, "/"), "/")
	taskID := segments[len(segments)-1]

	return &models.InventoryTask{
		TaskID:   taskID,
		Status:   "CREATED",
		Location: location,
	}, nil
}

// GetTaskStatus fetches the current state of one inventory task.
func (c *Client) GetTaskStatus(ctx context.Context, accessToken, taskID string) (*models.InventoryTask, error) {
	endpoint := fmt.Sprintf("%s/inventory_task/%s", c.cfg.Ebay.FeedAPIBaseURL, taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.feedHeaders(req, accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("task status retrieval failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("task status retrieval failed: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		TaskID         string `json:"taskId"`
		Status         string `json:"status"`
		CreationDate   string `json:"creationDate"`
		CompletionDate string `json:"completionDate"`
		FeedType       string `json:"feedType"`
		SchemaVersion  string `json:"schemaVersion"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("task status retrieval failed: %w", err)
	}

	return &models.InventoryTask{
		TaskID:         body.TaskID,
		Status:         body.Status,
		CreationDate:   body.CreationDate,
		CompletionDate: body.CompletionDate,
		FeedType:       body.FeedType,
		SchemaVersion:  body.SchemaVersion,
	}, nil
}

// GetRecentTasks lists inventory tasks created in the last `days` days.
func (c *Client) GetRecentTasks(ctx context.Context, accessToken string, days int) ([]*models.InventoryTask, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	params := url.Values{}
	params.Set("date_range", start.Format("2006-01-02T15:04:05.000Z")+".."+end.Format("2006-01-02T15:04:05.000Z"))
	params.Set("feed_type", feedType)
	params.Set("limit", "200")

	endpoint := c.cfg.Ebay.FeedAPIBaseURL + "/inventory_task?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.feedHeaders(req, accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recent tasks retrieval failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recent tasks retrieval failed: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Tasks []struct {
			TaskID         string `json:"taskId"`
			Status         string `json:"status"`
			CreationDate   string `json:"creationDate"`
			CompletionDate string `json:"completionDate"`
			FeedType       string `json:"feedType"`
		} `json:"tasks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("recent tasks retrieval failed: %w", err)
	}

	tasks := make([]*models.InventoryTask, 0, len(body.Tasks))
	for _, t := range body.Tasks {
		tasks = append(tasks, &models.InventoryTask{
			TaskID:         t.TaskID,
			Status:         t.Status,
			CreationDate:   t.CreationDate,
			CompletionDate: t.CompletionDate,
			FeedType:       t.FeedType,
		})
	}
	return tasks, nil
}

// DownloadResult pulls the finished report archive for a task.
func (c *Client) DownloadResult(ctx context.Context, accessToken, taskID string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/task/%s/download_result_file", c.cfg.Ebay.FeedAPIBaseURL, taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/octet-stream")
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.cfg.Ebay.MarketplaceID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("task result download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("task result download failed: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

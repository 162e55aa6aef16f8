package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.pexels.com/v1"

// Client is a client for the Pexels photo search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new Pexels client.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
}

type searchResponse struct {
	Photos []photo `json:"photos"`
}

type photo struct {
	ID  int      `json:"id"`
	Src photoSrc `json:"src"`
}

type photoSrc struct {
	Original  string `json:"original"`
	Large2x   string `json:"large2x"`
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Small     string `json:"small"`
	Portrait  string `json:"portrait"`
	Landscape string `json:"landscape"`
	Tiny      string `json:"tiny"`
}

// SearchFoodPhoto fetches the most relevant photo for the query and returns
// its medium-resolution URL. Every failure degrades to ok == false; the
// recipe keeps no image and the presentation layer shows a placeholder.
func (c *Client) SearchFoodPhoto(ctx context.Context, query string) (string, bool) {
	endpoint := fmt.Sprintf("%s/search?query=%s&per_page=1", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("pexels: failed to create request: %v", err)
		return "", false
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("pexels: search failed: %v", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("pexels: search returned status %d", resp.StatusCode)
		return "", false
	}

	var search searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		log.Printf("pexels: failed to decode response: %v", err)
		return "", false
	}
	if len(search.Photos) == 0 {
		return "", false
	}
	return search.Photos[0].Src.Medium, true
}

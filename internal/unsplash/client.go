// Package unsplash queries the Unsplash photo search API.
package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/youruser/brandshot/internal/util"
)

const searchPath = "/search/photos"

// Results is a pointer so an absent or null field is distinguishable from an
// empty result list.
type searchResponse struct {
	Results *[]struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

type Client struct {
	baseURL   string
	accessKey string
	getter    util.Getter
}

func NewClient(baseURL, accessKey string, getter util.Getter) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		getter:    getter,
	}
}

// Search returns the "regular" sized image URL of each landscape result for
// query, in API order. Any malformed result fails the whole call.
func (c *Client) Search(ctx context.Context, query string, perPage int) ([]string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("orientation", "landscape")

	header := http.Header{}
	header.Set("Authorization", "Client-ID "+c.accessKey)
	header.Set("Accept-Version", "v1")

	body, err := c.getter.GetBytes(ctx, c.baseURL+searchPath+"?"+params.Encode(), header)
	if err != nil {
		return nil, fmt.Errorf("unsplash search: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unsplash search: decoding response: %w", err)
	}

	if resp.Results == nil {
		return nil, errors.New("unsplash search: response has no results field")
	}

	urls := make([]string, 0, len(*resp.Results))
	for i, r := range *resp.Results {
		if r.URLs.Regular == "" {
			return nil, fmt.Errorf("unsplash search: result %d has no regular url", i)
		}
		urls = append(urls, r.URLs.Regular)
	}
	return urls, nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// get issues a GET and returns the status code and decoded JSON object.
// A non-JSON body yields a nil map without error.
func (a *App) get(ctx context.Context, url string) (int, map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading %s: %w", url, err)
	}
	var body map[string]interface{}
	if json.Unmarshal(data, &body) != nil {
		body = nil
	}
	return resp.StatusCode, body, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

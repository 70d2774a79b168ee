package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/datdenkikniet/Peroxidecast/internal/models"
)

// Poller fetches /mount_info from the station. Malformed elements in the
// response array are skipped one by one instead of failing the whole fetch.
type Poller struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewPoller(baseURL string) *Poller {
	return &Poller{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 8 * time.Second},
	}
}

// Fetch returns the current mount list. A transport or status error means
// the caller should keep its previous state.
func (p *Poller) Fetch(ctx context.Context) ([]models.MountInfo, error) {
	rawURL := p.BaseURL + "/mount_info"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	res, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(res.Body, 2<<20))
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("mount_info http %d: %s", res.StatusCode, string(body))
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	records := make([]models.MountInfo, 0, len(raw))
	for i, item := range raw {
		var rec models.MountInfo
		if err := json.Unmarshal(item, &rec); err != nil {
			log.Printf("Warning: skipping malformed mount record %d: %v", i, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

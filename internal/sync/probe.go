package sync

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/eberechi/shopsync-backend/pkg/logger"
)

const defaultProbeTimeout = 5 * time.Second

// Probe is a best-effort reachability check against the central server. It
// never returns an error: any failure, from DNS to timeout, just means
// offline. The orchestrator uses it to short-circuit before burning the full
// data-call timeout on a dead link.
type Probe struct {
	target     string
	httpClient *http.Client
}

func NewProbe(baseURL string, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Probe{
		target: strings.TrimRight(baseURL, "/") + "/health",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// IsOnline reports whether the remote answered at all. Any HTTP status
// counts as reachable; only transport failures count as offline.
func (p *Probe) IsOnline(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.target, nil)
	if err != nil {
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.Debug("Connectivity probe failed", map[string]interface{}{
			"target": p.target,
			"error":  err.Error(),
		})
		return false
	}
	defer resp.Body.Close()
	return true
}

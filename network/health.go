package network

import (
	"net/http"
	"sync"
)

type CheckResult struct {
	Name   string `json:"name"`
	Status bool   `json:"status"`
	Error  string `json:"error,omitempty"`
}

type HealthResponse struct {
	Checks     []CheckResult `json:"checks"`
	StatusCode int           `json:"statusCode"`
}

// HealthCheck answers GET /health by running every registered checker. Any
// failing checker turns the response into a 500.
type HealthCheck struct {
	mu       sync.RWMutex
	names    []string
	checkers []func() error
}

func NewHealthCheck() *HealthCheck {
	return &HealthCheck{}
}

func (h *HealthCheck) Register(name string, checker func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.names = append(h.names, name)
	h.checkers = append(h.checkers, checker)
}

func (h *HealthCheck) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	res := HealthResponse{
		Checks:     make([]CheckResult, 0, len(h.checkers)),
		StatusCode: http.StatusOK,
	}
	for i, checker := range h.checkers {
		check := CheckResult{Name: h.names[i], Status: true}
		if err := checker(); err != nil {
			check.Status = false
			check.Error = err.Error()
			res.StatusCode = http.StatusInternalServerError
		}
		res.Checks = append(res.Checks, check)
	}
	writeJSON(w, res.StatusCode, res)
}

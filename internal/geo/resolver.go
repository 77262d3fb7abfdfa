package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Resolver looks up a visitor's two-letter country code from an external
// IP-to-country service. Each address is resolved at most once per process;
// the first answer, fallback included, is cached for the lifetime of the
// resolver. A lookup failure is never surfaced: the configured default
// country is substituted silently so link generation is never blocked.
type Resolver struct {
	client         *http.Client
	endpoint       string // format string taking the IP, e.g. "https://ipapi.co/%s/country_code/"
	defaultCountry string
	logger         *zap.Logger

	mu    sync.RWMutex
	cache map[string]string
}

// NewResolver creates a Resolver. endpoint is a format string with a single
// %s placeholder for the IP address; defaultCountry is used whenever the
// lookup fails or returns an unusable body.
func NewResolver(endpoint, defaultCountry string, timeout time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{
		client:         &http.Client{Timeout: timeout},
		endpoint:       endpoint,
		defaultCountry: defaultCountry,
		logger:         logger,
		cache:          make(map[string]string),
	}
}

// DefaultCountry returns the fallback country code.
func (r *Resolver) DefaultCountry() string {
	return r.defaultCountry
}

// Resolve returns the country code for the given IP address, consulting the
// external service on first sight and the cache thereafter. It always
// returns a usable code.
func (r *Resolver) Resolve(ctx context.Context, ip string) string {
	if ip == "" {
		return r.defaultCountry
	}

	r.mu.RLock()
	code, ok := r.cache[ip]
	r.mu.RUnlock()
	if ok {
		return code
	}

	code = r.lookup(ctx, ip)

	r.mu.Lock()
	r.cache[ip] = code
	r.mu.Unlock()

	return code
}

// lookup performs the single outbound request. The service contract is a
// plain-text body holding a bare two-letter country code.
func (r *Resolver) lookup(ctx context.Context, ip string) string {
	url := fmt.Sprintf(r.endpoint, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.logger.Warn("Failed to build geolocation request",
			zap.String("ip", ip),
			zap.Error(err),
		)
		return r.defaultCountry
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("Geolocation lookup failed, using default country",
			zap.String("ip", ip),
			zap.String("default", r.defaultCountry),
			zap.Error(err),
		)
		return r.defaultCountry
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("Geolocation lookup returned non-success status",
			zap.String("ip", ip),
			zap.Int("status", resp.StatusCode),
		)
		return r.defaultCountry
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		r.logger.Warn("Failed to read geolocation response", zap.Error(err))
		return r.defaultCountry
	}

	code := strings.ToUpper(strings.TrimSpace(string(body)))
	if len(code) != 2 {
		r.logger.Warn("Geolocation lookup returned unusable body",
			zap.String("ip", ip),
			zap.String("body", code),
		)
		return r.defaultCountry
	}

	return code
}

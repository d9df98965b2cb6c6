// Package breach implements the breach oracle against a Pwned-Passwords
// style range API using SHA-1 k-anonymity: only the first five hex digits of
// the password hash ever leave the process.
package breach

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

const (
	defaultBaseURL = "https://api.pwnedpasswords.com/range"
	prefixLen      = 5
)

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// CheckBreach reports whether the password appears in the breach corpus. Any
// transport or protocol failure is domain.ErrBreachCheckUnavailable so the
// caller can degrade to "unknown" instead of guessing.
func (c *Client) CheckBreach(ctx context.Context, password string) (bool, error) {
	sum := sha1.Sum([]byte(password))
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))
	prefix, suffix := digest[:prefixLen], digest[prefixLen:]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+prefix, nil)
	if err != nil {
		return false, fmt.Errorf("build breach request: %w", err)
	}
	req.Header.Set("Add-Padding", "true")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("breach range query failed")
		return false, domain.ErrBreachCheckUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("breach range query rejected")
		return false, domain.ErrBreachCheckUnavailable
	}

	// Response lines are "SUFFIX:COUNT". Padding entries carry a zero count.
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		candidate, count, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(candidate, suffix) && strings.TrimSpace(count) != "0" {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		c.log.Warn().Err(err).Msg("breach range response truncated")
		return false, domain.ErrBreachCheckUnavailable
	}
	return false, nil
}

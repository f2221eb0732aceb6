package shield

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mleandrojr/mslovelace-bot/telegram"
)

const defaultCASHost = "https://api.cas.chat"

// CASClient queries the Combot Anti-Spam registry for a user's spam status.
type CASClient struct {
	Host   string
	Client *http.Client
}

func NewCASClient() *CASClient {
	return &CASClient{
		Host:   defaultCASHost,
		Client: telegram.RobustHTTPClient(),
	}
}

type casResponse struct {
	OK bool `json:"ok"`
}

// Check performs one reputation lookup. A true result means the user is a
// registered spammer.
func (c *CASClient) Check(ctx context.Context, userID int64) (bool, error) {
	u := fmt.Sprintf("%s/check?user_id=%s", c.Host, url.QueryEscape(strconv.FormatInt(userID, 10)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("cas check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("cas check failed: status %d", resp.StatusCode)
	}

	var body casResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decoding cas response: %w", err)
	}
	return body.OK, nil
}

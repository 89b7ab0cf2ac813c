package api

import "context"

// Login authenticates with username and password and returns the access
// token plus the authenticated user. Works on an unauthenticated client.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body := map[string]string{"username": username, "password": password}
	resp, err := c.post(ctx, "/api/auth/login", body)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (*UserInfo, error) {
	resp, err := c.get(ctx, "/api/auth/me")
	if err != nil {
		return nil, err
	}

	var out UserInfo
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

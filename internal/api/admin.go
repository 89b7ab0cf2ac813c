package api

import (
	"context"
	"fmt"
	"io"
)

// Stats fetches the aggregate dashboard counters.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	resp, err := c.get(ctx, "/api/admin/stats")
	if err != nil {
		return nil, err
	}

	var out Stats
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFiles lists the ingested files in a dataset.
func (c *Client) ListFiles(ctx context.Context, dataset string) ([]FileInfo, error) {
	resp, err := c.get(ctx, "/api/admin/files"+datasetQuery(dataset))
	if err != nil {
		return nil, err
	}

	var out struct {
		Files []FileInfo `json:"files"`
	}
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// ListURLs lists the ingested URLs in a dataset.
func (c *Client) ListURLs(ctx context.Context, dataset string) ([]URLInfo, error) {
	resp, err := c.get(ctx, "/api/admin/urls"+datasetQuery(dataset))
	if err != nil {
		return nil, err
	}

	var out struct {
		URLs []URLInfo `json:"urls"`
	}
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return out.URLs, nil
}

// ListUsers lists all registered users.
func (c *Client) ListUsers(ctx context.Context) ([]UserInfo, error) {
	resp, err := c.get(ctx, "/api/admin/users")
	if err != nil {
		return nil, err
	}

	var out struct {
		Users []UserInfo `json:"users"`
	}
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// UploadFile sends one file to the ingestion endpoint as multipart form
// data. The server registers it in the dataset; processing is a separate,
// explicitly triggered step.
func (c *Client) UploadFile(ctx context.Context, dataset, filename string, content io.Reader) (*Ack, error) {
	path := "/api/admin/files/upload" + datasetQuery(dataset)
	resp, err := c.postMultipart(ctx, path, "file", filename, content)
	if err != nil {
		return nil, err
	}

	var out Ack
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddURL registers a URL in the dataset.
func (c *Client) AddURL(ctx context.Context, dataset, rawURL string) (*Ack, error) {
	body := map[string]string{"url": rawURL, "dataset_name": dataset}
	resp, err := c.post(ctx, "/api/admin/urls", body)
	if err != nil {
		return nil, err
	}

	var out Ack
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFile removes a file from the dataset.
func (c *Client) DeleteFile(ctx context.Context, dataset, id string) (*Ack, error) {
	resp, err := c.delete(ctx, "/api/admin/files/"+id+datasetQuery(dataset))
	if err != nil {
		return nil, err
	}

	var out Ack
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteURL removes a URL from the dataset.
func (c *Client) DeleteURL(ctx context.Context, dataset, id string) (*Ack, error) {
	resp, err := c.delete(ctx, "/api/admin/urls/"+id+datasetQuery(dataset))
	if err != nil {
		return nil, err
	}

	var out Ack
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessFile triggers server-side processing of a file. Fire-and-forget:
// the server acknowledges the start of processing and there is no
// completion signal; later state is only observable through a fresh list.
func (c *Client) ProcessFile(ctx context.Context, dataset, id string) (*Ack, error) {
	resp, err := c.post(ctx, "/api/admin/files/"+id+"/process"+datasetQuery(dataset), nil)
	if err != nil {
		return nil, err
	}

	var out Ack
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessURL triggers server-side processing of a URL. Same contract as
// ProcessFile.
func (c *Client) ProcessURL(ctx context.Context, dataset, id string) (*Ack, error) {
	resp, err := c.post(ctx, "/api/admin/urls/"+id+"/process"+datasetQuery(dataset), nil)
	if err != nil {
		return nil, err
	}

	var out Ack
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PreviewFile fetches transient preview content for a file.
func (c *Client) PreviewFile(ctx context.Context, id string) (string, error) {
	return c.preview(ctx, "/api/admin/files/"+id+"/preview")
}

// PreviewURL fetches transient preview content for a URL.
func (c *Client) PreviewURL(ctx context.Context, id string) (string, error) {
	return c.preview(ctx, "/api/admin/urls/"+id+"/preview")
}

func (c *Client) preview(ctx context.Context, path string) (string, error) {
	resp, err := c.get(ctx, path)
	if err != nil {
		return "", err
	}

	var out PreviewResponse
	if err := decodeJSON(resp, &out); err != nil {
		return "", err
	}
	return out.Preview, nil
}

// ToggleUserActivation flips a user's activation flag. The server decides
// the resulting state; the ack message reports it.
func (c *Client) ToggleUserActivation(ctx context.Context, userID int) (*Ack, error) {
	resp, err := c.patch(ctx, fmt.Sprintf("/api/admin/users/%d/activate", userID), nil)
	if err != nil {
		return nil, err
	}

	var out Ack
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

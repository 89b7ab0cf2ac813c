// Package console drives the admin view of the knowledge service: four
// independently fetched collections (statistics, files, URLs, users) and
// the mutation actions on them. The server is the sole arbiter of state;
// every collection shown is just the last successful fetch, refreshed after
// a mutation completes.
package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kuraproj/kura/internal/api"
	"github.com/kuraproj/kura/internal/content"
	"github.com/kuraproj/kura/internal/journal"
)

// ErrNoFileSelected is returned by UploadFile when no path was given.
var ErrNoFileSelected = errors.New("no file selected")

// ErrEmptyURL is returned by AddURL for empty input.
var ErrEmptyURL = errors.New("url is empty")

// previewLimit caps preview output shown at the terminal, in runes.
const previewLimit = 1000

// AdminService is the slice of the API client the console needs.
type AdminService interface {
	Stats(ctx context.Context) (*api.Stats, error)
	ListFiles(ctx context.Context, dataset string) ([]api.FileInfo, error)
	ListURLs(ctx context.Context, dataset string) ([]api.URLInfo, error)
	ListUsers(ctx context.Context) ([]api.UserInfo, error)
	UploadFile(ctx context.Context, dataset, filename string, content io.Reader) (*api.Ack, error)
	AddURL(ctx context.Context, dataset, url string) (*api.Ack, error)
	DeleteFile(ctx context.Context, dataset, id string) (*api.Ack, error)
	DeleteURL(ctx context.Context, dataset, id string) (*api.Ack, error)
	ProcessFile(ctx context.Context, dataset, id string) (*api.Ack, error)
	ProcessURL(ctx context.Context, dataset, id string) (*api.Ack, error)
	PreviewFile(ctx context.Context, id string) (string, error)
	PreviewURL(ctx context.Context, id string) (string, error)
	ToggleUserActivation(ctx context.Context, userID int) (*api.Ack, error)
}

// UI is how the console talks to the human: blocking notifications for
// action outcomes and a blocking yes/no gate for destructive actions.
type UI interface {
	Notify(format string, args ...any)
	Confirm(prompt string) bool
}

// Recorder receives an audit entry for every attempted mutation.
type Recorder interface {
	Record(e journal.Entry) error
}

// Controller owns the console. Rendering goes to out; section renders are
// atomic so concurrent refreshes don't interleave mid-table.
type Controller struct {
	svc     AdminService
	dataset string
	ui      UI
	rec     Recorder // optional
	out     io.Writer
	outMu   sync.Mutex
	logger  *slog.Logger
}

// New creates a console Controller operating on the given dataset.
// rec may be nil to disable the audit journal.
func New(svc AdminService, dataset string, ui UI, rec Recorder, out io.Writer) *Controller {
	return &Controller{
		svc:     svc,
		dataset: dataset,
		ui:      ui,
		rec:     rec,
		out:     out,
		logger:  slog.Default(),
	}
}

func (c *Controller) write(buf *bytes.Buffer) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	io.Copy(c.out, buf)
}

// LoadStats fetches and renders the statistics section. On failure an
// in-place error state is rendered instead of stale or blank content.
func (c *Controller) LoadStats(ctx context.Context) error {
	var buf bytes.Buffer
	stats, err := c.svc.Stats(ctx)
	if err != nil {
		c.logger.Error("loading statistics failed", "error", err)
		renderLoadError(&buf, "statistics")
		c.write(&buf)
		return err
	}
	renderStats(&buf, stats)
	c.write(&buf)
	return nil
}

// LoadFiles fetches and renders the files section.
func (c *Controller) LoadFiles(ctx context.Context) error {
	var buf bytes.Buffer
	files, err := c.svc.ListFiles(ctx, c.dataset)
	if err != nil {
		c.logger.Error("loading files failed", "error", err)
		renderLoadError(&buf, "files")
		c.write(&buf)
		return err
	}
	renderFiles(&buf, files)
	c.write(&buf)
	return nil
}

// LoadURLs fetches and renders the URLs section.
func (c *Controller) LoadURLs(ctx context.Context) error {
	var buf bytes.Buffer
	urls, err := c.svc.ListURLs(ctx, c.dataset)
	if err != nil {
		c.logger.Error("loading URLs failed", "error", err)
		renderLoadError(&buf, "URLs")
		c.write(&buf)
		return err
	}
	renderURLs(&buf, urls)
	c.write(&buf)
	return nil
}

// LoadUsers fetches and renders the users section.
func (c *Controller) LoadUsers(ctx context.Context) error {
	var buf bytes.Buffer
	users, err := c.svc.ListUsers(ctx)
	if err != nil {
		c.logger.Error("loading users failed", "error", err)
		renderLoadError(&buf, "users")
		c.write(&buf)
		return err
	}
	renderUsers(&buf, users)
	c.write(&buf)
	return nil
}

// RefreshAll loads all four sections concurrently. Each load is its own
// failure boundary: one failing section renders its error state and the
// rest still complete. RefreshAll itself never fails.
func (c *Controller) RefreshAll(ctx context.Context) {
	loads := []func(context.Context) error{
		c.LoadStats,
		c.LoadFiles,
		c.LoadURLs,
		c.LoadUsers,
	}

	var g errgroup.Group
	for _, load := range loads {
		g.Go(func() error {
			load(ctx) // failures already rendered and logged in place
			return nil
		})
	}
	g.Wait()
}

// UploadFile validates and uploads a local file, then refreshes files and
// statistics. Validation failures never reach the network.
func (c *Controller) UploadFile(ctx context.Context, path string) error {
	if path == "" {
		c.ui.Notify("Please select a file to upload")
		return ErrNoFileSelected
	}
	if err := content.ValidateUpload(path); err != nil {
		c.ui.Notify("Cannot upload: %v", err)
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		c.ui.Notify("Cannot upload: %v", err)
		return err
	}
	defer f.Close()

	filename := filepath.Base(path)
	ack, err := c.svc.UploadFile(ctx, c.dataset, filename, f)
	c.record("upload_file", filename, ack, err)
	if err != nil {
		c.ui.Notify("Upload failed: %s", failureDetail(err, "could not upload file"))
		return err
	}

	c.ui.Notify("%s", ackMessage(ack, "File uploaded successfully"))
	c.LoadFiles(ctx)
	c.LoadStats(ctx)
	return nil
}

// AddURL registers a URL, then refreshes URLs and statistics.
func (c *Controller) AddURL(ctx context.Context, rawURL string) error {
	if rawURL == "" {
		c.ui.Notify("Please enter a URL")
		return ErrEmptyURL
	}

	ack, err := c.svc.AddURL(ctx, c.dataset, rawURL)
	c.record("add_url", rawURL, ack, err)
	if err != nil {
		c.ui.Notify("Adding URL failed: %s", failureDetail(err, "could not add URL"))
		return err
	}

	c.ui.Notify("%s", ackMessage(ack, "URL added successfully"))
	c.LoadURLs(ctx)
	c.LoadStats(ctx)
	return nil
}

// DeleteFile removes a file after a blocking confirmation. Declining the
// prompt issues no request at all.
func (c *Controller) DeleteFile(ctx context.Context, id string) error {
	if !c.ui.Confirm("Delete this file? This cannot be undone.") {
		return nil
	}

	ack, err := c.svc.DeleteFile(ctx, c.dataset, id)
	c.record("delete_file", id, ack, err)
	if err != nil {
		c.ui.Notify("Delete failed: %s", failureDetail(err, "could not delete file"))
		return err
	}

	c.ui.Notify("%s", ackMessage(ack, "File deleted successfully"))
	c.LoadFiles(ctx)
	c.LoadStats(ctx)
	return nil
}

// DeleteURL removes a URL after a blocking confirmation.
func (c *Controller) DeleteURL(ctx context.Context, id string) error {
	if !c.ui.Confirm("Delete this URL? This cannot be undone.") {
		return nil
	}

	ack, err := c.svc.DeleteURL(ctx, c.dataset, id)
	c.record("delete_url", id, ack, err)
	if err != nil {
		c.ui.Notify("Delete failed: %s", failureDetail(err, "could not delete URL"))
		return err
	}

	c.ui.Notify("%s", ackMessage(ack, "URL deleted successfully"))
	c.LoadURLs(ctx)
	c.LoadStats(ctx)
	return nil
}

// ProcessFile triggers processing of a file. Fire-and-forget: no refresh,
// no completion state is synthesized — later state is only observable via a
// manual refresh.
func (c *Controller) ProcessFile(ctx context.Context, id string) error {
	ack, err := c.svc.ProcessFile(ctx, c.dataset, id)
	c.record("process_file", id, ack, err)
	if err != nil {
		c.ui.Notify("Processing failed to start: %s", failureDetail(err, "could not start processing"))
		return err
	}

	c.ui.Notify("%s", ackMessage(ack, "File processing started"))
	return nil
}

// ProcessURL triggers processing of a URL. Same contract as ProcessFile.
func (c *Controller) ProcessURL(ctx context.Context, id string) error {
	ack, err := c.svc.ProcessURL(ctx, c.dataset, id)
	c.record("process_url", id, ack, err)
	if err != nil {
		c.ui.Notify("Processing failed to start: %s", failureDetail(err, "could not start processing"))
		return err
	}

	c.ui.Notify("%s", ackMessage(ack, "URL processing started"))
	return nil
}

// PreviewFile shows transient preview content for a file. Read-only, no
// refresh, nothing stored.
func (c *Controller) PreviewFile(ctx context.Context, id string) error {
	preview, err := c.svc.PreviewFile(ctx, id)
	if err != nil {
		c.ui.Notify("Preview failed: %s", failureDetail(err, "could not load preview"))
		return err
	}

	var buf bytes.Buffer
	renderPreview(&buf, content.Plainify(preview, previewLimit))
	c.write(&buf)
	return nil
}

// PreviewURL shows transient preview content for a URL.
func (c *Controller) PreviewURL(ctx context.Context, id string) error {
	preview, err := c.svc.PreviewURL(ctx, id)
	if err != nil {
		c.ui.Notify("Preview failed: %s", failureDetail(err, "could not load preview"))
		return err
	}

	var buf bytes.Buffer
	renderPreview(&buf, content.Plainify(preview, previewLimit))
	c.write(&buf)
	return nil
}

// ToggleUser flips a user's activation flag, then refreshes users and
// statistics.
func (c *Controller) ToggleUser(ctx context.Context, userID int) error {
	ack, err := c.svc.ToggleUserActivation(ctx, userID)
	c.record("toggle_user", strconv.Itoa(userID), ack, err)
	if err != nil {
		c.ui.Notify("Updating user failed: %s", failureDetail(err, "could not update user"))
		return err
	}

	c.ui.Notify("%s", ackMessage(ack, "User updated successfully"))
	c.LoadUsers(ctx)
	c.LoadStats(ctx)
	return nil
}

func (c *Controller) record(action, target string, ack *api.Ack, err error) {
	if c.rec == nil {
		return
	}

	e := journal.Entry{Action: action, Target: target, OK: err == nil}
	if err != nil {
		e.Detail = err.Error()
	} else if ack != nil {
		e.Detail = ack.Message
	}
	if recErr := c.rec.Record(e); recErr != nil {
		c.logger.Warn("journal write failed", "action", action, "error", recErr)
	}
}

// failureDetail prefers the server's detail message; transport failures and
// blank details fall back to a static per-action string.
func failureDetail(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if err != nil {
		return fallback + " (" + err.Error() + ")"
	}
	return fallback
}

func ackMessage(ack *api.Ack, fallback string) string {
	if ack != nil && ack.Message != "" {
		return ack.Message
	}
	return fallback
}

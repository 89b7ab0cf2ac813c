package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/kuraproj/kura/internal/api"
)

// Empty-state placeholders. An empty collection renders one of these, never
// a bare header with nothing under it.
const (
	emptyFiles = "No files uploaded yet."
	emptyURLs  = "No URLs added yet."
	emptyUsers = "No users registered."
)

func renderLoadError(w io.Writer, section string) {
	fmt.Fprintf(w, "  (failed to load %s — see log for details)\n", section)
}

func renderStats(w io.Writer, s *api.Stats) {
	fmt.Fprintln(w, "Statistics")
	fmt.Fprintf(w, "  Users:         %d\n", s.TotalUsers)
	fmt.Fprintf(w, "  Conversations: %d\n", s.TotalConversations)
	fmt.Fprintf(w, "  Files:         %d\n", s.TotalFiles)
	fmt.Fprintf(w, "  URLs:          %d\n", s.TotalURLs)
}

func renderFiles(w io.Writer, files []api.FileInfo) {
	fmt.Fprintln(w, "Files")
	if len(files) == 0 {
		fmt.Fprintf(w, "  %s\n", emptyFiles)
		return
	}
	for _, f := range files {
		fmt.Fprintf(w, "  %-12s %s\n", f.ID, f.Filename)
	}
}

func renderURLs(w io.Writer, urls []api.URLInfo) {
	fmt.Fprintln(w, "URLs")
	if len(urls) == 0 {
		fmt.Fprintf(w, "  %s\n", emptyURLs)
		return
	}
	for _, u := range urls {
		fmt.Fprintf(w, "  %-12s %s\n", u.ID, u.URL)
	}
}

func renderUsers(w io.Writer, users []api.UserInfo) {
	fmt.Fprintln(w, "Users")
	if len(users) == 0 {
		fmt.Fprintf(w, "  %s\n", emptyUsers)
		return
	}
	for _, u := range users {
		state := "inactive"
		if u.IsActive {
			state = "active"
		}
		fmt.Fprintf(w, "  %-5d %-20s %-8s %s\n", u.ID, u.Username, state, strings.Join(u.Scopes, ","))
	}
}

func renderPreview(w io.Writer, preview string) {
	fmt.Fprintln(w, "Preview")
	if preview == "" {
		fmt.Fprintln(w, "  (no preview available)")
		return
	}
	fmt.Fprintf(w, "  %s\n", preview)
}

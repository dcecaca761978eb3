package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/recnetbot/recnet/recnet"
)

// Format selects how results are printed
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// columns describes how one record type is laid out in a table
type columns[T any] struct {
	header table.Row
	row    func(*T) table.Row
}

// render prints items in the selected format
func render[T any](w io.Writer, format Format, items []T, cols columns[T]) error {
	if format == FormatJSON {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(cols.header)
	for i := range items {
		t.AppendRow(cols.row(&items[i]))
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d results", len(items))})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatList(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

var accountColumns = columns[recnet.Account]{
	header: table.Row{"ID", "Username", "Display Name", "Platforms", "Junior", "Created"},
	row: func(a *recnet.Account) table.Row {
		return table.Row{a.ID, "@" + a.Username, a.DisplayName, formatList(a.Platforms()), a.IsJunior, formatDate(a.CreatedAt)}
	},
}

var roomColumns = columns[recnet.Room]{
	header: table.Row{"ID", "Name", "Creator", "Access", "Cheers", "Visits", "Warnings"},
	row: func(r *recnet.Room) table.Row {
		return table.Row{r.ID, "^" + r.Name, r.CreatorAccountID, r.Accessibility, r.Stats.CheerCount, r.Stats.VisitCount, formatList(r.Warnings())}
	},
}

var eventColumns = columns[recnet.Event]{
	header: table.Row{"ID", "Name", "Creator", "Room", "Start", "End", "Attendees"},
	row: func(e *recnet.Event) table.Row {
		return table.Row{
			e.ID, e.Name, e.CreatorPlayerID, e.RoomID,
			e.StartTime.Format(time.DateTime), e.EndTime.Format(time.DateTime), e.AttendeeCount,
		}
	},
}

var imageColumns = columns[recnet.Image]{
	header: table.Row{"ID", "Player", "Room", "Cheers", "Comments", "Taken", "URL"},
	row: func(i *recnet.Image) table.Row {
		return table.Row{i.ID, i.PlayerID, i.RoomID, i.CheerCount, i.CommentCount, formatDate(i.CreatedAt), i.URL()}
	},
}

var inventionColumns = columns[recnet.Invention]{
	header: table.Row{"ID", "Name", "Creator", "Cheers", "Downloads", "Price", "Permission"},
	row: func(i *recnet.Invention) table.Row {
		return table.Row{i.ID, i.Name, i.CreatorPlayerID, i.CheerCount, i.NumDownloads, i.Price, i.GeneralPermission}
	},
}

// parseIDs converts command arguments into numeric ids
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// show filters items and renders them to the command's output
func show[T any, P recordPtr[T]](ctx context.Context, w io.Writer, items []T, cols columns[T]) error {
	filtered, err := applyFilter[T, P](ctx, items)
	if err != nil {
		return err
	}
	format, err := ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	return render(w, format, filtered, cols)
}

// single wraps an optional record as a zero or one element slice
func single[T any](item *T) []T {
	if item == nil {
		return []T{}
	}
	return []T{*item}
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dshills/elmterm/internal/app"
	"github.com/dshills/elmterm/internal/command"
	"github.com/dshills/elmterm/internal/event"
	"github.com/dshills/elmterm/internal/input/key"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show decoded input messages",
	Long: `Prints every message decoded from the terminal: keys, mouse reports,
focus changes, resizes and sequences the decoder did not recognize.
Press q to quit. Combine with --mouse all to inspect mouse reports.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newProgram(inspectorModel(), app.WithFocusReporting())
		if err != nil {
			return err
		}
		_, err = p.Run(cmd.Context())
		return err
	},
}

// maxRows bounds the history kept when the window height is unknown.
const maxRows = 500

var inspectorQuit = key.MustParse("q")

type inspectorRow struct {
	seq    int
	kind   string
	value  string
	detail string
}

type inspectorState struct {
	rows   []inspectorRow
	seen   int
	width  int
	height int
}

func inspectorModel() app.Model[inspectorState] {
	return app.Model[inspectorState]{
		Init:   app.Constant(inspectorState{}),
		Update: inspectorUpdate,
		View:   inspectorView,
	}
}

func inspectorUpdate(s inspectorState, msg event.Msg) (inspectorState, command.Cmd) {
	row, ok := describe(msg)
	if !ok {
		return s, nil
	}

	if ws, ok := msg.(event.WindowSizeMsg); ok {
		s.width, s.height = ws.Width, ws.Height
	}

	s.seen++
	row.seq = s.seen
	s.rows = append(s.rows, row)
	if len(s.rows) > maxRows {
		s.rows = s.rows[len(s.rows)-maxRows:]
	}

	if k, ok := msg.(event.KeyMsg); ok && k.Event == inspectorQuit {
		return s, command.Quit()
	}
	return s, nil
}

// describe turns a message into a table row.
func describe(msg event.Msg) (inspectorRow, bool) {
	switch m := msg.(type) {
	case event.KeyMsg:
		return inspectorRow{kind: "key", value: m.String(), detail: m.GoString()}, true
	case event.MouseMsg:
		return inspectorRow{kind: "mouse", value: m.String(), detail: fmt.Sprintf("button=%s action=%s", m.Button, m.Action)}, true
	case event.UnknownMsg:
		return inspectorRow{kind: "unknown", value: strconv.Quote(m.Sequence), detail: fmt.Sprintf("%d bytes", len(m.Sequence))}, true
	case event.FocusMsg:
		return inspectorRow{kind: "focus"}, true
	case event.BlurMsg:
		return inspectorRow{kind: "blur"}, true
	case event.WindowSizeMsg:
		return inspectorRow{kind: "resize", value: m.String()}, true
	default:
		return inspectorRow{}, false
	}
}

func inspectorView(s inspectorState) string {
	visible := s.rows
	if s.height > 2 && len(visible) > s.height-2 {
		visible = visible[len(visible)-(s.height-2):]
	}

	header := inspectorRow{kind: "KIND", value: "VALUE", detail: "DETAIL"}
	seqW, kindW, valueW := len("#"), runewidth.StringWidth(header.kind), runewidth.StringWidth(header.value)
	for _, r := range visible {
		seqW = max(seqW, len(strconv.Itoa(r.seq)))
		kindW = max(kindW, runewidth.StringWidth(r.kind))
		valueW = max(valueW, runewidth.StringWidth(r.value))
	}

	var b strings.Builder
	writeRow := func(seq, kind, value, detail string) {
		line := runewidth.FillLeft(seq, seqW) + "  " +
			runewidth.FillRight(kind, kindW) + "  " +
			runewidth.FillRight(value, valueW) + "  " +
			detail
		line = strings.TrimRight(line, " ")
		if s.width > 0 {
			line = runewidth.Truncate(line, s.width, "…")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	writeRow("#", header.kind, header.value, header.detail)
	for _, r := range visible {
		writeRow(strconv.Itoa(r.seq), r.kind, r.value, r.detail)
	}
	b.WriteString("press q to quit")
	return b.String()
}

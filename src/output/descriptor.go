package output

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sofmeright/repodescribe/src/gitver"
)

// Marker lines framing the descriptor JSON so it can be cut out of mixed
// console output.
const (
	BeginMarker = "--- BEGIN REPO DESCRIPTOR ---"
	EndMarker   = "--- END REPO DESCRIPTOR ---"
)

// ErrNoDescriptor is returned when input has no complete marker block.
var ErrNoDescriptor = errors.New("no repo descriptor block found")

// WriteDescriptor writes d as indented JSON between the marker lines.
func WriteDescriptor(w io.Writer, d gitver.Descriptor) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding descriptor: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n%s\n", BeginMarker, data, EndMarker)
	return err
}

// ExtractDescriptor reads r until the first complete marker block and
// decodes the descriptor inside it.
func ExtractDescriptor(r io.Reader) (gitver.Descriptor, error) {
	var (
		body    strings.Builder
		inBlock bool
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case line == BeginMarker:
			inBlock = true
			body.Reset()
		case line == EndMarker && inBlock:
			var d gitver.Descriptor
			if err := json.Unmarshal([]byte(body.String()), &d); err != nil {
				return gitver.Descriptor{}, fmt.Errorf("decoding descriptor: %w", err)
			}
			return d, nil
		case inBlock:
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	if err := sc.Err(); err != nil {
		return gitver.Descriptor{}, err
	}
	return gitver.Descriptor{}, ErrNoDescriptor
}

// Summary renders a human-readable view of d, flagging fields that fell
// back to their configured default.
func Summary(w io.Writer, d gitver.Descriptor, fb gitver.Fallbacks, elapsed time.Duration, color bool) {
	SectionStartCollapsed(w, "repodescribe", "repodescribe")
	sec := NewSection(w, "repodescribe", elapsed, color)
	sec.Row("%-12s%s", "location", d.Location)
	for _, f := range []struct {
		name, value, fallback string
	}{
		{"branch", d.Branch, fb.Branch},
		{"commit", d.Commit, fb.Commit},
		{"is_dirty", d.IsDirty, fb.Status},
		{"remote", d.Remote, fb.Remote},
		{"semver", d.Semver, fb.Semver},
		{"stage", d.Stage, fb.Stage},
		{"version", d.Version, fb.Version},
	} {
		status := "success"
		if f.value == f.fallback {
			status = "fallback"
		}
		SummaryRow(w, f.name, status, f.value, color)
	}
	sec.Close()
	SectionEnd(w, "repodescribe")
}

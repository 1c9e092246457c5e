// Package report writes a one-off system report for export mode.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/sxmon/internal/errors"
	"github.com/rileyhilliard/sxmon/internal/telemetry"
)

// Format is a report encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FilePrefix and TimestampLayout build default report file names.
const (
	FilePrefix      = "system-report-"
	TimestampLayout = "20060102-150405"
)

// ParseFormat accepts json, yaml or yml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrExport,
			fmt.Sprintf("Unknown report format %q", s),
			"Use --format json or --format yaml.")
	}
}

// Report is the exported document: one snapshot including security status.
type Report struct {
	Hostname string `json:"hostname" yaml:"hostname"`
	Version  string `json:"sxmon_version,omitempty" yaml:"sxmon_version,omitempty"`

	telemetry.Snapshot `yaml:",inline"`
}

// FileName returns the default name for a report taken at t.
func FileName(t time.Time, f Format) string {
	return FilePrefix + t.Format(TimestampLayout) + "." + string(f)
}

// Encode writes r to w in format f.
func Encode(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return errors.WrapWithCode(err, errors.ErrExport, "Can't encode report as YAML", "")
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return errors.WrapWithCode(err, errors.ErrExport, "Can't encode report as JSON", "")
		}
		return nil
	}
}

// Write saves r and returns the path written. An explicit path wins;
// otherwise the file goes into dir with a timestamped name.
func Write(r Report, f Format, dir, path string) (string, error) {
	if path == "" {
		path = filepath.Join(dir, FileName(r.Timestamp, f))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrExport,
			"Can't create report directory "+filepath.Dir(path),
			"Check your permissions, or pass --output with a writable path.")
	}

	file, err := os.Create(path)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrExport,
			"Can't create report file "+path,
			"Check your permissions, or pass --output with a writable path.")
	}

	encErr := Encode(file, r, f)
	closeErr := file.Close()
	if encErr != nil {
		return "", encErr
	}
	if closeErr != nil {
		return "", errors.WrapWithCode(closeErr, errors.ErrExport,
			"Can't finish writing "+path,
			"Check free disk space.")
	}
	return path, nil
}

package main

import (
	"encoding/json"
	"io"
	"time"

	fixnext "github.com/vercel-labs/fix-react2shell-next"
)

const reportSchemaVersion = 1

type reportFinding struct {
	fixnext.Finding
	// PURL identifies the evaluated package@version as a Package URL,
	// present when a concrete version was observed.
	PURL string `json:"purl,omitempty"`
}

type report struct {
	SchemaVersion int             `json:"schema_version"`
	ScannedPath   string          `json:"scanned_path"`
	Timestamp     time.Time       `json:"timestamp"`
	Findings      []reportFinding `json:"findings"`
	Fixes         []fixnext.Fix   `json:"fixes"`
	Errors        []string        `json:"errors"`
}

func buildReport(path string, findings []fixnext.Finding, fixes []fixnext.Fix, errs []string) report {
	rfs := make([]reportFinding, 0, len(findings))
	for _, f := range findings {
		rf := reportFinding{Finding: f}
		if f.Observed != "" {
			rf.PURL = fixnext.NewPURL(f.Package, f.Observed)
		}
		rfs = append(rfs, rf)
	}
	if fixes == nil {
		fixes = []fixnext.Fix{}
	}
	if errs == nil {
		errs = []string{}
	}
	return report{
		SchemaVersion: reportSchemaVersion,
		ScannedPath:   path,
		Timestamp:     time.Now().UTC(),
		Findings:      rfs,
		Fixes:         fixes,
		Errors:        errs,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package advisory

import (
	"github.com/vercel-labs/fix-react2shell-next/internal/core"
)

// The tables below are the manually curated data of this tool. Cutoffs
// come from the published advisories, not from a general rule; see each
// rule's comments for its boundary policy.

// react2Shell is CVE-2025-55182, the critical remote code execution in
// React Flight deserialization ("React2Shell"). It covers next and the
// three react-server-dom renderers.
func react2Shell() Advisory {
	return &flightRule{
		id:       "CVE-2025-55182",
		title:    "React2Shell: remote code execution in React Flight deserialization",
		severity: core.SeverityCritical,
		nextLines: lineTable{
			"15.0": "15.0.5",
			"15.1": "15.1.9",
			"15.2": "15.2.6",
			"15.3": "15.3.6",
			"15.4": "15.4.8",
			"15.5": "15.5.7",
			"16.0": "16.0.7",
		},
		nextCanary: []canaryGate{
			{15, 6, 0, 58, "15.6.0-canary.58", "15.5.7"},
			{16, 1, 0, 21, "16.1.0-canary.21", "16.0.7"},
		},
		next14To:   "15.5.7",
		next14Note: "the 14.3.0-canary line vendored React 19 and was discontinued without a fix; upgrade to Next.js 15",
		majorPins: map[int]string{
			15: "15.5.7",
			16: "16.0.7",
		},
		rsdLines: lineTable{
			"19.0": "19.0.1",
			"19.1": "19.1.2",
			"19.2": "19.2.1",
		},
	}
}

// flightFollowUp is CVE-2025-66478, the follow-up for the incomplete
// first fix in next's vendored Flight decoder. next only, one patch
// level above the React2Shell targets.
func flightFollowUp() Advisory {
	return &flightRule{
		id:        "CVE-2025-66478",
		title:     "Incomplete React2Shell fix in the Flight decoder vendored by Next.js",
		severity:  core.SeverityCritical,
		nextLines: nextFlightFollowUpLines(),
		nextCanary: []canaryGate{
			{15, 6, 0, 59, "15.6.0-canary.59", "15.5.8"},
			{16, 1, 0, 22, "16.1.0-canary.22", "16.0.8"},
		},
		next14To:   "15.5.8",
		next14Note: "the 14.3.0-canary line vendored React 19 and was discontinued without a fix; upgrade to Next.js 15",
		majorPins: map[int]string{
			15: "15.5.8",
			16: "16.0.8",
		},
	}
}

// flightAmplification is CVE-2025-66793, the Flight request amplification
// denial of service. It shares the follow-up's next targets and adds the
// renderer packages.
func flightAmplification() Advisory {
	return &flightRule{
		id:        "CVE-2025-66793",
		title:     "React Flight request amplification denial of service",
		severity:  core.SeverityHigh,
		nextLines: nextFlightFollowUpLines(),
		nextCanary: []canaryGate{
			{15, 6, 0, 59, "15.6.0-canary.59", "15.5.8"},
			{16, 1, 0, 22, "16.1.0-canary.22", "16.0.8"},
		},
		next14To:   "15.5.8",
		next14Note: "the 14.3.0-canary line vendored React 19 and was discontinued without a fix; upgrade to Next.js 15",
		majorPins: map[int]string{
			15: "15.5.8",
			16: "16.0.8",
		},
		rsdLines: lineTable{
			"19.0": "19.0.2",
			"19.1": "19.1.3",
			"19.2": "19.2.2",
		},
	}
}

// Both CVE-2025-66478 and CVE-2025-66793 were fixed in the same releases.
func nextFlightFollowUpLines() lineTable {
	return lineTable{
		"15.0": "15.0.6",
		"15.1": "15.1.10",
		"15.2": "15.2.7",
		"15.3": "15.3.7",
		"15.4": "15.4.9",
		"15.5": "15.5.8",
		"16.0": "16.0.8",
	}
}

// flightReplyPollution is CVE-2025-67803, the prototype pollution in the
// Flight reply decoder. Renderer packages only; next does not expose the
// affected entry point.
func flightReplyPollution() Advisory {
	return &flightRule{
		id:       "CVE-2025-67803",
		title:    "Prototype pollution in the React Flight reply decoder",
		severity: core.SeverityHigh,
		rsdLines: lineTable{
			"19.0": "19.0.2",
			"19.1": "19.1.3",
			"19.2": "19.2.2",
		},
	}
}

// middlewareBypass is CVE-2025-29927, the middleware authorization bypass
// via the x-middleware-subrequest header.
func middlewareBypass() Advisory {
	return &middlewareRule{
		id:       "CVE-2025-29927",
		title:    "Middleware authorization bypass via x-middleware-subrequest",
		severity: core.SeverityCritical,
	}
}

// defaultRules returns the five curated advisories in registry order.
func defaultRules() []Advisory {
	return []Advisory{
		react2Shell(),
		flightFollowUp(),
		flightAmplification(),
		middlewareBypass(),
		flightReplyPollution(),
	}
}

// defaultSafePins maps each watched package to the supremum of every
// remediation in the tables above. These pins back the UNKNOWN finding
// synthesized for a dependency whose version cannot be determined at all.
func defaultSafePins() map[string]string {
	return map[string]string{
		"next":                       "16.0.8",
		"react-server-dom-webpack":   "19.2.2",
		"react-server-dom-turbopack": "19.2.2",
		"react-server-dom-parcel":    "19.2.2",
	}
}

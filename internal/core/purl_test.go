package core

import (
	"testing"
)

func TestParsePURL(t *testing.T) {
	tests := []struct {
		input    string
		wantNS   string
		wantName string
		wantVer  string
		wantFull string
		wantErr  bool
	}{
		// Basic package without version
		{"pkg:npm/next", "", "next", "", "next", false},
		{"pkg:npm/react-server-dom-webpack", "", "react-server-dom-webpack", "", "react-server-dom-webpack", false},

		// Package with version
		{"pkg:npm/next@15.3.4", "", "next", "15.3.4", "next", false},
		{"pkg:npm/next@15.6.0-canary.33", "", "next", "15.6.0-canary.33", "next", false},

		// npm scoped packages (packageurl-go keeps @ in namespace)
		{"pkg:npm/%40vercel/ncc", "@vercel", "ncc", "", "@vercel/ncc", false},
		{"pkg:npm/%40vercel/ncc@0.38.1", "@vercel", "ncc", "0.38.1", "@vercel/ncc", false},

		// Missing pkg: prefix
		{"npm/next", "", "", "", "", true},

		// Non-npm PURLs are rejected
		{"pkg:cargo/serde@1.0.0", "", "", "", "", true},
		{"pkg:golang/github.com/gorilla/mux", "", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if p.Namespace != tt.wantNS {
				t.Errorf("Namespace = %q, want %q", p.Namespace, tt.wantNS)
			}
			if p.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", p.Name, tt.wantName)
			}
			if p.Version != tt.wantVer {
				t.Errorf("Version = %q, want %q", p.Version, tt.wantVer)
			}
			if p.FullName() != tt.wantFull {
				t.Errorf("FullName() = %q, want %q", p.FullName(), tt.wantFull)
			}
		})
	}
}

func TestNewPURL(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"next", "15.3.4", "pkg:npm/next@15.3.4"},
		{"next", "", "pkg:npm/next"},
		{"react-server-dom-webpack", "19.0.1", "pkg:npm/react-server-dom-webpack@19.0.1"},
		{"next", "15.6.0-canary.58", "pkg:npm/next@15.6.0-canary.58"},
		{"@vercel/ncc", "0.38.1", "pkg:npm/%40vercel/ncc@0.38.1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := NewPURL(tt.name, tt.version); got != tt.want {
				t.Errorf("NewPURL(%q, %q) = %q, want %q", tt.name, tt.version, got, tt.want)
			}
		})
	}
}

func TestNewPURLRoundTrip(t *testing.T) {
	for _, name := range []string{"next", "react-server-dom-turbopack", "@vercel/ncc"} {
		s := NewPURL(name, "1.2.3")
		p, err := ParsePURL(s)
		if err != nil {
			t.Fatalf("ParsePURL(%q) error = %v", s, err)
		}
		if p.FullName() != name {
			t.Errorf("FullName() = %q, want %q", p.FullName(), name)
		}
		if p.Version != "1.2.3" {
			t.Errorf("Version = %q, want %q", p.Version, "1.2.3")
		}
	}
}

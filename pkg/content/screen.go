// Package content screens user-supplied text before it is stored or
// relayed to a counterparty. Chat messages and inquiry payloads are
// rendered in other users' browsers, so hostile markup or injection
// payloads are rejected at the workflow boundary.
package content

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// ScreenResult contains the result of screening a piece of user content.
type ScreenResult struct {
	IsXSS       bool   // True if a cross-site scripting pattern was detected
	IsSQLi      bool   // True if a SQL injection pattern was detected
	Fingerprint string // libinjection fingerprint for SQLi detections
}

// Clean reports whether the content passed screening.
func (r *ScreenResult) Clean() bool {
	return !r.IsXSS && !r.IsSQLi
}

// Screen checks text for XSS and SQL injection patterns.
//
// All stored content is written through parameterized queries, so SQLi
// detection here is about not relaying attack strings to counterparties
// rather than protecting our own storage layer.
func Screen(text string) ScreenResult {
	result := ScreenResult{}

	if libinjection.IsXSS(text) {
		result.IsXSS = true
	}

	if isSQLi, fingerprint := libinjection.IsSQLi(text); isSQLi {
		result.IsSQLi = true
		result.Fingerprint = string(fingerprint)
	}

	return result
}

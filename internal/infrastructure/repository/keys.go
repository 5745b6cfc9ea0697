// Package repository provides object-store backed implementations of the
// domain repository interfaces. Every aggregate is one JSON document; derived
// records live under the owning conversation's key prefix.
package repository

import "fmt"

const (
	backroomPrefix = "backrooms/"
	agentPrefix    = "agents/"
)

func backroomKey(id string) string {
	return fmt.Sprintf("backrooms/%s.json", id)
}

func summaryKey(id string) string {
	return fmt.Sprintf("backrooms/%s/summary.json", id)
}

func historyKey(id string) string {
	return fmt.Sprintf("backrooms/%s/history.json", id)
}

func tokenKey(id string) string {
	return fmt.Sprintf("backrooms/%s/token.json", id)
}

func pendingTokenKey(id string) string {
	return fmt.Sprintf("backrooms/%s/pending_token.json", id)
}

func agentKey(id string) string {
	return fmt.Sprintf("agents/%s.json", id)
}

package rule

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainRuleSet = "replace-by-rule/ruleset/v1"
	DomainText    = "replace-by-rule/text/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RuleSetHash computes a stable hash of a canonical rule sequence.
// Callables hash by kind, so two rule sets differing only in the body of
// a callable hash the same.
func RuleSetHash(rules []Rule) (string, error) {
	descs := make([]Description, len(rules))
	for i, r := range rules {
		descs[i] = Describe(r)
	}

	canonical, err := MarshalCanonical(descs)
	if err != nil {
		return "", fmt.Errorf("RuleSetHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRuleSet, canonical), nil
}

// TextHash computes the hash of an input or output text.
func TextHash(text string) string {
	return hashWithDomain(DomainText, []byte(text))
}

package adapters

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/ksight-io/ksight/internal/sections"
)

// Secret content classification. Three independent axes, applied in order:
// decodability (undecodable base64 is binary unconditionally), printability
// (sampled control-character ratio), and shape (line break means multiline).
// Classification is a pure function of the key name and stored value.

// printableSampleSize bounds how much decoded content the printability
// check inspects.
const printableSampleSize = 1000

// classifySecretValue classifies one secret entry. encoded marks base64
// "data" values; "stringData" values arrive as plaintext and skip the decode
// step. Binary entries carry no Value at all.
func classifySecretValue(key, raw string, encoded bool) sections.SecretEntry {
	decoded := []byte(raw)
	if encoded {
		var err error
		decoded, err = base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return sections.SecretEntry{
				Key:       key,
				Kind:      sections.EntryBinary,
				Sensitive: true,
				Size:      len(raw),
			}
		}
	}

	if !mostlyPrintable(decoded) {
		return sections.SecretEntry{
			Key:       key,
			Kind:      sections.EntryBinary,
			Sensitive: true,
			Size:      len(decoded),
		}
	}

	text := string(decoded)
	kind := sections.EntrySingleLine
	if strings.ContainsAny(text, "\r\n") {
		kind = sections.EntryMultiline
	}

	return sections.SecretEntry{
		Key:       key,
		Value:     text,
		Kind:      kind,
		Sensitive: sensitiveKey(key),
		Size:      len(decoded),
	}
}

// mostlyPrintable reports whether content looks like text. It samples at
// most the first printableSampleSize bytes; a null byte in the sample is
// binary outright, and control characters other than tab, newline and
// carriage return may make up at most 10% of the sample.
func mostlyPrintable(content []byte) bool {
	if len(content) == 0 {
		return true
	}

	sample := content
	if len(sample) > printableSampleSize {
		sample = sample[:printableSampleSize]
	}

	if bytes.IndexByte(sample, 0) >= 0 {
		return false
	}

	control := 0
	for _, b := range sample {
		if b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		if b < 0x20 || b == 0x7f {
			control++
		}
	}
	return float64(control) <= 0.10*float64(len(sample))
}

// sensitiveKey reports whether a textual entry defaults to masked. Keys
// matching known-public conventions (certificate files and the service
// account namespace entry) are the only exceptions.
func sensitiveKey(key string) bool {
	switch key {
	case "ca.crt", "tls.crt", "namespace":
		return false
	}
	if strings.HasSuffix(key, ".crt") || strings.HasSuffix(key, ".pem") {
		return false
	}
	return true
}

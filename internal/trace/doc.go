// Package trace encodes processed simulation events as canonical JSON and
// digests whole runs.
//
// Canonical JSON follows RFC 8785 ordering rules: object keys sorted by
// UTF-16 code units, NFC-normalized strings, no HTML escaping. Floats are
// forbidden; simulation times are carried as their shortest decimal string
// so a trace compares byte for byte across platforms.
//
// Two runs of the same scenario must produce the same Digest.
package trace

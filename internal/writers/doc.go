// Package writers turns ranked guide candidates into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV, CSV, JSON, JSONL, XLSX, pretty blocks).
//   - Core packages stay domain-only; the CLI and server only pick a format.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers

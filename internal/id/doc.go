// Package id generates identifiers used to correlate log lines and requests.
//
//   - UUID: random UUID v4, used for control API request IDs
//   - Short: 8-character prefix of a UUID, used to tag replay batches in logs
package id

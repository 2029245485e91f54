// Package cache is a file-backed JSON cache with per-entry expiry.
//
// It stores parsed emission-factor workbooks so that repeated CLI runs skip
// the slow .xlsx parse. Entries are keyed by the SHA-256 of the source bytes
// (see ContentKey), so an edited workbook never hits a stale entry; the TTL
// only bounds how long unused entries linger on disk.
//
// Writes go to a temporary file that is renamed into place, so a crashed
// run never leaves a half-written entry behind.
package cache

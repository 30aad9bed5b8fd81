// SPDX-License-Identifier: MPL-2.0

// Package session holds an open editing session over a Nilesoft Shell
// configuration: the managed .nss file, the secondary file that carries import
// lines, and the last snapshot read from both.
//
// Every mutating method is one synchronous read-modify-write pass over a single
// file. Nothing is cached between calls except the snapshot, which is refreshed
// after each write. Callers must not run two operations on the same file at
// the same time.
package session

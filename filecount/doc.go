// Package filecount counts files matching a set of patterns under a directory
// tree and keeps a cached count honest by invalidating it when the tree changes.
package filecount

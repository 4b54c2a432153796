// Package auth manages the stored OAuth credential: the interactive
// consent flow, the token file on disk, and automatic refresh with
// immediate persistence.
package auth

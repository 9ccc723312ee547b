// Package platform contains OS integration and external tooling glue:
// media file helpers, per-user directories, and YouTube playlist expansion
// through the ytdlp library.
package platform

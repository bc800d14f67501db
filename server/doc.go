// Package server exposes the background removal of the mug editor over HTTP
// and optionally serves the editor front-end files.
//
//	POST /remove-bg   multipart upload, field "image", answers image/png
//	GET  /healthz     liveness probe
package server

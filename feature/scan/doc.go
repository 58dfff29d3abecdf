// Package scan turns QR images into inventory writes.
//
// Decoding is done by gozxing on a small ants worker pool; each frame is tried
// as is and inverted. Results come back on a channel. A Session allows one
// decode in flight, so a camera loop that submits faster than frames decode
// gets ErrBusy instead of a growing queue.
//
// Routes:
//   - POST /scan          merge a payload decoded by the client
//   - POST /scan/image    decode an uploaded image and merge it
//   - POST /scan/decode   decode only
package scan

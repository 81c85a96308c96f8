// Package qr decodes QR codes by uploading images to a remote decode API.
//
// Decoding itself is fully delegated: the image is posted as multipart form
// data and the API's symbol array is parsed for the first payload.
package qr

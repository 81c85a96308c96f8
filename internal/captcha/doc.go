// Package captcha handles the registration captcha token: extracting it from
// pasted browser output, reading it from files, and waiting for a token file
// to show up while the user solves the captcha in a browser.
package captcha

// Package form builds Mailgun request payloads.
//
// Mailgun's v3 API accepts application/x-www-form-urlencoded bodies for
// plain requests and multipart/form-data when files are attached. A Payload
// collects ordered key/value fields plus file parts and encodes itself into
// whichever of the two encodings the field set requires.
package form

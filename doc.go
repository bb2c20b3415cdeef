// Package gogun provides typed Go bindings for the Mailgun v3 HTTP API.
//
// The package wraps Mailgun's JSON API behind typed request and response
// structures: outbound messages, address validation, domain management,
// event retrieval, and suppression lists. It does not attempt to be a
// general-purpose HTTP client; transport concerns beyond what net/http
// offers (retry policies, connection pooling) are left to the caller's
// http.Client.
//
// # Basic Usage
//
//	creds, err := gogun.NewCredentials("key-3ax6xnjp29jd6fds4gc373sgvjxteol0", "example.com")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client := gogun.New(creds)
//
//	msg := gogun.NewMessage(
//		gogun.NamedAddr("No Reply", "noreply@example.com"),
//		"Welcome",
//		gogun.Addr("user@example.com"),
//	)
//	msg.SetText("Welcome aboard!")
//
//	resp, err := client.Send(context.Background(), msg)
//
// Every operation takes a context.Context; cancellation and deadlines are
// honored by the underlying HTTP client. Errors are classified into
// transport failures (wrapped network errors), API failures (*APIError
// carrying the HTTP status and Mailgun's message), and payload failures
// (wrapping ErrDecodeResponse).
package gogun

// Package auth is the authentication and authorization core of the Bookly
// API: bcrypt password hashing, signed access/refresh token issuance and
// verification, a Redis backed revocation blocklist, role gated access
// control, and out-of-band verification tokens for email confirmation and
// password reset links.
//
// Collaborators (user persistence, the revocation store, the mail sender)
// are constructor injected interfaces: build them once at process startup,
// share them across requests, close them at shutdown.
package auth

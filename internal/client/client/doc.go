// Package client is the console's single egress point to the directory
// service.
//
// # Overview
//
// HTTPClient implements Client over the REST contract:
//
//	POST /auth/register            {name,email,password}   -> {success,message}
//	POST /auth/login               {email,password}        -> {success,token,user}
//	GET  /auth/verify/{id}                                 -> {success}
//	GET  /users                                            -> {data:[...]}
//	POST /users/{block,unblock,delete} {userIds}           -> {count}
//	POST /users/delete-unverified                          -> {count}
//
// Every request carries the session token as a bearer credential when one
// exists, plus an X-Request-ID.
//
// # Authorization failures
//
// A 401 or 403 received while the console is on a protected view clears the
// session and navigates to the login view before the error is returned; the
// returned *APIError has Redirected set. On the login, registration and
// verification views the same status is an ordinary *APIError so the view
// can show it inline. Both session clearing and navigation are idempotent.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable; HTTP failures are *APIError and
// match ErrUnauthorized for 401/403. Message extracts the server text with a
// caller-provided fallback.
//
// There is no retry, deduplication or client-side timeout beyond what the
// caller's context and the transport impose.
package client

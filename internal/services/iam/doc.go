// Package iam provides identity and access management for cr8sapi.
//
// It covers four request-time and administrative concerns:
//
//   - Login: verifies a username and password and mints a session token
//   - ResolveBearer: turns an Authorization header into a user
//   - Authorize: checks an authenticated user against an allowed role set
//   - Provisioning: creates and deletes users together with their role links
//
// Request Flow:
//
//	Request → middleware.Authenticate → IAM.ResolveBearer() → *models.User
//	       ↓
//	   middleware.RequireRoles → IAM.Authorize(user, roles...) → *auth.AuthorizedUser
//	       ↓
//	   Handler
//
// Identity is resolved once per request and passed down through the context;
// the authorization step never re-reads the token. Roles are not cached in
// process: every Authorize call runs one join query, so role changes take
// effect on the next request.
package iam

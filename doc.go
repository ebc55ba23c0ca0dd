// Package auth implements a dual-context identity boundary for
// multi-tenant services: platform operators authenticate in the core
// context, organization members in the tenant context, and a single token
// codec serves both.
//
// Tokens:
//   - TokenService issues and verifies HS256 JWTs whose claims carry a
//     context discriminator plus, for tenant tokens, the organization slug
//     and id. Verification distinguishes expired tokens (refreshable) from
//     malformed ones (re-authenticate).
//
// Resolution:
//   - ContextResolver turns a raw token into a Principal, re-validating
//     the tenant binding and the user's liveness against storage on every
//     call. A deactivated organization or user invalidates outstanding
//     tokens immediately, with no revocation list.
//
// Guards:
//   - RequireCore, RequireTenant, RequireTenantHeaderMatch, and
//     RequireOwnership assert what a handler needs from a Principal and
//     return typed errors that map cleanly onto HTTP statuses.
//
// The bun-backed repositories, the Auther orchestration service, the JSON
// controller, and the middleware/tenantware subpackage cover the full
// register/login/refresh lifecycle for both contexts.
package auth

// Package principal turns the session token issued by the login service
// into the caller's identity and role.
//
// Tokens are HS256 JWTs carrying the standard registered claims plus a
// "role" claim. They are read from the Authorization bearer header or the
// auth_token cookie. A token whose role is not one of the assignable roles
// still authenticates the subject but resolves to the anonymous role, so
// every permission check on it fails.
//
//	res, err := principal.NewResolver([]byte(cfg.TokenSecret))
//	if err != nil {
//		return err
//	}
//	r.Use(principal.Middleware(res, log))
//
// Middleware never rejects a request. Missing or invalid tokens leave the
// request anonymous and the guards decide what to do with it.
package principal

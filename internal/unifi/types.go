// Package unifi implements the authenticated REST client for the network
// controller
package unifi

import "fmt"

// AuthError reports a failed login
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (status %d): %s", e.Status, e.Body)
}

// TimeoutError reports a request that exceeded the client timeout
type TimeoutError struct {
	Path string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("controller timeout after %s on %s", requestTimeout, e.Path)
}

// ConnectivityError reports an unreachable controller host
type ConnectivityError struct {
	Path string
	Err  error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot reach controller on %s: %v", e.Path, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// APIError reports any other non-2xx controller response
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Body)
}

// Session is the authentication state produced by Login. Re-login replaces
// the whole value rather than mutating it in place.
type Session struct {
	Token string
}

// cookieSessionToken marks controller versions that authenticate purely via
// session cookies, without an explicit token in the login response.
const cookieSessionToken = "cookie-auth"

// Network is one remote network/VLAN object as returned by the controller.
// The controller schema varies between versions, so the object is kept as a
// raw tree with typed accessors for the fields the reconciler needs.
type Network map[string]interface{}

// ObjectID returns the provider-side object identity
func (n Network) ObjectID() string {
	id, _ := n["_id"].(string)
	return id
}

// NetworkName returns the remote object's name
func (n Network) NetworkName() string {
	name, _ := n["name"].(string)
	return name
}

// VLANTag returns the remote object's VLAN tag, if set
func (n Network) VLANTag() (int, bool) {
	switch tag := n["vlan"].(type) {
	case float64:
		return int(tag), true
	case int:
		return tag, true
	}
	return 0, false
}

// Package identity implements authd's credential store.
//
// It maps caller-chosen usernames to opaque identity tokens and one-way
// password digests, and exposes create, authenticate and delete over that mapping.
//
// This package holds no secrets in logs or errors: plaintext passwords and
// digests never leave the store.
package identity

// Package password provides bcrypt credential hashing and the storefront
// password complexity policy.
package password

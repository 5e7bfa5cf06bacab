// Package user provides read access to the shop's staff accounts.
package user

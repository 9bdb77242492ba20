// Package testutils holds test helpers shared across packages.
package testutils

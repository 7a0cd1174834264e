// Package internalcheck contains repository policy tests. They assert
// structural properties of the codebase rather than runtime behavior, and
// run as ordinary go tests.
package internalcheck

// Package paths resolves and validates the directories the framework and
// extension are cloned into. A root is acceptable when it exists, is a
// directory and is writable, and the checkout directory inside it does not
// exist yet.
package paths

// Package repo wraps the git operations setup needs: cloning a repository,
// listing and checking for branches, and checking a branch out. Every call
// shells out to the git binary and is bound to a context.
package repo

// Package branch picks one branch name and checks it out in the framework
// and extension repositories so both trees stay on a matching pair.
package branch

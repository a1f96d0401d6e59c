// Package httputil provides HTTP plumbing shared by the dataset client:
// retry with exponential backoff for transient failures, and a file-based
// response cache so repeated runs don't hammer the upstream endpoint.
package httputil

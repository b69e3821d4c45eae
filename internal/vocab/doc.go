// Package vocab provides the vocabulary entry model and the HTTP client for
// the remote dictionary service that hands out one random Chinese entry per
// request.
package vocab

// Package providers talks to the public data providers the client reads
// directly: the currency-rate service and the securities-price service.
//
// Both return loosely shaped JSON. Everything is normalized here, at the
// boundary, into models types with decimal amounts, so callers never see
// comma-formatted strings or an item that is sometimes an object and
// sometimes an array.
package providers

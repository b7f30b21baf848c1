// Package service provides application-level services for user accounts,
// card generation, and card management. Services orchestrate the domain,
// store, and platform layers; HTTP concerns stay in the api package.
package service

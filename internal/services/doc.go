// Package services defines the error taxonomy shared by the remote
// service wrappers and the helpers that map Google API failures onto
// it. Subpackages hold the individual clients: youtube (Data API),
// analytics (Analytics API), and captions (transcript fetching).
package services

// Package stateset provides the public types and interfaces for the
// Stateset commerce API client.
//
// The package defines the resource records (orders, returns, warranties,
// inventory, products, customers, shipments, workflows), the immutable
// query builder, pagination helpers, the response cache, and the error
// taxonomy shared by every resource client.
//
// Use the statesetclient package to construct a working client:
//
//	client, err := statesetclient.NewWithAPIKey(ctx, "https://api.stateset.com", apiKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	orders, err := client.Orders().
//	    Query().
//	    Where("customer_id", "cust_123").
//	    SortBy("created_at", stateset.SortDescending).
//	    All(ctx)
//
// All blocking operations take a context.Context and honor cancellation,
// including cancellation that arrives while a retry backoff is pending.
package stateset

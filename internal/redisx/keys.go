package redisx

import "time"

const (
	// Cache product document: product:{product_id} -> product JSON
	KeyProduct = "product:%s"
)

var (
	// Short TTL: stock on a cached product goes stale the moment an order
	// lands, so entries are also deleted on placement.
	TTLProduct = 5 * time.Minute
)

/*
Package cache provides an interface to cache items. It should not be of any
concern to the callee where this cache is, simply that the cache exists and will
speed things up.

Eventual consistency of the cached items is promised, but nothing more. Unlike
a cache that is purely an optimisation, errors talking to the cache server are
returned to the caller rather than logged and dropped, so that a write whose
invalidation failed is not reported as a success.
*/
package cache

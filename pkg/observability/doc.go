/*
Package observability turns editor lifecycle hooks into logs and Prometheus
metrics.

Both helpers return domain.LifecycleHooks, so they compose with
LifecycleHooks.Merge and plug into editor.WithLifecycleHooks.
*/
package observability

// Package proclist implements the process inventory: a best-effort
// enumeration of live processes whose executable name matches the
// configured shell/runtime names. The filter is deliberately
// recall-oriented; false positives cost one console snapshot each and are
// discarded by classification, so precision here is not required.
package proclist

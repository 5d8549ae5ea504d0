/*
Package scrip defines the common interfaces that tie the prepaid voucher
ledger together: addresses and conditions, the message and handler
contracts, the key-value store family, and the context helpers that
carry the logical clock and the logger.

The ledger itself is split into extensions living under x/. Each
extension owns its own bucket of state and exposes message handlers that
are dispatched through a decorator chain (see the app package).
*/
package scrip

// Package filestore is the shared-directory implementation of the harness's
// transport and RPC interfaces.
//
// Participants coordinate through write-once marker files under the
// rendezvous path: one subdirectory per lifecycle phase (group init, rpc init,
// departure), one marker per rank. A participant arrives by creating its own
// marker and then polls until all ranks' markers exist. There is no message
// passing here; init and join are pure arrival/departure barriers.
package filestore

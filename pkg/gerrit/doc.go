// Package gerrit provides types, interfaces, and helpers for working with the
// Gerrit Code Review REST API.
//
// # Overview
//
// The gerrit package defines the entity types (BranchInfo, BranchInput,
// DeleteBranchesInput, FileInfo), the decoded response Value, and the
// interfaces for the REST client and its resource clients (BranchesClient,
// AccountsClient, CommitsClient). A concrete implementation is provided by the gerritclient
// package, which wires configuration, transport, and authentication. Most
// consumers should import gerritclient to construct a client and then interact
// with the interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
//	  "github.com/fivetwenty-io/gerrit-client/pkg/gerritclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := gerritclient.New(&gerrit.Config{
//	    URL:      "https://gerrit.example.com/r",
//	    Username: "user",
//	    Password: "http-password",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  branches, err := cli.Branches().List(ctx, "demo", nil)
//	  if err != nil { log.Fatal(err) }
//	  for ref, branch := range branches.All() {
//	    log.Printf("%s %s", ref, branch.Revision)
//	  }
//	}
//
// # Responses
//
// Gerrit prefixes JSON bodies with the magic sequence ")]}'\n" to prevent
// cross-site script inclusion. The client removes it exactly once before
// decoding. Low-level calls return a *Value carrying the status code, the
// parsed Content-Type, and the decoded JSON. A non-2xx status is not an error;
// inspect Value.StatusCode when it matters.
//
// # Read-only mode
//
// SetReadOnly (or Config.ReadOnly) suppresses mutating requests. The
// ReadOnlyPolicy selects between the historical behaviour (PUT and POST
// gated, DELETE not gated) and a strict policy gating every mutating verb.
//
// # Errors
//
// DecodeError carries the raw body of a response that claimed to be JSON but
// failed to parse. EntityError reports a response object that did not match
// the expected entity shape. TransportError wraps connection-level failures.
package gerrit

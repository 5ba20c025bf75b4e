// Package gerritclient provides the primary entry point for constructing a
// Gerrit REST API client that implements the gerrit.Client interface.
//
// It layers URL normalization, HTTP transport and Basic authentication on top
// of the interfaces and types defined in the gerrit package.
//
// Quick start
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
//
//	  // Anonymous access.
//	  cli, err := gerritclient.NewWithEndpoint("gerrit.example.com")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or authenticated, refusing every write.
//	  cli, err = gerritclient.New(&gerrit.Config{
//	    URL:      "https://gerrit.example.com/r",
//	    Username: "jdoe",
//	    Password: "generated-http-password",
//	    ReadOnly: true,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  branches, err := cli.Branches().List(ctx, "demo", nil)
//	  if err != nil { log.Fatal(err) }
//	  for ref, branch := range branches.All() {
//	    log.Println(ref, branch.Revision)
//	  }
//	}
//
// # URL normalization
//
// A URL without a scheme gets "https://". Trailing slashes are collapsed to
// exactly one, so "https://host/r" and "https://host/r//" both resolve
// endpoints under "https://host/r/".
//
// # Helpers
//
// NewWithEndpoint and NewWithPassword cover the common configurations.
package gerritclient

package main

import (
	"fmt"

	"github.com/dvdcodez/SeaSync/internal/secretstore"
	"github.com/dvdcodez/SeaSync/internal/seafile"
	"github.com/dvdcodez/SeaSync/internal/sync"
	"github.com/dvdcodez/SeaSync/internal/syncstate"
)

// buildOrchestrator wires a Sync Orchestrator from the resolved config and
// secret store: the saved Account supplies the server URL and bearer
// token, the config's sync section supplies the local root, database path,
// and dry-run flag is passed in by the caller since only "sync" exposes it.
func buildOrchestrator(cc *CLIContext, dryRun bool) (*sync.Orchestrator, func(), error) {
	acct, err := secretstore.LoadAccount(cc.Secrets)
	if err != nil {
		return nil, nil, fmt.Errorf("loading account: %w", err)
	}

	if acct == nil {
		return nil, nil, fmt.Errorf("not logged in — run 'seasync login' first")
	}

	client := seafile.NewClient(acct.ServerURL, seafile.StaticToken(acct.Token), cc.Logger)

	store, err := syncstate.Open(cc.Cfg.Sync.DatabasePath, cc.Logger)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("opening sync state database: %w", err)
	}

	cleanup := func() {
		store.Close()
		client.Close()
	}

	orch := sync.NewOrchestrator(client, store, cc.Secrets, cc.Cfg.Sync.LocalSyncPath, dryRun, cc.Logger)

	return orch, cleanup, nil
}

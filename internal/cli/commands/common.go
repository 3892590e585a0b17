package commands

import (
	"fmt"
	"os"

	"github.com/reachly-dev/reachly/internal/apiclient"
	"github.com/reachly-dev/reachly/internal/cli/config"
	"github.com/reachly-dev/reachly/internal/cli/session"
)

// newAPIClient builds the API client every command uses, wired to the
// persisted session. When the backend invalidates the session (401), the
// client clears the stored token and user record; the hook tells the
// user what happened.
func newAPIClient(store session.Store) *apiclient.Client {
	client := apiclient.New(config.APIURL(), store)
	client.OnSessionExpired(func() {
		fmt.Fprintln(os.Stderr, "Your session has expired. Please run 'reachly login' again.")
	})
	return client
}

// requireLogin returns the stored user record, or an error telling the
// user to log in first
func requireLogin(store session.Store) (*session.User, error) {
	user, err := store.User()
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("not logged in. Run 'reachly login' first")
	}
	return user, nil
}

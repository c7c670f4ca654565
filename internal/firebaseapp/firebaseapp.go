// Package firebaseapp initializes the Firebase Admin SDK from a service account.
package firebaseapp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// App bundles the Firebase clients used by the service.
type App struct {
	ProjectID string
	Firestore *firestore.Client
	Messaging *messaging.Client
}

// New creates the Firebase app and its clients. withFirestore is false when
// orders and tokens live in another store.
func New(ctx context.Context, projectID string, credentialsJSON []byte, withFirestore bool) (*App, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	msg, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("create messaging client: %w", err)
	}

	a := &App{ProjectID: projectID, Messaging: msg}
	if withFirestore {
		fs, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("create firestore client: %w", err)
		}
		a.Firestore = fs
	}
	return a, nil
}

// Close releases the Firestore client, if any.
func (a *App) Close() error {
	if a.Firestore != nil {
		return a.Firestore.Close()
	}
	return nil
}
